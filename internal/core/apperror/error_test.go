package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("count must be positive"), http.StatusBadRequest},
		{"allocation failed", NewAllocationFailed("orders", cause), http.StatusServiceUnavailable},
		{"timeout", NewTimeout("orders", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"serial not used", NewBusinessRule(CodeSerialNotUsed, "not numbered"), http.StatusUnprocessableEntity},
		{"not found", NewNotFound("serial category", "X"), http.StatusNotFound},
		{"wrapped", fmt.Errorf("reserve: %w", NewTimeout("orders", cause)), http.StatusGatewayTimeout},
		{"plain", cause, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.err))
		})
	}
}

func TestCauseIsKept(t *testing.T) {
	err := NewTimeout("orders", context.DeadlineExceeded)

	assert.True(t, IsTimeout(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "orders", err.Details["sequence"])
}

func TestHasCode(t *testing.T) {
	assert.True(t, IsValidation(NewValidation("bad")))
	assert.False(t, IsValidation(errors.New("bad")))
	assert.False(t, HasCode(nil, CodeInternal))
}
