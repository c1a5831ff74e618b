// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// --- List Response ---

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
}

// NewListResponse creates a list response, never serialising items as null.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, TotalCount: len(items)}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
