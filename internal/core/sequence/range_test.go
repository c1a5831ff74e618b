package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeEndingAt(t *testing.T) {
	r := RangeEndingAt("invoice-serial", 3, 3)

	assert.Equal(t, int64(1), r.First)
	assert.Equal(t, int64(3), r.Last)
	assert.Equal(t, int64(3), r.Len())
	assert.Equal(t, []int64{1, 2, 3}, r.Values())
}

func TestRangeEndingAt_SingleValue(t *testing.T) {
	r := RangeEndingAt("orders", 42, 1)

	assert.Equal(t, []int64{42}, r.Values())
	assert.True(t, r.Contains(42))
	assert.False(t, r.Contains(41))
}

func TestRange_Overlaps(t *testing.T) {
	a := Range{First: 1, Last: 3}
	b := Range{First: 4, Last: 6}
	c := Range{First: 3, Last: 5}

	assert.False(t, a.Overlaps(b))
	assert.True(t, a.Overlaps(c))
	assert.True(t, c.Overlaps(b))
	assert.False(t, a.Overlaps(Range{First: 2, Last: 1}), "empty range overlaps nothing")
}

func TestPreview_IsNotReservation(t *testing.T) {
	p := Preview{Name: "invoice-serial", Next: 5}
	assert.False(t, p.IsReservation())
}

func TestCounter_Next(t *testing.T) {
	assert.Equal(t, int64(1), Counter{Name: "fresh"}.Next())
	assert.Equal(t, int64(8), Counter{Name: "used", Seq: 7}.Next())
}
