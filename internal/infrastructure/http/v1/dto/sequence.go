package dto

import (
	"time"

	"backoffice/internal/core/sequence"
)

// SequenceFilter contains list filter parameters.
type SequenceFilter struct {
	Prefix string `form:"prefix" binding:"max=128"`
}

// CounterResponse describes one stored counter.
type CounterResponse struct {
	Name      string    `json:"name"`
	Seq       int64     `json:"seq"`
	Next      int64     `json:"next"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromCounter creates CounterResponse from sequence.Counter.
func FromCounter(c sequence.Counter) CounterResponse {
	return CounterResponse{
		Name:      c.Name,
		Seq:       c.Seq,
		Next:      c.Next(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// FromCounters maps a counter list.
func FromCounters(counters []sequence.Counter) []CounterResponse {
	out := make([]CounterResponse, len(counters))
	for i, c := range counters {
		out[i] = FromCounter(c)
	}
	return out
}

// PreviewResponse is a non-binding look at the next value.
type PreviewResponse struct {
	Name    string `json:"name"`
	Next    int64  `json:"next"`
	Binding bool   `json:"binding"`
}

// FromPreview creates PreviewResponse from sequence.Preview.
func FromPreview(p sequence.Preview) PreviewResponse {
	return PreviewResponse{Name: p.Name, Next: p.Next, Binding: p.IsReservation()}
}

// AllocateResponse carries one reserved value.
type AllocateResponse struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// AllocateBatchRequest asks for count contiguous values.
type AllocateBatchRequest struct {
	Count int64 `json:"count"`
}

// MaxListedValues is the largest block whose values are listed in a response.
const MaxListedValues = 1000

// RangeResponse carries a reserved block. Values is omitted for blocks
// longer than MaxListedValues; First and Last describe them fully.
type RangeResponse struct {
	Name   string  `json:"name"`
	First  int64   `json:"first"`
	Last   int64   `json:"last"`
	Values []int64 `json:"values,omitempty"`
}

// FromRange creates RangeResponse from sequence.Range.
func FromRange(r sequence.Range) RangeResponse {
	resp := RangeResponse{
		Name:  r.Name,
		First: r.First,
		Last:  r.Last,
	}
	if r.Len() <= MaxListedValues {
		resp.Values = r.Values()
	}
	return resp
}
