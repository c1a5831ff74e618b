package dto

import (
	"backoffice/internal/core/numbering"
	"backoffice/internal/domain/serial"
)

// CategoryResponse describes a document category.
type CategoryResponse struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	Serial      serial.Policy    `json:"serial"`
	NeedsSerial bool             `json:"needsSerial"`
	Strategy    string           `json:"strategy"`
	Numbering   numbering.Config `json:"numbering"`
}

// FromCategory creates CategoryResponse from serial.Category.
func FromCategory(c serial.Category) CategoryResponse {
	return CategoryResponse{
		Code:        c.Code,
		Name:        c.Name,
		Serial:      c.Serial,
		NeedsSerial: c.NeedsSerial(),
		Strategy:    c.Strategy.String(),
		Numbering:   c.Numbering,
	}
}

// SerialHintResponse is a non-binding look at the next serial.
type SerialHintResponse struct {
	Category string `json:"category"`
	Sequence string `json:"sequence"`
	Number   int64  `json:"number"`
	Label    string `json:"label"`
	Binding  bool   `json:"binding"`
}

// FromHint creates SerialHintResponse from serial.Hint.
func FromHint(h serial.Hint) SerialHintResponse {
	return SerialHintResponse{
		Category: h.Category,
		Sequence: h.Sequence,
		Number:   h.Number,
		Label:    h.Label,
		Binding:  h.Binding(),
	}
}

// ReserveSerialsRequest asks for serials for a number of documents.
type ReserveSerialsRequest struct {
	Files int `json:"files"`
	// Date the documents are filed under (YYYY-MM-DD or RFC 3339), defaults to today
	Date string `json:"date"`
}

// ReservationResponse carries issued serials.
type ReservationResponse struct {
	Category string   `json:"category"`
	Sequence string   `json:"sequence"`
	Numbers  []int64  `json:"numbers"`
	Labels   []string `json:"labels"`
}

// FromReservation creates ReservationResponse from serial.Reservation.
func FromReservation(r serial.Reservation) ReservationResponse {
	return ReservationResponse{
		Category: r.Category,
		Sequence: r.Sequence,
		Numbers:  r.Numbers,
		Labels:   r.Labels,
	}
}
