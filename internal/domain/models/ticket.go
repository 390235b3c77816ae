package models

import "time"

const (
	PaymentTypePaid = "PAID"
	PaymentTypeFree = "FREE"
)

// Ticket is one booking made against an applicant.
type Ticket struct {
	ID          int64     `json:"id"`
	ApplicantID int64     `json:"applicantId"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	PaymentType string    `json:"paymentType"`
	Amount      float64   `json:"amount"`
	BookedAt    time.Time `json:"bookedAt"`
}

// TicketInput is the raw booking request; every field arrives as text.
type TicketInput struct {
	ApplicantID string
	Source      string
	Destination string
	PaymentType string
	Amount      string
}
