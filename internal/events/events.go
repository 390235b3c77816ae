// Package events defines the messages published when passes are issued and tickets are
// booked. Payloads carry identifiers only; personal documents never leave the store.
package events

import (
	"context"
	"time"
)

const (
	QueueApplicationSubmitted = "application.submitted"
	QueueTicketBooked         = "ticket.booked"
)

type ApplicationSubmitted struct {
	ApplicantID int64     `json:"applicant_id"`
	PassID      string    `json:"pass_id"`
	PassType    string    `json:"pass_type"`
	Counter     string    `json:"counter"`
	District    string    `json:"district"`
	CreatedAt   time.Time `json:"created_at"`
}

type TicketBooked struct {
	TicketID    int64     `json:"ticket_id"`
	ApplicantID int64     `json:"applicant_id"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	PaymentType string    `json:"payment_type"`
	Amount      float64   `json:"amount"`
	BookedAt    time.Time `json:"booked_at"`
}

// Publisher sends a payload to a named durable queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, payload any) error
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
