package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	intdb "buspass/internal/db"
	"buspass/internal/domain"
	"buspass/internal/domain/models"
	"buspass/internal/events"
	"buspass/internal/metrics"
	"buspass/internal/repositories"
	"buspass/internal/utils"
)

type TicketService struct {
	Applicants repositories.ApplicantRepository
	Tickets    repositories.TicketRepository
	Events     events.Publisher
	Metrics    *metrics.Metrics
	RequestID  string
	Now        func() time.Time
}

// Book validates in, confirms the applicant exists and stores the ticket.
// Amount is kept only for PAID tickets.
func (s TicketService) Book(ctx context.Context, in models.TicketInput) (models.Ticket, error) {
	t, err := buildTicket(in)
	if err != nil {
		return models.Ticket{}, err
	}

	ok, err := s.Applicants.Exists(ctx, t.ApplicantID)
	if err != nil {
		return models.Ticket{}, domain.InternalError{Code: "booking_failed", Msg: "failed to check applicant", Err: err}
	}
	if !ok {
		return models.Ticket{}, domain.NotFoundError{Resource: "Applicant"}
	}

	t.BookedAt = s.now()
	if err := s.Tickets.Create(ctx, &t); err != nil {
		// applicant removed between the check and the insert
		if intdb.IsForeignKeyViolation(err) {
			return models.Ticket{}, domain.NotFoundError{Resource: "Applicant", Err: err}
		}
		return models.Ticket{}, domain.InternalError{Code: "booking_failed", Msg: "failed to book ticket", Err: err}
	}

	if s.Metrics != nil {
		s.Metrics.TicketsBooked.WithLabelValues(t.PaymentType).Inc()
	}
	utils.LogEvent(s.RequestID, "ticket", "booked", "ticket_id", t.ID, "applicant_id", t.ApplicantID, "payment_type", t.PaymentType)
	if s.Events != nil {
		ev := events.TicketBooked{
			TicketID:    t.ID,
			ApplicantID: t.ApplicantID,
			Source:      t.Source,
			Destination: t.Destination,
			PaymentType: t.PaymentType,
			Amount:      t.Amount,
			BookedAt:    t.BookedAt,
		}
		if err := s.Events.Publish(ctx, events.QueueTicketBooked, ev); err != nil {
			utils.LogEvent(s.RequestID, "ticket", "publish_failed", "ticket_id", t.ID, "err", err)
		}
	}
	return t, nil
}

func (s TicketService) ListByApplicant(ctx context.Context, rawID string) ([]models.Ticket, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}
	ok, err := s.Applicants.Exists(ctx, id)
	if err != nil {
		return nil, domain.InternalError{Code: "list_failed", Msg: "failed to check applicant", Err: err}
	}
	if !ok {
		return nil, domain.NotFoundError{Resource: "Applicant"}
	}
	items, err := s.Tickets.ListByApplicant(ctx, id)
	if err != nil {
		return nil, domain.InternalError{Code: "list_failed", Msg: "failed to list tickets", Err: err}
	}
	return items, nil
}

// buildTicket performs every check that needs no store access.
func buildTicket(in models.TicketInput) (models.Ticket, error) {
	applicantID := strings.TrimSpace(in.ApplicantID)
	source := utils.NormalizeSpace(in.Source)
	destination := utils.NormalizeSpace(in.Destination)
	paymentType := strings.ToUpper(strings.TrimSpace(in.PaymentType))
	if applicantID == "" || source == "" || destination == "" || paymentType == "" {
		return models.Ticket{}, domain.ValidationError{Code: "missing_fields", Msg: "Missing required fields"}
	}

	id, err := strconv.ParseInt(applicantID, 10, 64)
	if err != nil || id <= 0 {
		return models.Ticket{}, domain.ValidationError{Code: "invalid_applicant_id", Field: "applicantId", Msg: "Invalid applicantId", Err: err}
	}

	var amount float64
	if paymentType == models.PaymentTypePaid {
		amount, err = utils.ParseAmount(in.Amount)
		if err != nil {
			return models.Ticket{}, domain.ValidationError{Code: "invalid_amount", Field: "amount", Msg: "Invalid amount", Err: err}
		}
		if amount < 0 {
			return models.Ticket{}, domain.ValidationError{Code: "invalid_amount", Field: "amount", Msg: "Invalid amount"}
		}
	}

	return models.Ticket{
		ApplicantID: id,
		Source:      source,
		Destination: destination,
		PaymentType: paymentType,
		Amount:      amount,
	}, nil
}

func (s TicketService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}
