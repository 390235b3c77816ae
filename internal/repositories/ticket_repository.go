package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"buspass/internal/domain/models"
)

type TicketRepository struct {
	DB *sql.DB
}

// Create persists t and sets its ID.
func (r TicketRepository) Create(ctx context.Context, t *models.Ticket) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO tickets (applicant_id, source, destination, payment_type, amount, booked_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ApplicantID, t.Source, t.Destination, t.PaymentType, t.Amount, t.BookedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	return nil
}

func (r TicketRepository) GetByID(ctx context.Context, id int64) (models.Ticket, error) {
	var t models.Ticket
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, applicant_id, source, destination, payment_type, amount, booked_at
		FROM tickets
		WHERE id = ?
		LIMIT 1`, id).Scan(&t.ID, &t.ApplicantID, &t.Source, &t.Destination, &t.PaymentType, &t.Amount, &t.BookedAt)
	if err != nil {
		return models.Ticket{}, notFound(err, "ticket")
	}
	return t, nil
}

func (r TicketRepository) ListByApplicant(ctx context.Context, applicantID int64) ([]models.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, applicant_id, source, destination, payment_type, amount, booked_at
		FROM tickets
		WHERE applicant_id = ?
		ORDER BY booked_at DESC, id DESC`, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.ApplicantID, &t.Source, &t.Destination, &t.PaymentType, &t.Amount, &t.BookedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
