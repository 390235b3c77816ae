package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"buspass/internal/domain"
	"buspass/internal/domain/models"
)

const applicantColumns = `a.id, a.pass_id, a.qr_code, a.name, a.father_name, a.dob, a.gender,
	a.age_years, a.age_months, a.age_days, a.phone, a.whatsapp, a.number, a.aadhar,
	a.photo, a.aadhar_file, COALESCE(a.address,''), a.district, a.mandal, a.village,
	a.pincode, a.city, a.pass_type, a.payment_mode, a.delivery_mode, a.counter, a.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type ApplicantRepository struct {
	DB *sql.DB
}

// Create inserts the applicant and its contact aliases in one transaction and sets a.ID.
// A pass_id collision surfaces as the driver's duplicate-key error.
func (r ApplicantRepository) Create(ctx context.Context, a *models.Applicant) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO applicants (
			pass_id, qr_code, name, father_name, dob, gender,
			age_years, age_months, age_days, phone, whatsapp, number, aadhar,
			photo, aadhar_file, address, district, mandal, village,
			pincode, city, pass_type, payment_mode, delivery_mode, counter, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		a.PassID, a.QRCode, a.Name, a.FatherName, a.DOB, a.Gender,
		a.Age.Years, a.Age.Months, a.Age.Days, a.Phone, a.Whatsapp, a.Number, a.Aadhar,
		a.Photo, a.AadharFile, a.Address, a.District, a.Mandal, a.Village,
		a.Pincode, a.City, a.PassType, a.PaymentMode, a.DeliveryMode, a.Counter, a.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}

	for _, contact := range a.Contacts().Aliases() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO applicant_contacts (applicant_id, contact) VALUES (?, ?)`, id, contact,
		); err != nil {
			return fmt.Errorf("insert contact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	a.ID = id
	return nil
}

// FindIDByContact returns the oldest applicant carrying contact in any alias.
func (r ApplicantRepository) FindIDByContact(ctx context.Context, contact string) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT applicant_id
		FROM applicant_contacts
		WHERE contact = ?
		ORDER BY applicant_id ASC
		LIMIT 1`, contact).Scan(&id)
	if err != nil {
		return 0, notFound(err, "applicant")
	}
	return id, nil
}

func (r ApplicantRepository) GetByID(ctx context.Context, id int64) (models.Applicant, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+applicantColumns+` FROM applicants a WHERE a.id = ? LIMIT 1`, id)
	a, err := scanApplicant(row)
	if err != nil {
		return models.Applicant{}, notFound(err, "applicant")
	}
	return a, nil
}

func (r ApplicantRepository) GetByPassID(ctx context.Context, passID string) (models.Applicant, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+applicantColumns+` FROM applicants a WHERE a.pass_id = ? LIMIT 1`, passID)
	a, err := scanApplicant(row)
	if err != nil {
		return models.Applicant{}, notFound(err, "applicant")
	}
	return a, nil
}

func (r ApplicantRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM applicants WHERE id = ? LIMIT 1`, id).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// List returns one page of applicants, newest first, and the total count.
func (r ApplicantRepository) List(ctx context.Context, p domain.Pagination) ([]models.Applicant, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM applicants`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+applicantColumns+` FROM applicants a ORDER BY a.id DESC LIMIT ? OFFSET ?`,
		p.PageSize, p.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.Applicant{}
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func scanApplicant(row rowScanner) (models.Applicant, error) {
	var a models.Applicant
	err := row.Scan(
		&a.ID, &a.PassID, &a.QRCode, &a.Name, &a.FatherName, &a.DOB, &a.Gender,
		&a.Age.Years, &a.Age.Months, &a.Age.Days, &a.Phone, &a.Whatsapp, &a.Number, &a.Aadhar,
		&a.Photo, &a.AadharFile, &a.Address, &a.District, &a.Mandal, &a.Village,
		&a.Pincode, &a.City, &a.PassType, &a.PaymentMode, &a.DeliveryMode, &a.Counter, &a.CreatedAt,
	)
	return a, err
}
