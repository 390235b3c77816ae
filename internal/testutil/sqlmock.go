// Package testutil holds sqlmock fixtures shared by repository, service and handler tests.
package testutil

import (
	"database/sql"
	"testing"
	"time"

	"buspass/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var applicantColumns = []string{
	"id", "pass_id", "qr_code", "name", "father_name", "dob", "gender",
	"age_years", "age_months", "age_days", "phone", "whatsapp", "number", "aadhar",
	"photo", "aadhar_file", "address", "district", "mandal", "village",
	"pincode", "city", "pass_type", "payment_mode", "delivery_mode", "counter", "created_at",
}

// NewMock returns a sqlmock DB that is closed and checked for unmet expectations at test end.
func NewMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	})
	return db, mock
}

// Applicant returns a filled record for fixtures.
func Applicant(id int64, passID string) models.Applicant {
	return models.Applicant{
		ID:           id,
		PassID:       passID,
		QRCode:       "data:image/png;base64,AAAA",
		Name:         "Ravi Kumar",
		FatherName:   "Suresh Kumar",
		DOB:          "2004-05-17",
		Gender:       "Male",
		Age:          models.Age{Years: 21, Months: 4, Days: 2},
		Phone:        "9876543210",
		Whatsapp:     "9876543210",
		Number:       "9876543210",
		Aadhar:       "123412341234",
		Address:      "H.No 1-2-3",
		District:     "Warangal",
		Mandal:       "Hanamkonda",
		Village:      "Kazipet",
		Pincode:      "506003",
		City:         "Warangal",
		PassType:     "Student",
		PaymentMode:  models.PaymentModeFreeScheme,
		DeliveryMode: models.DeliveryModeCounter,
		Counter:      "Hanamkonda Bus Station",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// ApplicantRows builds the result set of an applicant SELECT.
func ApplicantRows(as ...models.Applicant) *sqlmock.Rows {
	rows := sqlmock.NewRows(applicantColumns)
	for _, a := range as {
		rows.AddRow(
			a.ID, a.PassID, a.QRCode, a.Name, a.FatherName, a.DOB, a.Gender,
			a.Age.Years, a.Age.Months, a.Age.Days, a.Phone, a.Whatsapp, a.Number, a.Aadhar,
			a.Photo, a.AadharFile, a.Address, a.District, a.Mandal, a.Village,
			a.Pincode, a.City, a.PassType, a.PaymentMode, a.DeliveryMode, a.Counter, a.CreatedAt,
		)
	}
	return rows
}

// TicketRows builds the result set of a ticket SELECT.
func TicketRows(ts ...models.Ticket) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "applicant_id", "source", "destination", "payment_type", "amount", "booked_at"})
	for _, t := range ts {
		rows.AddRow(t.ID, t.ApplicantID, t.Source, t.Destination, t.PaymentType, t.Amount, t.BookedAt)
	}
	return rows
}
