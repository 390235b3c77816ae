package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"buspass/internal/domain"
	"buspass/internal/domain/models"
	"buspass/internal/passid"
	"buspass/internal/repositories"
	"buspass/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// PassCardService renders the printable pass handed out at the counter and ticket receipts.
type PassCardService struct {
	Applicants repositories.ApplicantRepository
	Tickets    repositories.TicketRepository
	Uploads    UploadStore
	RequestID  string
	// Loader replaces the store read in tests.
	Loader func(ctx context.Context, id int64) (models.Applicant, error)
}

// Render returns the pass card PDF of one applicant and its download filename.
func (s PassCardService) Render(ctx context.Context, rawID string) ([]byte, string, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, "", err
	}
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_pass_card", "applicant_id", id)
	return s.buildPassCardPDF(a)
}

// Receipt returns a booking receipt for one ticket.
func (s PassCardService) Receipt(ctx context.Context, rawID string) ([]byte, string, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, "", err
	}
	t, err := s.Tickets.GetByID(ctx, id)
	if err != nil {
		return nil, "", docError(err)
	}
	a, err := s.load(ctx, t.ApplicantID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", "ticket_id", id)
	return buildReceiptPDF(t, a)
}

func (s PassCardService) load(ctx context.Context, id int64) (models.Applicant, error) {
	if s.Loader != nil {
		return s.Loader(ctx, id)
	}
	a, err := s.Applicants.GetByID(ctx, id)
	if err != nil {
		return models.Applicant{}, docError(err)
	}
	return a, nil
}

func docError(err error) error {
	if domain.IsNotFound(err) {
		return err
	}
	return domain.InternalError{Code: "document_failed", Msg: "failed to load document data", Err: err}
}

func (s PassCardService) buildPassCardPDF(a models.Applicant) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A6", "")
	pdf.SetTitle("Bus Pass "+a.PassID, false)
	pdf.SetMargins(6, 6, 6)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "BUS PASS", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 4, safe(a.PassType, "General")+" / "+safe(a.PaymentMode, "-"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	top := pdf.GetY()
	qr, err := passid.PNG(a.PassID)
	if err != nil {
		return nil, "", domain.InternalError{Code: "qr_encode_failed", Msg: "failed to encode qr code", Err: err}
	}
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 108, top, 36, 36, false, opt, 0, "")

	textX := 6.0
	if s.placePhoto(pdf, a.Photo, top) {
		textX = 34
	}

	pdf.SetXY(textX, top)
	pdf.SetFont("Helvetica", "", 9)
	lines := []string{
		"Pass ID  : " + a.PassID,
		"Name     : " + safe(a.Name, "-"),
		"Father   : " + safe(a.FatherName, "-"),
		"Gender   : " + safe(a.Gender, "-"),
		fmt.Sprintf("Age      : %dy %dm", a.Age.Years, a.Age.Months),
		"Village  : " + safe(a.Village, "-"),
		"Mandal   : " + safe(a.Mandal, "-"),
		"District : " + safe(a.District, "-"),
		"Counter  : " + safe(a.Counter, "-"),
		"Issued   : " + utils.FormatDate(a.CreatedAt),
	}
	for _, l := range lines {
		pdf.SetX(textX)
		pdf.CellFormat(100-textX, 5, l, "", 1, "L", false, 0, "")
	}

	pdf.SetXY(6, 96)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(0, 4, "Show this pass and the QR code to the conductor. Collect at: "+safe(a.DeliveryMode, "-"), "", 0, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Code: "document_failed", Msg: "failed to render pass card", Err: err}
	}
	filename := fmt.Sprintf("PASS_%s_%s.pdf", a.PassID, safeFilenamePart(a.Name))
	return buf.Bytes(), filename, nil
}

// placePhoto draws the applicant photo when it is a readable JPEG or PNG. Any failure
// leaves the card without a photo.
func (s PassCardService) placePhoto(pdf *gofpdf.Fpdf, rel string, top float64) bool {
	full, ok := s.Uploads.Resolve(rel)
	if !ok {
		return false
	}
	var kind string
	switch strings.ToLower(filepath.Ext(full)) {
	case ".jpg", ".jpeg":
		kind = "JPG"
	case ".png":
		kind = "PNG"
	default:
		return false
	}
	f, err := os.Open(full)
	if err != nil {
		return false
	}
	defer f.Close()

	opt := gofpdf.ImageOptions{ImageType: kind}
	pdf.RegisterImageOptionsReader("photo", opt, f)
	if !pdf.Ok() {
		pdf.ClearError()
		return false
	}
	pdf.ImageOptions("photo", 6, top, 25, 30, false, opt, 0, "")
	return true
}

func buildReceiptPDF(t models.Ticket, a models.Applicant) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Ticket Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "TICKET RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Receipt No  : TKT-%d", t.ID),
		"Booked At   : " + utils.FormatDateTime(t.BookedAt),
		"Pass ID     : " + safe(a.PassID, "-"),
		"Passenger   : " + safe(a.Name, "-"),
		"Route       : " + safe(t.Source, "-") + " -> " + safe(t.Destination, "-"),
		"Payment     : " + safe(t.PaymentType, "-"),
		"Amount      : " + utils.FormatRupee(t.Amount),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Valid for one journey on the route above.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Code: "document_failed", Msg: "failed to render receipt", Err: err}
	}
	return buf.Bytes(), fmt.Sprintf("TICKET_%d.pdf", t.ID), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	s = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_").Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
