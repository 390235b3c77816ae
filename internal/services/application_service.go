package services

import (
	"context"
	"fmt"
	"time"

	intdb "buspass/internal/db"
	"buspass/internal/domain"
	"buspass/internal/domain/models"
	"buspass/internal/events"
	"buspass/internal/metrics"
	"buspass/internal/passid"
	"buspass/internal/repositories"
	"buspass/internal/utils"
)

const defaultPassIDAttempts = 5

// ApplicationService issues a pass id and QR code for a submitted application and persists it.
type ApplicationService struct {
	Applicants  repositories.ApplicantRepository
	Uploads     UploadStore
	IDs         passid.Generator
	MaxAttempts int
	Events      events.Publisher
	Metrics     *metrics.Metrics
	RequestID   string
	Now         func() time.Time
}

// Submit stores the attachments, then inserts the applicant, drawing a new pass id whenever
// the unique index rejects one. Files already written stay on disk if the insert fails.
func (s ApplicationService) Submit(ctx context.Context, in models.ApplicationInput, files Attachments) (models.Applicant, error) {
	if field := in.Contacts.Oversized(); field != "" {
		return models.Applicant{}, domain.ValidationError{
			Code:  "invalid_contact",
			Field: field,
			Msg:   fmt.Sprintf("must be at most %d characters", models.MaxContactLen),
		}
	}
	contacts := in.Contacts.Resolve()

	passID, qr, err := s.issue()
	if err != nil {
		return models.Applicant{}, err
	}

	now := s.now()
	age := in.Age
	if age == (models.Age{}) {
		if dob, err := utils.ParseDate(in.DOB); err == nil {
			age = models.AgeOn(dob, now.In(dob.Location()))
		}
	}

	photo, err := s.Uploads.Save(files.Photo)
	if err != nil {
		return models.Applicant{}, domain.InternalError{Code: "upload_failed", Msg: "failed to store photo", Err: err}
	}
	aadharFile, err := s.Uploads.Save(files.AadharFile)
	if err != nil {
		return models.Applicant{}, domain.InternalError{Code: "upload_failed", Msg: "failed to store aadhar file", Err: err}
	}

	a := models.Applicant{
		PassID:       passID,
		QRCode:       qr,
		Name:         utils.NormalizeSpace(in.Name),
		FatherName:   utils.NormalizeSpace(in.FatherName),
		DOB:          utils.TrimOrEmpty(in.DOB),
		Gender:       utils.TrimOrEmpty(in.Gender),
		Age:          age,
		Phone:        contacts.Phone,
		Whatsapp:     contacts.Whatsapp,
		Number:       contacts.Number,
		Aadhar:       utils.TrimOrEmpty(in.Aadhar),
		Photo:        photo,
		AadharFile:   aadharFile,
		Address:      utils.TrimOrEmpty(in.Address),
		District:     utils.TrimOrEmpty(in.District),
		Mandal:       utils.TrimOrEmpty(in.Mandal),
		Village:      utils.TrimOrEmpty(in.Village),
		Pincode:      utils.TrimOrEmpty(in.Pincode),
		City:         utils.TrimOrEmpty(in.City),
		PassType:     utils.TrimOrEmpty(in.PassType),
		PaymentMode:  models.PaymentModeFreeScheme,
		DeliveryMode: models.DeliveryModeCounter,
		Counter:      utils.TrimOrEmpty(in.Counter),
		CreatedAt:    now,
	}

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = defaultPassIDAttempts
	}
	for attempt := 1; ; attempt++ {
		err := s.Applicants.Create(ctx, &a)
		if err == nil {
			break
		}
		if !intdb.IsDuplicateKey(err, intdb.IndexPassID) {
			return models.Applicant{}, domain.InternalError{Code: "persist_failed", Msg: "failed to save application", Err: err}
		}

		if s.Metrics != nil {
			s.Metrics.PassIDCollisions.Inc()
		}
		utils.LogEvent(s.RequestID, "application", "pass_id_collision", "pass_id", a.PassID, "attempt", attempt)
		if attempt >= attempts {
			if s.Metrics != nil {
				s.Metrics.PassIDExhausted.Inc()
			}
			return models.Applicant{}, domain.InternalError{
				Code: "pass_id_exhausted",
				Msg:  fmt.Sprintf("could not allocate a unique pass id after %d attempts", attempts),
				Err:  err,
			}
		}
		if a.PassID, a.QRCode, err = s.issue(); err != nil {
			return models.Applicant{}, err
		}
	}

	if s.Metrics != nil {
		s.Metrics.ApplicationsSubmitted.Inc()
	}
	utils.LogEvent(s.RequestID, "application", "submitted", "applicant_id", a.ID, "pass_id", a.PassID)
	s.publish(ctx, events.ApplicationSubmitted{
		ApplicantID: a.ID,
		PassID:      a.PassID,
		PassType:    a.PassType,
		Counter:     a.Counter,
		District:    a.District,
		CreatedAt:   a.CreatedAt,
	})
	return a, nil
}

func (s ApplicationService) issue() (string, string, error) {
	id := s.IDs.New()
	qr, err := passid.DataURL(id)
	if err != nil {
		return "", "", domain.InternalError{Code: "qr_encode_failed", Msg: "failed to encode qr code", Err: err}
	}
	return id, qr, nil
}

func (s ApplicationService) publish(ctx context.Context, ev events.ApplicationSubmitted) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.QueueApplicationSubmitted, ev); err != nil {
		utils.LogEvent(s.RequestID, "application", "publish_failed", "pass_id", ev.PassID, "err", err)
	}
}

func (s ApplicationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}
