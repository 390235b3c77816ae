package services

import (
	"context"
	"strconv"
	"strings"

	"buspass/internal/cache"
	"buspass/internal/domain"
	"buspass/internal/domain/models"
	"buspass/internal/metrics"
	"buspass/internal/repositories"
	"buspass/internal/utils"
)

type LookupService struct {
	Applicants repositories.ApplicantRepository
	Cache      *cache.PassCache
	Metrics    *metrics.Metrics
	RequestID  string
}

// ParseID accepts a positive decimal record id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Code: "invalid_id_format", Field: "id", Msg: "Invalid ID format", Err: err}
	}
	return id, nil
}

// VerifyByPhone returns the id of the oldest applicant holding phone as any contact alias.
func (s LookupService) VerifyByPhone(ctx context.Context, phone string) (int64, bool, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		s.Metrics.ObserveLookup("phone", "not_found")
		return 0, false, nil
	}
	id, err := s.Applicants.FindIDByContact(ctx, phone)
	return id, s.outcome("phone", err), ignoreNotFound(err)
}

func (s LookupService) GetByID(ctx context.Context, rawID string) (models.Applicant, bool, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return models.Applicant{}, false, err
	}
	a, err := s.Applicants.GetByID(ctx, id)
	return a, s.outcome("id", err), ignoreNotFound(err)
}

// GetByPassID serves from the pass cache when possible and fills it on a store hit.
// Cache failures are logged and fall through to the store.
func (s LookupService) GetByPassID(ctx context.Context, passID string) (models.Applicant, bool, error) {
	passID = strings.TrimSpace(passID)
	if passID == "" {
		s.Metrics.ObserveLookup("pass_id", "not_found")
		return models.Applicant{}, false, nil
	}

	if a, ok, err := s.Cache.Get(ctx, passID); err != nil {
		utils.LogEvent(s.RequestID, "lookup", "cache_get_failed", "pass_id", passID, "err", err)
	} else if ok {
		s.Metrics.ObserveLookup("pass_id", "cache_hit")
		return a, true, nil
	}

	a, err := s.Applicants.GetByPassID(ctx, passID)
	found := s.outcome("pass_id", err)
	if !found {
		return models.Applicant{}, false, ignoreNotFound(err)
	}
	if err := s.Cache.Set(ctx, a); err != nil {
		utils.LogEvent(s.RequestID, "lookup", "cache_set_failed", "pass_id", passID, "err", err)
	}
	return a, true, nil
}

// List is the staff-facing paginated listing, newest first.
func (s LookupService) List(ctx context.Context, p domain.Pagination) ([]models.Applicant, domain.Pagination, error) {
	p = p.Normalize(20, 100)
	items, total, err := s.Applicants.List(ctx, p)
	if err != nil {
		return nil, p, domain.InternalError{Code: "list_failed", Msg: "failed to list applicants", Err: err}
	}
	p.Total = total
	return items, p, nil
}

func (s LookupService) outcome(by string, err error) bool {
	switch {
	case err == nil:
		s.Metrics.ObserveLookup(by, "found")
		return true
	case domain.IsNotFound(err):
		s.Metrics.ObserveLookup(by, "not_found")
	default:
		s.Metrics.ObserveLookup(by, "error")
		utils.LogEvent(s.RequestID, "lookup", "store_error", "by", by, "err", err)
	}
	return false
}

func ignoreNotFound(err error) error {
	if err == nil || domain.IsNotFound(err) {
		return nil
	}
	return domain.InternalError{Code: "lookup_failed", Msg: "failed to read applicant", Err: err}
}
