package handlers

import (
	"database/sql"
	"time"

	"buspass/internal/cache"
	"buspass/internal/config"
	"buspass/internal/domain"
	"buspass/internal/events"
	"buspass/internal/http/middleware"
	"buspass/internal/metrics"
	"buspass/internal/passid"
	"buspass/internal/repositories"
	"buspass/internal/services"

	"github.com/gin-gonic/gin"
)

// Handler carries the process-wide dependencies every endpoint needs. Services are built
// per request so each one logs with that request's id.
type Handler struct {
	Store       *config.Store
	Uploads     services.UploadStore
	IDs         passid.Generator
	MaxAttempts int
	MaxUploadMB int
	Cache       *cache.PassCache
	Events      events.Publisher
	Metrics     *metrics.Metrics
	Auth        services.AuthService
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (h *Handler) db() (*sql.DB, error) {
	db, err := h.Store.DB()
	if err != nil {
		return nil, domain.UnavailableError{Dependency: "Database", Err: err}
	}
	return db, nil
}

func (h *Handler) applications(c *gin.Context) (services.ApplicationService, error) {
	db, err := h.db()
	if err != nil {
		return services.ApplicationService{}, err
	}
	return services.ApplicationService{
		Applicants:  repositories.ApplicantRepository{DB: db},
		Uploads:     h.Uploads,
		IDs:         h.IDs,
		MaxAttempts: h.MaxAttempts,
		Events:      h.Events,
		Metrics:     h.Metrics,
		RequestID:   middleware.GetRequestID(c),
		Now:         h.Now,
	}, nil
}

func (h *Handler) lookups(c *gin.Context) (services.LookupService, error) {
	db, err := h.db()
	if err != nil {
		return services.LookupService{}, err
	}
	return services.LookupService{
		Applicants: repositories.ApplicantRepository{DB: db},
		Cache:      h.Cache,
		Metrics:    h.Metrics,
		RequestID:  middleware.GetRequestID(c),
	}, nil
}

func (h *Handler) tickets(c *gin.Context) (services.TicketService, error) {
	db, err := h.db()
	if err != nil {
		return services.TicketService{}, err
	}
	return services.TicketService{
		Applicants: repositories.ApplicantRepository{DB: db},
		Tickets:    repositories.TicketRepository{DB: db},
		Events:     h.Events,
		Metrics:    h.Metrics,
		RequestID:  middleware.GetRequestID(c),
		Now:        h.Now,
	}, nil
}

func (h *Handler) passCards(c *gin.Context) (services.PassCardService, error) {
	db, err := h.db()
	if err != nil {
		return services.PassCardService{}, err
	}
	return services.PassCardService{
		Applicants: repositories.ApplicantRepository{DB: db},
		Tickets:    repositories.TicketRepository{DB: db},
		Uploads:    h.Uploads,
		RequestID:  middleware.GetRequestID(c),
	}, nil
}

func (h *Handler) auth(c *gin.Context) (services.AuthService, error) {
	db, err := h.db()
	if err != nil {
		return services.AuthService{}, err
	}
	svc := h.Auth
	svc.Users = repositories.UserRepository{DB: db}
	svc.RequestID = middleware.GetRequestID(c)
	return svc, nil
}
