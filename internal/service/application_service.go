package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarhub-api/internal/models"
	"github.com/noah-isme/scholarhub-api/internal/repository"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
	"github.com/noah-isme/scholarhub-api/pkg/sanitize"
)

const (
	msgAlreadyApplied       = "You have already applied for this scholarship."
	msgStatusFinal          = "Application status is already final."
	msgInvalidApplicationID = "Invalid application ID format."
	msgApplicationNotFound  = "Application not found."
)

type applicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id string) (*models.Application, error)
	ListByApplicant(ctx context.Context, email string) ([]models.ApplicationView, error)
	ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.ApplicationView, error)
	Transition(ctx context.Context, id string, from, to models.ApplicationStatus, feedback string, at time.Time) (*models.Application, error)
	Delete(ctx context.Context, id string) error
}

type applicationCounter interface {
	IncrementApplicationCount(ctx context.Context, id string) (bool, error)
}

// ApplicationService runs the application workflow.
type ApplicationService struct {
	repo      applicationRepository
	counter   applicationCounter
	audit     auditRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// ApplicationServiceOption customises an ApplicationService.
type ApplicationServiceOption func(*ApplicationService)

// WithApplicationCache invalidates cached platform stats on new applications.
func WithApplicationCache(cache *CacheService) ApplicationServiceOption {
	return func(s *ApplicationService) { s.cache = cache }
}

// WithApplicationMetrics counts accepted applications.
func WithApplicationMetrics(metrics *MetricsService) ApplicationServiceOption {
	return func(s *ApplicationService) { s.metrics = metrics }
}

// WithApplicationClock overrides the clock used for timestamps.
func WithApplicationClock(now func() time.Time) ApplicationServiceOption {
	return func(s *ApplicationService) { s.now = now }
}

// NewApplicationService creates an instance of ApplicationService.
func NewApplicationService(repo applicationRepository, counter applicationCounter, audit auditRepository, validate *validator.Validate, logger *zap.Logger, opts ...ApplicationServiceOption) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	svc := &ApplicationService{
		repo:      repo,
		counter:   counter,
		audit:     audit,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create records a new Pending application and bumps the scholarship's
// application counter. The counter update is best effort.
func (s *ApplicationService) Create(ctx context.Context, req models.CreateApplicationRequest) (*models.CreateApplicationResult, error) {
	req.ScholarshipID = canonicalRef(req.ScholarshipID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "scholarshipId and a valid applicantEmail are required.")
	}

	app := &models.Application{
		ScholarshipID:  req.ScholarshipID,
		ApplicantEmail: normaliseEmail(req.ApplicantEmail),
		ApplicantName:  req.ApplicantName,
		ApplicantPhone: req.ApplicantPhone,
		Status:         models.ApplicationPending,
		ApplicationFee: req.ApplicationFee.Value,
		TransactionID:  req.TransactionID,
		AppliedAt:      s.now().UTC(),
		PaidAt:         req.PaidAt,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, msgAlreadyApplied)
		}
		return nil, appErrors.Internal(err, "Failed to submit application.")
	}

	s.bumpCounter(ctx, app.ScholarshipID)
	s.metrics.RecordApplication()
	s.cache.Invalidate(ctx, analyticsCacheKey)

	return &models.CreateApplicationResult{InsertedID: app.ID}, nil
}

func (s *ApplicationService) bumpCounter(ctx context.Context, scholarshipID string) {
	if s.counter == nil {
		return
	}
	if _, err := uuid.Parse(scholarshipID); err != nil {
		s.logger.Warn("application references malformed scholarship id", zap.String("scholarship_id", scholarshipID))
		return
	}
	matched, err := s.counter.IncrementApplicationCount(ctx, scholarshipID)
	if err != nil {
		s.logger.Warn("failed to increment application count", zap.String("scholarship_id", scholarshipID), zap.Error(err))
		return
	}
	if !matched {
		s.logger.Warn("application references unknown scholarship", zap.String("scholarship_id", scholarshipID))
	}
}

// UpdateStatus moves a Pending application to Approved or Rejected.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, req models.UpdateApplicationStatusRequest, meta models.RequestMeta) (*models.Application, error) {
	appID, err := parseID(id, msgInvalidApplicationID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Status must be Approved or Rejected.")
	}

	current, err := s.repo.FindByID(ctx, appID)
	if err != nil {
		return nil, s.translate(err, "Failed to load application.")
	}
	if current.Status.Final() {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgStatusFinal)
	}

	target := models.ApplicationStatus(req.Status)
	feedback := sanitize.Text(req.Feedback)
	updated, err := s.repo.Transition(ctx, appID, models.ApplicationPending, target, feedback, s.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// lost a race with another moderator
			return nil, appErrors.Clone(appErrors.ErrValidation, msgStatusFinal)
		}
		return nil, appErrors.Internal(err, "Failed to update application status.")
	}

	recordAudit(ctx, s.audit, s.logger, meta, models.AuditEntry{
		Action:     models.AuditActionApplicationStatus,
		Resource:   models.AuditResourceApplication,
		ResourceID: appID,
		Old:        map[string]interface{}{"status": current.Status},
		New:        map[string]interface{}{"status": updated.Status, "feedback": updated.Feedback},
	})
	return updated, nil
}

// ListMine returns the caller's applications with scholarship summaries.
func (s *ApplicationService) ListMine(ctx context.Context, email string) ([]models.ApplicationView, error) {
	items, err := s.repo.ListByApplicant(ctx, normaliseEmail(email))
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch applications.")
	}
	if items == nil {
		items = []models.ApplicationView{}
	}
	return items, nil
}

// ListPending returns the moderation queue.
func (s *ApplicationService) ListPending(ctx context.Context) ([]models.ApplicationView, error) {
	items, err := s.repo.ListByStatus(ctx, models.ApplicationPending)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch pending applications.")
	}
	if items == nil {
		items = []models.ApplicationView{}
	}
	return items, nil
}

// Delete removes an application.
func (s *ApplicationService) Delete(ctx context.Context, id string, meta models.RequestMeta) error {
	appID, err := parseID(id, msgInvalidApplicationID)
	if err != nil {
		return err
	}
	existing, err := s.repo.FindByID(ctx, appID)
	if err != nil {
		return s.translate(err, "Failed to load application.")
	}
	if err := s.repo.Delete(ctx, appID); err != nil {
		return s.translate(err, "Failed to delete application.")
	}
	recordAudit(ctx, s.audit, s.logger, meta, models.AuditEntry{
		Action:     models.AuditActionApplicationDelete,
		Resource:   models.AuditResourceApplication,
		ResourceID: appID,
		Old: map[string]interface{}{
			"scholarshipId":  existing.ScholarshipID,
			"applicantEmail": existing.ApplicantEmail,
			"status":         existing.Status,
		},
	})
	s.cache.Invalidate(ctx, analyticsCacheKey)
	return nil
}

func (s *ApplicationService) translate(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, msgApplicationNotFound)
	}
	return appErrors.Internal(err, message)
}
