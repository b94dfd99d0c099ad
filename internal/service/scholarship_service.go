package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarhub-api/internal/models"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
)

const (
	msgInvalidScholarshipID = "Invalid scholarship ID format."
	msgScholarshipNotFound  = "Scholarship not found with this ID."
	msgPosterMismatch       = "Forbidden: Email mismatch."
)

type scholarshipRepository interface {
	List(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, int, error)
	FindByID(ctx context.Context, id string) (*models.Scholarship, error)
	Create(ctx context.Context, s *models.Scholarship) error
	Update(ctx context.Context, id string, update models.ScholarshipUpdate) (*models.Scholarship, error)
	Delete(ctx context.Context, id string) error
}

// ScholarshipService manages the scholarship catalogue.
type ScholarshipService struct {
	repo      scholarshipRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScholarshipService creates an instance of ScholarshipService.
func NewScholarshipService(repo scholarshipRepository, validate *validator.Validate, logger *zap.Logger) *ScholarshipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScholarshipService{repo: repo, validator: validate, logger: logger}
}

// Search lists scholarships newest first.
func (s *ScholarshipService) Search(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, *models.Pagination, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.PosterEmail = normaliseEmail(filter.PosterEmail)
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "Failed to fetch scholarships.")
	}
	if items == nil {
		items = []models.Scholarship{}
	}
	return items, newPagination(filter.Page, filter.PageSize, total), nil
}

// ListPosted lists scholarships posted by email.
func (s *ScholarshipService) ListPosted(ctx context.Context, email string, page, pageSize int) ([]models.Scholarship, *models.Pagination, error) {
	email = normaliseEmail(email)
	if email == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, msgEmailRequired)
	}
	return s.Search(ctx, models.ScholarshipFilter{PosterEmail: email, Page: page, PageSize: pageSize})
}

// Get returns one scholarship.
func (s *ScholarshipService) Get(ctx context.Context, id string) (*models.Scholarship, error) {
	scholarshipID, err := parseID(id, msgInvalidScholarshipID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, scholarshipID)
	if err != nil {
		return nil, s.translate(err, "Failed to fetch scholarship.")
	}
	return item, nil
}

// Create stores a new scholarship on behalf of the caller. A poster email
// that differs from the caller identity is rejected; an empty one is filled.
func (s *ScholarshipService) Create(ctx context.Context, caller models.Identity, req models.CreateScholarshipRequest) (*models.Scholarship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Invalid scholarship payload.")
	}
	callerEmail := normaliseEmail(caller.Email)
	poster := normaliseEmail(req.PostedUserEmail)
	switch {
	case poster == "":
		poster = callerEmail
	case poster != callerEmail:
		return nil, appErrors.Clone(appErrors.ErrForbidden, msgPosterMismatch)
	}

	item := &models.Scholarship{
		ScholarshipName:     strings.TrimSpace(req.ScholarshipName),
		UniversityName:      strings.TrimSpace(req.UniversityName),
		UniversityCountry:   req.UniversityCountry,
		UniversityCity:      req.UniversityCity,
		UniversityWorldRank: int(req.UniversityWorldRank),
		SubjectCategory:     req.SubjectCategory,
		ScholarshipCategory: req.ScholarshipCategory,
		Degree:              req.Degree,
		TuitionFees:         float64(req.TuitionFees),
		ApplicationFees:     float64(req.ApplicationFees),
		ServiceCharge:       float64(req.ServiceCharge),
		ApplicationDeadline: req.ApplicationDeadline,
		Description:         req.Description,
		ImageURL:            req.ImageURL,
		PostedUserEmail:     poster,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Internal(err, "Failed to create scholarship.")
	}
	s.logger.Info("scholarship created", zap.String("scholarship_id", item.ID), zap.String("poster", poster))
	return item, nil
}

// Update edits descriptive fields only.
func (s *ScholarshipService) Update(ctx context.Context, id string, req models.UpdateScholarshipRequest) (*models.Scholarship, error) {
	scholarshipID, err := parseID(id, msgInvalidScholarshipID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Invalid scholarship payload.")
	}
	item, err := s.repo.Update(ctx, scholarshipID, scholarshipColumns(req))
	if err != nil {
		return nil, s.translate(err, "Failed to update scholarship.")
	}
	return item, nil
}

// Delete removes a scholarship.
func (s *ScholarshipService) Delete(ctx context.Context, id string) error {
	scholarshipID, err := parseID(id, msgInvalidScholarshipID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, scholarshipID); err != nil {
		return s.translate(err, "Failed to delete scholarship.")
	}
	return nil
}

func (s *ScholarshipService) translate(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, msgScholarshipNotFound)
	}
	return appErrors.Internal(err, message)
}

func scholarshipColumns(req models.UpdateScholarshipRequest) models.ScholarshipUpdate {
	columns := make(map[string]interface{})
	setString := func(column string, value *string) {
		if value != nil {
			columns[column] = *value
		}
	}
	setString("scholarship_name", req.ScholarshipName)
	setString("university_name", req.UniversityName)
	setString("university_country", req.UniversityCountry)
	setString("university_city", req.UniversityCity)
	setString("subject_category", req.SubjectCategory)
	setString("scholarship_category", req.ScholarshipCategory)
	setString("degree", req.Degree)
	setString("application_deadline", req.ApplicationDeadline)
	setString("description", req.Description)
	setString("image_url", req.ImageURL)
	if req.UniversityWorldRank != nil {
		columns["university_world_rank"] = int(*req.UniversityWorldRank)
	}
	if req.TuitionFees != nil {
		columns["tuition_fees"] = float64(*req.TuitionFees)
	}
	if req.ApplicationFees != nil {
		columns["application_fees"] = float64(*req.ApplicationFees)
	}
	if req.ServiceCharge != nil {
		columns["service_charge"] = float64(*req.ServiceCharge)
	}
	return models.ScholarshipUpdate{Columns: columns}
}
