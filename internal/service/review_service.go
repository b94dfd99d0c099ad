package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scholarhub-api/internal/models"
	appErrors "github.com/noah-isme/scholarhub-api/pkg/errors"
	"github.com/noah-isme/scholarhub-api/pkg/sanitize"
)

const (
	msgInvalidReviewID   = "Invalid review ID format."
	msgReviewNotFound    = "Review not found."
	msgReviewEditOwner   = "Forbidden: You can only edit your own reviews."
	msgReviewDeleteOwner = "Forbidden: You can only delete your own reviews."
	latestReviewsLimit   = 3
)

type reviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id string) (*models.Review, error)
	ListByScholarship(ctx context.Context, scholarshipID string) ([]models.Review, error)
	ListByReviewer(ctx context.Context, email string) ([]models.Review, error)
	Latest(ctx context.Context, limit int) ([]models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
}

type reviewStatsRefresher interface {
	RefreshReviewStats(ctx context.Context, id string) (bool, error)
}

// RoleResolver looks up the stored role for an email.
type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (models.UserRole, bool, error)
}

// ReviewService manages scholarship reviews.
type ReviewService struct {
	repo      reviewRepository
	stats     reviewStatsRefresher
	roles     RoleResolver
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewReviewService creates an instance of ReviewService.
func NewReviewService(repo reviewRepository, stats reviewStatsRefresher, roles RoleResolver, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ReviewService{repo: repo, stats: stats, roles: roles, validator: validate, logger: logger, now: time.Now}
}

// Create stores a review authored by caller.
func (s *ReviewService) Create(ctx context.Context, caller models.Identity, req models.CreateReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "A valid scholarshipId and a rating between 1 and 5 are required.")
	}
	name := req.ReviewerName
	if name == "" {
		name = caller.Name
	}
	image := req.ReviewerImage
	if image == "" {
		image = caller.Photo
	}
	review := &models.Review{
		ScholarshipID: req.ScholarshipID,
		ReviewerEmail: normaliseEmail(caller.Email),
		ReviewerName:  sanitize.Text(name),
		ReviewerImage: image,
		Rating:        int(req.Rating),
		Comment:       sanitize.Text(req.Comment),
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, appErrors.Internal(err, "Failed to create review.")
	}
	s.refresh(ctx, review.ScholarshipID)
	return review, nil
}

// ListByScholarship returns reviews for one scholarship.
func (s *ReviewService) ListByScholarship(ctx context.Context, scholarshipID string) ([]models.Review, error) {
	id, err := parseID(scholarshipID, msgInvalidScholarshipID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByScholarship(ctx, id)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch reviews.")
	}
	return orEmpty(items), nil
}

// Get returns a single review.
func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	reviewID, err := parseID(id, msgInvalidReviewID)
	if err != nil {
		return nil, err
	}
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, s.translate(err, "Failed to fetch review.")
	}
	return review, nil
}

// Latest returns the newest reviews across all scholarships.
func (s *ReviewService) Latest(ctx context.Context) ([]models.Review, error) {
	items, err := s.repo.Latest(ctx, latestReviewsLimit)
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch latest reviews.")
	}
	return orEmpty(items), nil
}

// ListMine returns reviews written by email.
func (s *ReviewService) ListMine(ctx context.Context, email string) ([]models.Review, error) {
	items, err := s.repo.ListByReviewer(ctx, normaliseEmail(email))
	if err != nil {
		return nil, appErrors.Internal(err, "Failed to fetch reviews.")
	}
	return orEmpty(items), nil
}

// Update edits a review owned by caller.
func (s *ReviewService) Update(ctx context.Context, caller models.Identity, id string, req models.UpdateReviewRequest) (*models.Review, error) {
	reviewID, err := parseID(id, msgInvalidReviewID)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "Rating must be between 1 and 5.")
	}
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, s.translate(err, "Failed to fetch review.")
	}
	if review.ReviewerEmail != normaliseEmail(caller.Email) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, msgReviewEditOwner)
	}

	ratingChanged := false
	if req.Rating != nil && int(*req.Rating) != review.Rating {
		review.Rating = int(*req.Rating)
		ratingChanged = true
	}
	if req.Comment != nil {
		review.Comment = sanitize.Text(*req.Comment)
	}
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, s.translate(err, "Failed to update review.")
	}
	if ratingChanged {
		s.refresh(ctx, review.ScholarshipID)
	}
	return review, nil
}

// Delete removes a review. Owners may delete their own reviews; moderators
// and admins may delete any review.
func (s *ReviewService) Delete(ctx context.Context, caller models.Identity, id string) error {
	reviewID, err := parseID(id, msgInvalidReviewID)
	if err != nil {
		return err
	}
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return s.translate(err, "Failed to fetch review.")
	}
	if review.ReviewerEmail != normaliseEmail(caller.Email) {
		allowed, err := s.canModerate(ctx, caller.Email)
		if err != nil {
			return err
		}
		if !allowed {
			return appErrors.Clone(appErrors.ErrForbidden, msgReviewDeleteOwner)
		}
		s.logger.Info("review removed by moderator", zap.String("review_id", reviewID), zap.String("actor", caller.Email))
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return s.translate(err, "Failed to delete review.")
	}
	s.refresh(ctx, review.ScholarshipID)
	return nil
}

func (s *ReviewService) canModerate(ctx context.Context, email string) (bool, error) {
	if s.roles == nil {
		return false, nil
	}
	role, found, err := s.roles.ResolveRole(ctx, email)
	if err != nil {
		return false, err
	}
	return found && (role == models.RoleModerator || role == models.RoleAdmin), nil
}

func (s *ReviewService) refresh(ctx context.Context, scholarshipID string) {
	if s.stats == nil {
		return
	}
	matched, err := s.stats.RefreshReviewStats(ctx, scholarshipID)
	if err != nil {
		s.logger.Warn("failed to refresh review stats", zap.String("scholarship_id", scholarshipID), zap.Error(err))
		return
	}
	if !matched {
		s.logger.Warn("review references unknown scholarship", zap.String("scholarship_id", scholarshipID))
	}
}

func (s *ReviewService) translate(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, msgReviewNotFound)
	}
	return appErrors.Internal(err, message)
}

func orEmpty(items []models.Review) []models.Review {
	if items == nil {
		return []models.Review{}
	}
	return items
}
