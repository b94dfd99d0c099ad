package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/scholarhub-api/internal/models"
)

const reviewColumns = `id, scholarship_id, reviewer_email, reviewer_name, reviewer_image, rating, comment, created_at, updated_at`

// ReviewRepository provides database access for scholarship reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new instance of ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now

	const query = `INSERT INTO reviews (id, scholarship_id, reviewer_email, reviewer_name, reviewer_image, rating, comment, created_at, updated_at)
VALUES (:id, :scholarship_id, :reviewer_email, :reviewer_name, :reviewer_image, :rating, :comment, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// FindByID returns one review or sql.ErrNoRows.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	var review models.Review
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return &review, nil
}

// ListByScholarship returns the reviews of a scholarship, newest first.
func (r *ReviewRepository) ListByScholarship(ctx context.Context, scholarshipID string) ([]models.Review, error) {
	return r.list(ctx, "list reviews by scholarship", `WHERE scholarship_id = $1 ORDER BY created_at DESC`, scholarshipID)
}

// ListByReviewer returns the reviews written by email, newest first.
func (r *ReviewRepository) ListByReviewer(ctx context.Context, email string) ([]models.Review, error) {
	return r.list(ctx, "list reviews by reviewer", `WHERE reviewer_email = $1 ORDER BY created_at DESC`, email)
}

// Latest returns the limit most recent reviews across the platform.
func (r *ReviewRepository) Latest(ctx context.Context, limit int) ([]models.Review, error) {
	return r.list(ctx, "list latest reviews", `ORDER BY created_at DESC LIMIT $1`, limit)
}

func (r *ReviewRepository) list(ctx context.Context, op, clause string, args ...interface{}) ([]models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews ` + clause
	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reviews, nil
}

// Update stores new rating and comment values.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	review.UpdatedAt = time.Now().UTC()
	const query = `UPDATE reviews SET rating = :rating, comment = :comment, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, review)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update review rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a review. It returns sql.ErrNoRows when absent.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete review rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
