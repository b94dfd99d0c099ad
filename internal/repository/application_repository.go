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

const applicationColumns = `a.id, a.scholarship_id, a.applicant_email, a.applicant_name, a.applicant_phone, a.status,
a.application_fee, a.transaction_id, a.applied_at, a.paid_at, a.moderated_at, a.feedback`

const applicationViewSelect = `SELECT ` + applicationColumns + `,
COALESCE(s.scholarship_name, '') AS scholarship_title,
COALESCE(s.scholarship_category, '') AS scholarship_category
FROM applications a
LEFT JOIN scholarships s ON s.id::text = a.scholarship_id`

// ApplicationRepository provides database access for scholarship applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new instance of ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts an application. A second application by the same applicant
// for the same scholarship yields ErrDuplicate.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	const query = `INSERT INTO applications (id, scholarship_id, applicant_email, applicant_name, applicant_phone, status,
application_fee, transaction_id, applied_at, paid_at, moderated_at, feedback)
VALUES (:id, :scholarship_id, :applicant_email, :applicant_name, :applicant_phone, :status,
:application_fee, :transaction_id, :applied_at, :paid_at, :moderated_at, :feedback)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

// FindByID returns one application or sql.ErrNoRows.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications a WHERE a.id = $1`
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &app, nil
}

// ListByApplicant returns the applicant's applications, newest first. Rows
// whose scholarship no longer exists are kept.
func (r *ApplicationRepository) ListByApplicant(ctx context.Context, email string) ([]models.ApplicationView, error) {
	query := applicationViewSelect + ` WHERE a.applicant_email = $1 ORDER BY a.applied_at DESC`
	var items []models.ApplicationView
	if err := r.db.SelectContext(ctx, &items, query, email); err != nil {
		return nil, fmt.Errorf("list applications by applicant: %w", err)
	}
	return items, nil
}

// ListByStatus returns applications in status, oldest first.
func (r *ApplicationRepository) ListByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.ApplicationView, error) {
	query := applicationViewSelect + ` WHERE a.status = $1 ORDER BY a.applied_at ASC`
	var items []models.ApplicationView
	if err := r.db.SelectContext(ctx, &items, query, status); err != nil {
		return nil, fmt.Errorf("list applications by status: %w", err)
	}
	return items, nil
}

// Transition moves an application from one status to another in a single
// conditional update. It returns sql.ErrNoRows when the application is not
// currently in from.
func (r *ApplicationRepository) Transition(ctx context.Context, id string, from, to models.ApplicationStatus, feedback string, at time.Time) (*models.Application, error) {
	query := `UPDATE applications a SET status = $3, feedback = $4, moderated_at = $5
WHERE a.id = $1 AND a.status = $2
RETURNING ` + applicationColumns
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id, from, to, feedback, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("transition application: %w", err)
	}
	return &app, nil
}

// Delete removes an application. It returns sql.ErrNoRows when absent.
func (r *ApplicationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete application rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
