package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/scholarhub-api/internal/models"
)

const scholarshipColumns = `id, scholarship_name, university_name, university_country, university_city, university_world_rank,
subject_category, scholarship_category, degree, tuition_fees, application_fees, service_charge, application_deadline,
description, image_url, posted_user_email, application_count, review_count, average_rating, created_at, updated_at`

// scholarshipUpdatable lists the descriptive columns an edit may touch.
var scholarshipUpdatable = map[string]struct{}{
	"scholarship_name":      {},
	"university_name":       {},
	"university_country":    {},
	"university_city":       {},
	"university_world_rank": {},
	"subject_category":      {},
	"scholarship_category":  {},
	"degree":                {},
	"tuition_fees":          {},
	"application_fees":      {},
	"service_charge":        {},
	"application_deadline":  {},
	"description":           {},
	"image_url":             {},
}

// ScholarshipRepository provides database access for scholarships.
type ScholarshipRepository struct {
	db *sqlx.DB
}

// NewScholarshipRepository creates a new instance of ScholarshipRepository.
func NewScholarshipRepository(db *sqlx.DB) *ScholarshipRepository {
	return &ScholarshipRepository{db: db}
}

// List returns scholarships matching the filter, newest first, with total count.
func (r *ScholarshipRepository) List(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, int, error) {
	baseQuery := `FROM scholarships WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(scholarship_name ILIKE $%d OR university_name ILIKE $%d OR degree ILIKE $%d)", n, n, n))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("scholarship_category = $%d", len(args)))
	}
	if filter.Subject != "" {
		args = append(args, filter.Subject)
		conditions = append(conditions, fmt.Sprintf("subject_category = $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		conditions = append(conditions, fmt.Sprintf("university_country = $%d", len(args)))
	}
	if filter.PosterEmail != "" {
		args = append(args, filter.PosterEmail)
		conditions = append(conditions, fmt.Sprintf("posted_user_email = $%d", len(args)))
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	_, pageSize, offset := normalisePage(filter.Page, filter.PageSize)
	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", scholarshipColumns, baseQuery, pageSize, offset)

	var scholarships []models.Scholarship
	if err := r.db.SelectContext(ctx, &scholarships, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list scholarships: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count scholarships: %w", err)
	}
	return scholarships, total, nil
}

// FindByID returns one scholarship or sql.ErrNoRows.
func (r *ScholarshipRepository) FindByID(ctx context.Context, id string) (*models.Scholarship, error) {
	query := `SELECT ` + scholarshipColumns + ` FROM scholarships WHERE id = $1`
	var s models.Scholarship
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find scholarship: %w", err)
	}
	return &s, nil
}

// Create inserts a new scholarship with zeroed counters.
func (r *ScholarshipRepository) Create(ctx context.Context, s *models.Scholarship) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	s.ApplicationCount, s.ReviewCount, s.AverageRating = 0, 0, 0

	const query = `INSERT INTO scholarships (id, scholarship_name, university_name, university_country, university_city,
university_world_rank, subject_category, scholarship_category, degree, tuition_fees, application_fees, service_charge,
application_deadline, description, image_url, posted_user_email, application_count, review_count, average_rating,
created_at, updated_at)
VALUES (:id, :scholarship_name, :university_name, :university_country, :university_city, :university_world_rank,
:subject_category, :scholarship_category, :degree, :tuition_fees, :application_fees, :service_charge,
:application_deadline, :description, :image_url, :posted_user_email, :application_count, :review_count,
:average_rating, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("create scholarship: %w", err)
	}
	return nil
}

// Update sets descriptive columns only. Unknown columns are rejected.
func (r *ScholarshipRepository) Update(ctx context.Context, id string, update models.ScholarshipUpdate) (*models.Scholarship, error) {
	if len(update.Columns) == 0 {
		return r.FindByID(ctx, id)
	}

	columns := make([]string, 0, len(update.Columns))
	for column := range update.Columns {
		if _, ok := scholarshipUpdatable[column]; !ok {
			return nil, fmt.Errorf("update scholarship: column %q is not updatable", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns)+1)
	args := make([]interface{}, 0, len(columns)+2)
	for _, column := range columns {
		args = append(args, update.Columns[column])
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf("UPDATE scholarships SET %s WHERE id = $%d RETURNING %s", strings.Join(sets, ", "), len(args), scholarshipColumns)
	var s models.Scholarship
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update scholarship: %w", err)
	}
	return &s, nil
}

// Delete removes a scholarship. It returns sql.ErrNoRows when absent.
func (r *ScholarshipRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scholarships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scholarship: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scholarship rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementApplicationCount atomically bumps the counter. It reports whether
// a scholarship matched.
func (r *ScholarshipRepository) IncrementApplicationCount(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE scholarships SET application_count = application_count + 1 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("increment application count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment application count rows affected: %w", err)
	}
	return affected > 0, nil
}

// RefreshReviewStats recomputes review_count and average_rating from the
// reviews table in a single statement.
func (r *ScholarshipRepository) RefreshReviewStats(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE scholarships s SET
review_count = agg.cnt,
average_rating = agg.avg
FROM (
    SELECT COUNT(*) AS cnt, COALESCE(ROUND(AVG(rating)::numeric, 2), 0) AS avg
    FROM reviews WHERE scholarship_id = $1
) agg
WHERE s.id::text = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("refresh review stats: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("refresh review stats rows affected: %w", err)
	}
	return affected > 0, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
