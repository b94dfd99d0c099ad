package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/scholarhub-api/internal/models"
)

// AnalyticsRepository exposes read-only queries for platform statistics.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// CountUsers returns the number of user records.
func (r *AnalyticsRepository) CountUsers(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

// CountScholarships returns the number of scholarship records.
func (r *AnalyticsRepository) CountScholarships(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM scholarships`); err != nil {
		return 0, fmt.Errorf("count scholarships: %w", err)
	}
	return total, nil
}

// SumApplicationFees streams every stored fee and adds them up. Missing or
// non-numeric values contribute zero instead of failing the sum.
func (r *AnalyticsRepository) SumApplicationFees(ctx context.Context) (float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT application_fee FROM applications`)
	if err != nil {
		return 0, fmt.Errorf("query application fees: %w", err)
	}
	defer rows.Close()

	var total float64
	for rows.Next() {
		var fee sql.NullString
		if err := rows.Scan(&fee); err != nil {
			return 0, fmt.Errorf("scan application fee: %w", err)
		}
		if fee.Valid {
			total += models.ParseFee(&fee.String)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate application fees: %w", err)
	}
	return total, nil
}

// ApplicationsByCategory counts applications per scholarship category.
// Applications whose scholarship no longer exists are excluded, and
// categories without applications are absent.
func (r *AnalyticsRepository) ApplicationsByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	const query = `SELECT s.scholarship_category AS category, COUNT(*) AS count
FROM applications a
JOIN scholarships s ON s.id::text = a.scholarship_id
GROUP BY s.scholarship_category`
	var counts []models.CategoryCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("group applications by category: %w", err)
	}
	return counts, nil
}
