package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarhub-api/internal/models"
)

var scholarshipColumnNames = []string{"id", "scholarship_name", "university_name", "university_country", "university_city",
	"university_world_rank", "subject_category", "scholarship_category", "degree", "tuition_fees", "application_fees",
	"service_charge", "application_deadline", "description", "image_url", "posted_user_email", "application_count",
	"review_count", "average_rating", "created_at", "updated_at"}

func scholarshipRow(rows *sqlmock.Rows, id, name string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, name, "Oxford", "UK", "Oxford", 3, "Engineering", "Full fund", "Masters",
		1000.0, 25.0, 5.0, "2025-01-01", "", "", "mod@example.com", 0, 0, 0.0, now, now)
}

func TestScholarshipListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM scholarships WHERE 1=1 AND (scholarship_name ILIKE $1 OR university_name ILIKE $1 OR degree ILIKE $1) AND scholarship_category = $2 AND university_country = $3 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("%100\\%%", "Full fund", "UK").
		WillReturnRows(scholarshipRow(sqlmock.NewRows(scholarshipColumnNames), "s1", "Rhodes"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM scholarships WHERE 1=1 AND")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.ScholarshipFilter{Search: "100%", Category: "Full fund", Location: "UK"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Rhodes", items[0].ScholarshipName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipUpdateSortsColumns(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE scholarships SET degree = $1, tuition_fees = $2, updated_at = $3 WHERE id = $4 RETURNING")).
		WithArgs("PhD", 10.5, sqlmock.AnyArg(), "s1").
		WillReturnRows(scholarshipRow(sqlmock.NewRows(scholarshipColumnNames), "s1", "Rhodes"))

	s, err := repo.Update(context.Background(), "s1", models.ScholarshipUpdate{Columns: map[string]interface{}{
		"tuition_fees": 10.5,
		"degree":       "PhD",
	}})
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipUpdateRejectsProtectedColumns(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	_, err := repo.Update(context.Background(), "s1", models.ScholarshipUpdate{Columns: map[string]interface{}{
		"posted_user_email": "attacker@example.com",
	}})
	assert.Error(t, err)
}

func TestIncrementApplicationCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE scholarships SET application_count = application_count + 1 WHERE id = $1")).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE scholarships SET application_count = application_count + 1 WHERE id = $1")).
		WithArgs("s2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.IncrementApplicationCount(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IncrementApplicationCount(context.Background(), "s2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	mock.ExpectQuery("FROM scholarships WHERE id = \\$1").WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRefreshReviewStats(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	mock.ExpectExec("UPDATE scholarships s SET review_count = agg.cnt").
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.RefreshReviewStats(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
