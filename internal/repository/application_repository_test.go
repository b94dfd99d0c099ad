package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarhub-api/internal/models"
)

var applicationColumnNames = []string{"id", "scholarship_id", "applicant_email", "applicant_name", "applicant_phone",
	"status", "application_fee", "transaction_id", "applied_at", "paid_at", "moderated_at", "feedback"}

func TestApplicationCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("INSERT INTO applications").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_applications_applicant_scholarship"})

	err := repo.Create(context.Background(), &models.Application{ScholarshipID: "s1", ApplicantEmail: "a@example.com", Status: models.ApplicationPending})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("INSERT INTO applications").WillReturnResult(sqlmock.NewResult(1, 1))

	app := &models.Application{ScholarshipID: "s1", ApplicantEmail: "a@example.com", Status: models.ApplicationPending, AppliedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), app))
	assert.NotEmpty(t, app.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByApplicantKeepsOrphans(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	now := time.Now()
	cols := append(append([]string{}, applicationColumnNames...), "scholarship_title", "scholarship_category")
	rows := sqlmock.NewRows(cols).
		AddRow("a1", "s1", "me@example.com", "", "", "Pending", "10", "", now, nil, nil, "", "Rhodes", "Full fund").
		AddRow("a2", "gone", "me@example.com", "", "", "Approved", nil, "", now, nil, now, "ok", "", "")
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN scholarships s ON s.id::text = a.scholarship_id WHERE a.applicant_email = $1")).
		WithArgs("me@example.com").
		WillReturnRows(rows)

	items, err := repo.ListByApplicant(context.Background(), "me@example.com")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Rhodes", items[0].ScholarshipTitle)
	assert.Equal(t, "", items[1].ScholarshipTitle)
	assert.Nil(t, items[1].ApplicationFee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionOnlyFromStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	at := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE applications a SET status = $3, feedback = $4, moderated_at = $5 WHERE a.id = $1 AND a.status = $2")).
		WithArgs("a1", models.ApplicationPending, models.ApplicationApproved, "well done", at).
		WillReturnRows(sqlmock.NewRows(applicationColumnNames).
			AddRow("a1", "s1", "me@example.com", "", "", "Approved", "10", "", at, nil, at, "well done"))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE applications a SET status")).
		WillReturnError(sql.ErrNoRows)

	app, err := repo.Transition(context.Background(), "a1", models.ApplicationPending, models.ApplicationApproved, "well done", at)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, app.Status)

	_, err = repo.Transition(context.Background(), "a1", models.ApplicationPending, models.ApplicationRejected, "", at)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
