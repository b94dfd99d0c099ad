package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/scholarhub-api/internal/models"
)

func TestAuditCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAuditRepository(db)

	resourceID := "u-1"
	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), "admin@example.com", models.AuditActionRoleChange, models.AuditResourceUser, &resourceID,
			[]byte(`{"role":"user"}`), []byte(`{"role":"moderator"}`), "127.0.0.1", "test", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	log := &models.AuditLog{
		ActorEmail: "admin@example.com",
		Action:     models.AuditActionRoleChange,
		Resource:   models.AuditResourceUser,
		ResourceID: &resourceID,
		OldValues:  []byte(`{"role":"user"}`),
		NewValues:  []byte(`{"role":"moderator"}`),
		IPAddress:  "127.0.0.1",
		UserAgent:  "test",
	}
	require.NoError(t, repo.Create(context.Background(), log))
	assert.NotEmpty(t, log.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
