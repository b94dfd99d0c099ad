package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/noah-isme/scholarhub-api/internal/models"
)

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// recordAudit writes an audit entry. Failures are logged and never surface
// to the caller since the audited mutation already happened.
func recordAudit(ctx context.Context, repo auditRepository, logger *zap.Logger, meta models.RequestMeta, entry models.AuditEntry) {
	if repo == nil {
		return
	}
	log := &models.AuditLog{
		ActorEmail: meta.ActorEmail,
		Action:     entry.Action,
		Resource:   entry.Resource,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
	}
	if entry.ResourceID != "" {
		id := entry.ResourceID
		log.ResourceID = &id
	}
	if entry.Old != nil {
		log.OldValues, _ = json.Marshal(entry.Old)
	}
	if entry.New != nil {
		log.NewValues, _ = json.Marshal(entry.New)
	}
	if err := repo.Create(ctx, log); err != nil {
		logger.Warn("failed to record audit log",
			zap.String("action", entry.Action),
			zap.String("resource_id", entry.ResourceID),
			zap.Error(err),
		)
	}
}
