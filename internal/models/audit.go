package models

import (
	"encoding/json"
	"time"
)

// Audit actions recorded for privileged mutations.
const (
	AuditActionRoleChange        = "USER_ROLE_CHANGE"
	AuditActionUserDelete        = "USER_DELETE"
	AuditActionApplicationStatus = "APPLICATION_STATUS_CHANGE"
	AuditActionApplicationDelete = "APPLICATION_DELETE"
)

// Audit resources.
const (
	AuditResourceUser        = "user"
	AuditResourceApplication = "application"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string          `db:"id" json:"id"`
	ActorEmail string          `db:"actor_email" json:"actorEmail"`
	Action     string          `db:"action" json:"action"`
	Resource   string          `db:"resource" json:"resource"`
	ResourceID *string         `db:"resource_id" json:"resourceId,omitempty"`
	OldValues  json.RawMessage `db:"old_values" json:"oldValues,omitempty"`
	NewValues  json.RawMessage `db:"new_values" json:"newValues,omitempty"`
	IPAddress  string          `db:"ip_address" json:"ipAddress"`
	UserAgent  string          `db:"user_agent" json:"userAgent"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// AuditEntry is what a service hands to the audit trail for one mutation.
type AuditEntry struct {
	Action     string
	Resource   string
	ResourceID string
	Old        interface{}
	New        interface{}
}

// RequestMeta captures caller metadata attached to audit records.
type RequestMeta struct {
	ActorEmail string
	IPAddress  string
	UserAgent  string
}
