package domain

import (
	"context"
	"time"
)

// Moderation action constants
const (
	AuditActionApprove = "approve_boost"
	AuditActionDeny    = "deny_boost"
	AuditActionExtend  = "extend_boost"
	AuditActionRefund  = "refund_boost"
)

// AuditEntry is the append-only record of a moderation action attempt.
// Exactly one entry is written per attempt, success or failure.
type AuditEntry struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	ActorID    string     `bson:"actor_id" json:"actor_id"`
	Action     string     `bson:"action" json:"action"`
	EntityKind EntityKind `bson:"entity_kind" json:"entity_kind"`
	EntityID   string     `bson:"entity_id" json:"entity_id"`
	Success    bool       `bson:"success" json:"success"`
	Notes      string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Timestamp  time.Time  `bson:"timestamp" json:"timestamp"`
}

// AuditRepository defines the append-only audit log. Append is fire-and-forget
// from the moderation service's perspective: a failed audit write is logged,
// never allowed to block the action itself.
type AuditRepository interface {
	Append(ctx context.Context, entry *AuditEntry) error
	GetByEntity(ctx context.Context, kind EntityKind, entityID string) ([]*AuditEntry, error)
	GetRecent(ctx context.Context, limit int64) ([]*AuditEntry, error)
}
