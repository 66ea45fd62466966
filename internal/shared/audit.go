package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// AuditLog is one row of audit_logs. EntityID is text so any key type fits.
type AuditLog struct {
	Actor    string
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// ErrIncompleteAuditLog rejects entries missing action, entity or entity id.
var ErrIncompleteAuditLog = errors.New("audit: action, entity and entity_id are required")

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuditLogger appends to audit_logs. It accepts a pool or a transaction.
type AuditLogger struct {
	db Execer
}

// NewAuditLogger wraps db, usually a *pgxpool.Pool.
func NewAuditLogger(db Execer) *AuditLogger {
	return &AuditLogger{db: db}
}

const insertAuditLog = `INSERT INTO audit_logs (actor, action, entity, entity_id, meta, occurred_at)
VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))`

// Record stores the entry. An empty actor is taken from ctx.
func (l *AuditLogger) Record(ctx context.Context, entry AuditLog) error {
	if l == nil || l.db == nil {
		return errors.New("audit: logger not initialised")
	}
	if entry.Action == "" || entry.Entity == "" || entry.EntityID == "" {
		return ErrIncompleteAuditLog
	}
	if entry.Actor == "" {
		entry.Actor = ActorFromContext(ctx)
	}
	meta := []byte("{}")
	if len(entry.Meta) > 0 {
		var err error
		if meta, err = json.Marshal(entry.Meta); err != nil {
			return fmt.Errorf("audit: encode meta: %w", err)
		}
	}
	var at *time.Time
	if !entry.At.IsZero() {
		utc := entry.At.UTC()
		at = &utc
	}
	if _, err := l.db.Exec(ctx, insertAuditLog, entry.Actor, entry.Action, entry.Entity, entry.EntityID, meta, at); err != nil {
		return fmt.Errorf("audit: insert %s %s/%s: %w", entry.Action, entry.Entity, entry.EntityID, err)
	}
	return nil
}
