package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

const insertAuditLog = `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`

// AuditPublisher records roster events in the Postgres audit_log table.
type AuditPublisher struct {
	db *sql.DB
}

func NewAuditPublisher(db *sql.DB) *AuditPublisher {
	return &AuditPublisher{db: db}
}

func (p *AuditPublisher) Name() string { return "audit" }

func (p *AuditPublisher) Publish(ctx context.Context, e RosterEvent) error {
	details, err := json.Marshal(map[string]interface{}{
		"eventId":         e.ID,
		"email":           e.Email,
		"rosterSize":      e.RosterSize,
		"maxParticipants": e.MaxParticipants,
	})
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	_, err = p.db.ExecContext(ctx, insertAuditLog,
		string(e.Type),
		"activity",
		e.Activity,
		details,
		e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (p *AuditPublisher) Close() error {
	return p.db.Close()
}
