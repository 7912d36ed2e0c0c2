package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// XPLogRepo is the append-only XP ledger. It has no update or delete.
type XPLogRepo struct {
	db DBTX
}

func NewXPLogRepo(db DBTX) *XPLogRepo {
	return &XPLogRepo{db: db}
}

const xpLogColumns = `id, user_id, role_id, source_type, source_id, xp_amount, created_at`

func (r *XPLogRepo) Insert(ctx context.Context, e *XPLogEntry) error {
	if e.ID == "" {
		e.ID = newID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO xp_logs (id, user_id, role_id, source_type, source_id, xp_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.UserID, e.RoleID, e.SourceType, e.SourceID, e.XPAmount, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("xp log insert: %w", err)
	}
	return nil
}

// ListSince returns the user's entries created at or after since, newest first.
func (r *XPLogRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]XPLogEntry, error) {
	return r.list(ctx, `
		SELECT `+xpLogColumns+`
		FROM xp_logs
		WHERE user_id = ? AND created_at >= ?
		ORDER BY created_at DESC
	`, userID, since)
}

// ListRecent returns the user's newest entries, at most limit of them.
func (r *XPLogRepo) ListRecent(ctx context.Context, userID string, limit int) ([]XPLogEntry, error) {
	return r.list(ctx, `
		SELECT `+xpLogColumns+`
		FROM xp_logs
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
}

func (r *XPLogRepo) ListBySource(ctx context.Context, sourceType string, sourceID string) ([]XPLogEntry, error) {
	return r.list(ctx, `
		SELECT `+xpLogColumns+`
		FROM xp_logs
		WHERE source_type = ? AND source_id = ?
		ORDER BY created_at ASC
	`, sourceType, sourceID)
}

func (r *XPLogRepo) list(ctx context.Context, query string, args ...any) ([]XPLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("xp log list: %w", err)
	}
	defer rows.Close()

	var out []XPLogEntry
	for rows.Next() {
		var (
			e      XPLogEntry
			roleID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &roleID, &e.SourceType, &e.SourceID, &e.XPAmount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("xp log scan: %w", err)
		}
		e.RoleID = nullStringPtr(roleID)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("xp log rows: %w", err)
	}
	return out, nil
}
