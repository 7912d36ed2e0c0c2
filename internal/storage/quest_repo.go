package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type QuestRepo struct {
	db DBTX
}

func NewQuestRepo(db DBTX) *QuestRepo {
	return &QuestRepo{db: db}
}

const questColumns = `id, user_id, role_id, title, description, xp_reward, frequency,
	is_completed, completed_at, streak, created_at, updated_at`

func (r *QuestRepo) Insert(ctx context.Context, q *Quest) error {
	if q.ID == "" {
		q.ID = newID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quests (
			id, user_id, role_id, title, description, xp_reward, frequency,
			is_completed, completed_at, streak, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.ID, q.UserID, q.RoleID, q.Title, q.Description, q.XPReward, q.Frequency,
		boolToInt(q.IsCompleted), q.CompletedAt, q.Streak, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("quest insert: %w", err)
	}
	return nil
}

func (r *QuestRepo) Get(ctx context.Context, id string) (*Quest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+questColumns+` FROM quests WHERE id = ?`, id)
	return scanQuest(row)
}

// ListByUser lists the user's quests, optionally restricted to one role.
func (r *QuestRepo) ListByUser(ctx context.Context, userID string, roleID *string) ([]Quest, error) {
	query := `SELECT ` + questColumns + ` FROM quests WHERE user_id = ?`
	args := []any{userID}
	if roleID != nil {
		query += ` AND role_id = ?`
		args = append(args, *roleID)
	}
	query += ` ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, args...)
}

// ListByFrequency lists the user's quests whose frequency is one of the given values.
func (r *QuestRepo) ListByFrequency(ctx context.Context, userID string, frequencies ...string) ([]Quest, error) {
	if len(frequencies) == 0 {
		return nil, nil
	}
	query := `SELECT ` + questColumns + ` FROM quests WHERE user_id = ? AND frequency IN (?` + repeatPlaceholder(len(frequencies)-1) + `)`
	args := []any{userID}
	for _, f := range frequencies {
		args = append(args, f)
	}
	query += ` ORDER BY created_at ASC, id ASC`
	return r.list(ctx, query, args...)
}

func (r *QuestRepo) Update(ctx context.Context, q *Quest) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE quests
		SET title = ?, description = ?, xp_reward = ?, frequency = ?,
			is_completed = ?, completed_at = ?, streak = ?, updated_at = ?
		WHERE id = ?
	`, q.Title, q.Description, q.XPReward, q.Frequency,
		boolToInt(q.IsCompleted), q.CompletedAt, q.Streak, q.UpdatedAt, q.ID)
	if err != nil {
		return fmt.Errorf("quest update: %w", err)
	}
	return nil
}

// Delete removes the quest and, by cascade, its quest log. XP ledger rows stay.
func (r *QuestRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM quests WHERE id = ?`, id); err != nil {
		return fmt.Errorf("quest delete: %w", err)
	}
	return nil
}

// ResetDaily clears completion on the user's completed daily quests. Streaks are kept.
func (r *QuestRepo) ResetDaily(ctx context.Context, userID string, now time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE quests
		SET is_completed = 0, completed_at = NULL, updated_at = ?
		WHERE user_id = ? AND frequency = 'daily' AND is_completed = 1
	`, now, userID)
	if err != nil {
		return 0, fmt.Errorf("quest reset daily: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("quest reset daily rows affected: %w", err)
	}
	return int(n), nil
}

func (r *QuestRepo) list(ctx context.Context, query string, args ...any) ([]Quest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("quest list: %w", err)
	}
	defer rows.Close()

	var out []Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest list rows: %w", err)
	}
	return out, nil
}

func scanQuest(row scanner) (*Quest, error) {
	var (
		q           Quest
		description sql.NullString
		isCompleted int
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&q.ID, &q.UserID, &q.RoleID, &q.Title, &description, &q.XPReward, &q.Frequency,
		&isCompleted, &completedAt, &q.Streak, &q.CreatedAt, &q.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("quest scan: %w", err)
	}
	q.Description = nullStringPtr(description)
	q.IsCompleted = isCompleted != 0
	q.CompletedAt = nullTimePtr(completedAt)
	return &q, nil
}

func repeatPlaceholder(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += ", ?"
	}
	return s
}
