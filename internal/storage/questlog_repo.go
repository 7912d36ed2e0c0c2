package storage

import (
	"context"
	"fmt"
)

type QuestLogRepo struct {
	db DBTX
}

func NewQuestLogRepo(db DBTX) *QuestLogRepo {
	return &QuestLogRepo{db: db}
}

func (r *QuestLogRepo) Insert(ctx context.Context, l *QuestLog) error {
	if l.ID == "" {
		l.ID = newID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO quest_logs (id, quest_id, user_id, completed_at, xp_earned)
		VALUES (?, ?, ?, ?, ?)
	`, l.ID, l.QuestID, l.UserID, l.CompletedAt, l.XPEarned)
	if err != nil {
		return fmt.Errorf("quest log insert: %w", err)
	}
	return nil
}

func (r *QuestLogRepo) ListByQuest(ctx context.Context, questID string) ([]QuestLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, quest_id, user_id, completed_at, xp_earned
		FROM quest_logs
		WHERE quest_id = ?
		ORDER BY completed_at ASC
	`, questID)
	if err != nil {
		return nil, fmt.Errorf("quest log list: %w", err)
	}
	defer rows.Close()

	var out []QuestLog
	for rows.Next() {
		var l QuestLog
		if err := rows.Scan(&l.ID, &l.QuestID, &l.UserID, &l.CompletedAt, &l.XPEarned); err != nil {
			return nil, fmt.Errorf("quest log scan: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quest log rows: %w", err)
	}
	return out, nil
}
