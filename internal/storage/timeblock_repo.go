package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

type TimeBlockRepo struct {
	db DBTX
}

func NewTimeBlockRepo(db DBTX) *TimeBlockRepo {
	return &TimeBlockRepo{db: db}
}

const timeBlockColumns = `id, user_id, role_id, title, start_minute, end_minute,
	day_period, block_type, is_recurring, days_of_week, created_at`

func (r *TimeBlockRepo) Insert(ctx context.Context, b *TimeBlock) error {
	if b.ID == "" {
		b.ID = newID()
	}
	daysJSON, err := encodeDays(b.DaysOfWeek)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO time_blocks (
			id, user_id, role_id, title, start_minute, end_minute,
			day_period, block_type, is_recurring, days_of_week, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.UserID, b.RoleID, b.Title, b.StartMinute, b.EndMinute,
		b.DayPeriod, b.BlockType, boolToInt(b.IsRecurring), daysJSON, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("time block insert: %w", err)
	}
	return nil
}

func (r *TimeBlockRepo) Get(ctx context.Context, id string) (*TimeBlock, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timeBlockColumns+` FROM time_blocks WHERE id = ?`, id)
	return scanTimeBlock(row)
}

func (r *TimeBlockRepo) ListByUser(ctx context.Context, userID string) ([]TimeBlock, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+timeBlockColumns+`
		FROM time_blocks
		WHERE user_id = ?
		ORDER BY start_minute ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("time block list: %w", err)
	}
	defer rows.Close()

	var out []TimeBlock
	for rows.Next() {
		b, err := scanTimeBlock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("time block rows: %w", err)
	}
	return out, nil
}

func (r *TimeBlockRepo) Update(ctx context.Context, b *TimeBlock) error {
	daysJSON, err := encodeDays(b.DaysOfWeek)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE time_blocks
		SET role_id = ?, title = ?, start_minute = ?, end_minute = ?,
			day_period = ?, block_type = ?, is_recurring = ?, days_of_week = ?
		WHERE id = ?
	`, b.RoleID, b.Title, b.StartMinute, b.EndMinute,
		b.DayPeriod, b.BlockType, boolToInt(b.IsRecurring), daysJSON, b.ID)
	if err != nil {
		return fmt.Errorf("time block update: %w", err)
	}
	return nil
}

func (r *TimeBlockRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM time_blocks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("time block delete: %w", err)
	}
	return nil
}

// encodeDays stores weekdays as a JSON array; an empty set is NULL.
func encodeDays(days []int) (*string, error) {
	if len(days) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(days)
	if err != nil {
		return nil, fmt.Errorf("marshal days of week: %w", err)
	}
	s := string(data)
	return &s, nil
}

func scanTimeBlock(row scanner) (*TimeBlock, error) {
	var (
		b           TimeBlock
		roleID      sql.NullString
		isRecurring int
		daysRaw     sql.NullString
	)
	if err := row.Scan(
		&b.ID, &b.UserID, &roleID, &b.Title, &b.StartMinute, &b.EndMinute,
		&b.DayPeriod, &b.BlockType, &isRecurring, &daysRaw, &b.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("time block scan: %w", err)
	}
	b.RoleID = nullStringPtr(roleID)
	b.IsRecurring = isRecurring != 0
	if daysRaw.Valid && daysRaw.String != "" {
		if err := json.Unmarshal([]byte(daysRaw.String), &b.DaysOfWeek); err != nil {
			return nil, fmt.Errorf("unmarshal days of week: %w", err)
		}
	}
	return &b, nil
}
