package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type InvestmentRepo struct {
	db DBTX
}

func NewInvestmentRepo(db DBTX) *InvestmentRepo {
	return &InvestmentRepo{db: db}
}

const investmentColumns = `id, user_id, objective_id, skill_id, title, type, amount,
	estimated_time, url, status, created_at`

func (r *InvestmentRepo) Insert(ctx context.Context, inv *Investment) error {
	if inv.ID == "" {
		inv.ID = newID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO investments (
			id, user_id, objective_id, skill_id, title, type, amount,
			estimated_time, url, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.UserID, inv.ObjectiveID, inv.SkillID, inv.Title, inv.Type, inv.Amount,
		inv.EstimatedTime, inv.URL, inv.Status, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("investment insert: %w", err)
	}
	return nil
}

func (r *InvestmentRepo) Get(ctx context.Context, id string) (*Investment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+investmentColumns+` FROM investments WHERE id = ?`, id)
	return scanInvestment(row)
}

// ListByUser returns the user's investments, newest first.
func (r *InvestmentRepo) ListByUser(ctx context.Context, userID string) ([]Investment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+investmentColumns+`
		FROM investments
		WHERE user_id = ?
		ORDER BY created_at DESC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("investment list: %w", err)
	}
	defer rows.Close()

	var out []Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("investment list rows: %w", err)
	}
	return out, nil
}

func (r *InvestmentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("investment delete: %w", err)
	}
	return nil
}

func scanInvestment(row scanner) (*Investment, error) {
	var (
		inv           Investment
		objectiveID   sql.NullString
		skillID       sql.NullString
		amount        sql.NullFloat64
		estimatedTime sql.NullString
		url           sql.NullString
	)
	if err := row.Scan(
		&inv.ID, &inv.UserID, &objectiveID, &skillID, &inv.Title, &inv.Type, &amount,
		&estimatedTime, &url, &inv.Status, &inv.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("investment scan: %w", err)
	}
	inv.ObjectiveID = nullStringPtr(objectiveID)
	inv.SkillID = nullStringPtr(skillID)
	inv.Amount = nullFloatPtr(amount)
	inv.EstimatedTime = nullStringPtr(estimatedTime)
	inv.URL = nullStringPtr(url)
	return &inv, nil
}
