package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type ObjectiveRepo struct {
	db DBTX
}

func NewObjectiveRepo(db DBTX) *ObjectiveRepo {
	return &ObjectiveRepo{db: db}
}

const objectiveColumns = `id, user_id, role_id, title, description, quarter, year, status,
	xp_reward, deadline, completed_at, created_at, updated_at`

func (r *ObjectiveRepo) Insert(ctx context.Context, o *Objective) error {
	if o.ID == "" {
		o.ID = newID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO objectives (
			id, user_id, role_id, title, description, quarter, year, status,
			xp_reward, deadline, completed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.UserID, o.RoleID, o.Title, o.Description, o.Quarter, o.Year, o.Status,
		o.XPReward, o.Deadline, o.CompletedAt, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("objective insert: %w", err)
	}
	return nil
}

func (r *ObjectiveRepo) Get(ctx context.Context, id string) (*Objective, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+objectiveColumns+` FROM objectives WHERE id = ?`, id)
	return scanObjective(row)
}

// ListByUser lists the user's objectives. An empty quarter or a zero year means no filter.
func (r *ObjectiveRepo) ListByUser(ctx context.Context, userID string, quarter string, year int) ([]Objective, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objectives WHERE user_id = ?`
	args := []any{userID}
	if quarter != "" {
		query += ` AND quarter = ?`
		args = append(args, quarter)
	}
	if year != 0 {
		query += ` AND year = ?`
		args = append(args, year)
	}
	query += ` ORDER BY year ASC, quarter ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("objective list: %w", err)
	}
	defer rows.Close()

	var out []Objective
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("objective list rows: %w", err)
	}
	return out, nil
}

func (r *ObjectiveRepo) Update(ctx context.Context, o *Objective) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE objectives
		SET role_id = ?, title = ?, description = ?, quarter = ?, year = ?, status = ?,
			xp_reward = ?, deadline = ?, completed_at = ?, updated_at = ?
		WHERE id = ?
	`, o.RoleID, o.Title, o.Description, o.Quarter, o.Year, o.Status,
		o.XPReward, o.Deadline, o.CompletedAt, o.UpdatedAt, o.ID)
	if err != nil {
		return fmt.Errorf("objective update: %w", err)
	}
	return nil
}

func (r *ObjectiveRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM objectives WHERE id = ?`, id); err != nil {
		return fmt.Errorf("objective delete: %w", err)
	}
	return nil
}

func scanObjective(row scanner) (*Objective, error) {
	var (
		o           Objective
		roleID      sql.NullString
		description sql.NullString
		deadline    sql.NullTime
		completedAt sql.NullTime
	)
	if err := row.Scan(
		&o.ID, &o.UserID, &roleID, &o.Title, &description, &o.Quarter, &o.Year, &o.Status,
		&o.XPReward, &deadline, &completedAt, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("objective scan: %w", err)
	}
	o.RoleID = nullStringPtr(roleID)
	o.Description = nullStringPtr(description)
	o.Deadline = nullTimePtr(deadline)
	o.CompletedAt = nullTimePtr(completedAt)
	return &o, nil
}
