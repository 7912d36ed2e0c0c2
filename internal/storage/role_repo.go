package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrStaleWrite is returned when a row changed between read and write.
// Callers must discard their in-memory copy rather than retry the mutation.
var ErrStaleWrite = errors.New("stale write: row was modified concurrently")

type RoleRepo struct {
	db DBTX
}

func NewRoleRepo(db DBTX) *RoleRepo {
	return &RoleRepo{db: db}
}

const roleColumns = `id, user_id, name, description, icon, color, level, current_xp, xp_to_next_level,
	is_active, version, created_at, updated_at`

func (r *RoleRepo) Insert(ctx context.Context, role *Role) error {
	if role.ID == "" {
		role.ID = newID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO roles (
			id, user_id, name, description, icon, color,
			level, current_xp, xp_to_next_level, is_active, version,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, role.ID, role.UserID, role.Name, role.Description, role.Icon, role.Color,
		role.Level, role.CurrentXP, role.XPToNextLevel, boolToInt(role.IsActive), role.Version,
		role.CreatedAt, role.UpdatedAt)
	if err != nil {
		return fmt.Errorf("role insert: %w", err)
	}
	return nil
}

func (r *RoleRepo) Get(ctx context.Context, id string) (*Role, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = ?`, id)
	return scanRole(row)
}

// ListByUser returns the user's roles ordered by creation. When activeOnly is set
// inactive roles are skipped.
func (r *RoleRepo) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE user_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("role list: %w", err)
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("role list rows: %w", err)
	}
	return out, nil
}

func (r *RoleRepo) CountActive(ctx context.Context, userID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles WHERE user_id = ? AND is_active = 1`, userID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("role count: %w", err)
	}
	return n, nil
}

// Update writes the role if its version still matches what was read, then bumps
// the in-memory version. ErrStaleWrite means another writer got there first.
func (r *RoleRepo) Update(ctx context.Context, role *Role) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE roles
		SET name = ?, description = ?, icon = ?, color = ?,
			level = ?, current_xp = ?, xp_to_next_level = ?, is_active = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`, role.Name, role.Description, role.Icon, role.Color,
		role.Level, role.CurrentXP, role.XPToNextLevel, boolToInt(role.IsActive),
		role.UpdatedAt, role.ID, role.Version)
	if err != nil {
		return fmt.Errorf("role update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("role update rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("role %s: %w", role.ID, ErrStaleWrite)
	}
	role.Version++
	return nil
}

func scanRole(row scanner) (*Role, error) {
	var (
		role        Role
		description sql.NullString
		isActive    int
	)
	if err := row.Scan(
		&role.ID, &role.UserID, &role.Name, &description, &role.Icon, &role.Color,
		&role.Level, &role.CurrentXP, &role.XPToNextLevel, &isActive, &role.Version,
		&role.CreatedAt, &role.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("role scan: %w", err)
	}
	role.Description = nullStringPtr(description)
	role.IsActive = isActive != 0
	return &role, nil
}
