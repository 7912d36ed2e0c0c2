package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type SkillRepo struct {
	db DBTX
}

func NewSkillRepo(db DBTX) *SkillRepo {
	return &SkillRepo{db: db}
}

const skillColumns = `s.id, s.role_id, s.name, s.description, s.icon, s.cost_xp, s.cost_money, s.cost_time,
	s.is_unlocked, s.is_available, s.parent_skill_id, s.position_x, s.position_y, s.created_at`

func (r *SkillRepo) Insert(ctx context.Context, s *Skill) error {
	if s.ID == "" {
		s.ID = newID()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO skills (
			id, role_id, name, description, icon, cost_xp, cost_money, cost_time,
			is_unlocked, is_available, parent_skill_id, position_x, position_y, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.RoleID, s.Name, s.Description, s.Icon, s.CostXP, s.CostMoney, s.CostTime,
		boolToInt(s.IsUnlocked), boolToInt(s.IsAvailable), s.ParentSkillID, s.PositionX, s.PositionY, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("skill insert: %w", err)
	}
	return nil
}

func (r *SkillRepo) Get(ctx context.Context, id string) (*Skill, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills s WHERE s.id = ?`, id)
	return scanSkill(row)
}

func (r *SkillRepo) ListByRole(ctx context.Context, roleID string) ([]Skill, error) {
	return r.list(ctx, `SELECT `+skillColumns+` FROM skills s WHERE s.role_id = ? ORDER BY s.created_at ASC, s.id ASC`, roleID)
}

// ListByUser lists skills across every role the user owns.
func (r *SkillRepo) ListByUser(ctx context.Context, userID string) ([]Skill, error) {
	return r.list(ctx, `
		SELECT `+skillColumns+`
		FROM skills s
		JOIN roles ro ON ro.id = s.role_id
		WHERE ro.user_id = ?
		ORDER BY s.role_id ASC, s.created_at ASC, s.id ASC
	`, userID)
}

// UpdateState persists the unlock/availability flags, the only mutable state of a skill.
func (r *SkillRepo) UpdateState(ctx context.Context, s *Skill) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE skills SET is_unlocked = ?, is_available = ? WHERE id = ?
	`, boolToInt(s.IsUnlocked), boolToInt(s.IsAvailable), s.ID)
	if err != nil {
		return fmt.Errorf("skill update state: %w", err)
	}
	return nil
}

func (r *SkillRepo) list(ctx context.Context, query string, args ...any) ([]Skill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("skill list: %w", err)
	}
	defer rows.Close()

	var out []Skill
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("skill list rows: %w", err)
	}
	return out, nil
}

func scanSkill(row scanner) (*Skill, error) {
	var (
		s           Skill
		description sql.NullString
		costMoney   sql.NullFloat64
		costTime    sql.NullString
		isUnlocked  int
		isAvailable int
		parentID    sql.NullString
	)
	if err := row.Scan(
		&s.ID, &s.RoleID, &s.Name, &description, &s.Icon, &s.CostXP, &costMoney, &costTime,
		&isUnlocked, &isAvailable, &parentID, &s.PositionX, &s.PositionY, &s.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("skill scan: %w", err)
	}
	s.Description = nullStringPtr(description)
	s.CostMoney = nullFloatPtr(costMoney)
	s.CostTime = nullStringPtr(costTime)
	s.IsUnlocked = isUnlocked != 0
	s.IsAvailable = isAvailable != 0
	s.ParentSkillID = nullStringPtr(parentID)
	return &s, nil
}
