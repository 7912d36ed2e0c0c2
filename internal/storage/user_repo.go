package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MainUsername identifies the local user the CLI acts as.
const MainUsername = "main_user"

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

const userColumns = `id, username, email, level, total_xp, mission, vision, created_at, updated_at`

func (r *UserRepo) Get(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *UserRepo) Insert(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Level <= 0 {
		u.Level = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, level, total_xp, mission, vision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.Level, u.TotalXP, u.Mission, u.Vision, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("user insert: %w", err)
	}
	return nil
}

func (r *UserRepo) GetOrCreateMain(ctx context.Context, now time.Time) (*User, error) {
	u, err := r.GetByUsername(ctx, MainUsername)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	u = &User{
		Username:  MainUsername,
		Email:     MainUsername + "@localhost",
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Insert(ctx, u); err != nil {
		return nil, err
	}
	return r.Get(ctx, u.ID)
}

func scanUser(row scanner) (*User, error) {
	var (
		u       User
		mission sql.NullString
		vision  sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Level, &u.TotalXP, &mission, &vision, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	u.Mission = nullStringPtr(mission)
	u.Vision = nullStringPtr(vision)
	return &u, nil
}
