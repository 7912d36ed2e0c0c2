package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			total_xp INTEGER NOT NULL DEFAULT 0,
			mission TEXT,
			vision TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS roles (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			icon TEXT NOT NULL DEFAULT 'circle',
			color TEXT NOT NULL DEFAULT 'bg-slate-500',
			level INTEGER NOT NULL DEFAULT 1,
			current_xp INTEGER NOT NULL DEFAULT 0,
			xp_to_next_level INTEGER NOT NULL DEFAULT 150,
			is_active INTEGER NOT NULL DEFAULT 1,
			version INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS quests (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			role_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			xp_reward INTEGER NOT NULL,
			frequency TEXT NOT NULL DEFAULT 'daily',
			is_completed INTEGER NOT NULL DEFAULT 0,
			completed_at DATETIME,
			streak INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY(role_id) REFERENCES roles(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS objectives (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			role_id TEXT,
			title TEXT NOT NULL,
			description TEXT,
			quarter TEXT NOT NULL DEFAULT 'Q1',
			year INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			xp_reward INTEGER NOT NULL DEFAULT 0,
			deadline DATETIME,
			completed_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY(role_id) REFERENCES roles(id) ON DELETE SET NULL
		);`,
		`CREATE TABLE IF NOT EXISTS skills (
			id TEXT PRIMARY KEY,
			role_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			icon TEXT NOT NULL DEFAULT 'zap',
			cost_xp INTEGER NOT NULL DEFAULT 0,
			cost_money REAL,
			cost_time TEXT,
			is_unlocked INTEGER NOT NULL DEFAULT 0,
			is_available INTEGER NOT NULL DEFAULT 0,
			parent_skill_id TEXT,
			position_x INTEGER NOT NULL DEFAULT 0,
			position_y INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY(role_id) REFERENCES roles(id) ON DELETE CASCADE,
			FOREIGN KEY(parent_skill_id) REFERENCES skills(id)
		);`,
		// Append-only: the application never updates or deletes rows here.
		`CREATE TABLE IF NOT EXISTS xp_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			role_id TEXT,
			source_type TEXT NOT NULL,
			source_id TEXT NOT NULL,
			xp_amount INTEGER NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS quest_logs (
			id TEXT PRIMARY KEY,
			quest_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			completed_at DATETIME NOT NULL,
			xp_earned INTEGER NOT NULL,
			FOREIGN KEY(quest_id) REFERENCES quests(id) ON DELETE CASCADE,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS time_blocks (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			role_id TEXT,
			title TEXT NOT NULL,
			start_minute INTEGER NOT NULL,
			end_minute INTEGER NOT NULL,
			day_period TEXT NOT NULL DEFAULT 'morning',
			block_type TEXT NOT NULL DEFAULT 'focus',
			is_recurring INTEGER NOT NULL DEFAULT 0,
			days_of_week TEXT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS investments (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			objective_id TEXT,
			skill_id TEXT,
			title TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'money',
			amount REAL,
			estimated_time TEXT,
			url TEXT,
			status TEXT NOT NULL DEFAULT 'planned',
			created_at DATETIME NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY(objective_id) REFERENCES objectives(id) ON DELETE SET NULL,
			FOREIGN KEY(skill_id) REFERENCES skills(id) ON DELETE SET NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_roles_user_id ON roles(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_user_id ON quests(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_quests_role_id ON quests(role_id);`,
		`CREATE INDEX IF NOT EXISTS idx_objectives_user_id ON objectives(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_skills_role_id ON skills(role_id);`,
		`CREATE INDEX IF NOT EXISTS idx_skills_parent_skill_id ON skills(parent_skill_id);`,
		`CREATE INDEX IF NOT EXISTS idx_xp_logs_user_id_created_at ON xp_logs(user_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_time_blocks_user_id ON time_blocks(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_investments_user_id ON investments(user_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
