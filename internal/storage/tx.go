package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repos can run inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repos bundles every repository bound to the same handle.
type Repos struct {
	Users       *UserRepo
	Roles       *RoleRepo
	Quests      *QuestRepo
	Objectives  *ObjectiveRepo
	Skills      *SkillRepo
	XPLog       *XPLogRepo
	QuestLog    *QuestLogRepo
	TimeBlocks  *TimeBlockRepo
	Investments *InvestmentRepo
}

func NewRepos(db DBTX) *Repos {
	return &Repos{
		Users:       NewUserRepo(db),
		Roles:       NewRoleRepo(db),
		Quests:      NewQuestRepo(db),
		Objectives:  NewObjectiveRepo(db),
		Skills:      NewSkillRepo(db),
		XPLog:       NewXPLogRepo(db),
		QuestLog:    NewQuestLogRepo(db),
		TimeBlocks:  NewTimeBlockRepo(db),
		Investments: NewInvestmentRepo(db),
	}
}

// WithTx runs fn inside a SQL transaction with repos bound to it.
// Any error from fn rolls the transaction back.
func WithTx(ctx context.Context, db *sql.DB, fn func(r *Repos) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(NewRepos(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
