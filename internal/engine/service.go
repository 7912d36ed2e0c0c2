package engine

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"liferpg/internal/storage"
)

// Service is the boundary between callers (CLI, board, HTTP) and the progression
// rules. Each mutating call runs the engine and its ledger write in one transaction.
// It assumes one writer per entity; concurrent role writes surface as storage.ErrStaleWrite.
type Service struct {
	db        *sql.DB
	repos     *storage.Repos
	listeners []Listener
	now       func() time.Time
}

type Option func(*Service)

// WithListeners registers observers for the lifetime of the service.
func WithListeners(listeners ...Listener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, listeners...)
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:    db,
		repos: storage.NewRepos(db),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Repos() *storage.Repos { return s.repos }

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// MainUser returns the local user, creating it on first use.
func (s *Service) MainUser(ctx context.Context) (*storage.User, error) {
	return s.repos.Users.GetOrCreateMain(ctx, s.clock())
}

func (s *Service) GetUser(ctx context.Context, id string) (*storage.User, error) {
	u, err := s.repos.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NotFoundError{Entity: "user", ID: id}
	}
	return u, nil
}

func (s *Service) withTx(ctx context.Context, fn func(r *storage.Repos) error) error {
	return storage.WithTx(ctx, s.db, fn)
}

func normalizeTitle(field string, title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", ValidationError{Field: field, Reason: "is required"}
	}
	return t, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ownedRole loads a role and checks it belongs to userID. A foreign role reads as missing.
func ownedRole(ctx context.Context, r *storage.Repos, userID string, roleID string) (*storage.Role, error) {
	role, err := r.Roles.Get(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil || role.UserID != userID {
		return nil, NotFoundError{Entity: "role", ID: roleID}
	}
	return role, nil
}
