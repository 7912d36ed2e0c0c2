package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"liferpg/internal/engine"
)

// New builds a logger. Development gets console output, everything else JSON.
// An unknown level falls back to info.
func New(env string, level string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
			Level(lvl).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// EventLogger reports engine events. Level-ups go out at info, the rest at debug.
func EventLogger(log zerolog.Logger) engine.Listener {
	return engine.ListenerFunc(func(e engine.Event) {
		ev := log.Debug()
		if e.Kind == engine.EventLevelUp {
			ev = log.Info()
		}
		ev.
			Str("event", string(e.Kind)).
			Str("user_id", e.UserID).
			Str("role_id", e.RoleID).
			Str("source_id", e.SourceID).
			Int("xp", e.XP).
			Int("level", e.Level).
			Time("at", e.At).
			Msg("progression")
	})
}
