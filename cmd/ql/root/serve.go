package root

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"liferpg/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, cleanup, err := openSession(ctx, "")
			if err != nil {
				return err
			}
			defer cleanup()

			if addr != "" {
				s.cfg.HTTPAddr = addr
			}
			if !s.cfg.AuthEnabled() {
				s.log.Warn().Msg("LIFERPG_JWT_SECRET is empty, API requests act as the local user without auth")
			}

			srv := httpapi.NewServer(s.svc, s.log, s.cfg.JWTSecret).HTTPServer(s.cfg)
			errCh := make(chan error, 1)
			go func() {
				s.log.Info().Str("addr", srv.Addr).Str("db", s.cfg.DBPath).Msg("listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			s.log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides LIFERPG_HTTP_ADDR)")
	return cmd
}
