package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"healthdash/routes"
)

// planCheckInterval is how often stale plans are refreshed while serving, so a
// long-running server picks up the date change.
const planCheckInterval = 10 * time.Minute

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the local JSON API and realtime events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, cfg, log, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			defer app.Close()

			if cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           routes.SetupRouter(app, log),
				ReadHeaderTimeout: 10 * time.Second,
			}

			app.RefreshPlansAsync()
			go func() {
				t := time.NewTicker(planCheckInterval)
				defer t.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-t.C:
						app.RefreshPlansAsync()
					}
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", zap.String("addr", cfg.HTTPAddr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			app.Hub.Close()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
