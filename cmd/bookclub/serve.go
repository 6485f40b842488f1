package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/bookclub/internal/server"
)

const cleanupInterval = time.Hour

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port, _ = cmd.Flags().GetString("port")
			}
			return a.serve()
		},
	}
	cmd.Flags().String("port", "", "listen port (overrides BOOKCLUB_PORT)")
	return cmd
}

func (a *app) serve() error {
	db, err := a.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	srv := server.New(db, *a.cfg, nil, a.logger)

	httpServer := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: a.cfg.ReadTimeout,
		ReadTimeout:       a.cfg.ReadTimeout,
		WriteTimeout:      a.cfg.WriteTimeout,
		IdleTimeout:       a.cfg.IdleTimeout,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.Service().PruneSessions(cleanupCtx); err != nil {
					a.logger.Error("cleanup expired sessions", "error", err)
				} else if n > 0 {
					a.logger.Info("cleaned up expired sessions", "count", n)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("bookclub starting", "addr", httpServer.Addr, "db", a.cfg.DBPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	a.logger.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(ctx)
}
