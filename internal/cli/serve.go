package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"logicquest/internal/app"
	"logicquest/internal/infra/postgres/migrations"
	transport "logicquest/internal/transport/http"
)

// NewServeCmd serves the leaderboard over HTTP and WebSocket.
func NewServeCmd(configPath, port *string) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the leaderboard feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port, interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "refresh", 2*time.Second, "how often the score record is re-read")
	return cmd
}

func runServer(ctx context.Context, configPath, portFlag string, interval time.Duration) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Postgres.URL != "" {
		if _, err := migrations.Apply(ctx, cfg.Postgres.URL); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	rt, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	feed := app.NewLeaderboardFeed(rt.deps.Scores)
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()
	go feed.Run(feedCtx, interval, func(err error) {
		log.Warn("refresh leaderboard", zap.Error(err))
	})

	handler := transport.NewLeaderboardHandler(feed, log)
	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting leaderboard feed", zap.String("port", finalPort), zap.String("storage", cfg.Storage.Backend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

