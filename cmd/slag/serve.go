package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/slagdev/slag/internal/backup"
	"github.com/slagdev/slag/internal/config"
	"github.com/slagdev/slag/internal/events"
	"github.com/slagdev/slag/internal/server"
	"github.com/slagdev/slag/internal/store"
	"github.com/slagdev/slag/internal/store/fsstore"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the slag HTTP server",
	GroupID: "system",
	// Override PersistentPreRunE so we don't create an HTTP client connection.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		// Pick up SLAG_* settings from a .env file when one exists.
		if err := godotenv.Load(); err == nil {
			logger.Info("loaded environment from .env")
		}

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Open the comment store.
		fs, err := fsstore.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		st := store.NewMeasured(fs)

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				st.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (SLAG_NATS_URL not set)")
		}

		// Create server components.
		commentsServer := server.NewCommentsServer(st, publisher, cfg.BaseURL)

		// Start HTTP server.
		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: commentsServer.NewHTTPHandler(),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start snapshot backup scheduler if any destinations are configured.
		var scheduler *backup.Scheduler
		if cfg.SnapshotInterval > 0 {
			var dests []backup.Destination

			if cfg.SnapshotS3Bucket != "" {
				s3Dest, err := backup.NewS3Destination(
					context.Background(),
					cfg.SnapshotS3Bucket,
					cfg.SnapshotS3Key,
					cfg.SnapshotS3Region,
					cfg.SnapshotS3Endpoint,
				)
				if err != nil {
					logger.Error("failed to create S3 backup destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("backup S3 destination enabled", "bucket", cfg.SnapshotS3Bucket, "key", cfg.SnapshotS3Key)
				}
			}

			if cfg.SnapshotGitRepo != "" {
				gitDest := backup.NewGitDestination(cfg.SnapshotGitRepo, cfg.SnapshotGitFile, cfg.SnapshotGitBranch)
				dests = append(dests, gitDest)
				logger.Info("backup git destination enabled", "repo", cfg.SnapshotGitRepo, "file", cfg.SnapshotGitFile)
			}

			if len(dests) > 0 {
				scheduler = backup.NewScheduler(st, dests, cfg.SnapshotInterval, logger)
				scheduler.Start()
				logger.Info("backup scheduler started", "interval", cfg.SnapshotInterval)
			}
		}

		// Log startup info.
		logger.Info("slag server started",
			"http_addr", cfg.HTTPAddr,
			"data_dir", cfg.DataDir,
		)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		// Graceful shutdown.
		if scheduler != nil {
			scheduler.Stop()
			logger.Info("backup scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := st.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
