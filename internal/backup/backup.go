// Package backup pushes snapshot exports to off-host destinations on a
// schedule. Each run asks the store for a fresh snapshot, which also
// refreshes the snapshot.json in the data directory, then writes the
// encoded bytes to every configured destination.
package backup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/slagdev/slag/internal/metrics"
	"github.com/slagdev/slag/internal/store"
)

// Destination is the interface for a backup target (S3, git, etc.).
type Destination interface {
	// Write sends the encoded snapshot to the destination.
	Write(ctx context.Context, data []byte) error
}

// Scheduler runs periodic backups to one or more destinations.
type Scheduler struct {
	store        store.Store
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports snapshots from the store to
// the given destinations at the specified interval.
func NewScheduler(s store.Store, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic backups. It runs an initial backup immediately,
// then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current backup (if any) to
// finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	// Run once immediately at startup.
	s.backupOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.backupOnce(ctx)
		}
	}
}

func (s *Scheduler) backupOnce(ctx context.Context) {
	data, err := Export(ctx, s.store)
	metrics.ObserveSnapshot(len(data), err)
	if err != nil {
		s.logger.Error("backup export failed", "err", err)
		return
	}

	for i, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("backup destination write failed", "destination", fmt.Sprintf("%d", i), "err", err)
		}
	}

	s.logger.Info("backup completed", "destinations", len(s.destinations), "bytes", len(data))
}

// Export produces the encoded snapshot bytes pushed to destinations. Taking
// the snapshot also rewrites snapshot.json in the data directory.
func Export(ctx context.Context, s store.Store) ([]byte, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}
	data, err := snap.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}
