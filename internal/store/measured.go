package store

import (
	"context"
	"time"

	"github.com/slagdev/slag/internal/metrics"
	"github.com/slagdev/slag/internal/model"
)

// Measured wraps a Store and records a Prometheus counter and duration
// histogram per operation. It adds no behavior beyond instrumentation.
type Measured struct {
	inner Store
}

var _ Store = (*Measured)(nil)

// NewMeasured instruments s with storage operation metrics.
func NewMeasured(s Store) *Measured {
	return &Measured{inner: s}
}

func (m *Measured) CreateComment(ctx context.Context, req *model.NewComment) (*model.Comment, error) {
	start := time.Now()
	c, err := m.inner.CreateComment(ctx, req)
	metrics.ObserveStorageOperation("comment.create", start, err)
	return c, err
}

func (m *Measured) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	start := time.Now()
	c, err := m.inner.GetComment(ctx, id)
	metrics.ObserveStorageOperation("comment.get", start, err)
	return c, err
}

func (m *Measured) UpdateComment(ctx context.Context, id, content string) (*model.Comment, error) {
	start := time.Now()
	c, err := m.inner.UpdateComment(ctx, id, content)
	metrics.ObserveStorageOperation("comment.update", start, err)
	return c, err
}

func (m *Measured) PurgeComment(ctx context.Context, id string) error {
	start := time.Now()
	err := m.inner.PurgeComment(ctx, id)
	metrics.ObserveStorageOperation("comment.purge", start, err)
	return err
}

func (m *Measured) GetFlags(ctx context.Context, id string) (*model.Flags, error) {
	start := time.Now()
	f, err := m.inner.GetFlags(ctx, id)
	metrics.ObserveStorageOperation("flags.get", start, err)
	return f, err
}

func (m *Measured) UpdateFlags(ctx context.Context, id string, patch model.FlagsPatch) (*model.Flags, error) {
	start := time.Now()
	f, err := m.inner.UpdateFlags(ctx, id, patch)
	metrics.ObserveStorageOperation("flags.update", start, err)
	return f, err
}

func (m *Measured) ListTopLevel(ctx context.Context, target string) ([]string, error) {
	start := time.Now()
	ids, err := m.inner.ListTopLevel(ctx, target)
	metrics.ObserveStorageOperation("index.list_top_level", start, err)
	return ids, err
}

func (m *Measured) ListReplies(ctx context.Context, parent string) ([]string, error) {
	start := time.Now()
	ids, err := m.inner.ListReplies(ctx, parent)
	metrics.ObserveStorageOperation("index.list_replies", start, err)
	return ids, err
}

func (m *Measured) Rebuild(ctx context.Context) (*model.RebuildReport, error) {
	start := time.Now()
	report, err := m.inner.Rebuild(ctx)
	orphans := 0
	if report != nil {
		orphans = report.OrphansFound
	}
	metrics.ObserveRebuild(start, orphans, err)
	return report, err
}

func (m *Measured) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	start := time.Now()
	snap, err := m.inner.Snapshot(ctx)
	metrics.ObserveStorageOperation("snapshot.export", start, err)
	return snap, err
}

func (m *Measured) Close() error {
	return m.inner.Close()
}
