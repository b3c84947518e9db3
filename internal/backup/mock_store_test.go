package backup

import (
	"context"
	"sync"
	"time"

	"github.com/slagdev/slag/internal/idgen"
	"github.com/slagdev/slag/internal/model"
	"github.com/slagdev/slag/internal/store"
)

// mockStore is a minimal in-memory store for backup tests.
type mockStore struct {
	mu       sync.Mutex
	comments map[string]*model.Comment
	flags    map[string]*model.Flags
	targets  map[string][]string
	replies  map[string][]string
}

var _ store.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{
		comments: make(map[string]*model.Comment),
		flags:    make(map[string]*model.Flags),
		targets:  make(map[string][]string),
		replies:  make(map[string][]string),
	}
}

func (m *mockStore) CreateComment(_ context.Context, req *model.NewComment) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := idgen.New()
	if err != nil {
		return nil, err
	}
	c := &model.Comment{
		ID:        id,
		Author:    req.Author,
		Published: time.Now().UTC(),
		Content:   req.Content,
		Target:    req.Target,
		Parent:    req.Parent,
	}
	if req.Parent != "" {
		if parent, ok := m.comments[req.Parent]; ok {
			c.Target = parent.Target
		}
		m.replies[req.Parent] = append(m.replies[req.Parent], id)
	} else {
		m.targets[req.Target] = append(m.targets[req.Target], id)
	}
	m.comments[id] = c
	return c, nil
}

func (m *mockStore) GetComment(_ context.Context, id string) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (m *mockStore) UpdateComment(_ context.Context, id, content string) (*model.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Content = content
	return c, nil
}

func (m *mockStore) PurgeComment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.comments, id)
	delete(m.flags, id)
	return nil
}

func (m *mockStore) GetFlags(_ context.Context, id string) (*model.Flags, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.flags[id]; ok {
		cp := *f
		return &cp, nil
	}
	return &model.Flags{}, nil
}

func (m *mockStore) UpdateFlags(_ context.Context, id string, patch model.FlagsPatch) (*model.Flags, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.flags[id]
	if !ok {
		f = &model.Flags{}
		m.flags[id] = f
	}
	patch.Apply(f)
	cp := *f
	return &cp, nil
}

func (m *mockStore) ListTopLevel(_ context.Context, target string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.targets[target]...), nil
}

func (m *mockStore) ListReplies(_ context.Context, parent string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.replies[parent]...), nil
}

func (m *mockStore) Rebuild(_ context.Context) (*model.RebuildReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &model.RebuildReport{
		CommentsScanned:   len(m.comments),
		TargetsDiscovered: len(m.targets),
	}, nil
}

func (m *mockStore) Snapshot(_ context.Context) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := model.NewSnapshot()
	for target, ids := range m.targets {
		snap.Targets[target] = append([]string{}, ids...)
	}
	for parent, ids := range m.replies {
		snap.Replies[parent] = append([]string{}, ids...)
	}
	for id, f := range m.flags {
		snap.Flags[id] = *f
	}
	return snap, nil
}

func (m *mockStore) Close() error {
	return nil
}
