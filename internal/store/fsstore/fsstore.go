// Package fsstore implements the store.Store interface on the local
// filesystem. Every record is a JSON file and the directory layout is the
// database; there is no other persistence layer.
package fsstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/slagdev/slag/internal/idgen"
	"github.com/slagdev/slag/internal/model"
	"github.com/slagdev/slag/internal/store"
)

// FSStore implements store.Store backed by a directory tree:
//
//	<dir>/comments/<ULID>.json   comment records (authoritative)
//	<dir>/flags/<ULID>.json      moderation overlay records
//	<dir>/targets/<sha256>.json  per-target top-level lists (derived)
//	<dir>/replies/<ULID>.json    per-parent reply lists (derived)
//	<dir>/snapshot.json          last exported snapshot
type FSStore struct {
	dir      string
	comments *commentStore
	flags    *flagStore
	index    *targetIndex
	keys     keyedMutex // serializes flag read-modify-write per comment
}

// Compile-time check that FSStore implements store.Store.
var _ store.Store = (*FSStore)(nil)

// Open prepares the directory tree under dir and returns a store over it.
// Staging directories left behind by an interrupted rebuild are swept.
func Open(dir string) (*FSStore, error) {
	s := &FSStore{
		dir:      dir,
		comments: &commentStore{dir: filepath.Join(dir, "comments")},
		flags:    &flagStore{dir: filepath.Join(dir, "flags")},
		index: &targetIndex{
			baseDir:    dir,
			targetsDir: filepath.Join(dir, "targets"),
			repliesDir: filepath.Join(dir, "replies"),
		},
	}
	for _, d := range []string{s.comments.dir, s.flags.dir, s.index.targetsDir, s.index.repliesDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", d, err)
		}
	}
	if err := s.sweepStaging(); err != nil {
		return nil, err
	}
	return s, nil
}

// sweepStaging removes staging and displaced index directories from a crash
// mid-rebuild. Safe at startup only: nothing else runs against the tree yet.
func (s *FSStore) sweepStaging() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", s.dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".staging-") || strings.HasSuffix(name, ".old") {
			if err := os.RemoveAll(filepath.Join(s.dir, name)); err != nil {
				return fmt.Errorf("sweep %s: %w", name, err)
			}
		}
	}
	return nil
}

// CreateComment validates the request, resolves the parent if any, then
// writes the body and appends to the index. The body write comes first and
// is durable on success; the index append is best-effort. If the append
// fails the comment survives as an orphan until the next rebuild, a
// deliberate trade of index consistency for never losing content.
func (s *FSStore) CreateComment(ctx context.Context, req *model.NewComment) (*model.Comment, error) {
	if err := model.ValidateNewComment(req); err != nil {
		return nil, err
	}

	target := req.Target
	parent := ""
	if req.Parent != "" {
		p, err := idgen.Normalize(req.Parent)
		if err != nil {
			return nil, &model.ValidationError{Errors: []model.FieldError{
				{Field: "parent", Message: "must be a valid comment ID"},
			}}
		}
		// The parent must resolve before anything is written.
		pc, err := s.comments.get(p)
		if err != nil {
			return nil, err
		}
		if target != "" && target != pc.Target {
			return nil, &model.ValidationError{Errors: []model.FieldError{
				{Field: "target", Message: "must match the parent's target"},
			}}
		}
		target = pc.Target
		parent = p
	}

	id, err := idgen.New()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}
	c := &model.Comment{
		ID:        id,
		Author:    req.Author,
		Published: time.Now().UTC(),
		Content:   req.Content,
		Target:    target,
		Parent:    parent,
	}
	if err := s.comments.put(c); err != nil {
		return nil, err
	}
	if parent != "" {
		err = s.index.appendReply(parent, id)
	} else {
		err = s.index.appendTopLevel(target, id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *FSStore) GetComment(ctx context.Context, id string) (*model.Comment, error) {
	nid, err := idgen.Normalize(id)
	if err != nil {
		return nil, fmt.Errorf("comment %q: %w", id, store.ErrNotFound)
	}
	return s.comments.get(nid)
}

// UpdateComment replaces the comment body. Concurrent updates to the same
// comment are last-write-wins; each write publishes a whole record, so no
// reader sees a torn one.
func (s *FSStore) UpdateComment(ctx context.Context, id, content string) (*model.Comment, error) {
	if err := model.ValidateContent(content); err != nil {
		return nil, err
	}
	nid, err := idgen.Normalize(id)
	if err != nil {
		return nil, fmt.Errorf("comment %q: %w", id, store.ErrNotFound)
	}
	c, err := s.comments.get(nid)
	if err != nil {
		return nil, err
	}
	c.Content = content
	if err := s.comments.put(c); err != nil {
		return nil, err
	}
	return c, nil
}

// PurgeComment physically removes the comment record and its flag record.
// Index entries pointing at the purged ID remain until the next rebuild.
func (s *FSStore) PurgeComment(ctx context.Context, id string) error {
	nid, err := idgen.Normalize(id)
	if err != nil {
		return fmt.Errorf("comment %q: %w", id, store.ErrNotFound)
	}
	if err := s.comments.remove(nid); err != nil {
		return err
	}
	return s.flags.remove(nid)
}

func (s *FSStore) GetFlags(ctx context.Context, id string) (*model.Flags, error) {
	nid, err := idgen.Normalize(id)
	if err != nil {
		return nil, fmt.Errorf("comment %q: %w", id, store.ErrNotFound)
	}
	return s.flags.get(nid)
}

// UpdateFlags merges the patch into the current flag record under a per-key
// lock, creating the record on first moderation action. An empty patch
// writes nothing, so reads-disguised-as-updates never materialize a record.
func (s *FSStore) UpdateFlags(ctx context.Context, id string, patch model.FlagsPatch) (*model.Flags, error) {
	nid, err := idgen.Normalize(id)
	if err != nil {
		return nil, fmt.Errorf("comment %q: %w", id, store.ErrNotFound)
	}
	defer s.keys.lock(nid).Unlock()

	f, err := s.flags.get(nid)
	if err != nil {
		return nil, err
	}
	if patch.IsZero() {
		return f, nil
	}
	patch.Apply(f)
	if err := s.flags.put(nid, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FSStore) ListTopLevel(ctx context.Context, target string) ([]string, error) {
	ids, err := s.index.listTopLevel(target)
	if err != nil {
		return nil, err
	}
	return s.filterDeleted(ids)
}

func (s *FSStore) ListReplies(ctx context.Context, parent string) ([]string, error) {
	nid, err := idgen.Normalize(parent)
	if err != nil {
		return []string{}, nil // a malformed parent has no replies
	}
	ids, err := s.index.listReplies(nid)
	if err != nil {
		return nil, err
	}
	return s.filterDeleted(ids)
}

// filterDeleted drops IDs whose deleted flag is set. Hidden and moderated
// comments stay listed; interpreting those flags is the consumer's concern.
func (s *FSStore) filterDeleted(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		f, err := s.flags.get(id)
		if err != nil {
			return nil, err
		}
		if f.Deleted {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func (s *FSStore) Rebuild(ctx context.Context) (*model.RebuildReport, error) {
	return s.rebuild(ctx)
}

func (s *FSStore) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	return s.export(ctx)
}

// Close is a no-op; the store holds no open handles between operations.
func (s *FSStore) Close() error {
	return nil
}
