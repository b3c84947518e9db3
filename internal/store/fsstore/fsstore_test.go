package fsstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/slagdev/slag/internal/model"
	"github.com/slagdev/slag/internal/store"
)

func newTestStore(t *testing.T) *FSStore {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreate(t *testing.T, s *FSStore, req *model.NewComment) *model.Comment {
	t.Helper()
	c, err := s.CreateComment(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateComment: %v", err)
	}
	return c
}

func TestCreateComment_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := mustCreate(t, s, &model.NewComment{
		Target:  "https://example.com/posts/42",
		Author:  "https://example.com/users/alice",
		Content: "First!",
	})
	if len(created.ID) != 26 {
		t.Errorf("ID length = %d, want 26 (id=%q)", len(created.ID), created.ID)
	}
	if created.Published.IsZero() {
		t.Error("Published not set")
	}

	got, err := s.GetComment(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}
	if got.ID != created.ID || got.Author != created.Author ||
		got.Content != created.Content || got.Target != created.Target ||
		got.Parent != created.Parent {
		t.Errorf("round-trip mismatch:\ngot  %+v\nwant %+v", got, created)
	}
	if !got.Published.Equal(created.Published) {
		t.Errorf("Published = %v, want %v", got.Published, created.Published)
	}
}

func TestCreateComment_Validation(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateComment(context.Background(), &model.NewComment{
		Target: "https://example.com/posts/42",
		Author: "https://example.com/users/alice",
	})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *model.ValidationError for empty content, got %v", err)
	}
}

func TestListTopLevelAndReplies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c1 := mustCreate(t, s, &model.NewComment{
		Target: "T", Author: "alice", Content: "top-level",
	})

	top, err := s.ListTopLevel(ctx, "T")
	if err != nil {
		t.Fatalf("ListTopLevel: %v", err)
	}
	if len(top) != 1 || top[0] != c1.ID {
		t.Fatalf("ListTopLevel = %v, want [%s]", top, c1.ID)
	}

	c2 := mustCreate(t, s, &model.NewComment{
		Author: "bob", Content: "a reply", Parent: c1.ID,
	})

	replies, err := s.ListReplies(ctx, c1.ID)
	if err != nil {
		t.Fatalf("ListReplies: %v", err)
	}
	if len(replies) != 1 || replies[0] != c2.ID {
		t.Fatalf("ListReplies = %v, want [%s]", replies, c2.ID)
	}

	top, err = s.ListTopLevel(ctx, "T")
	if err != nil {
		t.Fatalf("ListTopLevel: %v", err)
	}
	if len(top) != 1 || top[0] != c1.ID {
		t.Errorf("reply leaked into top-level list: %v", top)
	}
}

func TestCreateReply_InheritsParentTarget(t *testing.T) {
	s := newTestStore(t)
	parent := mustCreate(t, s, &model.NewComment{
		Target: "https://example.com/posts/42", Author: "alice", Content: "parent",
	})

	reply := mustCreate(t, s, &model.NewComment{
		Author: "bob", Content: "child", Parent: parent.ID,
	})
	if reply.Target != parent.Target {
		t.Errorf("reply target = %q, want %q", reply.Target, parent.Target)
	}
}

func TestCreateReply_TargetMismatch(t *testing.T) {
	s := newTestStore(t)
	parent := mustCreate(t, s, &model.NewComment{
		Target: "T1", Author: "alice", Content: "parent",
	})

	_, err := s.CreateComment(context.Background(), &model.NewComment{
		Target: "T2", Author: "bob", Content: "child", Parent: parent.ID,
	})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *model.ValidationError for target mismatch, got %v", err)
	}
}

func TestCreateReply_MissingParentDoesNotMutate(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateComment(context.Background(), &model.NewComment{
		Target:  "T",
		Author:  "bob",
		Content: "reply to nobody",
		Parent:  "01J8ZQ34YCN5M2V1T6RH8K9XWD",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing parent, got %v", err)
	}

	for _, dir := range []string{s.comments.dir, s.index.targetsDir, s.index.repliesDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("ReadDir(%s): %v", dir, err)
		}
		if len(entries) != 0 {
			t.Errorf("%s mutated by failed create: %d entries", dir, len(entries))
		}
	}
}

func TestCreateReply_MalformedParent(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateComment(context.Background(), &model.NewComment{
		Target: "T", Author: "bob", Content: "hi", Parent: "not-a-ulid",
	})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *model.ValidationError for malformed parent, got %v", err)
	}
}

func TestGetComment_NotFound(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"01J8ZQ34YCN5M2V1T6RH8K9XWD", "bogus"} {
		_, err := s.GetComment(context.Background(), id)
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("GetComment(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestGetComment_CaseInsensitiveID(t *testing.T) {
	s := newTestStore(t)
	c := mustCreate(t, s, &model.NewComment{Target: "T", Author: "a", Content: "x"})

	lower := make([]byte, len(c.ID))
	for i := range c.ID {
		ch := c.ID[i]
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		lower[i] = ch
	}
	got, err := s.GetComment(context.Background(), string(lower))
	if err != nil {
		t.Fatalf("GetComment(lowercase): %v", err)
	}
	if got.ID != c.ID {
		t.Errorf("got ID %q, want %q", got.ID, c.ID)
	}
}

func TestUpdateComment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, &model.NewComment{Target: "T", Author: "a", Content: "before"})

	updated, err := s.UpdateComment(ctx, c.ID, "after")
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if updated.Content != "after" {
		t.Errorf("Content = %q, want %q", updated.Content, "after")
	}
	if updated.ID != c.ID || updated.Target != c.Target {
		t.Error("update changed identity or target")
	}

	got, err := s.GetComment(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetComment: %v", err)
	}
	if got.Content != "after" {
		t.Errorf("persisted Content = %q, want %q", got.Content, "after")
	}
}

func TestUpdateComment_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.UpdateComment(context.Background(), "01J8ZQ34YCN5M2V1T6RH8K9XWD", "new")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateComment_EmptyContent(t *testing.T) {
	s := newTestStore(t)
	c := mustCreate(t, s, &model.NewComment{Target: "T", Author: "a", Content: "x"})

	_, err := s.UpdateComment(context.Background(), c.ID, "   ")
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *model.ValidationError, got %v", err)
	}
}

func TestFlags_LazyCreation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, &model.NewComment{Target: "T", Author: "a", Content: "x"})

	// No record is fabricated by a read.
	f, err := s.GetFlags(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetFlags: %v", err)
	}
	if *f != (model.Flags{}) {
		t.Errorf("default flags = %+v, want all false", f)
	}
	if _, err := os.Stat(filepath.Join(s.flags.dir, c.ID+".json")); !errors.Is(err, os.ErrNotExist) {
		t.Error("flag record fabricated by a read")
	}

	tr := true
	f, err = s.UpdateFlags(ctx, c.ID, model.FlagsPatch{Reported: &tr})
	if err != nil {
		t.Fatalf("UpdateFlags: %v", err)
	}
	want := model.Flags{Reported: true}
	if *f != want {
		t.Errorf("UpdateFlags = %+v, want %+v", f, want)
	}

	f, err = s.GetFlags(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetFlags: %v", err)
	}
	if *f != want {
		t.Errorf("GetFlags after update = %+v, want %+v", f, want)
	}
}

func TestFlags_EmptyPatchWritesNothing(t *testing.T) {
	s := newTestStore(t)
	c := mustCreate(t, s, &model.NewComment{Target: "T", Author: "a", Content: "x"})

	if _, err := s.UpdateFlags(context.Background(), c.ID, model.FlagsPatch{}); err != nil {
		t.Fatalf("UpdateFlags: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.flags.dir, c.ID+".json")); !errors.Is(err, os.ErrNotExist) {
		t.Error("empty patch materialized a flag record")
	}
}

func TestSoftDelete_ExcludedFromListings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c1 := mustCreate(t, s, &model.NewComment{Target: "T", Author: "a", Content: "one"})
	c2 := mustCreate(t, s, &model.NewComment{Target: "T", Author: "b", Content: "two"})

	tr := true
	if _, err := s.UpdateFlags(ctx, c1.ID, model.FlagsPatch{Deleted: &tr}); err != nil {
		t.Fatalf("UpdateFlags: %v", err)
	}

	top, err := s.ListTopLevel(ctx, "T")
	if err != nil {
		t.Fatalf("ListTopLevel: %v", err)
	}
	if len(top) != 1 || top[0] != c2.ID {
		t.Errorf("ListTopLevel = %v, want [%s]", top, c2.ID)
	}

	// The record itself is retained and still addressable.
	if _, err := s.GetComment(ctx, c1.ID); err != nil {
		t.Errorf("soft-deleted comment no longer addressable: %v", err)
	}
}

func TestPurgeComment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := mustCreate(t, s, &model.NewComment{Target: "T", Author: "a", Content: "x"})
	tr := true
	if _, err := s.UpdateFlags(ctx, c.ID, model.FlagsPatch{Hidden: &tr}); err != nil {
		t.Fatalf("UpdateFlags: %v", err)
	}

	if err := s.PurgeComment(ctx, c.ID); err != nil {
		t.Fatalf("PurgeComment: %v", err)
	}
	if _, err := s.GetComment(ctx, c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("purged comment still readable, err = %v", err)
	}
	f, err := s.GetFlags(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetFlags after purge: %v", err)
	}
	if *f != (model.Flags{}) {
		t.Errorf("flags survived purge: %+v", f)
	}
}

func TestPurgeComment_NotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.PurgeComment(context.Background(), "01J8ZQ34YCN5M2V1T6RH8K9XWD")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentCreates_NoLostAppends(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const (
		goroutines = 8
		perGo      = 10
	)
	var wg sync.WaitGroup
	errs := make(chan error, goroutines*perGo)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGo; i++ {
				_, err := s.CreateComment(ctx, &model.NewComment{
					Target: "T", Author: "a", Content: "c",
				})
				if err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent CreateComment: %v", err)
	}

	top, err := s.ListTopLevel(ctx, "T")
	if err != nil {
		t.Fatalf("ListTopLevel: %v", err)
	}
	if len(top) != goroutines*perGo {
		t.Errorf("ListTopLevel has %d entries, want %d (lost appends)", len(top), goroutines*perGo)
	}
	seen := make(map[string]struct{}, len(top))
	for _, id := range top {
		if _, dup := seen[id]; dup {
			t.Errorf("duplicate ID in index: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestOpen_SweepsStaleStaging(t *testing.T) {
	dir := t.TempDir()
	for _, leftover := range []string{".staging-targets-abc123", "targets.old"} {
		if err := os.MkdirAll(filepath.Join(dir, leftover), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	if _, err := Open(dir); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, leftover := range []string{".staging-targets-abc123", "targets.old"} {
		if _, err := os.Stat(filepath.Join(dir, leftover)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("stale directory %s not swept", leftover)
		}
	}
}
