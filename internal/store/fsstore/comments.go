package fsstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slagdev/slag/internal/idgen"
	"github.com/slagdev/slag/internal/model"
	"github.com/slagdev/slag/internal/store"
)

// commentStore owns the per-comment record files. It is the authoritative
// collection; indexes and flags are derived or overlaid on top of it.
type commentStore struct {
	dir string
}

func (cs *commentStore) path(id string) string {
	return filepath.Join(cs.dir, id+".json")
}

// put writes the record for c, overwriting any previous version.
func (cs *commentStore) put(c *model.Comment) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return &store.WriteError{Op: "comment.encode", Key: c.ID, Err: err}
	}
	if err := writeFileAtomic(cs.path(c.ID), data); err != nil {
		return &store.WriteError{Op: "comment.put", Key: c.ID, Err: err}
	}
	return nil
}

func (cs *commentStore) get(id string) (*model.Comment, error) {
	data, err := os.ReadFile(cs.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("comment %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, &store.ReadError{Op: "comment.get", Key: id, Err: err}
	}
	var c model.Comment
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, &store.ReadError{Op: "comment.decode", Key: id, Err: err}
	}
	return &c, nil
}

// remove physically deletes the record. The public soft-delete path sets the
// deleted flag instead; this is for maintenance only.
func (cs *commentStore) remove(id string) error {
	err := os.Remove(cs.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("comment %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return &store.WriteError{Op: "comment.remove", Key: id, Err: err}
	}
	return nil
}

// walk streams every stored comment to fn in unspecified order. Temporary
// files and foreign names are skipped; a record that fails to decode aborts
// the walk with a ReadError.
func (cs *commentStore) walk(fn func(*model.Comment) error) error {
	entries, err := os.ReadDir(cs.dir)
	if err != nil {
		return &store.ReadError{Op: "comment.walk", Key: cs.dir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		id, ok := strings.CutSuffix(entry.Name(), ".json")
		if !ok {
			continue
		}
		if _, err := idgen.Normalize(id); err != nil {
			continue
		}
		c, err := cs.get(id)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}
