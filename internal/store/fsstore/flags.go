package fsstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/slagdev/slag/internal/idgen"
	"github.com/slagdev/slag/internal/model"
	"github.com/slagdev/slag/internal/store"
)

// flagStore owns the moderation overlay records, one per comment, with a
// lifecycle independent of the comment body. It exposes whole-record get/put
// only; merging partial updates is the facade's job, under a per-key lock.
type flagStore struct {
	dir string
}

func (fl *flagStore) path(id string) string {
	return filepath.Join(fl.dir, id+".json")
}

// get returns the flag record for id, or the all-false default when none has
// been written. Absence is not an error, and no record is fabricated.
func (fl *flagStore) get(id string) (*model.Flags, error) {
	data, err := os.ReadFile(fl.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return &model.Flags{}, nil
	}
	if err != nil {
		return nil, &store.ReadError{Op: "flags.get", Key: id, Err: err}
	}
	var f model.Flags
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &store.ReadError{Op: "flags.decode", Key: id, Err: err}
	}
	return &f, nil
}

// put creates or overwrites the flag record for id.
func (fl *flagStore) put(id string, f *model.Flags) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return &store.WriteError{Op: "flags.encode", Key: id, Err: err}
	}
	if err := writeFileAtomic(fl.path(id), data); err != nil {
		return &store.WriteError{Op: "flags.put", Key: id, Err: err}
	}
	return nil
}

// remove deletes the flag record. A record that never existed is not an
// error; purge paths call this unconditionally.
func (fl *flagStore) remove(id string) error {
	err := os.Remove(fl.path(id))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &store.WriteError{Op: "flags.remove", Key: id, Err: err}
	}
	return nil
}

// walk streams every materialized flag record to fn in unspecified order.
func (fl *flagStore) walk(fn func(id string, f model.Flags) error) error {
	entries, err := os.ReadDir(fl.dir)
	if err != nil {
		return &store.ReadError{Op: "flags.walk", Key: fl.dir, Err: err}
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
		f, err := fl.get(id)
		if err != nil {
			return err
		}
		if err := fn(id, *f); err != nil {
			return err
		}
	}
	return nil
}
