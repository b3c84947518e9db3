package fsstore

import (
	"context"
	"path/filepath"

	"github.com/slagdev/slag/internal/model"
	"github.com/slagdev/slag/internal/store"
)

// snapshotFile is the name of the persisted snapshot inside the data
// directory.
const snapshotFile = "snapshot.json"

// export assembles the consolidated snapshot: every target list, every reply
// list, and every materialized flag record. Comment bodies stay out; they
// remain addressable by ULID. The document is written to disk with the same
// atomic-publish discipline as comment records and also returned to the
// caller. Exporting identical state twice yields byte-identical files.
func (s *FSStore) export(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	targets, replies, err := s.index.exportState()
	if err != nil {
		return nil, err
	}

	snap := model.NewSnapshot()
	for target, ids := range targets {
		snap.Targets[target] = ids
	}
	for parent, ids := range replies {
		snap.Replies[parent] = ids
	}
	err = s.flags.walk(func(id string, f model.Flags) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap.Flags[id] = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	data, err := snap.Encode()
	if err != nil {
		return nil, &store.WriteError{Op: "snapshot.encode", Key: snapshotFile, Err: err}
	}
	path := filepath.Join(s.dir, snapshotFile)
	if err := writeFileAtomic(path, data); err != nil {
		return nil, &store.WriteError{Op: "snapshot.put", Key: path, Err: err}
	}
	return snap, nil
}
