package fsstore

import (
	"context"
	"sort"
	"time"

	"github.com/slagdev/slag/internal/idgen"
	"github.com/slagdev/slag/internal/model"
)

// rebuild reconstructs the entire index from the authoritative comment
// records. A comment whose parent no longer resolves is promoted to
// top-level under its stated target and reported as an orphan rather than
// dropped. Every list is sorted by ULID ascending, which restores
// chronological order regardless of the unordered directory scan. The scan
// runs without the index lock; only the final swap is exclusive.
func (s *FSStore) rebuild(ctx context.Context) (*model.RebuildReport, error) {
	start := time.Now()

	type record struct {
		id     string
		target string
		parent string
	}
	var all []record
	err := s.comments.walk(func(c *model.Comment) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		all = append(all, record{id: c.ID, target: c.Target, parent: c.Parent})
		return nil
	})
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(all))
	for _, r := range all {
		known[r.id] = struct{}{}
	}

	state := &indexState{
		targets: make(map[string][]string),
		replies: make(map[string][]string),
	}
	orphans := []string{}
	for _, r := range all {
		if r.parent == "" {
			state.targets[r.target] = append(state.targets[r.target], r.id)
			continue
		}
		parent, err := idgen.Normalize(r.parent)
		if err == nil {
			if _, ok := known[parent]; ok {
				state.replies[parent] = append(state.replies[parent], r.id)
				continue
			}
		}
		// Dangling parent reference.
		state.targets[r.target] = append(state.targets[r.target], r.id)
		orphans = append(orphans, r.id)
	}

	repliesIndexed := 0
	for _, ids := range state.replies {
		sort.Strings(ids)
		repliesIndexed += len(ids)
	}
	for _, ids := range state.targets {
		sort.Strings(ids)
	}
	sort.Strings(orphans)

	if err := s.index.replaceAll(state); err != nil {
		return nil, err
	}

	report := &model.RebuildReport{
		CommentsScanned:   len(all),
		TargetsDiscovered: len(state.targets),
		RepliesIndexed:    repliesIndexed,
		OrphansFound:      len(orphans),
		DurationMS:        time.Since(start).Milliseconds(),
	}
	if len(orphans) > 0 {
		report.OrphanIDs = orphans
	}
	return report, nil
}
