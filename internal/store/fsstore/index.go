package fsstore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/slagdev/slag/internal/store"
)

// targetList is the on-disk form of one target's ordered top-level list.
type targetList struct {
	Target   string   `json:"target"`
	Comments []string `json:"comments"`
}

// replyList is the on-disk form of one parent's ordered reply list.
type replyList struct {
	Parent   string   `json:"parent"`
	Comments []string `json:"comments"`
}

// targetKey derives the index file name for a target. Targets are opaque
// strings (URIs, UUIDs) and cannot be used as file names directly.
func targetKey(target string) string {
	sum := sha256.Sum256([]byte(target))
	return hex.EncodeToString(sum[:])
}

// targetIndex maintains the derived listing files. Appends are
// read-modify-write cycles serialized per key by a striped lock table;
// replaceAll swaps the whole structure under the exclusive lock, held for
// the swap only, so readers see fully-old or fully-new state and never a
// mix. The index is a cache over the comment records, not a source of
// truth; rebuild regenerates it wholesale.
type targetIndex struct {
	baseDir    string // parent of the two index directories; staging lives here
	targetsDir string
	repliesDir string

	mu   sync.RWMutex // appends and reads hold R; swap and export hold W
	keys keyedMutex
}

func (ix *targetIndex) targetPath(target string) string {
	return filepath.Join(ix.targetsDir, targetKey(target)+".json")
}

func (ix *targetIndex) replyPath(parent string) string {
	return filepath.Join(ix.repliesDir, parent+".json")
}

// appendTopLevel appends id to the end of target's ordered list, creating
// the list if absent.
func (ix *targetIndex) appendTopLevel(target, id string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	defer ix.keys.lock("t:" + target).Unlock()

	list, err := ix.readTargetList(target)
	if err != nil {
		return err
	}
	list.Comments = append(list.Comments, id)
	return ix.writeList(ix.targetPath(target), "index.targets.put", target, list)
}

// appendReply appends child to the end of parent's ordered reply list,
// creating the list if absent.
func (ix *targetIndex) appendReply(parent, child string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	defer ix.keys.lock("r:" + parent).Unlock()

	list, err := ix.readReplyList(parent)
	if err != nil {
		return err
	}
	list.Comments = append(list.Comments, child)
	return ix.writeList(ix.replyPath(parent), "index.replies.put", parent, list)
}

// listTopLevel returns target's ordered list. An unknown target yields an
// empty list, not an error.
func (ix *targetIndex) listTopLevel(target string) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	list, err := ix.readTargetList(target)
	if err != nil {
		return nil, err
	}
	return list.Comments, nil
}

// listReplies returns parent's ordered reply list, empty if it has none.
func (ix *targetIndex) listReplies(parent string) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	list, err := ix.readReplyList(parent)
	if err != nil {
		return nil, err
	}
	return list.Comments, nil
}

func (ix *targetIndex) readTargetList(target string) (*targetList, error) {
	list := &targetList{Target: target, Comments: []string{}}
	data, err := os.ReadFile(ix.targetPath(target))
	if errors.Is(err, os.ErrNotExist) {
		return list, nil
	}
	if err != nil {
		return nil, &store.ReadError{Op: "index.targets.get", Key: target, Err: err}
	}
	if err := json.Unmarshal(data, list); err != nil {
		return nil, &store.ReadError{Op: "index.targets.decode", Key: target, Err: err}
	}
	return list, nil
}

func (ix *targetIndex) readReplyList(parent string) (*replyList, error) {
	list := &replyList{Parent: parent, Comments: []string{}}
	data, err := os.ReadFile(ix.replyPath(parent))
	if errors.Is(err, os.ErrNotExist) {
		return list, nil
	}
	if err != nil {
		return nil, &store.ReadError{Op: "index.replies.get", Key: parent, Err: err}
	}
	if err := json.Unmarshal(data, list); err != nil {
		return nil, &store.ReadError{Op: "index.replies.decode", Key: parent, Err: err}
	}
	return list, nil
}

func (ix *targetIndex) writeList(path, op, key string, list any) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return &store.WriteError{Op: op, Key: key, Err: err}
	}
	if err := writeFileAtomic(path, data); err != nil {
		return &store.WriteError{Op: op, Key: key, Err: err}
	}
	return nil
}

// indexState is a fully materialized index, produced by a rebuild.
type indexState struct {
	targets map[string][]string // target → ordered top-level ULIDs
	replies map[string][]string // parent ULID → ordered child ULIDs
}

// replaceAll swaps in state as the entire index. The new structure is staged
// without any lock held; only the directory swap runs under the exclusive
// lock, so a slow rebuild never stalls readers for its scan phase.
func (ix *targetIndex) replaceAll(state *indexState) error {
	stagedTargets, err := ix.stageTargets(state.targets)
	if err != nil {
		return err
	}
	stagedReplies, err := ix.stageReplies(state.replies)
	if err != nil {
		os.RemoveAll(stagedTargets)
		return err
	}

	ix.mu.Lock()
	oldTargets, err := swapDir(ix.targetsDir, stagedTargets)
	if err != nil {
		ix.mu.Unlock()
		os.RemoveAll(stagedTargets)
		os.RemoveAll(stagedReplies)
		return &store.WriteError{Op: "index.swap", Key: ix.targetsDir, Err: err}
	}
	oldReplies, err := swapDir(ix.repliesDir, stagedReplies)
	if err != nil {
		// Best-effort restore of the previous targets dir so the two halves
		// of the index stay aligned.
		_ = os.Rename(ix.targetsDir, stagedTargets)
		_ = os.Rename(oldTargets, ix.targetsDir)
		ix.mu.Unlock()
		os.RemoveAll(stagedTargets)
		os.RemoveAll(stagedReplies)
		return &store.WriteError{Op: "index.swap", Key: ix.repliesDir, Err: err}
	}
	ix.mu.Unlock()

	os.RemoveAll(oldTargets)
	os.RemoveAll(oldReplies)
	return nil
}

func (ix *targetIndex) stageTargets(targets map[string][]string) (string, error) {
	dir, err := os.MkdirTemp(ix.baseDir, ".staging-targets-")
	if err != nil {
		return "", &store.WriteError{Op: "index.stage", Key: ix.baseDir, Err: err}
	}
	for target, ids := range targets {
		data, err := json.MarshalIndent(&targetList{Target: target, Comments: ids}, "", "  ")
		if err != nil {
			os.RemoveAll(dir)
			return "", &store.WriteError{Op: "index.stage", Key: target, Err: err}
		}
		if err := os.WriteFile(filepath.Join(dir, targetKey(target)+".json"), data, 0o644); err != nil {
			os.RemoveAll(dir)
			return "", &store.WriteError{Op: "index.stage", Key: target, Err: err}
		}
	}
	return dir, nil
}

func (ix *targetIndex) stageReplies(replies map[string][]string) (string, error) {
	dir, err := os.MkdirTemp(ix.baseDir, ".staging-replies-")
	if err != nil {
		return "", &store.WriteError{Op: "index.stage", Key: ix.baseDir, Err: err}
	}
	for parent, ids := range replies {
		data, err := json.MarshalIndent(&replyList{Parent: parent, Comments: ids}, "", "  ")
		if err != nil {
			os.RemoveAll(dir)
			return "", &store.WriteError{Op: "index.stage", Key: parent, Err: err}
		}
		if err := os.WriteFile(filepath.Join(dir, parent+".json"), data, 0o644); err != nil {
			os.RemoveAll(dir)
			return "", &store.WriteError{Op: "index.stage", Key: parent, Err: err}
		}
	}
	return dir, nil
}

// swapDir replaces live with staged in two renames and returns the path of
// the displaced directory for the caller to discard. On failure the live
// directory is restored.
func swapDir(live, staged string) (string, error) {
	displaced := live + ".old"
	if err := os.RemoveAll(displaced); err != nil {
		return "", err
	}
	if err := os.Rename(live, displaced); err != nil {
		return "", err
	}
	if err := os.Rename(staged, live); err != nil {
		_ = os.Rename(displaced, live)
		return "", err
	}
	return displaced, nil
}

// exportState reads the entire index under the exclusive lock, so the
// returned maps reflect a single instant with no append or swap in flight.
func (ix *targetIndex) exportState() (targets, replies map[string][]string, err error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	targets = make(map[string][]string)
	entries, err := os.ReadDir(ix.targetsDir)
	if err != nil {
		return nil, nil, &store.ReadError{Op: "index.targets.walk", Key: ix.targetsDir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(ix.targetsDir, entry.Name()))
		if err != nil {
			return nil, nil, &store.ReadError{Op: "index.targets.walk", Key: entry.Name(), Err: err}
		}
		var list targetList
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, nil, &store.ReadError{Op: "index.targets.decode", Key: entry.Name(), Err: err}
		}
		targets[list.Target] = list.Comments
	}

	replies = make(map[string][]string)
	entries, err = os.ReadDir(ix.repliesDir)
	if err != nil {
		return nil, nil, &store.ReadError{Op: "index.replies.walk", Key: ix.repliesDir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(ix.repliesDir, entry.Name()))
		if err != nil {
			return nil, nil, &store.ReadError{Op: "index.replies.walk", Key: entry.Name(), Err: err}
		}
		var list replyList
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, nil, &store.ReadError{Op: "index.replies.decode", Key: entry.Name(), Err: err}
		}
		replies[list.Parent] = list.Comments
	}
	return targets, replies, nil
}
