package model

import "encoding/json"

// SnapshotVersion identifies the snapshot document format.
const SnapshotVersion = 1

// Snapshot is the consolidated index and moderation state of the store at a
// point in time. Comment bodies are deliberately excluded; they live in the
// per-comment records and are restored from there.
type Snapshot struct {
	Version int                 `json:"version"`
	Targets map[string][]string `json:"targets"`
	Replies map[string][]string `json:"replies"`
	Flags   map[string]Flags    `json:"flags"`
}

// NewSnapshot returns an empty snapshot with all maps allocated, so the
// encoded form is stable even when the store is empty.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		Targets: make(map[string][]string),
		Replies: make(map[string][]string),
		Flags:   make(map[string]Flags),
	}
}

// Encode renders the snapshot as indented JSON. Map keys are sorted by the
// encoder and the document carries no timestamps, so equal state encodes to
// equal bytes.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
