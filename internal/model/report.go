package model

// RebuildReport summarizes one full index rebuild.
type RebuildReport struct {
	CommentsScanned   int      `json:"comments_scanned"`
	TargetsDiscovered int      `json:"targets_discovered"`
	RepliesIndexed    int      `json:"replies_indexed"`
	OrphansFound      int      `json:"orphans_found"`
	OrphanIDs         []string `json:"orphan_ids,omitempty"`
	DurationMS        int64    `json:"duration_ms"`
}
