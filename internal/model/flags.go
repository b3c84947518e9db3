package model

// Flags is the moderation overlay for a single comment. The zero value is
// the state of a comment that has never been flagged; the store does not
// materialize a record until a flag is first set.
type Flags struct {
	Hidden    bool `json:"hidden"`
	Moderated bool `json:"moderated"`
	Reported  bool `json:"reported"`
	Deleted   bool `json:"deleted"`
}

// FlagsPatch is a partial update to Flags. Nil fields are left unchanged.
type FlagsPatch struct {
	Hidden    *bool `json:"hidden,omitempty"`
	Moderated *bool `json:"moderated,omitempty"`
	Reported  *bool `json:"reported,omitempty"`
	Deleted   *bool `json:"deleted,omitempty"`
}

// Apply merges the patch into f, field by field.
func (p FlagsPatch) Apply(f *Flags) {
	if p.Hidden != nil {
		f.Hidden = *p.Hidden
	}
	if p.Moderated != nil {
		f.Moderated = *p.Moderated
	}
	if p.Reported != nil {
		f.Reported = *p.Reported
	}
	if p.Deleted != nil {
		f.Deleted = *p.Deleted
	}
}

// IsZero reports whether the patch changes nothing.
func (p FlagsPatch) IsZero() bool {
	return p.Hidden == nil && p.Moderated == nil && p.Reported == nil && p.Deleted == nil
}
