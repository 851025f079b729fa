// Package binding maintains the durable mapping between platform
// userIds and human-chosen display names.
package binding

// Record holds the stored attributes for one bound user.
type Record struct {
	Name string `json:"name"`
}

// Snapshot is the complete state of the binding store at one point in
// time: a forward index from userId to the bound record, and a reverse
// index from display name to userId.
type Snapshot struct {
	ByUserID map[string]Record `json:"_by_user_id"`
	ByName   map[string]string `json:"_by_name"`
}

// Outcome reports whether a bind created a new binding or replaced an
// existing name.
type Outcome string

const (
	OutcomeBound   Outcome = "bound"
	OutcomeUpdated Outcome = "updated"
)

// NewSnapshot returns an empty snapshot with both indices allocated.
func NewSnapshot() Snapshot {
	return Snapshot{
		ByUserID: make(map[string]Record),
		ByName:   make(map[string]string),
	}
}

// Name returns the display name bound to userID, if any.
func (s Snapshot) Name(userID string) (string, bool) {
	rec, ok := s.ByUserID[userID]
	return rec.Name, ok
}

// UserID resolves a display name through the reverse index.
func (s Snapshot) UserID(name string) (string, bool) {
	id, ok := s.ByName[name]
	return id, ok
}

func (s Snapshot) clone() Snapshot {
	out := NewSnapshot()
	for id, rec := range s.ByUserID {
		out.ByUserID[id] = rec
	}
	for name, id := range s.ByName {
		out.ByName[name] = id
	}
	return out
}

// Bind computes the snapshot that results from binding userID to
// newName. The input snapshot is not modified.
//
// The old reverse entry is dropped only when it still points at this
// user. The new name unconditionally overwrites the reverse index, so a
// later bind takes a name from an earlier binder without notice; the
// earlier user keeps a forward entry no longer backed by the reverse
// index. Last-write-wins here is intentional.
func Bind(s Snapshot, userID, newName string) (Snapshot, Outcome) {
	out := s.clone()

	oldName, had := out.Name(userID)
	if had && oldName != newName && out.ByName[oldName] == userID {
		delete(out.ByName, oldName)
	}

	out.ByUserID[userID] = Record{Name: newName}
	out.ByName[newName] = userID

	if had && oldName != newName {
		return out, OutcomeUpdated
	}
	return out, OutcomeBound
}
