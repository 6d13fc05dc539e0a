package models

// SyncState is what a view observes for one synchronized collection.
//
// Loading is true only between the start of a fetch and its completion.
// Error is set by a failed fetch and cleared by the next successful one; a
// failed fetch never replaces Snapshot.
type SyncState struct {
	Snapshot Snapshot `json:"snapshot"`
	Loading  bool     `json:"loading"`
	Error    string   `json:"error,omitempty"`
}

// HasError reports whether the last fetch failed.
func (s SyncState) HasError() bool {
	return s.Error != ""
}

// Clone returns a copy of s that shares no records with the original.
func (s SyncState) Clone() SyncState {
	return SyncState{
		Snapshot: s.Snapshot.Clone(),
		Loading:  s.Loading,
		Error:    s.Error,
	}
}
