package models

import "time"

// SyncState describes where the collection push currently is in its
// linear lifecycle: Idle/Success/Error -> Syncing -> Success or Error,
// then back to Idle on dismissal or on the next local mutation.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncSyncing
	SyncSuccess
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "idle"
	case SyncSyncing:
		return "syncing"
	case SyncSuccess:
		return "success"
	case SyncError:
		return "error"
	}
	return "unknown"
}

// SyncStatus is the observable sync snapshot exposed to callers.
// LastSyncTime is nil until the first successful push.
type SyncStatus struct {
	State        SyncState  `json:"state"`
	LastSyncTime *time.Time `json:"last_sync_time,omitempty"`
}
