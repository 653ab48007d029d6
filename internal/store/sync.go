package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardkeep/cardkeep/internal/adapter"
	"github.com/cardkeep/cardkeep/internal/events"
	"github.com/cardkeep/cardkeep/models"
)

// SyncCollection pushes the full collection snapshot to the remote sync
// service under the shared timeout.
//
// Concurrent calls while a push is in flight are coalesced: late
// callers block until the in-flight push finishes and share its result
// instead of issuing a second request. The push never mutates the
// collection; on any failure local data is untouched and the state
// machine lands in SyncError.
func (s *CollectionStore) SyncCollection(ctx context.Context) error {
	s.syncMu.Lock()
	if s.syncDone != nil {
		done := s.syncDone
		s.syncMu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}

		s.syncMu.Lock()
		err := s.syncErr
		s.syncMu.Unlock()
		return err
	}

	done := make(chan struct{})
	s.syncDone = done
	s.setSyncStateLocked(models.SyncSyncing)
	s.syncMu.Unlock()

	// Snapshot is taken outside syncMu and pushed without holding any
	// lock; mutations during the push simply reach the server on the
	// next push.
	snap := s.Snapshot()
	pushErr := classifySyncErr(s.remote.PushCollection(ctx, snap))

	s.syncMu.Lock()
	if pushErr != nil {
		s.setSyncStateLocked(models.SyncError)
	} else {
		now := s.now()
		s.lastSync = &now
		s.setSyncStateLocked(models.SyncSuccess)
	}
	s.syncErr = pushErr
	s.syncDone = nil
	close(done)
	s.syncMu.Unlock()

	if pushErr != nil {
		s.logger.Err(pushErr).Int("cards", snap.TotalCards()).Msg("collection push failed")
		return pushErr
	}

	s.logger.Debug().Int("cards", snap.TotalCards()).Msg("collection pushed")
	return nil
}

// SyncStatus returns the observable sync state.
func (s *CollectionStore) SyncStatus() models.SyncStatus {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	status := models.SyncStatus{State: s.syncState}
	if s.lastSync != nil {
		t := *s.lastSync
		status.LastSyncTime = &t
	}
	return status
}

// AcknowledgeSync dismisses a terminal Success or Error state back to
// Idle. Calling it in any other state is a no-op.
func (s *CollectionStore) AcknowledgeSync() {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	if s.syncState == models.SyncSuccess || s.syncState == models.SyncError {
		s.setSyncStateLocked(models.SyncIdle)
	}
}

// resetSyncOnMutation moves a terminal state back to Idle when the
// collection changes; an in-flight Syncing state is left alone.
func (s *CollectionStore) resetSyncOnMutation() {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	if s.syncState == models.SyncSuccess || s.syncState == models.SyncError {
		s.setSyncStateLocked(models.SyncIdle)
	}
}

// setSyncStateLocked transitions the state machine and mirrors the
// change on the event bus. Callers hold syncMu.
func (s *CollectionStore) setSyncStateLocked(state models.SyncState) {
	if s.syncState == state {
		return
	}
	s.syncState = state

	status := models.SyncStatus{State: state}
	if s.lastSync != nil {
		t := *s.lastSync
		status.LastSyncTime = &t
	}
	s.bus.Publish(events.Event{Kind: events.KindSyncStateChanged, Sync: &status})
}

// classifySyncErr wraps a push failure in the matching sync sentinel so
// callers can distinguish retry-worthy transport failures from server
// rejections with errors.Is.
func classifySyncErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case adapter.IsTimeout(err):
		return fmt.Errorf("%w: %w", ErrSyncTimeout, err)
	case errors.Is(err, adapter.ErrServerRejected), errors.Is(err, adapter.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ErrSyncRejected, err)
	default:
		return fmt.Errorf("%w: %w", ErrSyncNetwork, err)
	}
}
