package store

import "errors"

// Sentinel errors returned by collection operations. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrLimitReached is returned when an admission would push the
	// per-game owned total past the current tier's card limit. The
	// collection is left untouched; the caller is expected to surface an
	// upgrade prompt rather than retry.
	ErrLimitReached = errors.New("card limit reached")

	// ErrInvalidQuantity is returned when AddCard is called with a
	// quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrUnknownGame is returned when an operation names a game outside
	// the supported set.
	ErrUnknownGame = errors.New("unknown game")

	// ErrCardSetConflict is returned when an admission would register an
	// instance ID under a second set of the same game. An instance
	// belongs to exactly one set.
	ErrCardSetConflict = errors.New("card instance already recorded under another set")
)

// Sync push errors. Exactly one of these wraps every failed
// SyncCollection result, classifying the failure for the caller. None
// of them ever invalidates local data.
var (
	// ErrSyncTimeout is returned when the push misses its deadline.
	ErrSyncTimeout = errors.New("sync push timed out")

	// ErrSyncNetwork is returned when the push fails at the transport
	// level before the server produced a response.
	ErrSyncNetwork = errors.New("sync push network failure")

	// ErrSyncRejected is returned when the server refused the snapshot.
	ErrSyncRejected = errors.New("sync push rejected by server")
)
