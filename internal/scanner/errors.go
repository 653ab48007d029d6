package scanner

import "errors"

var (
	// ErrScanInFlight is returned by ScanOnce when a capture/submit is
	// already outstanding.
	ErrScanInFlight = errors.New("a scan is already in flight")

	// ErrNoFrame means the capture source had no frame to offer.
	ErrNoFrame = errors.New("no frame available")

	// ErrDuplicate means the identified card was already seen within the
	// dedup cooldown window.
	ErrDuplicate = errors.New("duplicate card within cooldown window")

	// ErrUnknownItem means the referenced item is not in the working list
	// or is not in a committable state.
	ErrUnknownItem = errors.New("unknown or uncommittable scanned item")
)
