package scanner

import (
	"context"

	"github.com/cardkeep/cardkeep/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/capture_source_mock.go -package=mock

// CaptureSource produces still frames on demand. A nil frame with a nil
// error means no frame is currently available and the tick should be
// skipped.
type CaptureSource interface {
	CaptureFrame(ctx context.Context) ([]byte, error)
}

// Identifier is the slice of the remote facade the pipeline submits
// frames to.
type Identifier interface {
	Identify(ctx context.Context, frame []byte) (models.IdentifyResult, error)
}

// Collector is the collection surface the pipeline commits identified
// items into.
type Collector interface {
	AddCard(ctx context.Context, game models.Game, setID string, instanceID string, quantity int) (int, error)
}
