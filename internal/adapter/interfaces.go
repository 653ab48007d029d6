// Package adapter provides the transport layer for communicating with
// the remote card service.
//
// The primary abstraction is [RemoteClient], which decouples the store
// and pipeline from the underlying protocol. The package ships an
// HTTP/REST implementation ([NewHTTPRemoteClient]).
//
// Error values defined in errors.go are mapped from HTTP status codes
// by mapHTTPError so that callers can use [errors.Is] for
// transport-agnostic error handling (e.g. [ErrUnidentified] for 422,
// [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/cardkeep/cardkeep/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_client_mock.go -package=mock

// RemoteClient defines transport-agnostic communication with the remote
// identification, search, sync, and pricing endpoints. Implementations
// are responsible for serialisation, authentication header management,
// and mapping transport-level errors to the sentinel values defined in
// this package.
//
// Every method observes ctx: the call is abandoned when ctx is
// cancelled or its deadline passes, and no implementation applies a
// response that arrives after cancellation.
type RemoteClient interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. An empty token switches the
	// client to guest mode.
	SetToken(token string)

	// Token returns the bearer token currently stored in the client, or
	// an empty string if no token has been set yet.
	Token() string

	// Identify submits one captured frame to the identification service
	// and returns the recognised card. Returns ErrUnidentified (wrapped)
	// when the service cannot recognise a card in the frame.
	Identify(ctx context.Context, imageBytes []byte) (models.IdentifyResult, error)

	// Search queries the card catalogue. Returns the matching entries,
	// possibly empty.
	Search(ctx context.Context, req models.SearchRequest) ([]models.SearchCardEntry, error)

	// PushCollection uploads the full collection snapshot to the sync
	// service. Returns ErrServerRejected (wrapped) when the server
	// refuses the snapshot.
	PushCollection(ctx context.Context, snap models.CollectionSnapshot) error

	// PullCollection fetches the server-side collection snapshot. The
	// result is informational only; it is never applied to local state.
	PullCollection(ctx context.Context) (models.CollectionSnapshot, error)

	// SetInfo fetches metadata for one card set.
	SetInfo(ctx context.Context, game models.Game, setID string) (models.SetInfo, error)

	// CardValues prices the given owned cards.
	CardValues(ctx context.Context, refs []models.CardRef) (models.CardValueReport, error)
}
