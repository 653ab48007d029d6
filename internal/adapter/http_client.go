package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cardkeep/cardkeep/models"
	"github.com/go-resty/resty/v2"
)

// HTTPClientConfig configures the HTTP implementation of RemoteClient.
type HTTPClientConfig struct {
	BaseURL string
	Token   string
	// Timeout bounds search, sync, and pricing calls.
	Timeout time.Duration
	// IdentifyTimeout bounds frame identification calls; they run a
	// recognition model server-side and need a larger budget.
	IdentifyTimeout time.Duration
}

type httpRemoteClient struct {
	client          *resty.Client
	timeout         time.Duration
	identifyTimeout time.Duration

	mu    sync.RWMutex
	token string
}

// NewHTTPRemoteClient builds a RemoteClient speaking the card service's
// REST API. Zero config fields fall back to local defaults.
//
// Timeouts are applied per call through the request context, not on the
// resty client: a client-level timeout would cap every request at the
// general budget and the larger identify budget could never take
// effect.
func NewHTTPRemoteClient(cfg HTTPClientConfig) RemoteClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.IdentifyTimeout <= 0 {
		cfg.IdentifyTimeout = 20 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))

	return &httpRemoteClient{
		client:          cli,
		timeout:         cfg.Timeout,
		identifyTimeout: cfg.IdentifyTimeout,
		token:           strings.TrimSpace(cfg.Token),
	}
}

func (h *httpRemoteClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpRemoteClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

type identifyRequest struct {
	Image []byte `json:"image"`
}

func (h *httpRemoteClient) Identify(ctx context.Context, imageBytes []byte) (models.IdentifyResult, error) {
	// The per-call deadline is layered on top of the caller's context so
	// that teardown cancellation still wins.
	ctx, cancel := h.deadline(ctx, h.identifyTimeout)
	defer cancel()

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(identifyRequest{Image: imageBytes}).
		Post("/api/identify")
	if err != nil {
		return models.IdentifyResult{}, fmt.Errorf("identify request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.IdentifyResult{}, err
	}

	var result models.IdentifyResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.IdentifyResult{}, fmt.Errorf("decode identify response: %w", err)
	}

	return result, nil
}

func (h *httpRemoteClient) Search(ctx context.Context, req models.SearchRequest) ([]models.SearchCardEntry, error) {
	ctx, cancel := h.deadline(ctx, h.timeout)
	defer cancel()

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/cards/search")
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var entries []models.SearchCardEntry
	if err = json.Unmarshal(resp.Body(), &entries); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return entries, nil
}

func (h *httpRemoteClient) PushCollection(ctx context.Context, snap models.CollectionSnapshot) error {
	ctx, cancel := h.deadline(ctx, h.timeout)
	defer cancel()

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(snap).
		Post("/api/collection/push")
	if err != nil {
		return fmt.Errorf("push collection request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpRemoteClient) PullCollection(ctx context.Context) (models.CollectionSnapshot, error) {
	ctx, cancel := h.deadline(ctx, h.timeout)
	defer cancel()

	resp, err := h.authedRequest(ctx).Get("/api/collection/pull")
	if err != nil {
		return models.CollectionSnapshot{}, fmt.Errorf("pull collection request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CollectionSnapshot{}, err
	}

	var snap models.CollectionSnapshot
	if err = json.Unmarshal(resp.Body(), &snap); err != nil {
		return models.CollectionSnapshot{}, fmt.Errorf("decode pull response: %w", err)
	}

	return snap, nil
}

func (h *httpRemoteClient) SetInfo(ctx context.Context, game models.Game, setID string) (models.SetInfo, error) {
	ctx, cancel := h.deadline(ctx, h.timeout)
	defer cancel()

	resp, err := h.authedRequest(ctx).Get("/api/sets/" + string(game) + "/" + setID)
	if err != nil {
		return models.SetInfo{}, fmt.Errorf("set info request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SetInfo{}, err
	}

	var info models.SetInfo
	if err = json.Unmarshal(resp.Body(), &info); err != nil {
		return models.SetInfo{}, fmt.Errorf("decode set info response: %w", err)
	}

	return info, nil
}

type cardValuesRequest struct {
	Cards []models.CardRef `json:"cards"`
}

func (h *httpRemoteClient) CardValues(ctx context.Context, refs []models.CardRef) (models.CardValueReport, error) {
	ctx, cancel := h.deadline(ctx, h.timeout)
	defer cancel()

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(cardValuesRequest{Cards: refs}).
		Post("/api/cards/value")
	if err != nil {
		return models.CardValueReport{}, fmt.Errorf("card values request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CardValueReport{}, err
	}

	var report models.CardValueReport
	if err = json.Unmarshal(resp.Body(), &report); err != nil {
		return models.CardValueReport{}, fmt.Errorf("decode card values response: %w", err)
	}

	return report, nil
}

// deadline bounds the call with the given budget. An earlier deadline
// already on the caller's context keeps winning.
func (h *httpRemoteClient) deadline(ctx context.Context, budget time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, budget)
}

func (h *httpRemoteClient) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusUnprocessableEntity:
		return ErrUnidentified
	}
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("%w: http %d: %s", ErrServerRejected, resp.StatusCode(), body)
}
