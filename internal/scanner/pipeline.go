package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/cardkeep/cardkeep/internal/events"
	"github.com/cardkeep/cardkeep/internal/logger"
	"github.com/cardkeep/cardkeep/internal/store"
	"github.com/cardkeep/cardkeep/models"
)

const (
	defaultScanInterval  = 2 * time.Second
	defaultDedupCooldown = 15 * time.Second
	defaultDedupCap      = 256
)

// Config carries the pipeline timing knobs. Zero values fall back to
// the defaults above.
type Config struct {
	ScanInterval  time.Duration
	DedupCooldown time.Duration
	DedupCapacity int
}

// Pipeline owns the capture/submit/dedup loop and the working list of
// scanned items. Identified items stay in the list until the user
// commits them through AddOne/AddAll; failed and duplicate submissions
// are removed silently so camera misfires never surface as noise.
type Pipeline struct {
	capture   CaptureSource
	remote    Identifier
	collector Collector
	window    *Window
	bus       *events.Bus
	logger    *logger.Logger

	interval time.Duration

	inFlight atomic.Bool
	paused   atomic.Bool

	mu    sync.RWMutex
	items []*models.ScannedItem

	// commitMu serializes AddOne/AddAll: admission decisions depend on
	// the running total, so commits must not interleave.
	commitMu sync.Mutex

	jobMu  sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPipeline wires a pipeline over the given collaborators. The
// pipeline is idle until Start is called.
func NewPipeline(cfg Config, capture CaptureSource, remote Identifier, collector Collector, bus *events.Bus, log *logger.Logger) *Pipeline {
	if cfg.ScanInterval <= 0 {
		cfg.ScanInterval = defaultScanInterval
	}
	if cfg.DedupCooldown <= 0 {
		cfg.DedupCooldown = defaultDedupCooldown
	}
	if cfg.DedupCapacity <= 0 {
		cfg.DedupCapacity = defaultDedupCap
	}

	return &Pipeline{
		capture:   capture,
		remote:    remote,
		collector: collector,
		window:    NewWindow(cfg.DedupCooldown, cfg.DedupCapacity),
		bus:       bus,
		logger:    log,
		interval:  cfg.ScanInterval,
	}
}

// Start stops any previously running loop, then launches a background
// goroutine that runs one capture/submit tick every interval. The
// goroutine exits when ctx is cancelled or Stop is called. Ticks that
// fire while a previous submit is outstanding are skipped, never
// queued.
func (p *Pipeline) Start(ctx context.Context) {
	p.Stop()

	p.jobMu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.jobMu.Unlock()

	p.logger.Debug().Dur("interval", p.interval).Msg("scan pipeline started")

	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				p.tick(jobCtx)
			}
		}
	}()
}

// Stop cancels the loop and blocks until it has fully exited. An
// in-flight submit is allowed to finish; its result is discarded. Safe
// to call when the pipeline is not running.
func (p *Pipeline) Stop() {
	p.jobMu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.jobMu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Pause suspends capturing without tearing the loop down. An in-flight
// submit finishes but its result is discarded while paused.
func (p *Pipeline) Pause() {
	p.paused.Store(true)
}

// Resume lifts a pause.
func (p *Pipeline) Resume() {
	p.paused.Store(false)
}

// Paused reports whether the pipeline is currently paused.
func (p *Pipeline) Paused() bool {
	return p.paused.Load()
}

// ScanOnce performs a single capture/submit outside the periodic loop,
// under the same single-flight guard. Unlike background ticks, its
// errors are returned to the caller.
func (p *Pipeline) ScanOnce(ctx context.Context) (models.ScannedItem, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return models.ScannedItem{}, ErrScanInFlight
	}
	defer p.inFlight.Store(false)

	item, err := p.runScan(ctx)
	if err != nil {
		return models.ScannedItem{}, err
	}
	return *item, nil
}

// Items returns a stable-order copy of the working list.
func (p *Pipeline) Items() []models.ScannedItem {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]models.ScannedItem, 0, len(p.items))
	for _, item := range p.items {
		out = append(out, *item)
	}
	return out
}

// AddOne commits one identified item into the collection. It returns
// false without error when the tier limit refuses the card, leaving the
// item un-added so the caller can redirect the user. On success the
// item stays in the list with Added set.
func (p *Pipeline) AddOne(ctx context.Context, localID string) (bool, error) {
	p.commitMu.Lock()
	defer p.commitMu.Unlock()

	item := p.findCommittable(localID)
	if item == nil {
		return false, ErrUnknownItem
	}

	err := p.commit(ctx, item)
	if errors.Is(err, store.ErrLimitReached) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddAll commits every identified, not-yet-added item in arrival order,
// stopping at the first refusal so the user never sees a partially
// successful batch followed by silent drops. It returns the number of
// items added; on a tier-limit stop the store's admission error is
// returned alongside.
func (p *Pipeline) AddAll(ctx context.Context) (int, error) {
	p.commitMu.Lock()
	defer p.commitMu.Unlock()

	added := 0
	for _, item := range p.committable() {
		if err := p.commit(ctx, item); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// ── internals ──

func (p *Pipeline) tick(ctx context.Context) {
	if p.paused.Load() {
		return
	}
	if !p.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer p.inFlight.Store(false)

	if _, err := p.runScan(ctx); err != nil {
		// Absorbed at the pipeline boundary: the working list simply does
		// not grow.
		p.logger.Debug().Err(err).Msg("scan tick discarded")
	}
}

func (p *Pipeline) runScan(ctx context.Context) (*models.ScannedItem, error) {
	frame, err := p.capture.CaptureFrame(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoFrame, err)
	}
	if len(frame) == 0 {
		return nil, ErrNoFrame
	}

	item := &models.ScannedItem{
		LocalID: uuid.NewString(),
		Status:  models.ScanScanning,
	}
	p.appendItem(item)

	result, err := p.remote.Identify(ctx, frame)
	if err != nil {
		p.removeItem(item.LocalID)
		return nil, fmt.Errorf("identify frame: %w", err)
	}

	// A response that lands after teardown or pause is ignored, not
	// applied.
	if ctx.Err() != nil || p.paused.Load() {
		p.removeItem(item.LocalID)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoFrame
	}

	fp := models.Fingerprint(result.Game, result.Name, result.EnglishName, result.CardNumber)
	if p.window.Seen(fp) {
		p.removeItem(item.LocalID)
		return nil, ErrDuplicate
	}
	p.window.Record(fp)

	p.mu.Lock()
	item.Status = models.ScanIdentified
	item.Game = result.Game
	item.SetID = result.SetID
	item.InstanceID = result.InstanceID()
	item.Name = result.Name
	item.EnglishName = result.EnglishName
	item.SetName = result.SetName
	item.EnglishSetName = result.EnglishSetName
	item.CardNumber = result.CardNumber
	item.Rarity = result.Rarity
	item.EstimatedValue = result.EstimatedValue
	item.ImageURL = result.ImageURL
	item.Verified = result.Verified
	copied := *item
	p.mu.Unlock()

	p.logger.Debug().
		Str("local_id", copied.LocalID).
		Str("name", copied.Name).
		Msg("card identified")
	if p.bus != nil {
		p.bus.Publish(events.Event{Kind: events.KindItemIdentified, Item: &copied})
	}

	return &copied, nil
}

// commit admits item into the collection and marks it added. Callers
// hold commitMu.
func (p *Pipeline) commit(ctx context.Context, item *models.ScannedItem) error {
	_, err := p.collector.AddCard(ctx, item.Game, item.SetID, item.InstanceID, 1)
	if err != nil {
		return err
	}

	p.mu.Lock()
	item.Added = true
	p.mu.Unlock()
	return nil
}

func (p *Pipeline) findCommittable(localID string) *models.ScannedItem {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, item := range p.items {
		if item.LocalID == localID && item.Status == models.ScanIdentified && !item.Added {
			return item
		}
	}
	return nil
}

func (p *Pipeline) committable() []*models.ScannedItem {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []*models.ScannedItem
	for _, item := range p.items {
		if item.Status == models.ScanIdentified && !item.Added {
			out = append(out, item)
		}
	}
	return out
}

func (p *Pipeline) appendItem(item *models.ScannedItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, item)
}

func (p *Pipeline) removeItem(localID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, item := range p.items {
		if item.LocalID == localID {
			p.items = append(p.items[:i], p.items[i+1:]...)
			return
		}
	}
}
