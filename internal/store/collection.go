package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cardkeep/cardkeep/internal/adapter"
	"github.com/cardkeep/cardkeep/internal/cache"
	"github.com/cardkeep/cardkeep/internal/events"
	"github.com/cardkeep/cardkeep/internal/logger"
	"github.com/cardkeep/cardkeep/models"
)

// Config holds construction-time settings for the collection store.
type Config struct {
	// Tier is the account tier at startup. Later changes arrive via
	// SetTier.
	Tier models.Tier

	// TierLimits optionally overrides the per-tier card limits. Absent
	// tiers fall back to models.Tier.CardLimit. A negative limit means
	// unbounded.
	TierLimits map[models.Tier]int

	// AutoPush schedules a background sync push after every successful
	// mutation. Disabled in tests that assert on outbound traffic.
	AutoPush bool
}

// gameCollection is the in-memory shape of one game's owned cards.
//
// sets keeps the ordered multiset per set; setOf and quantity are
// maintained indexes so quantity queries never rescan the multiset.
// An instance ID appears under exactly one set of a game.
type gameCollection struct {
	sets     map[string][]string
	setOf    map[string]string
	quantity map[string]int
	total    int
}

func newGameCollection() *gameCollection {
	return &gameCollection{
		sets:     make(map[string][]string),
		setOf:    make(map[string]string),
		quantity: make(map[string]int),
	}
}

// CollectionStore owns the canonical local collection and its sync
// state machine. All mutating methods serialize on a single mutex;
// admission decisions depend on the per-game running total, so
// finer-grained locking would not preserve the all-or-nothing
// invariant. No lock is held across a network call.
type CollectionStore struct {
	remote adapter.RemoteClient
	repo   SnapshotRepository
	cache  *cache.Cache
	bus    *events.Bus
	logger *logger.Logger

	limits   map[models.Tier]int
	autoPush bool

	// pushCtx bounds the lifetime of auto-push goroutines; Close cancels
	// it and waits on pushWG so no push outlives the store.
	pushCtx    context.Context
	pushCancel context.CancelFunc
	pushWG     sync.WaitGroup

	mu    sync.RWMutex
	games map[models.Game]*gameCollection
	tier  models.Tier

	syncMu    sync.Mutex
	syncState models.SyncState
	lastSync  *time.Time
	syncDone  chan struct{}
	syncErr   error

	now func() time.Time
}

// NewCollectionStore builds the store and loads the persisted snapshot
// when a repository is supplied (the init hook). repo and c may be nil,
// which disables persistence and cached metadata respectively.
func NewCollectionStore(
	ctx context.Context,
	cfg Config,
	repo SnapshotRepository,
	remote adapter.RemoteClient,
	c *cache.Cache,
	bus *events.Bus,
	log *logger.Logger,
) (*CollectionStore, error) {
	s := &CollectionStore{
		remote:   remote,
		repo:     repo,
		cache:    c,
		bus:      bus,
		logger:   log,
		limits:   cfg.TierLimits,
		autoPush: cfg.AutoPush,
		games:    make(map[models.Game]*gameCollection),
		tier:     cfg.Tier,
		now:      time.Now,
	}
	s.pushCtx, s.pushCancel = context.WithCancel(context.Background())

	if repo != nil {
		snap, err := repo.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load collection snapshot: %w", err)
		}
		s.restore(snap)
		log.Info().
			Int("cards", snap.TotalCards()).
			Msg("collection snapshot loaded")
	}

	return s, nil
}

// restore rebuilds the in-memory indexes from a persisted snapshot.
// A row that places an already-restored instance under a second set of
// the same game would leave setOf and the set slices disagreeing, so
// such rows are dropped with a warning instead of being applied.
func (s *CollectionStore) restore(snap models.CollectionSnapshot) {
	for game, sets := range snap.Games {
		g := newGameCollection()
		for setID, instanceIDs := range sets {
			for _, id := range instanceIDs {
				if existing, ok := g.setOf[id]; ok && existing != setID {
					s.logger.Warn().
						Str("game", string(game)).
						Str("instance_id", id).
						Str("set_id", setID).
						Str("kept_set_id", existing).
						Msg("dropping conflicting snapshot row: instance already under another set")
					continue
				}
				g.sets[setID] = append(g.sets[setID], id)
				g.setOf[id] = setID
				g.quantity[id]++
				g.total++
			}
		}
		s.games[game] = g
	}
}

// AddCard admits quantity copies of the card into the collection. The
// admission check and the mutation are atomic: when the tier limit
// would be exceeded nothing changes and ErrLimitReached is returned,
// with an AdmissionDenied event mirrored on the bus. On success the new
// per-game total is returned and a CollectionProgress event is
// published.
func (s *CollectionStore) AddCard(ctx context.Context, game models.Game, setID, instanceID string, quantity int) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	if !game.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnknownGame, game)
	}

	s.mu.Lock()

	g, ok := s.games[game]
	if !ok {
		g = newGameCollection()
		s.games[game] = g
	}

	if existing, ok := g.setOf[instanceID]; ok && existing != setID {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: %s is in set %s", ErrCardSetConflict, instanceID, existing)
	}

	limit := s.limitForLocked(s.tier)
	if limit >= 0 && g.total+quantity > limit {
		denied := events.Admission{
			Key:      models.CardKey{Game: game, SetID: setID, InstanceID: instanceID},
			Quantity: quantity,
			Limit:    limit,
			Owned:    g.total,
			Tier:     s.tier,
		}
		s.mu.Unlock()

		s.logger.Debug().
			Str("game", string(game)).
			Str("instance_id", instanceID).
			Int("limit", limit).
			Msg("admission denied by tier limit")
		s.bus.Publish(events.Event{Kind: events.KindAdmissionDenied, Admission: &denied})
		return 0, ErrLimitReached
	}

	for i := 0; i < quantity; i++ {
		g.sets[setID] = append(g.sets[setID], instanceID)
	}
	g.setOf[instanceID] = setID
	g.quantity[instanceID] += quantity
	g.total += quantity

	newTotal := g.total
	collectedInSet := len(g.sets[setID])
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(ctx, snap)

	progress := events.Progress{
		Game:           game,
		SetID:          setID,
		CollectedInSet: collectedInSet,
		SetTotalCards:  s.cachedSetTotal(game, setID),
	}
	s.bus.Publish(events.Event{Kind: events.KindCollectionProgress, Progress: &progress})

	return newTotal, nil
}

// RemoveCard removes every copy of the card and returns how many were
// removed. Removing an absent key is not an error and returns 0.
func (s *CollectionStore) RemoveCard(ctx context.Context, game models.Game, setID, instanceID string) (int, error) {
	if !game.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnknownGame, game)
	}

	s.mu.Lock()

	g, ok := s.games[game]
	if !ok || g.setOf[instanceID] != setID {
		s.mu.Unlock()
		return 0, nil
	}

	removed := g.quantity[instanceID]
	g.sets[setID] = deleteAll(g.sets[setID], instanceID)
	if len(g.sets[setID]) == 0 {
		delete(g.sets, setID)
	}
	delete(g.setOf, instanceID)
	delete(g.quantity, instanceID)
	g.total -= removed

	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(ctx, snap)
	return removed, nil
}

// RemoveOneCard removes exactly one copy of the card if present and
// reports whether a removal occurred.
func (s *CollectionStore) RemoveOneCard(ctx context.Context, game models.Game, setID, instanceID string) (bool, error) {
	if !game.Valid() {
		return false, fmt.Errorf("%w: %s", ErrUnknownGame, game)
	}

	s.mu.Lock()

	g, ok := s.games[game]
	if !ok || g.setOf[instanceID] != setID || g.quantity[instanceID] == 0 {
		s.mu.Unlock()
		return false, nil
	}

	g.sets[setID] = deleteOne(g.sets[setID], instanceID)
	if len(g.sets[setID]) == 0 {
		delete(g.sets, setID)
	}
	g.quantity[instanceID]--
	if g.quantity[instanceID] == 0 {
		delete(g.quantity, instanceID)
		delete(g.setOf, instanceID)
	}
	g.total--

	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.afterMutation(ctx, snap)
	return true, nil
}

// HasCard reports whether at least one copy of the card is owned.
func (s *CollectionStore) HasCard(game models.Game, setID, instanceID string) bool {
	return s.CardQuantity(game, setID, instanceID) > 0
}

// CardQuantity returns how many copies of the card are owned.
func (s *CollectionStore) CardQuantity(game models.Game, setID, instanceID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[game]
	if !ok || g.setOf[instanceID] != setID {
		return 0
	}
	return g.quantity[instanceID]
}

// SetCards returns how many cards are owned in the given set, counting
// duplicates.
func (s *CollectionStore) SetCards(game models.Game, setID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[game]
	if !ok {
		return 0
	}
	return len(g.sets[setID])
}

// TotalCards returns the owned total for one game.
func (s *CollectionStore) TotalCards(game models.Game) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[game]
	if !ok {
		return 0
	}
	return g.total
}

// TotalCardsAll returns the owned total across all games.
func (s *CollectionStore) TotalCardsAll() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, g := range s.games {
		total += g.total
	}
	return total
}

// SetTier updates the admission limit. Lowering the tier never evicts
// cards; the new limit only gates future admissions.
func (s *CollectionStore) SetTier(tier models.Tier) {
	s.mu.Lock()
	s.tier = tier
	s.mu.Unlock()

	s.logger.Info().Str("tier", tier.String()).Msg("tier updated")
}

// Tier returns the current account tier.
func (s *CollectionStore) Tier() models.Tier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tier
}

// Snapshot returns a deep copy of the collection in wire form.
func (s *CollectionStore) Snapshot() models.CollectionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *CollectionStore) snapshotLocked() models.CollectionSnapshot {
	snap := models.CollectionSnapshot{Games: make(map[models.Game]models.GameCollection, len(s.games))}
	for game, g := range s.games {
		sets := make(models.GameCollection, len(g.sets))
		for setID, instanceIDs := range g.sets {
			sets[setID] = append([]string(nil), instanceIDs...)
		}
		snap.Games[game] = sets
	}
	return snap
}

// Close stops in-flight auto-pushes, flushes the snapshot, and
// releases the repository (the teardown hook).
func (s *CollectionStore) Close(ctx context.Context) error {
	s.pushCancel()
	s.pushWG.Wait()

	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, s.Snapshot()); err != nil {
		return fmt.Errorf("flush collection snapshot: %w", err)
	}
	return s.repo.Close()
}

// afterMutation runs the shared post-mutation side effects: the sync
// state machine leaves any terminal state, the snapshot is flushed, and
// a background push is scheduled. Persistence failures are logged but
// do not fail the mutation; the in-memory collection stays
// authoritative.
func (s *CollectionStore) afterMutation(ctx context.Context, snap models.CollectionSnapshot) {
	s.resetSyncOnMutation()

	if s.repo != nil {
		if err := s.repo.Save(ctx, snap); err != nil {
			s.logger.Err(err).Msg("failed to flush collection snapshot")
		}
	}

	if s.autoPush {
		s.pushWG.Add(1)
		go func() {
			defer s.pushWG.Done()
			_ = s.SyncCollection(s.pushCtx)
		}()
	}
}

func (s *CollectionStore) limitForLocked(tier models.Tier) int {
	if s.limits != nil {
		if limit, ok := s.limits[tier]; ok {
			return limit
		}
	}
	return tier.CardLimit()
}

func (s *CollectionStore) cachedSetTotal(game models.Game, setID string) int {
	if s.cache == nil {
		return 0
	}
	var info models.SetInfo
	if fr, err := s.cache.Get(setInfoKey(game, setID), &info); err != nil || fr == cache.Miss {
		return 0
	}
	return info.TotalCards
}

func deleteAll(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func deleteOne(ids []string, target string) []string {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
