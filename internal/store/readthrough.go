package store

import (
	"context"
	"fmt"

	"github.com/cardkeep/cardkeep/internal/cache"
	"github.com/cardkeep/cardkeep/models"
)

const collectionValueKey = "value:collection"

func setInfoKey(game models.Game, setID string) string {
	return "set:" + string(game) + ":" + setID
}

// SetInfo returns metadata for one card set using the read-through
// policy: the remote source wins and refreshes the cache; when it is
// unreachable a cached value is served even past its TTL. The cache is
// never preferred over a successful remote call.
func (s *CollectionStore) SetInfo(ctx context.Context, game models.Game, setID string) (models.SetInfo, error) {
	info, err := s.remote.SetInfo(ctx, game, setID)
	if err == nil {
		s.cachePut(setInfoKey(game, setID), info)
		return info, nil
	}

	var cached models.SetInfo
	if s.cacheGet(setInfoKey(game, setID), &cached) {
		s.logger.Debug().
			Str("set_id", setID).
			Msg("serving cached set info after remote failure")
		return cached, nil
	}
	return models.SetInfo{}, fmt.Errorf("fetch set info: %w", err)
}

// CollectionValue prices the current collection through the pricing
// service, with the same stale-on-failure fallback as SetInfo.
func (s *CollectionStore) CollectionValue(ctx context.Context) (models.CardValueReport, error) {
	refs := s.cardRefs()

	report, err := s.remote.CardValues(ctx, refs)
	if err == nil {
		s.cachePut(collectionValueKey, report)
		return report, nil
	}

	var cached models.CardValueReport
	if s.cacheGet(collectionValueKey, &cached) {
		s.logger.Debug().Msg("serving cached collection value after remote failure")
		return cached, nil
	}
	return models.CardValueReport{}, fmt.Errorf("fetch collection value: %w", err)
}

// SearchCards queries the card catalogue. Results are not cached; a
// search is an interactive operation and stale hits would be more
// confusing than an error.
func (s *CollectionStore) SearchCards(ctx context.Context, req models.SearchRequest) ([]models.SearchCardEntry, error) {
	entries, err := s.remote.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}
	return entries, nil
}

func (s *CollectionStore) cardRefs() []models.CardRef {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var refs []models.CardRef
	for _, game := range models.Games {
		g, ok := s.games[game]
		if !ok {
			continue
		}
		for instanceID := range g.quantity {
			refs = append(refs, models.CardRef{Game: game, CardID: instanceID})
		}
	}
	return refs
}

func (s *CollectionStore) cachePut(key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(key, value); err != nil {
		s.logger.Err(err).Str("key", key).Msg("failed to cache remote value")
	}
}

func (s *CollectionStore) cacheGet(key string, out any) bool {
	if s.cache == nil {
		return false
	}
	fr, err := s.cache.Get(key, out)
	return err == nil && fr != cache.Miss
}
