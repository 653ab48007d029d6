package models

// CollectionSnapshot is the wire form of the full collection pushed to
// the sync service. Each set maps to the ordered list of owned instance
// IDs; a repeated ID means multiple owned copies.
type CollectionSnapshot struct {
	Games map[Game]GameCollection `json:"games"`
}

// GameCollection holds every owned card of one game, keyed by set.
type GameCollection map[string][]string

// TotalCards returns the number of owned cards across every game in
// the snapshot, counting duplicates.
func (s CollectionSnapshot) TotalCards() int {
	total := 0
	for _, game := range s.Games {
		for _, ids := range game {
			total += len(ids)
		}
	}
	return total
}

// CardRef names one owned card for the pricing service.
type CardRef struct {
	Game   Game   `json:"game"`
	CardID string `json:"card_id"`
}
