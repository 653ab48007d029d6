package models

import "strings"

// Game identifies which trading-card game a card belongs to.
// The string value doubles as the wire representation used by the
// remote identification and sync services.
type Game string

const (
	GamePokemon Game = "pokemon"
	GameMagic   Game = "magic"
	GameYugioh  Game = "yugioh"
	GameLorcana Game = "lorcana"
)

// Games lists every supported game in a fixed order, used for
// deterministic iteration over per-game collections.
var Games = []Game{GamePokemon, GameMagic, GameYugioh, GameLorcana}

// Valid reports whether g is one of the supported games.
func (g Game) Valid() bool {
	switch g {
	case GamePokemon, GameMagic, GameYugioh, GameLorcana:
		return true
	}
	return false
}

// CardKey uniquely identifies one owned card instance.
//
// InstanceID is opaque and may carry a variant suffix (e.g. a foil
// marker); two instance IDs that differ only in suffix are distinct
// keys even when they name the same printed card.
type CardKey struct {
	Game       Game   `json:"game"`
	SetID      string `json:"set_id"`
	InstanceID string `json:"instance_id"`
}

// Fingerprint returns the normalized dedup fingerprint for an
// identified card: lower(game):lower(name):number. The English name is
// preferred when the service supplies one so that the same physical
// card identified under different localisations collapses to one
// fingerprint.
func Fingerprint(game Game, name, englishName, cardNumber string) string {
	n := englishName
	if n == "" {
		n = name
	}
	return strings.ToLower(string(game)) + ":" + strings.ToLower(n) + ":" + cardNumber
}
