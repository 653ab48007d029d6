package models

// IdentifyResult is the subset of the identification service response
// the core consumes. Optional fields are empty when the service omits
// them.
type IdentifyResult struct {
	Game           Game              `json:"game"`
	Name           string            `json:"name"`
	EnglishName    string            `json:"english_name,omitempty"`
	SetID          string            `json:"set_id"`
	SetName        string            `json:"set_name"`
	EnglishSetName string            `json:"english_set_name,omitempty"`
	CardNumber     string            `json:"card_number"`
	Rarity         string            `json:"rarity,omitempty"`
	EstimatedValue float64           `json:"estimated_value,omitempty"`
	Verified       bool              `json:"verified"`
	VerifiedCardID string            `json:"verified_card_id,omitempty"`
	ImageURL       string            `json:"image,omitempty"`
	Alternatives   []SearchCardEntry `json:"alternatives,omitempty"`
}

// InstanceID returns the instance identifier an identified card should
// be admitted under: the verified catalogue ID when the service vouches
// for it, otherwise a synthetic set/number key.
func (r IdentifyResult) InstanceID() string {
	if r.Verified && r.VerifiedCardID != "" {
		return r.VerifiedCardID
	}
	return r.SetID + "-" + r.CardNumber
}

// SearchRequest narrows a catalogue search. Query, SetName and
// CardNumber are optional and combined conjunctively by the service.
type SearchRequest struct {
	Game       Game   `json:"game"`
	Query      string `json:"query,omitempty"`
	SetName    string `json:"set_name,omitempty"`
	CardNumber string `json:"card_number,omitempty"`
}

// SearchCardEntry is one catalogue match.
type SearchCardEntry struct {
	CardID  string `json:"card_id"`
	Name    string `json:"name"`
	SetID   string `json:"set_id"`
	SetName string `json:"set_name"`
	LocalID string `json:"local_id,omitempty"`
	Rarity  string `json:"rarity,omitempty"`
	Image   string `json:"image,omitempty"`
}

// SetInfo is the cached per-set metadata consulted for collection
// progress reporting.
type SetInfo struct {
	SetID      string `json:"set_id"`
	Name       string `json:"name"`
	TotalCards int    `json:"total_cards"`
}

// CardValue is the priced view of one owned card.
type CardValue struct {
	CardID string  `json:"card_id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// CardValueReport is the pricing service response for a collection.
type CardValueReport struct {
	TotalValue  float64     `json:"total_value"`
	Cards       []CardValue `json:"cards"`
	DailyChange float64     `json:"daily_change"`
}
