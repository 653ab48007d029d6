package models

// ScanStatus is the lifecycle state of one scanned frame in the
// pipeline's working list.
type ScanStatus int

const (
	// ScanScanning means the frame has been submitted for identification
	// and the pipeline is waiting for the service to respond.
	ScanScanning ScanStatus = iota

	// ScanIdentified means the service recognised the card and the item
	// carries full display metadata. Failed or duplicate submissions are
	// removed from the working list instead of reaching a failed state.
	ScanIdentified
)

func (s ScanStatus) String() string {
	switch s {
	case ScanScanning:
		return "scanning"
	case ScanIdentified:
		return "identified"
	}
	return "unknown"
}

// ScannedItem is one entry of the pipeline's working list: a frame that
// was submitted for identification and, once identified, is waiting for
// the user to commit it into the collection.
type ScannedItem struct {
	// LocalID is an opaque per-session token identifying the item in
	// the working list.
	LocalID string `json:"local_id"`

	Status ScanStatus `json:"status"`

	// Key fields, populated when Status is ScanIdentified.
	Game       Game   `json:"game,omitempty"`
	SetID      string `json:"set_id,omitempty"`
	InstanceID string `json:"instance_id,omitempty"`

	// Display metadata from the identification response.
	Name           string  `json:"name,omitempty"`
	EnglishName    string  `json:"english_name,omitempty"`
	SetName        string  `json:"set_name,omitempty"`
	EnglishSetName string  `json:"english_set_name,omitempty"`
	CardNumber     string  `json:"card_number,omitempty"`
	Rarity         string  `json:"rarity,omitempty"`
	EstimatedValue float64 `json:"estimated_value,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	Verified       bool    `json:"verified,omitempty"`

	// Added is set once the item has been committed to the collection.
	Added bool `json:"added"`
}

// Key returns the collection key the item would be stored under.
func (i ScannedItem) Key() CardKey {
	return CardKey{Game: i.Game, SetID: i.SetID, InstanceID: i.InstanceID}
}
