package models

// Tier is the account level that gates how many cards a collection may
// hold. Limits apply to future admissions only; lowering the tier never
// evicts cards already owned.
type Tier int

const (
	TierGuest Tier = iota
	TierFreeAccount
	TierPremium
)

const (
	guestCardLimit = 25
	freeCardLimit  = 250
)

// CardLimit returns the maximum number of owned cards the tier admits
// per game. Premium is unbounded and returns a negative value; callers
// must treat any negative limit as "no limit".
func (t Tier) CardLimit() int {
	switch t {
	case TierGuest:
		return guestCardLimit
	case TierFreeAccount:
		return freeCardLimit
	default:
		return -1
	}
}

func (t Tier) String() string {
	switch t {
	case TierGuest:
		return "guest"
	case TierFreeAccount:
		return "free"
	case TierPremium:
		return "premium"
	}
	return "unknown"
}
