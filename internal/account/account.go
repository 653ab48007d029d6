// Package account resolves the current account tier and auth token.
// The client never verifies token signatures: the server is the
// authority on entitlements, the local tier is only used for the
// offline admission check.
package account

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cardkeep/cardkeep/internal/logger"
	"github.com/cardkeep/cardkeep/models"
)

// Provider supplies the current account tier and the bearer token the
// remote adapter authenticates with.
type Provider interface {
	CurrentTier() models.Tier
	Token() string
}

// tokenProvider derives the tier from an unverified "tier" claim in the
// configured JWT. No token means guest mode.
type tokenProvider struct {
	token string
	tier  models.Tier
}

// NewTokenProvider builds a Provider from a raw bearer token. An empty
// token yields the guest tier; a token whose tier claim is missing or
// unknown falls back to the free account tier.
func NewTokenProvider(token string, log *logger.Logger) Provider {
	token = strings.TrimSpace(token)
	if token == "" {
		return &tokenProvider{tier: models.TierGuest}
	}

	tier, err := parseTierFromJWT(token)
	if err != nil {
		log.Warn().Err(err).Msg("could not read tier claim from token, assuming free account")
		tier = models.TierFreeAccount
	}

	return &tokenProvider{token: token, tier: tier}
}

func (p *tokenProvider) CurrentTier() models.Tier { return p.tier }
func (p *tokenProvider) Token() string            { return p.token }

// StaticProvider is a fixed tier/token pair, used for tests and for
// callers that manage entitlements themselves.
type StaticProvider struct {
	Tier      models.Tier
	AuthToken string
}

func (p StaticProvider) CurrentTier() models.Tier { return p.Tier }
func (p StaticProvider) Token() string            { return p.AuthToken }

func parseTierFromJWT(tokenString string) (models.Tier, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return models.TierGuest, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.TierGuest, errors.New("invalid token claims")
	}

	raw, ok := claims["tier"]
	if !ok {
		return models.TierGuest, errors.New("tier claim missing")
	}
	name, ok := raw.(string)
	if !ok {
		return models.TierGuest, errors.New("tier claim is not a string")
	}

	switch strings.ToLower(name) {
	case "premium":
		return models.TierPremium, nil
	case "free":
		return models.TierFreeAccount, nil
	}
	return models.TierGuest, errors.New("unknown tier claim: " + name)
}
