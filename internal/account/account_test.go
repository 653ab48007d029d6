package account

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardkeep/cardkeep/internal/logger"
	"github.com/cardkeep/cardkeep/models"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestNewTokenProvider_EmptyTokenIsGuest(t *testing.T) {
	p := NewTokenProvider("", logger.Nop())

	assert.Equal(t, models.TierGuest, p.CurrentTier())
	assert.Empty(t, p.Token())
}

func TestNewTokenProvider_PremiumClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "42", "tier": "premium"})

	p := NewTokenProvider(token, logger.Nop())

	assert.Equal(t, models.TierPremium, p.CurrentTier())
	assert.Equal(t, token, p.Token())
}

func TestNewTokenProvider_FreeClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "42", "tier": "free"})

	p := NewTokenProvider(token, logger.Nop())

	assert.Equal(t, models.TierFreeAccount, p.CurrentTier())
}

func TestNewTokenProvider_TierClaimCaseInsensitive(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"tier": "Premium"})

	p := NewTokenProvider(token, logger.Nop())

	assert.Equal(t, models.TierPremium, p.CurrentTier())
}

func TestNewTokenProvider_MissingTierClaimFallsBackToFree(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "42"})

	p := NewTokenProvider(token, logger.Nop())

	// Токен есть, значит аккаунт есть — но без клейма считаем free.
	assert.Equal(t, models.TierFreeAccount, p.CurrentTier())
	assert.Equal(t, token, p.Token())
}

func TestNewTokenProvider_MalformedTokenFallsBackToFree(t *testing.T) {
	p := NewTokenProvider("not-a-jwt", logger.Nop())

	assert.Equal(t, models.TierFreeAccount, p.CurrentTier())
	assert.Equal(t, "not-a-jwt", p.Token())
}

func TestNewTokenProvider_UnknownTierClaimFallsBackToFree(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"tier": "platinum"})

	p := NewTokenProvider(token, logger.Nop())

	assert.Equal(t, models.TierFreeAccount, p.CurrentTier())
}

func TestStaticProvider(t *testing.T) {
	p := StaticProvider{Tier: models.TierPremium, AuthToken: "token"}

	assert.Equal(t, models.TierPremium, p.CurrentTier())
	assert.Equal(t, "token", p.Token())
}
