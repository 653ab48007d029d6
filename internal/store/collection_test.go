package store

import (
	"context"
	"testing"
	"time"

	"github.com/cardkeep/cardkeep/internal/events"
	"github.com/cardkeep/cardkeep/internal/logger"
	"github.com/cardkeep/cardkeep/internal/mock"
	"github.com/cardkeep/cardkeep/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestStore создаёт стор без персистентности и без автопуша.
func newTestStore(t *testing.T, cfg Config) (*CollectionStore, *mock.MockRemoteClient, *events.Bus) {
	t.Helper()
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteClient(ctrl)
	bus := events.NewBus()

	s, err := NewCollectionStore(context.Background(), cfg, nil, remote, nil, bus, logger.Nop())
	require.NoError(t, err)
	return s, remote, bus
}

func freeTierTwenty() Config {
	return Config{
		Tier:       models.TierFreeAccount,
		TierLimits: map[models.Tier]int{models.TierFreeAccount: 20},
	}
}

// ── AddCard ──────────────────────────────────────────────────────────────────

func TestAddCard_Success(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	total, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 5, s.CardQuantity(models.GamePokemon, "s1", "c1"))
	assert.Equal(t, 5, s.SetCards(models.GamePokemon, "s1"))
	assert.Equal(t, 5, s.TotalCards(models.GamePokemon))
}

func TestAddCard_LimitReached_NoPartialMutation(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 5)
	require.NoError(t, err)

	// 5 + 16 > 20 — полностью отклоняем, без частичного добавления.
	_, err = s.AddCard(ctx, models.GamePokemon, "s1", "c2", 16)
	require.ErrorIs(t, err, ErrLimitReached)

	assert.Equal(t, 5, s.TotalCards(models.GamePokemon))
	assert.False(t, s.HasCard(models.GamePokemon, "s1", "c2"))
}

func TestAddCard_LimitScopedPerGame(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 20)
	require.NoError(t, err)

	// Лимит действует в рамках одной игры.
	_, err = s.AddCard(ctx, models.GameMagic, "neo", "n1", 20)
	require.NoError(t, err)

	assert.Equal(t, 40, s.TotalCardsAll())
}

func TestAddCard_PremiumUnbounded(t *testing.T) {
	s, _, _ := newTestStore(t, Config{Tier: models.TierPremium})
	ctx := context.Background()

	total, err := s.AddCard(ctx, models.GameYugioh, "s1", "c1", 10_000)

	require.NoError(t, err)
	assert.Equal(t, 10_000, total)
}

func TestAddCard_InvalidQuantity(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())

	_, err := s.AddCard(context.Background(), models.GamePokemon, "s1", "c1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAddCard_UnknownGame(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())

	_, err := s.AddCard(context.Background(), models.Game("chess"), "s1", "c1", 1)
	assert.ErrorIs(t, err, ErrUnknownGame)
}

func TestAddCard_SetConflict(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 1)
	require.NoError(t, err)

	// Один instance ID не может числиться в двух сетах одной игры.
	_, err = s.AddCard(ctx, models.GamePokemon, "s2", "c1", 1)
	assert.ErrorIs(t, err, ErrCardSetConflict)
	assert.Equal(t, 1, s.TotalCards(models.GamePokemon))
}

func TestAddCard_VariantSuffixesAreDistinctKeys(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 1)
	require.NoError(t, err)
	_, err = s.AddCard(ctx, models.GamePokemon, "s1", "c1_foil", 1)
	require.NoError(t, err)

	assert.Equal(t, 1, s.CardQuantity(models.GamePokemon, "s1", "c1"))
	assert.Equal(t, 1, s.CardQuantity(models.GamePokemon, "s1", "c1_foil"))
}

func TestAddCard_PublishesAdmissionDeniedOnce(t *testing.T) {
	s, _, bus := newTestStore(t, freeTierTwenty())
	ch, cancel := bus.Subscribe()
	defer cancel()

	_, err := s.AddCard(context.Background(), models.GamePokemon, "s1", "c1", 21)
	require.ErrorIs(t, err, ErrLimitReached)

	evt := <-ch
	require.Equal(t, events.KindAdmissionDenied, evt.Kind)
	assert.Equal(t, 20, evt.Admission.Limit)
	assert.Equal(t, 21, evt.Admission.Quantity)
	assert.Empty(t, ch, "ровно одно событие на один отказ")
}

func TestAddCard_PublishesProgress(t *testing.T) {
	s, _, bus := newTestStore(t, freeTierTwenty())
	ch, cancel := bus.Subscribe()
	defer cancel()

	_, err := s.AddCard(context.Background(), models.GamePokemon, "s1", "c1", 2)
	require.NoError(t, err)

	evt := <-ch
	require.Equal(t, events.KindCollectionProgress, evt.Kind)
	assert.Equal(t, "s1", evt.Progress.SetID)
	assert.Equal(t, 2, evt.Progress.CollectedInSet)
}

// ── RemoveCard / RemoveOneCard ───────────────────────────────────────────────

func TestRemoveCard_RemovesAllCopies(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 3)
	require.NoError(t, err)

	removed, err := s.RemoveCard(ctx, models.GamePokemon, "s1", "c1")

	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.False(t, s.HasCard(models.GamePokemon, "s1", "c1"))
	assert.Equal(t, 0, s.TotalCards(models.GamePokemon))
}

func TestRemoveCard_AbsentKeyIsZeroNotError(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())

	removed, err := s.RemoveCard(context.Background(), models.GamePokemon, "s1", "ghost")

	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestRemoveOneCard_DecrementsQuantity(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 5)
	require.NoError(t, err)

	ok, err := s.RemoveOneCard(ctx, models.GamePokemon, "s1", "c1")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, s.CardQuantity(models.GamePokemon, "s1", "c1"))
	assert.Equal(t, 4, s.TotalCards(models.GamePokemon))
}

func TestRemoveOneCard_AbsentKey(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())

	ok, err := s.RemoveOneCard(context.Background(), models.GamePokemon, "s1", "ghost")

	require.NoError(t, err)
	assert.False(t, ok)
}

// Сценарий из продуктовых требований: free-аккаунт с лимитом 20.
func TestCollection_FreeAccountScenario(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	total, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	_, err = s.AddCard(ctx, models.GamePokemon, "s1", "c2", 16)
	require.ErrorIs(t, err, ErrLimitReached)
	assert.Equal(t, 5, s.TotalCards(models.GamePokemon))

	ok, err := s.RemoveOneCard(ctx, models.GamePokemon, "s1", "c1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, s.TotalCards(models.GamePokemon))
	assert.Equal(t, 4, s.CardQuantity(models.GamePokemon, "s1", "c1"))
}

// ── SetTier ──────────────────────────────────────────────────────────────────

func TestSetTier_LoweringNeverEvicts(t *testing.T) {
	s, _, _ := newTestStore(t, Config{Tier: models.TierPremium})
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 100)
	require.NoError(t, err)

	s.SetTier(models.TierGuest)

	// Существующие карты не трогаем, но новые не пускаем.
	assert.Equal(t, 100, s.TotalCards(models.GamePokemon))
	_, err = s.AddCard(ctx, models.GamePokemon, "s1", "c2", 1)
	assert.ErrorIs(t, err, ErrLimitReached)
}

func TestSetTier_UpgradeUnblocksAdmission(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 20)
	require.NoError(t, err)
	_, err = s.AddCard(ctx, models.GamePokemon, "s1", "c2", 1)
	require.ErrorIs(t, err, ErrLimitReached)

	s.SetTier(models.TierPremium)

	_, err = s.AddCard(ctx, models.GamePokemon, "s1", "c2", 1)
	assert.NoError(t, err)
}

// ── Snapshot ─────────────────────────────────────────────────────────────────

func TestSnapshot_DeepCopyIsolatedFromStore(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 2)
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Games[models.GamePokemon]["s1"][0] = "tampered"

	assert.Equal(t, 2, s.CardQuantity(models.GamePokemon, "s1", "c1"))
}

func TestSnapshot_RestoredOnConstruction(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteClient(ctrl)
	repo := mock.NewMockSnapshotRepository(ctrl)

	persisted := models.CollectionSnapshot{
		Games: map[models.Game]models.GameCollection{
			models.GameMagic: {"neo": {"n1", "n1", "n2"}},
		},
	}
	repo.EXPECT().Load(gomock.Any()).Return(persisted, nil)

	s, err := NewCollectionStore(context.Background(), Config{Tier: models.TierPremium}, repo, remote, nil, events.NewBus(), logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, 2, s.CardQuantity(models.GameMagic, "neo", "n1"))
	assert.Equal(t, 3, s.TotalCards(models.GameMagic))
}

func TestSnapshot_RestoreDropsConflictingRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteClient(ctrl)
	repo := mock.NewMockSnapshotRepository(ctrl)

	// Один instance_id под двумя сетами одной игры — повреждённый снапшот.
	persisted := models.CollectionSnapshot{
		Games: map[models.Game]models.GameCollection{
			models.GamePokemon: {
				"sv1": {"sv1-025", "sv1-025"},
				"sv2": {"sv1-025"},
			},
		},
	}
	repo.EXPECT().Load(gomock.Any()).Return(persisted, nil)

	s, err := NewCollectionStore(context.Background(), Config{Tier: models.TierPremium}, repo, remote, nil, events.NewBus(), logger.Nop())
	require.NoError(t, err)

	// Выживает ровно один сет: записи, пришедшие вторыми, отброшены.
	qtySV1 := s.CardQuantity(models.GamePokemon, "sv1", "sv1-025")
	qtySV2 := s.CardQuantity(models.GamePokemon, "sv2", "sv1-025")
	if qtySV1 > 0 {
		assert.Equal(t, 2, qtySV1)
		assert.Zero(t, qtySV2)
	} else {
		assert.Equal(t, 1, qtySV2)
	}
	total := s.TotalCards(models.GamePokemon)
	assert.Equal(t, total, s.SetCards(models.GamePokemon, "sv1")+s.SetCards(models.GamePokemon, "sv2"))
	assert.Equal(t, total, qtySV1+qtySV2)
}

// ── Close ────────────────────────────────────────────────────────────────────

func TestClose_StopsInFlightAutoPush(t *testing.T) {
	ctrl := gomock.NewController(t)
	remote := mock.NewMockRemoteClient(ctrl)

	cfg := freeTierTwenty()
	cfg.AutoPush = true
	s, err := NewCollectionStore(context.Background(), cfg, nil, remote, nil, events.NewBus(), logger.Nop())
	require.NoError(t, err)

	pushStarted := make(chan struct{})
	remote.EXPECT().
		PushCollection(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ models.CollectionSnapshot) error {
			close(pushStarted)
			// Пуш завершается только по отмене контекста стора.
			<-ctx.Done()
			return ctx.Err()
		})

	_, err = s.AddCard(context.Background(), models.GamePokemon, "s1", "c1", 1)
	require.NoError(t, err)

	select {
	case <-pushStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("фоновый пуш так и не стартовал")
	}

	require.NoError(t, s.Close(context.Background()))

	// К возврату Close пуш уже завершён; состояние больше не меняется.
	assert.Equal(t, models.SyncError, s.SyncStatus().State)
}
