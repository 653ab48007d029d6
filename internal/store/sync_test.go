package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cardkeep/cardkeep/internal/adapter"
	"github.com/cardkeep/cardkeep/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── SyncCollection ───────────────────────────────────────────────────────────

func TestSyncCollection_Success(t *testing.T) {
	s, remote, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 2)
	require.NoError(t, err)

	remote.EXPECT().
		PushCollection(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snap models.CollectionSnapshot) error {
			assert.Equal(t, 2, snap.TotalCards())
			return nil
		})

	require.NoError(t, s.SyncCollection(ctx))

	status := s.SyncStatus()
	assert.Equal(t, models.SyncSuccess, status.State)
	require.NotNil(t, status.LastSyncTime)
	assert.WithinDuration(t, time.Now(), *status.LastSyncTime, time.Minute)
}

func TestSyncCollection_RejectedLeavesLocalDataIntact(t *testing.T) {
	s, remote, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 3)
	require.NoError(t, err)

	remote.EXPECT().
		PushCollection(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("push collection request: %w", adapter.ErrServerRejected))

	err = s.SyncCollection(ctx)

	require.ErrorIs(t, err, ErrSyncRejected)
	assert.Equal(t, models.SyncError, s.SyncStatus().State)
	assert.Nil(t, s.SyncStatus().LastSyncTime)
	// Локальные данные — источник истины, ошибка синка их не трогает.
	assert.Equal(t, 3, s.TotalCards(models.GamePokemon))
}

func TestSyncCollection_TimeoutClassified(t *testing.T) {
	s, remote, _ := newTestStore(t, freeTierTwenty())

	remote.EXPECT().
		PushCollection(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("push collection request: %w", context.DeadlineExceeded))

	err := s.SyncCollection(context.Background())

	require.ErrorIs(t, err, ErrSyncTimeout)
}

func TestSyncCollection_NetworkErrorClassified(t *testing.T) {
	s, remote, _ := newTestStore(t, freeTierTwenty())

	remote.EXPECT().
		PushCollection(gomock.Any(), gomock.Any()).
		Return(errors.New("dial tcp: connection refused"))

	err := s.SyncCollection(context.Background())

	require.ErrorIs(t, err, ErrSyncNetwork)
}

func TestSyncCollection_ConcurrentCallsCoalesced(t *testing.T) {
	s, remote, _ := newTestStore(t, freeTierTwenty())

	release := make(chan struct{})
	remote.EXPECT().
		PushCollection(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, models.CollectionSnapshot) error {
			<-release
			return nil
		}).
		Times(1)

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[0] = s.SyncCollection(context.Background())
	}()

	// Даём первому вызову занять single-flight слот, затем запускаем
	// второй: он должен присоединиться к уже идущему push.
	time.Sleep(50 * time.Millisecond)
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs[1] = s.SyncCollection(context.Background())
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, models.SyncSuccess, s.SyncStatus().State)
}

// ── State machine ────────────────────────────────────────────────────────────

func TestAcknowledgeSync_DismissesTerminalState(t *testing.T) {
	s, remote, _ := newTestStore(t, freeTierTwenty())

	remote.EXPECT().PushCollection(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, s.SyncCollection(context.Background()))
	require.Equal(t, models.SyncSuccess, s.SyncStatus().State)

	s.AcknowledgeSync()

	assert.Equal(t, models.SyncIdle, s.SyncStatus().State)
}

func TestAcknowledgeSync_NoOpWhenIdle(t *testing.T) {
	s, _, _ := newTestStore(t, freeTierTwenty())

	s.AcknowledgeSync()

	assert.Equal(t, models.SyncIdle, s.SyncStatus().State)
}

func TestMutation_ResetsTerminalSyncState(t *testing.T) {
	s, remote, _ := newTestStore(t, freeTierTwenty())
	ctx := context.Background()

	remote.EXPECT().PushCollection(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, s.SyncCollection(ctx))
	require.Equal(t, models.SyncSuccess, s.SyncStatus().State)

	_, err := s.AddCard(ctx, models.GamePokemon, "s1", "c1", 1)
	require.NoError(t, err)

	assert.Equal(t, models.SyncIdle, s.SyncStatus().State)
}
