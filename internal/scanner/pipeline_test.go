package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cardkeep/cardkeep/internal/events"
	"github.com/cardkeep/cardkeep/internal/logger"
	"github.com/cardkeep/cardkeep/internal/mock"
	"github.com/cardkeep/cardkeep/internal/store"
	"github.com/cardkeep/cardkeep/models"
)

type pipelineFixture struct {
	pipeline  *Pipeline
	capture   *mock.MockCaptureSource
	remote    *mock.MockIdentifier
	collector *mock.MockCollector
	bus       *events.Bus
}

func newTestPipeline(t *testing.T) *pipelineFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &pipelineFixture{
		capture:   mock.NewMockCaptureSource(ctrl),
		remote:    mock.NewMockIdentifier(ctrl),
		collector: mock.NewMockCollector(ctrl),
		bus:       events.NewBus(),
	}
	f.pipeline = NewPipeline(Config{}, f.capture, f.remote, f.collector, f.bus, logger.Nop())
	return f
}

func pikachuResult() models.IdentifyResult {
	return models.IdentifyResult{
		Game:           models.GamePokemon,
		Name:           "Пикачу",
		EnglishName:    "Pikachu",
		SetID:          "sv1",
		SetName:        "Scarlet & Violet",
		CardNumber:     "025",
		Rarity:         "common",
		EstimatedValue: 1.5,
		Verified:       true,
		VerifiedCardID: "sv1-025",
	}
}

func (f *pipelineFixture) expectScan(result models.IdentifyResult) {
	f.capture.EXPECT().CaptureFrame(gomock.Any()).Return([]byte("frame"), nil)
	f.remote.EXPECT().Identify(gomock.Any(), []byte("frame")).Return(result, nil)
}

// ── ScanOnce ─────────────────────────────────────────────────────────────────

func TestScanOnce_IdentifiesCard(t *testing.T) {
	f := newTestPipeline(t)
	f.expectScan(pikachuResult())

	item, err := f.pipeline.ScanOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.ScanIdentified, item.Status)
	assert.Equal(t, models.GamePokemon, item.Game)
	assert.Equal(t, "sv1", item.SetID)
	assert.Equal(t, "sv1-025", item.InstanceID, "verified card id wins over set/number key")
	assert.Equal(t, "Pikachu", item.EnglishName)
	assert.NotEmpty(t, item.LocalID)
	assert.False(t, item.Added)

	items := f.pipeline.Items()
	require.Len(t, items, 1)
	assert.Equal(t, item.LocalID, items[0].LocalID)
}

func TestScanOnce_PublishesItemIdentifiedEvent(t *testing.T) {
	f := newTestPipeline(t)
	ch, cancel := f.bus.Subscribe()
	defer cancel()

	f.expectScan(pikachuResult())

	_, err := f.pipeline.ScanOnce(context.Background())
	require.NoError(t, err)

	select {
	case evt := <-ch:
		assert.Equal(t, events.KindItemIdentified, evt.Kind)
		require.NotNil(t, evt.Item)
		assert.Equal(t, "Pikachu", evt.Item.EnglishName)
	case <-time.After(time.Second):
		t.Fatal("expected an ItemIdentified event")
	}
}

func TestScanOnce_NoFrameSkips(t *testing.T) {
	f := newTestPipeline(t)
	f.capture.EXPECT().CaptureFrame(gomock.Any()).Return(nil, nil)

	_, err := f.pipeline.ScanOnce(context.Background())

	require.ErrorIs(t, err, ErrNoFrame)
	assert.Empty(t, f.pipeline.Items())
}

func TestScanOnce_IdentifyFailureDiscardsItem(t *testing.T) {
	f := newTestPipeline(t)
	f.capture.EXPECT().CaptureFrame(gomock.Any()).Return([]byte("frame"), nil)
	f.remote.EXPECT().Identify(gomock.Any(), gomock.Any()).
		Return(models.IdentifyResult{}, errors.New("card not recognized"))

	_, err := f.pipeline.ScanOnce(context.Background())

	require.Error(t, err)
	// Неудачный скан удаляется из списка, а не помечается ошибкой.
	assert.Empty(t, f.pipeline.Items())
}

func TestScanOnce_InFlightGuard(t *testing.T) {
	f := newTestPipeline(t)
	f.pipeline.inFlight.Store(true)

	_, err := f.pipeline.ScanOnce(context.Background())

	require.ErrorIs(t, err, ErrScanInFlight)
}

func TestScanOnce_PausedDuringSubmitDiscardsResult(t *testing.T) {
	f := newTestPipeline(t)
	f.capture.EXPECT().CaptureFrame(gomock.Any()).Return([]byte("frame"), nil)
	f.remote.EXPECT().Identify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, []byte) (models.IdentifyResult, error) {
			// Пауза приходит, пока запрос в полёте.
			f.pipeline.Pause()
			return pikachuResult(), nil
		})

	_, err := f.pipeline.ScanOnce(context.Background())

	require.Error(t, err)
	assert.Empty(t, f.pipeline.Items(), "a result landing while paused must be ignored")
}

// ── дедупликация ─────────────────────────────────────────────────────────────

func TestScanOnce_DuplicateWithinCooldown(t *testing.T) {
	f := newTestPipeline(t)
	f.expectScan(pikachuResult())
	f.expectScan(pikachuResult())

	_, err := f.pipeline.ScanOnce(context.Background())
	require.NoError(t, err)

	_, err = f.pipeline.ScanOnce(context.Background())
	require.ErrorIs(t, err, ErrDuplicate)

	assert.Len(t, f.pipeline.Items(), 1, "one physical card, one identified item")
}

func TestScanOnce_DuplicateAfterCooldownElapsed(t *testing.T) {
	f := newTestPipeline(t)
	base := time.Now()
	f.pipeline.window.now = func() time.Time { return base }

	f.expectScan(pikachuResult())
	f.expectScan(pikachuResult())

	_, err := f.pipeline.ScanOnce(context.Background())
	require.NoError(t, err)

	f.pipeline.window.now = func() time.Time { return base.Add(16 * time.Second) }

	_, err = f.pipeline.ScanOnce(context.Background())
	require.NoError(t, err)

	assert.Len(t, f.pipeline.Items(), 2)
}

func TestScanOnce_LocalizedNameSharesFingerprint(t *testing.T) {
	f := newTestPipeline(t)

	localized := pikachuResult()
	localized.Name = "ピカチュウ"

	f.expectScan(pikachuResult())
	f.expectScan(localized)

	_, err := f.pipeline.ScanOnce(context.Background())
	require.NoError(t, err)

	// Тот же английский заголовок — тот же отпечаток.
	_, err = f.pipeline.ScanOnce(context.Background())
	require.ErrorIs(t, err, ErrDuplicate)
}

// ── AddOne / AddAll ──────────────────────────────────────────────────────────

func (f *pipelineFixture) scanIdentified(t *testing.T, cardNumber string) models.ScannedItem {
	t.Helper()
	result := pikachuResult()
	result.CardNumber = cardNumber
	result.VerifiedCardID = "sv1-" + cardNumber
	f.expectScan(result)

	item, err := f.pipeline.ScanOnce(context.Background())
	require.NoError(t, err)
	return item
}

func TestAddOne_Success(t *testing.T) {
	f := newTestPipeline(t)
	item := f.scanIdentified(t, "025")

	f.collector.EXPECT().
		AddCard(gomock.Any(), models.GamePokemon, "sv1", "sv1-025", 1).
		Return(1, nil)

	ok, err := f.pipeline.AddOne(context.Background(), item.LocalID)

	require.NoError(t, err)
	assert.True(t, ok)

	items := f.pipeline.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].Added, "committed item stays visible as a completed chip")
}

func TestAddOne_LimitReachedReturnsFalse(t *testing.T) {
	f := newTestPipeline(t)
	item := f.scanIdentified(t, "025")

	f.collector.EXPECT().
		AddCard(gomock.Any(), models.GamePokemon, "sv1", "sv1-025", 1).
		Return(0, store.ErrLimitReached)

	ok, err := f.pipeline.AddOne(context.Background(), item.LocalID)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, f.pipeline.Items()[0].Added, "refused item stays un-added")
}

func TestAddOne_UnknownItem(t *testing.T) {
	f := newTestPipeline(t)

	_, err := f.pipeline.AddOne(context.Background(), "no-such-id")

	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestAddOne_AlreadyAddedItemRejected(t *testing.T) {
	f := newTestPipeline(t)
	item := f.scanIdentified(t, "025")

	f.collector.EXPECT().
		AddCard(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), 1).
		Return(1, nil)

	ok, err := f.pipeline.AddOne(context.Background(), item.LocalID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.pipeline.AddOne(context.Background(), item.LocalID)
	require.ErrorIs(t, err, ErrUnknownItem)
}

func TestAddAll_CommitsInArrivalOrder(t *testing.T) {
	f := newTestPipeline(t)
	f.scanIdentified(t, "001")
	f.scanIdentified(t, "002")
	f.scanIdentified(t, "003")

	gomock.InOrder(
		f.collector.EXPECT().
			AddCard(gomock.Any(), models.GamePokemon, "sv1", "sv1-001", 1).Return(1, nil),
		f.collector.EXPECT().
			AddCard(gomock.Any(), models.GamePokemon, "sv1", "sv1-002", 1).Return(2, nil),
		f.collector.EXPECT().
			AddCard(gomock.Any(), models.GamePokemon, "sv1", "sv1-003", 1).Return(3, nil),
	)

	added, err := f.pipeline.AddAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, added)
	for _, item := range f.pipeline.Items() {
		assert.True(t, item.Added)
	}
}

func TestAddAll_StopsAtFirstLimitReached(t *testing.T) {
	f := newTestPipeline(t)
	f.scanIdentified(t, "001")
	f.scanIdentified(t, "002")
	f.scanIdentified(t, "003")

	gomock.InOrder(
		f.collector.EXPECT().
			AddCard(gomock.Any(), models.GamePokemon, "sv1", "sv1-001", 1).Return(1, nil),
		// Второй элемент упирается в лимит — третий не пробуем вовсе.
		f.collector.EXPECT().
			AddCard(gomock.Any(), models.GamePokemon, "sv1", "sv1-002", 1).
			Return(0, store.ErrLimitReached),
	)

	added, err := f.pipeline.AddAll(context.Background())

	require.ErrorIs(t, err, store.ErrLimitReached)
	assert.Equal(t, 1, added)

	items := f.pipeline.Items()
	assert.True(t, items[0].Added)
	assert.False(t, items[1].Added)
	assert.False(t, items[2].Added)
}

func TestAddAll_SkipsAlreadyAddedItems(t *testing.T) {
	f := newTestPipeline(t)
	first := f.scanIdentified(t, "001")
	f.scanIdentified(t, "002")

	f.collector.EXPECT().
		AddCard(gomock.Any(), models.GamePokemon, "sv1", "sv1-001", 1).Return(1, nil)
	ok, err := f.pipeline.AddOne(context.Background(), first.LocalID)
	require.NoError(t, err)
	require.True(t, ok)

	f.collector.EXPECT().
		AddCard(gomock.Any(), models.GamePokemon, "sv1", "sv1-002", 1).Return(2, nil)

	added, err := f.pipeline.AddAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, added)
}

// ── цикл Start/Stop ──────────────────────────────────────────────────────────

func TestPipeline_StartScansPeriodically(t *testing.T) {
	f := newTestPipeline(t)
	f.pipeline.interval = 10 * time.Millisecond

	identified := make(chan struct{}, 1)
	f.capture.EXPECT().CaptureFrame(gomock.Any()).Return([]byte("frame"), nil).MinTimes(1)
	f.remote.EXPECT().Identify(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, []byte) (models.IdentifyResult, error) {
			select {
			case identified <- struct{}{}:
			default:
			}
			return pikachuResult(), nil
		}).MinTimes(1)

	f.pipeline.Start(context.Background())
	defer f.pipeline.Stop()

	select {
	case <-identified:
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline never submitted a frame")
	}
}

func TestPipeline_StopIsIdempotent(t *testing.T) {
	f := newTestPipeline(t)

	f.pipeline.Stop()
	f.pipeline.Stop()
}

func TestPipeline_PausedTickSkipsCapture(t *testing.T) {
	f := newTestPipeline(t)
	f.pipeline.Pause()

	// Никаких ожиданий на capture: тик в паузе не трогает источник.
	f.pipeline.tick(context.Background())

	assert.Empty(t, f.pipeline.Items())
}

func TestPipeline_ResumeLiftsPause(t *testing.T) {
	f := newTestPipeline(t)

	f.pipeline.Pause()
	assert.True(t, f.pipeline.Paused())

	f.pipeline.Resume()
	assert.False(t, f.pipeline.Paused())

	f.expectScan(pikachuResult())
	f.pipeline.tick(context.Background())
	assert.Len(t, f.pipeline.Items(), 1)
}
