package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lppanel/internal/models"
	"lppanel/internal/notify"
)

type fakeAPI struct {
	mu            sync.Mutex
	active        []models.BotSummary
	unactive      []models.BotSummary
	activeHook    func(call int) []models.BotSummary
	listErr       error
	actionErr     error
	activeCalls   int
	unactiveCalls int
	stopCalls     int
	resumeCalls   int
	withdrawCalls int
}

func (f *fakeAPI) ActiveBots(ctx context.Context) ([]models.BotSummary, error) {
	f.mu.Lock()
	f.activeCalls++
	n := f.activeCalls
	hook := f.activeHook
	f.mu.Unlock()
	if hook != nil {
		return hook(n), nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, f.listErr
}

func (f *fakeAPI) UnactiveBots(ctx context.Context) ([]models.BotSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unactiveCalls++
	return f.unactive, f.listErr
}

func (f *fakeAPI) StopBot(ctx context.Context, botID string) (models.StopBotResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	return models.StopBotResponse{Status: "stopped"}, f.actionErr
}

func (f *fakeAPI) ResumeBot(ctx context.Context, botID string) (models.ResumeBotResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumeCalls++
	return models.ResumeBotResponse{BotID: botID}, f.actionErr
}

func (f *fakeAPI) WithdrawBot(ctx context.Context, botID string) (models.WithdrawBotResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.withdrawCalls++
	return models.WithdrawBotResponse{Status: "withdrawn"}, f.actionErr
}

type recordingNotifier struct {
	mu     sync.Mutex
	levels []notify.Level
}

func (r *recordingNotifier) Notify(level notify.Level, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.levels = append(r.levels, level)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.levels)
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

func TestHandleTickUpdatesOnlyThatBot(t *testing.T) {
	p := New(&fakeAPI{}, nil)
	p.HandleTick(models.TickSample{BotID: "b2", Status: "stopped", Tick: 55})

	sample := models.TickSample{
		BotID:      "b1",
		Y:          f64(0.5),
		Tick:       100,
		LowerTick:  80,
		UpperTick:  120,
		Status:     "active",
		PositionID: i64(7),
		Owed0Units: "0.1",
		Owed1Units: "0.2",
		Timestamp:  "T",
	}
	p.HandleTick(sample)

	snap, ok := p.Latest("b1")
	require.True(t, ok)
	assert.Equal(t, "active", snap.Status)
	assert.Equal(t, int64(7), *snap.PositionID)
	assert.Equal(t, "0.1", snap.Owed0Units)

	ticks := p.Ticks("b1")
	require.Len(t, ticks, 1)
	assert.Equal(t, int64(100), ticks[0].Tick)

	// bot b2 untouched by b1's message
	other, ok := p.Latest("b2")
	require.True(t, ok)
	assert.Equal(t, "stopped", other.Status)
	assert.Empty(t, p.Ticks("b2"), "sample without a normalized tick never charts")
}

func TestHandleTickRingBounded(t *testing.T) {
	p := New(&fakeAPI{}, nil)
	for i := 0; i < RingSize+25; i++ {
		p.HandleTick(models.TickSample{BotID: "b1", Y: f64(0.5), Tick: int64(i)})
	}
	ticks := p.Ticks("b1")
	require.Len(t, ticks, RingSize)
	assert.Equal(t, int64(25), ticks[0].Tick, "oldest samples dropped first")
	assert.Equal(t, int64(RingSize+24), ticks[len(ticks)-1].Tick)
}

func TestHandleTickWithoutYOnlyPatchesSnapshot(t *testing.T) {
	p := New(&fakeAPI{}, nil)
	p.HandleTick(models.TickSample{BotID: "b1", Status: "rebalancing", Tick: 42})

	snap, ok := p.Latest("b1")
	require.True(t, ok)
	assert.Equal(t, "rebalancing", snap.Status)
	assert.Empty(t, p.Ticks("b1"))
}

func TestStopSuccessRefreshesBothListsOnce(t *testing.T) {
	api := &fakeAPI{active: []models.BotSummary{{BotID: "b1", Status: "active"}}}
	rec := &recordingNotifier{}
	p := New(api, rec)

	require.NoError(t, p.Stop(context.Background(), "b1"))

	assert.Equal(t, 1, api.stopCalls)
	assert.Equal(t, 1, api.activeCalls)
	assert.Equal(t, 1, api.unactiveCalls)
	assert.False(t, p.Flags("b1").Stopping, "loading flag cleared after completion")
}

func TestStopFailureClearsFlagWithoutRefresh(t *testing.T) {
	api := &fakeAPI{actionErr: errors.New("boom")}
	rec := &recordingNotifier{}
	p := New(api, rec)

	require.Error(t, p.Stop(context.Background(), "b1"))

	assert.Equal(t, 0, api.activeCalls, "no refresh on failure")
	assert.False(t, p.Flags("b1").Stopping)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, notify.LevelError, rec.levels[0])
}

func TestResumeAndWithdrawRefresh(t *testing.T) {
	api := &fakeAPI{}
	p := New(api, nil)

	require.NoError(t, p.Resume(context.Background(), "b1"))
	require.NoError(t, p.Withdraw(context.Background(), "b1"))

	assert.Equal(t, 1, api.resumeCalls)
	assert.Equal(t, 1, api.withdrawCalls)
	assert.Equal(t, 2, api.activeCalls)
	assert.Equal(t, 2, api.unactiveCalls)
	assert.False(t, p.Flags("b1").Busy())
}

func TestFlagsIndependentAcrossBots(t *testing.T) {
	p := New(&fakeAPI{}, nil)
	p.setFlag("b1", func(f *models.ActionFlags) { f.Stopping = true })

	assert.True(t, p.Flags("b1").Stopping)
	assert.False(t, p.Flags("b2").Busy(), "unrelated bots stay responsive")
}

func TestInitialRefreshSuppressesErrorNotification(t *testing.T) {
	api := &fakeAPI{listErr: errors.New("service down")}
	rec := &recordingNotifier{}
	p := New(api, rec)

	require.Error(t, p.Refresh(context.Background()))
	assert.Equal(t, 0, rec.count(), "first fetch failure stays silent")

	require.Error(t, p.Refresh(context.Background()))
	assert.Equal(t, 1, rec.count(), "later refresh failures are reported")
}

func TestStaleRefreshResultDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{}
	api.activeHook = func(call int) []models.BotSummary {
		if call == 1 {
			close(firstStarted)
			<-release
			return []models.BotSummary{{BotID: "stale"}}
		}
		return []models.BotSummary{{BotID: "fresh"}}
	}
	p := New(api, nil)

	done := make(chan error, 1)
	go func() { done <- p.Refresh(context.Background()) }()
	<-firstStarted

	// A second refresh starts and finishes while the first is in flight.
	require.NoError(t, p.Refresh(context.Background()))

	close(release)
	require.NoError(t, <-done)

	got := p.ActiveBots()
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].BotID, "slower older refresh must not roll the view back")
}

func TestViewsMergeSnapshotOverListing(t *testing.T) {
	api := &fakeAPI{
		active: []models.BotSummary{
			{BotID: "b1", Status: "created", PositionID: nil, Token0Amount: "100", Token1Amount: "0.05"},
			{BotID: "b2", Status: "active"},
		},
	}
	p := New(api, nil)
	require.NoError(t, p.Refresh(context.Background()))

	p.HandleTick(models.TickSample{
		BotID:      "b1",
		Status:     "rebalancing",
		PositionID: i64(9),
		Owed0Units: "0.003",
		Owed1Units: "0.004",
	})

	active, _ := p.Views()
	require.Len(t, active, 2)

	b1 := active[0]
	assert.Equal(t, "rebalancing", b1.Status)
	assert.Equal(t, models.CategoryProcessing, b1.Category)
	assert.True(t, b1.Processing)
	assert.Equal(t, int64(9), *b1.PositionID)
	assert.Equal(t, "0.003", b1.Owed0Units)

	b2 := active[1]
	assert.Equal(t, "active", b2.Status)
	assert.Equal(t, models.CategoryActive, b2.Category)
	assert.Equal(t, "0", b2.Owed0Units, "no snapshot yet defaults accrued fees to zero")
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "short", shorten("short"))
	assert.Equal(t, "12345678...", shorten(fmt.Sprintf("%d", 1234567890123)))
}
