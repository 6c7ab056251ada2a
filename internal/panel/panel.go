// Package panel holds the dashboard's mirrored view of the bot service:
// the active/inactive listings, the latest push-channel snapshot per bot,
// a bounded tick ring per bot for charting, and the per-bot action flags.
// The service's listing is always the source of truth after an action;
// nothing here mutates optimistically.
package panel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lppanel/internal/botapi"
	"lppanel/internal/models"
	"lppanel/internal/notify"
)

// RingSize bounds the per-bot chart history; older samples are dropped.
const RingSize = 50

// API is the slice of the bot service the panel drives.
type API interface {
	StopBot(ctx context.Context, botID string) (models.StopBotResponse, error)
	ResumeBot(ctx context.Context, botID string) (models.ResumeBotResponse, error)
	WithdrawBot(ctx context.Context, botID string) (models.WithdrawBotResponse, error)
	ActiveBots(ctx context.Context) ([]models.BotSummary, error)
	UnactiveBots(ctx context.Context) ([]models.BotSummary, error)
}

type Panel struct {
	api      API
	notifier notify.Notifier

	mu         sync.Mutex
	active     []models.BotSummary
	unactive   []models.BotSummary
	latest     map[string]models.BotSnapshot
	ticks      map[string][]models.TickSample
	flags      map[string]models.ActionFlags
	nextSeq    uint64
	appliedSeq uint64
	loadedOnce bool
}

func New(api API, notifier notify.Notifier) *Panel {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Panel{
		api:      api,
		notifier: notifier,
		latest:   map[string]models.BotSnapshot{},
		ticks:    map[string][]models.TickSample{},
		flags:    map[string]models.ActionFlags{},
	}
}

// Refresh re-fetches both bot lists. Each refresh is tagged with a
// monotonic sequence number; a result that finishes after a newer refresh
// has already been applied is discarded, so overlapping refreshes cannot
// roll the view back. The very first fetch suppresses its own error
// notification; later failures are reported.
func (p *Panel) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.nextSeq++
	seq := p.nextSeq
	silent := !p.loadedOnce
	p.loadedOnce = true
	p.mu.Unlock()

	active, err := p.api.ActiveBots(ctx)
	if err != nil {
		return p.refreshFailed(err, silent)
	}
	unactive, err := p.api.UnactiveBots(ctx)
	if err != nil {
		return p.refreshFailed(err, silent)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq < p.appliedSeq {
		return nil // a newer refresh already landed
	}
	p.appliedSeq = seq
	p.active = active
	p.unactive = unactive
	return nil
}

func (p *Panel) refreshFailed(err error, silent bool) error {
	if !silent {
		p.notifier.Notify(notify.LevelError, "Error", botapi.UserMessage(err, "Failed to fetch bots"))
	}
	return err
}

// Stop requests a stop for one bot. The flag keeps only that bot's stop
// control busy; success triggers exactly one refresh of both lists.
func (p *Panel) Stop(ctx context.Context, botID string) error {
	p.setFlag(botID, func(f *models.ActionFlags) { f.Stopping = true })
	defer p.setFlag(botID, func(f *models.ActionFlags) { f.Stopping = false })

	if _, err := p.api.StopBot(ctx, botID); err != nil {
		p.notifier.Notify(notify.LevelError, "Error", botapi.UserMessage(err, "Failed to stop bot"))
		return err
	}
	p.notifier.Notify(notify.LevelSuccess, "Success",
		fmt.Sprintf("Bot %s stopped successfully", shorten(botID)))
	_ = p.Refresh(ctx)
	return nil
}

func (p *Panel) Resume(ctx context.Context, botID string) error {
	p.setFlag(botID, func(f *models.ActionFlags) { f.Resuming = true })
	defer p.setFlag(botID, func(f *models.ActionFlags) { f.Resuming = false })

	if _, err := p.api.ResumeBot(ctx, botID); err != nil {
		p.notifier.Notify(notify.LevelError, "Error", botapi.UserMessage(err, "Failed to resume bot"))
		return err
	}
	p.notifier.Notify(notify.LevelSuccess, "Success",
		fmt.Sprintf("Bot %s resumed successfully", shorten(botID)))
	_ = p.Refresh(ctx)
	return nil
}

func (p *Panel) Withdraw(ctx context.Context, botID string) error {
	p.setFlag(botID, func(f *models.ActionFlags) { f.Withdrawing = true })
	defer p.setFlag(botID, func(f *models.ActionFlags) { f.Withdrawing = false })

	if _, err := p.api.WithdrawBot(ctx, botID); err != nil {
		p.notifier.Notify(notify.LevelError, "Error", botapi.UserMessage(err, "Failed to withdraw"))
		return err
	}
	p.notifier.Notify(notify.LevelSuccess, "Success",
		fmt.Sprintf("Liquidity withdrawn for bot %s", shorten(botID)))
	_ = p.Refresh(ctx)
	return nil
}

// HandleTick applies one push-channel message: the bot's latest snapshot
// is patched unconditionally, and the full sample joins the chart ring
// only when the normalized tick value is present.
func (p *Panel) HandleTick(s models.TickSample) {
	if s.BotID == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.latest[s.BotID] = models.BotSnapshot{
		Status:     s.Status,
		PositionID: s.PositionID,
		Owed0Units: s.Owed0Units,
		Owed1Units: s.Owed1Units,
		Tick:       s.Tick,
		LowerTick:  s.LowerTick,
		UpperTick:  s.UpperTick,
		Timestamp:  s.Timestamp,
		ReceivedAt: time.Now(),
	}

	if s.Y == nil {
		return
	}
	ring := append(p.ticks[s.BotID], s)
	if len(ring) > RingSize {
		ring = ring[len(ring)-RingSize:]
	}
	p.ticks[s.BotID] = ring
}

func (p *Panel) ActiveBots() []models.BotSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.BotSummary(nil), p.active...)
}

func (p *Panel) UnactiveBots() []models.BotSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.BotSummary(nil), p.unactive...)
}

func (p *Panel) Latest(botID string) (models.BotSnapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, ok := p.latest[botID]
	return snap, ok
}

func (p *Panel) Ticks(botID string) []models.TickSample {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.TickSample(nil), p.ticks[botID]...)
}

func (p *Panel) Flags(botID string) models.ActionFlags {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flags[botID]
}

func (p *Panel) setFlag(botID string, mutate func(*models.ActionFlags)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := p.flags[botID]
	mutate(&f)
	p.flags[botID] = f
}

// BotView is one dashboard row: the listing entry merged with the newest
// push-channel snapshot when one has arrived.
type BotView struct {
	models.BotSummary
	Status     string                 `json:"status"`
	Category   models.DisplayCategory `json:"category"`
	Processing bool                   `json:"processing"`
	PositionID *int64                 `json:"position_id"`
	Owed0Units string                 `json:"owed0_units"`
	Owed1Units string                 `json:"owed1_units"`
	Flags      models.ActionFlags     `json:"flags"`
}

// Views merges lists, snapshots and flags for rendering. The live
// snapshot, when present, wins over the listing for status, position and
// accrued fees.
func (p *Panel) Views() (active, unactive []BotView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewsLocked(p.active), p.viewsLocked(p.unactive)
}

func (p *Panel) viewsLocked(bots []models.BotSummary) []BotView {
	views := make([]BotView, 0, len(bots))
	for _, b := range bots {
		v := BotView{
			BotSummary: b,
			Status:     b.Status,
			PositionID: b.PositionID,
			Owed0Units: "0",
			Owed1Units: "0",
			Flags:      p.flags[b.BotID],
		}
		if snap, ok := p.latest[b.BotID]; ok {
			if snap.Status != "" {
				v.Status = snap.Status
			}
			if snap.PositionID != nil {
				v.PositionID = snap.PositionID
			}
			if snap.Owed0Units != "" {
				v.Owed0Units = snap.Owed0Units
			}
			if snap.Owed1Units != "" {
				v.Owed1Units = snap.Owed1Units
			}
		}
		status := models.ParseStatus(v.Status)
		v.Category = status.Category()
		v.Processing = status.Processing()
		views = append(views, v)
	}
	return views
}

func shorten(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}
