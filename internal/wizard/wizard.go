// Package wizard implements the bot-configuration flow: pair and fee
// selection, deposit amounts with counter-amount derivation against a
// live reference price, risk controls, strategy selection and final
// payload submission. Nothing here persists; the bot service is the
// system of record once a configuration is submitted.
package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"lppanel/internal/botapi"
	"lppanel/internal/models"
	"lppanel/internal/notify"
)

type Step int

const (
	StepPair Step = iota + 1
	StepAmounts
	StepRisk
)

// EditedField records which amount the operator touched last; the other
// one is derived from it. Last writer wins.
type EditedField int

const (
	EditedNone EditedField = iota
	EditedAmount0
	EditedAmount1
)

// PriceSource supplies the token0-per-token1 reference rate, fetched once
// per wizard session when the amounts step is first entered.
type PriceSource interface {
	PriceToken0PerToken1(ctx context.Context, token0, token1 string, fee int64, dec0, dec1 int) (float64, error)
}

// Starter is the slice of the bot API the wizard needs.
type Starter interface {
	StartBot(ctx context.Context, payload models.StartBotPayload) (models.StartBotResponse, error)
}

// RiskControls carries the operator-typed risk bounds as free text.
// Blank means "unlimited" and the field is omitted from the payload.
type RiskControls struct {
	CooldownSec           string
	MinWidthSpacings      string
	MinWidthPct           string
	ExitBufferSpacings    string
	SlippageBps           string
	MaxRebalancesPerDay   string
	MaxRebalancesPerHour  string
	MaxTurnoverToken0     string
	MaxTurnoverToken1     string
	CircuitMaxBaseFeeGwei string
	CircuitMovePct        string
	CircuitTickJump       string
}

func defaultRiskControls() RiskControls {
	return RiskControls{
		CooldownSec:        "3600",
		MinWidthSpacings:   "10",
		MinWidthPct:        "0.05",
		ExitBufferSpacings: "5",
		SlippageBps:        "50",
	}
}

type StrategyKind string

const (
	StrategyNone     StrategyKind = ""
	StrategyManual   StrategyKind = "manual"
	StrategyForecast StrategyKind = "forecast"
)

// Strategy is the tagged rebalancing-strategy selection. Only the fields
// of the selected variant are submitted; the shared rebalance percentages
// apply to both variants.
type Strategy struct {
	Kind StrategyKind

	// Manual
	UpperBandPct string
	LowerBandPct string

	// Forecast
	ATRPeriodDays  string
	HorizonDays    string
	TargetCoverage string
	VolMultiplier  string

	// Shared
	UpsideRebalPct   string
	DownsideRebalPct string
}

// Defaults seeds a fresh wizard session.
type Defaults struct {
	Token0Address  string
	Token1Address  string
	Token0Decimals int
	Token1Decimals int
	FeeTier        models.FeeTier
}

type Wizard struct {
	mu       sync.Mutex
	defaults Defaults
	prices   PriceSource
	api      Starter
	notifier notify.Notifier

	open       bool
	step       Step
	token0     string
	token1     string
	feeTier    models.FeeTier
	amount0    string
	amount1    string
	lastEdited EditedField
	price      float64
	risk       RiskControls
	strategy   Strategy
}

func New(defaults Defaults, prices PriceSource, api Starter, notifier notify.Notifier) *Wizard {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	if defaults.FeeTier == 0 {
		defaults.FeeTier = models.FeeTier500
	}
	w := &Wizard{defaults: defaults, prices: prices, api: api, notifier: notifier}
	w.reset()
	return w
}

// Open starts a fresh session. Opening an already-open wizard keeps the
// current field values.
func (w *Wizard) Open() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.open {
		w.reset()
		w.open = true
	}
}

// Cancel discards all field values and closes the wizard.
func (w *Wizard) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
}

// reset returns every field to its initial default; callers hold w.mu.
func (w *Wizard) reset() {
	w.open = false
	w.step = StepPair
	w.token0 = w.defaults.Token0Address
	w.token1 = w.defaults.Token1Address
	w.feeTier = w.defaults.FeeTier
	w.amount0 = ""
	w.amount1 = ""
	w.lastEdited = EditedNone
	w.price = 0
	w.risk = defaultRiskControls()
	w.strategy = Strategy{}
}

// SelectPair sets the token pair. The pair is ordered and the two sides
// must differ.
func (w *Wizard) SelectPair(token0, token1 string) error {
	if strings.EqualFold(strings.TrimSpace(token0), strings.TrimSpace(token1)) {
		return fmt.Errorf("token0 and token1 must differ")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.token0 = strings.TrimSpace(token0)
	w.token1 = strings.TrimSpace(token1)
	return nil
}

func (w *Wizard) SelectFeeTier(fee models.FeeTier) error {
	if !fee.Valid() {
		return fmt.Errorf("unsupported fee tier: %d", fee)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.feeTier = fee
	return nil
}

// Next advances one step. Entering the amounts step fetches the reference
// price once per session; a fetch failure is reported and leaves both
// amount fields independent until a later entry succeeds.
func (w *Wizard) Next(ctx context.Context) {
	w.mu.Lock()
	switch w.step {
	case StepPair:
		w.step = StepAmounts
	case StepAmounts:
		w.step = StepRisk
		w.mu.Unlock()
		return
	default:
		w.mu.Unlock()
		return
	}
	needPrice := w.price == 0 && w.prices != nil
	token0, token1, fee := w.token0, w.token1, int64(w.feeTier)
	dec0, dec1 := w.defaults.Token0Decimals, w.defaults.Token1Decimals
	w.mu.Unlock()

	if !needPrice {
		return
	}
	p, err := w.prices.PriceToken0PerToken1(ctx, token0, token1, fee, dec0, dec1)
	if err != nil {
		w.notifier.Notify(notify.LevelError, "Error", botapi.UserMessage(err, "Failed to fetch price"))
		return
	}
	w.mu.Lock()
	w.price = p
	w.mu.Unlock()
}

func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepPair {
		w.step--
	}
}

// SetAmount0 records an operator edit of the token0 amount and derives
// the token1 amount as amount0 / price, rounded to 6 decimal places.
// Derivation is skipped while no price is available or the input does not
// parse as a number.
func (w *Wizard) SetAmount0(v string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.amount0 = v
	w.lastEdited = EditedAmount0
	if w.price <= 0 {
		return
	}
	if d, ok := parseDecimal(v); ok {
		w.amount1 = d.Div(decimal.NewFromFloat(w.price)).StringFixed(6)
	}
}

// SetAmount1 mirrors SetAmount0 in the other direction: amount0 becomes
// amount1 * price, rounded to 2 decimal places.
func (w *Wizard) SetAmount1(v string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.amount1 = v
	w.lastEdited = EditedAmount1
	if w.price <= 0 {
		return
	}
	if d, ok := parseDecimal(v); ok {
		w.amount0 = d.Mul(decimal.NewFromFloat(w.price)).StringFixed(2)
	}
}

func (w *Wizard) SetRiskControls(r RiskControls) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.risk = r
}

func (w *Wizard) SetStrategy(s Strategy) error {
	switch s.Kind {
	case StrategyNone, StrategyManual, StrategyForecast:
	default:
		return fmt.Errorf("unknown strategy: %s", s.Kind)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.strategy = s
	return nil
}

// State is a read-only view of the session for rendering.
type State struct {
	Open       bool           `json:"open"`
	Step       Step           `json:"step"`
	Token0     string         `json:"token0"`
	Token1     string         `json:"token1"`
	FeeTier    models.FeeTier `json:"fee_tier"`
	Amount0    string         `json:"amount0"`
	Amount1    string         `json:"amount1"`
	Price      float64        `json:"price"`
	LastEdited EditedField    `json:"last_edited"`
}

func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Open:       w.open,
		Step:       w.step,
		Token0:     w.token0,
		Token1:     w.token1,
		FeeTier:    w.feeTier,
		Amount0:    w.amount0,
		Amount1:    w.amount1,
		Price:      w.price,
		LastEdited: w.lastEdited,
	}
}

// Submit assembles the payload and posts it to the bot service. Success
// resets every field and closes the session; failure leaves the wizard
// open with all values intact and reports the server's message. Rapid
// repeated submission is not deduplicated.
func (w *Wizard) Submit(ctx context.Context) (models.StartBotResponse, error) {
	payload := w.Build()
	resp, err := w.api.StartBot(ctx, payload)
	if err != nil {
		w.notifier.Notify(notify.LevelError, "Error", botapi.UserMessage(err, "Failed to start bot"))
		return models.StartBotResponse{}, err
	}
	w.notifier.Notify(notify.LevelSuccess, "Success",
		fmt.Sprintf("Bot started successfully with ID: %s", resp.BotID))
	w.mu.Lock()
	w.reset()
	w.mu.Unlock()
	return resp, nil
}

func parseDecimal(v string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
