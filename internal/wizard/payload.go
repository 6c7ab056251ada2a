package wizard

import (
	"strconv"
	"strings"

	"lppanel/internal/models"
)

// Build assembles the submission object from all step states.
//
// Required fields are always present. Optional free-text fields follow
// the "server is the arbiter" rule: blank input omits the key entirely
// (meaning "no limit" / server default), while non-empty input that does
// not parse is sent as JSON null so the service rejects it rather than
// the panel second-guessing the operator.
func (w *Wizard) Build() models.StartBotPayload {
	w.mu.Lock()
	defer w.mu.Unlock()

	p := models.StartBotPayload{
		"token0_address": w.token0,
		"token1_address": w.token1,
		"token0_amount":  numOrNull(w.amount0, parseFloatField),
		"token1_amount":  numOrNull(w.amount1, parseFloatField),
		"POOL_FEE":       int(w.feeTier),
	}

	putOptional(p, "COOLDOWN_SEC", w.risk.CooldownSec, parseIntField)
	putOptional(p, "MIN_WIDTH_SPACINGS", w.risk.MinWidthSpacings, parseIntField)
	putOptional(p, "MIN_WIDTH_PCT", w.risk.MinWidthPct, parseFloatField)
	putOptional(p, "EXIT_BUFFER_SPACINGS", w.risk.ExitBufferSpacings, parseIntField)
	putOptional(p, "slipage_bps", w.risk.SlippageBps, parseIntField)
	putOptional(p, "max_rebalances_per_day", w.risk.MaxRebalancesPerDay, parseIntField)
	putOptional(p, "max_rebalances_per_hour", w.risk.MaxRebalancesPerHour, parseIntField)
	putOptional(p, "max_turnover_token0_24h", w.risk.MaxTurnoverToken0, parseFloatField)
	putOptional(p, "max_turnover_token1_24h", w.risk.MaxTurnoverToken1, parseFloatField)
	putOptional(p, "circuit_max_base_fee_gwei", w.risk.CircuitMaxBaseFeeGwei, parseFloatField)
	putOptional(p, "circuit_move_pct", w.risk.CircuitMovePct, parseFloatField)
	putOptional(p, "circuit_tick_jump", w.risk.CircuitTickJump, parseIntField)

	switch w.strategy.Kind {
	case StrategyManual:
		p["strategy"] = string(StrategyManual)
		putOptional(p, "upper_band_pct", w.strategy.UpperBandPct, parseFloatField)
		putOptional(p, "lower_band_pct", w.strategy.LowerBandPct, parseFloatField)
	case StrategyForecast:
		p["strategy"] = string(StrategyForecast)
		putOptional(p, "atr_period_days", w.strategy.ATRPeriodDays, parseIntField)
		putOptional(p, "horizon_days", w.strategy.HorizonDays, parseIntField)
		putOptional(p, "target_coverage", w.strategy.TargetCoverage, parseFloatField)
		putOptional(p, "vol_multiplier", w.strategy.VolMultiplier, parseFloatField)
	}
	if w.strategy.Kind != StrategyNone {
		putOptional(p, "upside_rebal_pct", w.strategy.UpsideRebalPct, parseFloatField)
		putOptional(p, "downside_rebal_pct", w.strategy.DownsideRebalPct, parseFloatField)
	}

	return p
}

type fieldParser func(string) (any, bool)

func parseFloatField(s string) (any, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return v, true
}

func parseIntField(s string) (any, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, false
	}
	return v, true
}

// putOptional inserts the key only when the operator typed something.
func putOptional(p models.StartBotPayload, key, raw string, parse fieldParser) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	p[key] = nullable(parse(raw))
}

// numOrNull is for required numeric fields: always present, null when
// blank or unparseable.
func numOrNull(raw string, parse fieldParser) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return nullable(parse(raw))
}

func nullable(v any, ok bool) any {
	if !ok {
		return nil
	}
	return v
}
