package wizard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lppanel/internal/models"
)

func buildWith(t *testing.T, risk RiskControls, strat Strategy) models.StartBotPayload {
	t.Helper()
	w := New(testDefaults(), nil, &fakeStarter{}, nil)
	w.Open()
	require.NoError(t, w.SelectFeeTier(models.FeeTier500))
	w.SetAmount0("100")
	w.SetAmount1("0.05")
	w.SetRiskControls(risk)
	require.NoError(t, w.SetStrategy(strat))
	return w.Build()
}

func TestBuildRequiredFields(t *testing.T) {
	p := buildWith(t, RiskControls{}, Strategy{})

	assert.Equal(t, "0xToken0", p["token0_address"])
	assert.Equal(t, "0xToken1", p["token1_address"])
	assert.Equal(t, float64(100), p["token0_amount"])
	assert.Equal(t, 0.05, p["token1_amount"])
	assert.Equal(t, 500, p["POOL_FEE"])
}

func TestBuildOmitsBlankOptionalFields(t *testing.T) {
	p := buildWith(t, RiskControls{CooldownSec: "3600"}, Strategy{})

	_, present := p["max_rebalances_per_day"]
	assert.False(t, present, "blank field must be entirely absent, not null or zero")

	for _, key := range []string{
		"max_rebalances_per_hour", "max_turnover_token0_24h", "max_turnover_token1_24h",
		"circuit_max_base_fee_gwei", "circuit_move_pct", "circuit_tick_jump",
		"strategy", "upside_rebal_pct", "downside_rebal_pct",
	} {
		_, present := p[key]
		assert.Falsef(t, present, "key %s must be absent", key)
	}

	assert.Equal(t, int64(3600), p["COOLDOWN_SEC"])
}

func TestBuildOmissionSurvivesMarshalling(t *testing.T) {
	p := buildWith(t, RiskControls{SlippageBps: "50"}, Strategy{})

	raw, err := p.MarshalBody()
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	_, present := decoded["max_rebalances_per_day"]
	assert.False(t, present)
	assert.Contains(t, decoded, "slipage_bps")
}

func TestBuildUnparseableOptionalBecomesNull(t *testing.T) {
	p := buildWith(t, RiskControls{MaxRebalancesPerDay: "lots"}, Strategy{})

	v, present := p["max_rebalances_per_day"]
	require.True(t, present, "typed garbage reaches the service for rejection")
	assert.Nil(t, v)
}

func TestBuildBlankRequiredAmountIsNull(t *testing.T) {
	w := New(testDefaults(), nil, &fakeStarter{}, nil)
	w.Open()
	p := w.Build()

	v, present := p["token0_amount"]
	require.True(t, present)
	assert.Nil(t, v)
}

func TestBuildManualStrategy(t *testing.T) {
	p := buildWith(t, RiskControls{}, Strategy{
		Kind:             StrategyManual,
		UpperBandPct:     "2.5",
		LowerBandPct:     "1.5",
		UpsideRebalPct:   "1",
		DownsideRebalPct: "1",
	})

	assert.Equal(t, "manual", p["strategy"])
	assert.Equal(t, 2.5, p["upper_band_pct"])
	assert.Equal(t, 1.5, p["lower_band_pct"])
	assert.Equal(t, float64(1), p["upside_rebal_pct"])
	assert.Equal(t, float64(1), p["downside_rebal_pct"])

	for _, key := range []string{"atr_period_days", "horizon_days", "target_coverage", "vol_multiplier"} {
		_, present := p[key]
		assert.Falsef(t, present, "forecast key %s must not leak into manual payload", key)
	}
}

func TestBuildForecastStrategy(t *testing.T) {
	p := buildWith(t, RiskControls{}, Strategy{
		Kind:           StrategyForecast,
		ATRPeriodDays:  "14",
		HorizonDays:    "7",
		TargetCoverage: "0.9",
		VolMultiplier:  "1.2",
	})

	assert.Equal(t, "forecast", p["strategy"])
	assert.Equal(t, int64(14), p["atr_period_days"])
	assert.Equal(t, int64(7), p["horizon_days"])
	assert.Equal(t, 0.9, p["target_coverage"])
	assert.Equal(t, 1.2, p["vol_multiplier"])

	for _, key := range []string{"upper_band_pct", "lower_band_pct"} {
		_, present := p[key]
		assert.Falsef(t, present, "manual key %s must not leak into forecast payload", key)
	}
}

func TestSetStrategyRejectsUnknownKind(t *testing.T) {
	w := New(testDefaults(), nil, &fakeStarter{}, nil)
	assert.Error(t, w.SetStrategy(Strategy{Kind: "martingale"}))
}
