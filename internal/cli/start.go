package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lppanel/internal/config"
	"lppanel/internal/models"
	"lppanel/internal/notify"
	"lppanel/internal/pricefeed"
	"lppanel/internal/wizard"
)

// newStartCmd drives the same wizard the dashboard uses, fed from flags
// instead of form fields, so the submitted payload is identical either
// way.
func newStartCmd() *cobra.Command {
	var (
		token0, token1 string
		feeTier        int
		amount0        string
		amount1        string
		risk           wizard.RiskControls
		strategyKind   string
		strat          wizard.Strategy
		noPrice        bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Configure and launch a new liquidity bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			api, err := newAPIClient()
			if err != nil {
				return err
			}

			var prices wizard.PriceSource
			if !noPrice {
				pf, err := pricefeed.New(cfg.RPCURL, cfg.FactoryAddress)
				if err != nil {
					return err
				}
				defer pf.Close()
				prices = pf
			}

			wiz := wizard.New(wizard.Defaults{
				Token0Address:  cfg.Token0Address,
				Token1Address:  cfg.Token1Address,
				Token0Decimals: cfg.Token0Decimals,
				Token1Decimals: cfg.Token1Decimals,
			}, prices, api, notify.Discard{})

			wiz.Open()
			if token0 != "" || token1 != "" {
				if err := wiz.SelectPair(token0, token1); err != nil {
					return err
				}
			}
			if err := wiz.SelectFeeTier(models.FeeTier(feeTier)); err != nil {
				return err
			}

			wiz.Next(cmd.Context()) // enter amounts; fetches the reference price
			if amount0 != "" {
				wiz.SetAmount0(amount0)
			}
			if amount1 != "" {
				wiz.SetAmount1(amount1)
			}
			state := wiz.State()
			fmt.Printf("Reference price: %.6f, amounts: %s / %s\n", state.Price, state.Amount0, state.Amount1)

			wiz.Next(cmd.Context())
			wiz.SetRiskControls(risk)
			strat.Kind = wizard.StrategyKind(strategyKind)
			if err := wiz.SetStrategy(strat); err != nil {
				return err
			}

			resp, err := wiz.Submit(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Started bot %s: %s\n", resp.BotID, resp.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&token0, "token0", "", "token0 address (default from .env)")
	cmd.Flags().StringVar(&token1, "token1", "", "token1 address (default from .env)")
	cmd.Flags().IntVar(&feeTier, "fee-tier", 500, "pool fee tier (100|500|1500|3000|10000)")
	cmd.Flags().StringVar(&amount0, "amount0", "", "token0 deposit amount")
	cmd.Flags().StringVar(&amount1, "amount1", "", "token1 deposit amount")
	cmd.Flags().BoolVar(&noPrice, "no-price", false, "skip the on-chain reference-price fetch")

	cmd.Flags().StringVar(&risk.CooldownSec, "cooldown-sec", "3600", "seconds between rebalances")
	cmd.Flags().StringVar(&risk.MinWidthSpacings, "min-width-spacings", "10", "minimum range width in tick spacings")
	cmd.Flags().StringVar(&risk.MinWidthPct, "min-width-pct", "0.05", "minimum range width as a percentage")
	cmd.Flags().StringVar(&risk.ExitBufferSpacings, "exit-buffer-spacings", "5", "exit buffer in tick spacings")
	cmd.Flags().StringVar(&risk.SlippageBps, "slippage-bps", "50", "slippage tolerance in basis points")
	cmd.Flags().StringVar(&risk.MaxRebalancesPerDay, "max-rebalances-per-day", "", "blank for unlimited")
	cmd.Flags().StringVar(&risk.MaxRebalancesPerHour, "max-rebalances-per-hour", "", "blank for unlimited")
	cmd.Flags().StringVar(&risk.MaxTurnoverToken0, "max-turnover-token0", "", "24h token0 turnover cap, blank for unlimited")
	cmd.Flags().StringVar(&risk.MaxTurnoverToken1, "max-turnover-token1", "", "24h token1 turnover cap, blank for unlimited")
	cmd.Flags().StringVar(&risk.CircuitMaxBaseFeeGwei, "circuit-max-base-fee-gwei", "", "circuit breaker: max base fee")
	cmd.Flags().StringVar(&risk.CircuitMovePct, "circuit-move-pct", "", "circuit breaker: price move percentage")
	cmd.Flags().StringVar(&risk.CircuitTickJump, "circuit-tick-jump", "", "circuit breaker: tick jump threshold")

	cmd.Flags().StringVar(&strategyKind, "strategy", "", "rebalancing strategy (manual|forecast)")
	cmd.Flags().StringVar(&strat.UpperBandPct, "upper-band-pct", "", "manual strategy upper band")
	cmd.Flags().StringVar(&strat.LowerBandPct, "lower-band-pct", "", "manual strategy lower band")
	cmd.Flags().StringVar(&strat.ATRPeriodDays, "atr-period-days", "", "forecast strategy ATR period")
	cmd.Flags().StringVar(&strat.HorizonDays, "horizon-days", "", "forecast strategy horizon")
	cmd.Flags().StringVar(&strat.TargetCoverage, "target-coverage", "", "forecast strategy target coverage")
	cmd.Flags().StringVar(&strat.VolMultiplier, "vol-multiplier", "", "forecast strategy volatility multiplier")
	cmd.Flags().StringVar(&strat.UpsideRebalPct, "upside-rebal-pct", "", "shared upside rebalance trigger")
	cmd.Flags().StringVar(&strat.DownsideRebalPct, "downside-rebal-pct", "", "shared downside rebalance trigger")

	return cmd
}
