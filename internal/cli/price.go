package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lppanel/internal/config"
	"lppanel/internal/pricefeed"
)

func newPriceCmd() *cobra.Command {
	var feeTier int64
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Read the pool's token0-per-token1 reference price",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			pf, err := pricefeed.New(cfg.RPCURL, cfg.FactoryAddress)
			if err != nil {
				return err
			}
			defer pf.Close()

			p, err := pf.PriceToken0PerToken1(cmd.Context(),
				cfg.Token0Address, cfg.Token1Address, feeTier,
				cfg.Token0Decimals, cfg.Token1Decimals)
			if err != nil {
				return err
			}
			fmt.Printf("1 %s = %.6f %s\n", cfg.Token1Symbol, p, cfg.Token0Symbol)
			return nil
		},
	}
	cmd.Flags().Int64Var(&feeTier, "fee-tier", 500, "pool fee tier")
	return cmd
}
