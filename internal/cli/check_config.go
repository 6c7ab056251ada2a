package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lppanel/internal/config"
)

func newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate the .env configuration and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Println("\n✓ Configuration is valid!")
			fmt.Printf("  - Bot service: %s\n", cfg.APIBaseURL)
			fmt.Printf("  - Push channel: %s/ws/graph\n", cfg.WSBaseURL)
			fmt.Printf("  - Pair: %s/%s (%d/%d decimals)\n", cfg.Token0Symbol, cfg.Token1Symbol, cfg.Token0Decimals, cfg.Token1Decimals)
			fmt.Printf("  - Dashboard: http://%s:%d\n", cfg.DashboardHost, cfg.DashboardPort)
			return nil
		},
	}
}
