package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// The zero address queries the service wallet's native-coin balance.
const zeroAddress = "0x0000000000000000000000000000000000000000"

func newBalanceCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the service wallet's balance for a token",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient()
			if err != nil {
				return err
			}
			bal, err := api.TokenBalance(cmd.Context(), token)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", token, bal)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", zeroAddress, "token address (zero address for native)")
	return cmd
}
