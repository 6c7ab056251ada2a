package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func Execute() int {
	root := &cobra.Command{
		Use:   "lppanel",
		Short: "Control panel for the liquidity-provision bot service",
	}

	root.AddCommand(newRunCmd())
	root.AddCommand(newCheckConfigCmd())
	root.AddCommand(newBotsCmd())
	root.AddCommand(newStartCmd())
	root.AddCommand(newStopCmd())
	root.AddCommand(newResumeCmd())
	root.AddCommand(newWithdrawCmd())
	root.AddCommand(newWithdrawManualCmd())
	root.AddCommand(newBalanceCmd())
	root.AddCommand(newPriceCmd())

	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
