package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <bot-id>",
		Short: "Stop a running bot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient()
			if err != nil {
				return err
			}
			resp, err := api.StopBot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Bot %s: %s\n", args[0], resp.Status)
			return nil
		},
	}
}

func newResumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resume <bot-id>",
		Short: "Resume a stopped bot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient()
			if err != nil {
				return err
			}
			resp, err := api.ResumeBot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Bot %s resumed: %s\n", resp.BotID, resp.Message)
			return nil
		},
	}
}

func newWithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <bot-id>",
		Short: "Withdraw a bot's liquidity position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient()
			if err != nil {
				return err
			}
			resp, err := api.WithdrawBot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Bot %s: %s  gas=%s ETH  net_pnl_token0=%s\n",
				args[0], resp.Status, resp.GasETH, resp.NetPNLToken0)
			return nil
		},
	}
}

func newWithdrawManualCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw-manual <position-id>",
		Short: "Force-withdraw a position by id, bypassing the bot lifecycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient()
			if err != nil {
				return err
			}
			result, err := api.WithdrawManual(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(result)
			return nil
		},
	}
}
