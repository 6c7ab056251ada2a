package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"lppanel/internal/models"
)

func newBotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bots",
		Short: "List active and inactive bots",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := newAPIClient()
			if err != nil {
				return err
			}

			active, err := api.ActiveBots(cmd.Context())
			if err != nil {
				return err
			}
			unactive, err := api.UnactiveBots(cmd.Context())
			if err != nil {
				return err
			}

			printBots("Active bots", active)
			printBots("Inactive bots", unactive)
			return nil
		},
	}
}

func printBots(title string, bots []models.BotSummary) {
	fmt.Printf("%s (%d)\n", title, len(bots))
	if len(bots) == 0 {
		fmt.Println("  none")
		return
	}
	for _, b := range bots {
		pos := "None"
		if b.PositionID != nil {
			pos = fmt.Sprintf("%d", *b.PositionID)
		}
		status := models.ParseStatus(b.Status)
		fmt.Printf("  %s  status=%s (%s)  position=%s  %s/%s  fee=%.2f%%\n",
			b.BotID, b.Status, status.Category(), pos, b.Token0Amount, b.Token1Amount, b.PoolFee.Percent())
	}
}
