package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lppanel/internal/botapi"
	"lppanel/internal/config"
	"lppanel/internal/dashboard"
	"lppanel/internal/logging"
	"lppanel/internal/notify"
	"lppanel/internal/panel"
	"lppanel/internal/pricefeed"
	"lppanel/internal/session"
	"lppanel/internal/wizard"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Serve the dashboard and consume the tick stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			closeFn, err := logging.Configure(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			defer closeFn()
			log := logging.Logger()

			ctx, cancel := signalContext()
			defer cancel()

			sess := session.New(cfg.AccessToken)
			api := botapi.NewClient(cfg.APIBaseURL, sess)
			center := notify.NewCenter(time.Duration(cfg.NotifyTTLSec)*time.Second, log)
			p := panel.New(api, center)

			prices, err := pricefeed.New(cfg.RPCURL, cfg.FactoryAddress)
			if err != nil {
				return err
			}
			defer prices.Close()

			wiz := wizard.New(wizard.Defaults{
				Token0Address:  cfg.Token0Address,
				Token1Address:  cfg.Token1Address,
				Token0Decimals: cfg.Token0Decimals,
				Token1Decimals: cfg.Token1Decimals,
			}, prices, api, center)

			srv, err := dashboard.New(cfg, api, p, wiz, center)
			if err != nil {
				return err
			}

			log.Printf("Starting dashboard on http://%s:%d", cfg.DashboardHost, cfg.DashboardPort)
			if err := srv.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
