package cli

import (
	"lppanel/internal/botapi"
	"lppanel/internal/config"
	"lppanel/internal/session"
)

func newAPIClient() (*botapi.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return botapi.NewClient(cfg.APIBaseURL, session.New(cfg.AccessToken)), nil
}
