package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	// Bot service
	APIBaseURL string
	WSBaseURL  string

	// Chain (reference-price reads only)
	RPCURL         string
	FactoryAddress string

	// Default pair offered by the wizard
	Token0Address  string
	Token1Address  string
	Token0Symbol   string
	Token1Symbol   string
	Token0Decimals int
	Token1Decimals int

	// Panel
	DashboardHost   string
	DashboardPort   int
	TemplateDir     string
	NotifyTTLSec    int
	AccessToken     string
	LogLevel        string
	LogFile         string
}

var (
	loadedCfg Config
	loadOnce  sync.Once
	loadErr   error
)

func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load() (Config, error) {
	loadOnce.Do(func() {
		// Best-effort .env loading.
		_ = godotenv.Load()

		loadedCfg = Config{
			APIBaseURL: strings.TrimSuffix(envOr("BOT_API_BASE_URL", "http://localhost:8000"), "/"),
			WSBaseURL:  strings.TrimSuffix(envOr("BOT_API_BASE_URL_WS", "ws://localhost:8000"), "/"),

			RPCURL:         envOr("RPC_URL", "https://sepolia.infura.io/v3/"),
			FactoryAddress: envOr("FACTORY_ADDRESS", "0x0227628f3F023bb0B980b67D528571c95c6DaC1c"),

			Token0Address:  envOr("TOKEN0_ADDRESS", "0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238"),
			Token1Address:  envOr("TOKEN1_ADDRESS", "0xfFf9976782d46CC05630D1f6eBAb18b2324d6B14"),
			Token0Symbol:   envOr("TOKEN0_SYMBOL", "USDC"),
			Token1Symbol:   envOr("TOKEN1_SYMBOL", "WETH"),
			Token0Decimals: mustInt("TOKEN0_DECIMALS", 6),
			Token1Decimals: mustInt("TOKEN1_DECIMALS", 18),

			DashboardHost: envOr("DASHBOARD_HOST", "127.0.0.1"),
			DashboardPort: mustInt("DASHBOARD_PORT", 3000),
			TemplateDir:   envOr("TEMPLATE_DIR", "templates"),
			NotifyTTLSec:  mustInt("NOTIFY_TTL_SECONDS", 5),
			AccessToken:   os.Getenv("ACCESS_TOKEN"),

			LogLevel: envOr("LOG_LEVEL", "INFO"),
			LogFile:  envOr("LOG_FILE", "panel.log"),
		}

		loadErr = validate(loadedCfg)
	})

	return loadedCfg, loadErr
}

func validate(c Config) error {
	if c.APIBaseURL == "" {
		return errors.New("BOT_API_BASE_URL is required")
	}
	if c.WSBaseURL == "" {
		return errors.New("BOT_API_BASE_URL_WS is required")
	}
	if strings.EqualFold(c.Token0Address, c.Token1Address) {
		return errors.New("TOKEN0_ADDRESS and TOKEN1_ADDRESS must differ")
	}
	if c.Token0Decimals < 0 || c.Token0Decimals > 36 {
		return errors.New("TOKEN0_DECIMALS out of range")
	}
	if c.Token1Decimals < 0 || c.Token1Decimals > 36 {
		return errors.New("TOKEN1_DECIMALS out of range")
	}
	if c.DashboardPort <= 0 || c.DashboardPort > 65535 {
		return errors.New("DASHBOARD_PORT out of range")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func (c Config) String() string {
	return fmt.Sprintf("api=%s ws=%s pair=%s/%s dashboard=%s:%d",
		c.APIBaseURL, c.WSBaseURL, c.Token0Symbol, c.Token1Symbol, c.DashboardHost, c.DashboardPort)
}
