package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port               int
	DatabaseURL        string
	DatabaseType       string
	DatabaseKey        string
	WalletRPCURL       string
	WalletPollInterval time.Duration
	ConfirmDelay       time.Duration
	AdminKeySalt       string
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("blockvote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (postgres://, https:// or a sqlite file)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres, sqlite or rest)")
	fs.StringVar(&cfg.WalletRPCURL, "w", "", "Wallet JSON-RPC endpoint")
	fs.DurationVar(&cfg.WalletPollInterval, "wallet-poll", 0, "Wallet account/network poll interval")
	fs.DurationVar(&cfg.ConfirmDelay, "confirm-delay", -1, "Simulated transaction confirmation delay")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.DatabaseKey, "k", "", "Backend API key (prefer env)")
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}

	// No database URL is allowed: votes are then counted in memory only
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
	}
	if cfg.DatabaseType == "" && cfg.DatabaseURL != "" {
		cfg.DatabaseType = inferDatabaseType(cfg.DatabaseURL)
	}
	switch cfg.DatabaseType {
	case "", "postgres", "sqlite", "rest":
	default:
		return Config{}, errors.New("DATABASE_TYPE must be postgres, sqlite or rest")
	}
	if cfg.DatabaseKey == "" {
		cfg.DatabaseKey = os.Getenv("DATABASE_KEY")
	}
	if cfg.DatabaseType == "rest" && cfg.DatabaseKey == "" {
		return Config{}, errors.New("DATABASE_KEY required for the rest backend")
	}

	if cfg.WalletRPCURL == "" {
		cfg.WalletRPCURL = os.Getenv("WALLET_RPC_URL")
	}
	if cfg.WalletPollInterval == 0 {
		d, err := durationEnv("WALLET_POLL_INTERVAL", 2*time.Second)
		if err != nil {
			return Config{}, err
		}
		cfg.WalletPollInterval = d
	}
	if cfg.ConfirmDelay < 0 {
		d, err := durationEnv("CONFIRM_DELAY", 2*time.Second)
		if err != nil {
			return Config{}, err
		}
		cfg.ConfirmDelay = d
	}

	// Optional: poll creation is disabled without it
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}

	return cfg, nil
}

func inferDatabaseType(url string) string {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		return "rest"
	}
	return "sqlite"
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, errors.New("invalid " + key + " env variable")
	}
	return d, nil
}
