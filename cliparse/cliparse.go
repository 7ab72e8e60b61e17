package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

// DefaultSQLiteURL is used when DATABASE_URL is unset and the type is sqlite
const DefaultSQLiteURL = "file:livepoll.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	JWTSecret    string
	SendBuffer   int
	MintToken    string
}

// ParseFlags validates flags and fills in env fallbacks and defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("livepoll", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "JWT signing secret (prefer env)")

	fs.IntVar(&cfg.SendBuffer, "send-buffer", 0, "Per-connection live send buffer")
	fs.StringVar(&cfg.MintToken, "mint", "", "Print a token for this user ID and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := intFromEnv("PORT", 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = DefaultSQLiteURL
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.SendBuffer == 0 {
		buf, err := intFromEnv("LIVE_SEND_BUFFER", 16)
		if err != nil {
			return Config{}, err
		}
		cfg.SendBuffer = buf
	}
	if cfg.SendBuffer < 1 {
		return Config{}, errors.New("send buffer must be at least 1")
	}

	if cfg.MintToken == "" {
		cfg.MintToken = os.Getenv("MINT_TOKEN")
	}

	return cfg, nil
}

func intFromEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
}
