package params

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Ledger struct {
	// InitialCash is the strategy's starting capital.
	InitialCash float64 `yaml:"initial_cash"`
}

type Feed struct {
	// Seed drives the pseudo-random liquidity stream; a fixed seed
	// reproduces a run exactly.
	Seed int64 `yaml:"seed"`
	// Orders is how many feed messages a simulation run injects.
	Orders int `yaml:"orders"`
}

type Oms struct {
	// OrderTimeout is the watchdog deadline for an outstanding order.
	OrderTimeout time.Duration `yaml:"order_timeout"`
}

type Log struct {
	// File receives the rotating JSON log alongside the console.
	// Empty means console only.
	File string `yaml:"file"`
}

type Config struct {
	Ledger Ledger `yaml:"ledger"`
	Feed   Feed   `yaml:"feed"`
	Oms    Oms    `yaml:"oms"`
	Log    Log    `yaml:"log"`
}

func Default() Config {
	return Config{
		Ledger: Ledger{InitialCash: 10000},
		Feed:   Feed{Seed: 1, Orders: 200},
		Oms:    Oms{OrderTimeout: 5 * time.Second},
		Log:    Log{File: ""},
	}
}

// LoadFromEnv loads configuration from a .env file (if it exists) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	if cash := os.Getenv("INITIAL_CASH"); cash != "" {
		if v, err := strconv.ParseFloat(cash, 64); err == nil {
			cfg.Ledger.InitialCash = v
		}
	}
	if seed := os.Getenv("FEED_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Feed.Seed = v
		}
	}
	if orders := os.Getenv("FEED_ORDERS"); orders != "" {
		if v, err := strconv.Atoi(orders); err == nil {
			cfg.Feed.Orders = v
		}
	}
	if timeout := os.Getenv("ORDER_TIMEOUT_MS"); timeout != "" {
		if ms, err := strconv.Atoi(timeout); err == nil {
			cfg.Oms.OrderTimeout = time.Duration(ms) * time.Millisecond
		}
	}
	if file := os.Getenv("LOG_FILE"); file != "" {
		cfg.Log.File = file
	}

	return cfg
}

// LoadFromFile overlays a yaml config file on the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
