package params

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, float64(10000), cfg.Ledger.InitialCash)
	assert.Equal(t, int64(1), cfg.Feed.Seed)
	assert.Equal(t, 5*time.Second, cfg.Oms.OrderTimeout)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("INITIAL_CASH", "2500.5")
	t.Setenv("FEED_SEED", "42")
	t.Setenv("FEED_ORDERS", "10")
	t.Setenv("ORDER_TIMEOUT_MS", "1500")

	cfg := LoadFromEnv("")
	assert.Equal(t, 2500.5, cfg.Ledger.InitialCash)
	assert.Equal(t, int64(42), cfg.Feed.Seed)
	assert.Equal(t, 10, cfg.Feed.Orders)
	assert.Equal(t, 1500*time.Millisecond, cfg.Oms.OrderTimeout)
}

func TestLoadFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("INITIAL_CASH", "not-a-number")
	cfg, def := LoadFromEnv(""), Default()
	assert.Equal(t, def.Ledger.InitialCash, cfg.Ledger.InitialCash)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte("ledger:\n  initial_cash: 500\nfeed:\n  seed: 9\n  orders: 25\n")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, float64(500), cfg.Ledger.InitialCash)
	assert.Equal(t, int64(9), cfg.Feed.Seed)
	assert.Equal(t, 25, cfg.Feed.Orders)
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Oms.OrderTimeout, cfg.Oms.OrderTimeout)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
