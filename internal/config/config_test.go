package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaviDemarqui/workwise-v1/internal/governance"
)

var envKeys = []string{
	"DATABASE_URL", "PORT", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "GENESIS_FILE",
	"FOUNDER_ADDRESS", "FOUNDER_DEPOSIT", "JOIN_FEE", "STAKE_REQUIREMENT",
	"CATEGORIES", "SKILLS", "QUORUM_PERCENT", "MAX_VOTING_PERIOD",
	"PAYOUT_INTERVAL", "PAYOUT_BATCH_SIZE", "PAYOUT_MAX_ATTEMPTS",
	"RATE_LIMIT_GENERAL", "RATE_LIMIT_PROPOSALS",
}

// clearEnv unsets every key Load reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		key := key
		if prev, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, prev) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.Payout.Interval)
	assert.Equal(t, 50, cfg.Payout.BatchSize)
	assert.Equal(t, 5, cfg.Payout.MaxAttempts)
	assert.Equal(t, 120, cfg.RateLimit.General)
	assert.Equal(t, 10, cfg.RateLimit.Proposals)

	assert.Equal(t, governance.Amount(100_000_000_000_000), cfg.Genesis.Parameters.JoinFee)
	assert.Equal(t, uint8(50), cfg.Genesis.QuorumPercent)
	assert.Empty(t, cfg.Genesis.Founder)
	assert.Zero(t, cfg.Genesis.MaxVotingPeriod)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("FOUNDER_ADDRESS", " 0x00000000000000000000000000000000000000AB ")
	t.Setenv("JOIN_FEE", "2000")
	t.Setenv("STAKE_REQUIREMENT", "7")
	t.Setenv("CATEGORIES", "Design, Writing,,")
	t.Setenv("QUORUM_PERCENT", "66")
	t.Setenv("MAX_VOTING_PERIOD", "168h")
	t.Setenv("PAYOUT_INTERVAL", "5s")
	t.Setenv("RATE_LIMIT_PROPOSALS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	g := cfg.Genesis
	assert.Equal(t, governance.Identity("0x00000000000000000000000000000000000000ab"), g.Founder)
	assert.Equal(t, governance.Amount(2000), g.Parameters.JoinFee)
	assert.Equal(t, governance.Amount(2000), g.FounderDeposit)
	assert.Equal(t, governance.Amount(7), g.Parameters.StakeRequirement)
	assert.Equal(t, []string{"Design", "Writing"}, g.Parameters.Categories)
	assert.Equal(t, uint8(66), g.QuorumPercent)
	assert.Equal(t, 168*time.Hour, g.MaxVotingPeriod)
	assert.Equal(t, 5*time.Second, cfg.Payout.Interval)
	assert.Equal(t, 3, cfg.RateLimit.Proposals)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"JOIN_FEE", "-1"},
		{"JOIN_FEE", "lots"},
		{"QUORUM_PERCENT", "101"},
		{"PAYOUT_INTERVAL", "soon"},
		{"PAYOUT_INTERVAL", "0s"},
		{"PAYOUT_BATCH_SIZE", "0"},
		{"RATE_LIMIT_GENERAL", "-5"},
		{"FOUNDER_ADDRESS", "alice"},
		{"MAX_VOTING_PERIOD", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadGenesis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
founder: "0x00000000000000000000000000000000000000F0"
founder_deposit: 500
parameters:
  join_fee: 250
  categories: [Design]
  skills: [go, solidity]
quorum_percent: 40
max_voting_period: 72h
`), 0o600))

	g, err := LoadGenesis(path)
	require.NoError(t, err)

	assert.Equal(t, governance.Identity("0x00000000000000000000000000000000000000f0"), g.Founder)
	assert.Equal(t, governance.Amount(500), g.FounderDeposit)
	assert.Equal(t, governance.Amount(250), g.Parameters.JoinFee)
	assert.Equal(t, []string{"Design"}, g.Parameters.Categories)
	assert.Equal(t, []string{"go", "solidity"}, g.Parameters.Skills)
	assert.Equal(t, uint8(40), g.QuorumPercent)
	assert.Equal(t, 72*time.Hour, g.MaxVotingPeriod)
}

func TestLoadGenesis_KeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("founder_deposit: 1\n"), 0o600))

	g, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, governance.Amount(100_000_000_000_000), g.Parameters.JoinFee)
	assert.Equal(t, uint8(governance.DefaultQuorumPercent), g.QuorumPercent)
}

func TestLoad_GenesisFileOverridesEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parameters:\n  join_fee: 9\n"), 0o600))
	t.Setenv("GENESIS_FILE", path)
	t.Setenv("JOIN_FEE", "1000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, governance.Amount(9), cfg.Genesis.Parameters.JoinFee)
}

func TestLoad_GenesisFileErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("GENESIS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quorum_percent: [1"), 0o600))
	t.Setenv("GENESIS_FILE", path)
	_, err = Load()
	assert.Error(t, err)
}
