package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, "./data", cfg.DataDir)
	require.Equal(t, BackendMemory, cfg.Backend)
	require.EqualValues(t, 50, cfg.LoanPool.MaxLTVBps)
	require.EqualValues(t, 5, cfg.LoanPool.InterestRateBps)
	require.False(t, cfg.LoanPool.Paused)
}

func TestLoadParsesPoolSettings(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
DataDir = "/var/lib/fiducialens"
Backend = "leveldb"

[loanpool]
MaxLTVBps = 40
InterestRateBps = 7
Paused = true
`))
	require.NoError(t, err)
	require.Equal(t, "/var/lib/fiducialens", cfg.DataDir)
	require.Equal(t, BackendLevelDB, cfg.Backend)
	require.EqualValues(t, 40, cfg.LoanPool.MaxLTVBps)
	require.EqualValues(t, 7, cfg.LoanPool.InterestRateBps)
	require.True(t, cfg.LoanPool.Paused)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, `MaxLTV = 40`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown keys")
}

func TestLoadRejectsInvalidBackend(t *testing.T) {
	_, err := Load(writeConfig(t, `Backend = "postgres"`))
	require.Error(t, err)
}

func TestLoadRejectsInvalidCeiling(t *testing.T) {
	_, err := Load(writeConfig(t, `
[loanpool]
MaxLTVBps = 250
`))
	require.Error(t, err)
}
