package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"fiducialens/native/loanpool"
)

// Backend names accepted for the state store.
const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
	BackendBolt    = "bolt"
)

// Config is the runtime configuration for a pool deployment.
type Config struct {
	DataDir  string          `toml:"DataDir"`
	Backend  string          `toml:"Backend"`
	LoanPool loanpool.Config `toml:"loanpool"`
}

// Load loads the configuration from the given path. Unknown keys are
// rejected so typos fail loudly instead of silently falling back to defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./data"
	}
	if strings.TrimSpace(c.Backend) == "" {
		c.Backend = BackendMemory
	}
	c.LoanPool.EnsureDefaults()
}

// Validate rejects configurations the pool cannot start under.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendLevelDB, BackendBolt:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	return c.LoanPool.Validate()
}
