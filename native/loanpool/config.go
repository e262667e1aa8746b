package loanpool

import "fmt"

const (
	// DefaultMaxLTVBps is the loan-to-value ceiling applied when a pool is
	// created without an explicit override, in percentage points.
	DefaultMaxLTVBps = 50
	// DefaultInterestRateBps is the nominal annual interest rate recorded on a
	// freshly created pool, in percentage points.
	DefaultInterestRateBps = 5
)

// Config captures the runtime configuration for the loan pool module.
type Config struct {
	MaxLTVBps       uint64 `toml:"MaxLTVBps"`
	InterestRateBps uint64 `toml:"InterestRateBps"`
	Paused          bool   `toml:"Paused"`
}

// EnsureDefaults populates zero-valued fields with the pool defaults.
func (c *Config) EnsureDefaults() {
	if c.MaxLTVBps == 0 {
		c.MaxLTVBps = DefaultMaxLTVBps
	}
	if c.InterestRateBps == 0 {
		c.InterestRateBps = DefaultInterestRateBps
	}
}

// Validate rejects configurations the pool cannot operate under.
func (c Config) Validate() error {
	if c.MaxLTVBps == 0 || c.MaxLTVBps > 100 {
		return fmt.Errorf("loanpool: MaxLTVBps must be within (0, 100], got %d", c.MaxLTVBps)
	}
	if c.InterestRateBps > 100 {
		return fmt.Errorf("loanpool: InterestRateBps must not exceed 100, got %d", c.InterestRateBps)
	}
	return nil
}
