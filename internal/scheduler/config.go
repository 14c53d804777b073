package scheduler

import (
	"time"
)

// Job names, also used as metric and log labels.
const (
	JobRevenue      = "revenue"
	JobPayroll      = "payroll"
	JobHiringExpiry = "hiring_expiry"
	JobRollups      = "rollups"
)

// Config controls scheduler intervals.
type Config struct {
	TickInterval         time.Duration
	Warmup               time.Duration
	JobTimeout           time.Duration
	RevenueInterval      time.Duration
	PayrollInterval      time.Duration
	HiringExpiryInterval time.Duration
	RollupInterval       time.Duration
	// EnabledJobs restricts the jobs run by this process. Empty enables all.
	EnabledJobs []string
}

func DefaultConfig() Config {
	return Config{
		TickInterval:         time.Minute,
		Warmup:               time.Minute,
		JobTimeout:           5 * time.Minute,
		RevenueInterval:      15 * time.Minute,
		PayrollInterval:      24 * time.Hour,
		HiringExpiryInterval: time.Hour,
		RollupInterval:       time.Hour,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.TickInterval <= 0 {
		c.TickInterval = defaults.TickInterval
	}
	if c.Warmup < 0 {
		c.Warmup = 0
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.RevenueInterval <= 0 {
		c.RevenueInterval = defaults.RevenueInterval
	}
	if c.PayrollInterval <= 0 {
		c.PayrollInterval = defaults.PayrollInterval
	}
	if c.HiringExpiryInterval <= 0 {
		c.HiringExpiryInterval = defaults.HiringExpiryInterval
	}
	if c.RollupInterval <= 0 {
		c.RollupInterval = defaults.RollupInterval
	}
	return c
}
