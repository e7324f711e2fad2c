package goTimelock

import (
	"errors"
	"time"
)

// Config defines the engine's tunables. Instances are cloned at Build time and
// treated as immutable afterwards.
type Config struct {
	TimeLock TimeLockConfig
	MetaTx   MetaTxConfig
	Archive  ArchiveConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
TIME LOCK CONFIG
====================================
*/

// TimeLockConfig governs the mandatory delay between request and approval.
type TimeLockConfig struct {
	// Delay is added to the request time to produce the release time.
	Delay time.Duration
}

/*
====================================
META-TX CONFIG
====================================
*/

// MetaTxConfig governs meta-transaction validation.
type MetaTxConfig struct {
	// ChainID is the chain-binding value every signed payload must carry.
	ChainID uint64
	// RedisNonces selects the redis-backed consumed-nonce store instead of
	// the in-process default. Requires a redis client on the builder.
	RedisNonces bool
	// NoncePrefix namespaces redis nonce keys.
	NoncePrefix string
}

/*
====================================
ARCHIVE CONFIG
====================================
*/

// ArchiveConfig governs the write-through copy of terminal records.
type ArchiveConfig struct {
	Enabled bool
	// RedisPrefix namespaces archive keys.
	RedisPrefix string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig governs the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of back-pressuring operations when the
	// buffer is full. Dropped counts are exposed via Engine.AuditDropped.
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig governs the engine counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		TimeLock: TimeLockConfig{
			Delay: time.Hour,
		},
		MetaTx: MetaTxConfig{
			ChainID: 1,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// DefaultConfig returns the starting configuration used by [New].
func DefaultConfig() Config {
	return defaultConfig()
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.TimeLock.Delay <= 0 {
		return errors.New("TimeLock.Delay must be positive")
	}
	if c.MetaTx.ChainID == 0 {
		return errors.New("MetaTx.ChainID must be non-zero")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit.BufferSize must be positive when audit is enabled")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; clone exists so adding reference
	// fields later cannot alias builder and engine state.
	return cfg
}
