package config

import "time"

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config interface {
	AllowNonRootAccess() bool
	SessionStore() string
	RedisAddr() string
	RedisPassword() string
	RedisDB() int
	RedisPrefix() string
	SessionTTL() time.Duration
	EnableMetrics() bool

	SetAllowNonRootAccess(bool)
	SetSessionStore(string)
	SetEnableMetrics(bool)

	// Validate reports values that cannot be used, e.g. an unknown store.
	Validate() error
	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
