package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvDaemonAddress = "AGENTDASH_DAEMON_ADDRESS"
	EnvDatabaseURL   = "AGENTDASH_DATABASE_URL"
	EnvSettingsRole  = "AGENTDASH_SETTINGS_ROLE"
	EnvRedisAddr     = "AGENTDASH_REDIS_ADDR"
	EnvRedisPassword = "AGENTDASH_REDIS_PASSWORD"
	EnvRedisDB       = "AGENTDASH_REDIS_DB"
	EnvRedisDisabled = "AGENTDASH_REDIS_DISABLED"
	EnvLogLevel      = "AGENTDASH_LOG_LEVEL"
)

// LoadDotEnv loads .env files into the process environment. Missing files
// are ignored and variables already set are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overrides file values with AGENTDASH_* variables.
func (c *CoreConfig) ApplyEnv(lookup func(string) (string, bool)) {
	if c == nil || lookup == nil {
		return
	}
	if value, ok := lookupTrimmed(lookup, EnvDaemonAddress); ok {
		c.Daemon.Address = value
	}
	if value, ok := lookupTrimmed(lookup, EnvDatabaseURL); ok {
		c.Database.URL = value
	}
	if value, ok := lookup(EnvSettingsRole); ok {
		role := strings.TrimSpace(value)
		c.Database.SettingsRole = &role
	}
	if value, ok := lookupTrimmed(lookup, EnvRedisAddr); ok {
		c.Redis.Addr = value
	}
	if value, ok := lookup(EnvRedisPassword); ok {
		c.Redis.Password = value
	}
	if value, ok := lookupTrimmed(lookup, EnvRedisDB); ok {
		if db, err := strconv.Atoi(value); err == nil && db >= 0 {
			c.Redis.DB = db
		}
	}
	if value, ok := lookupTrimmed(lookup, EnvRedisDisabled); ok {
		if disabled, err := strconv.ParseBool(value); err == nil {
			c.Redis.Disabled = disabled
		}
	}
	if value, ok := lookupTrimmed(lookup, EnvLogLevel); ok {
		c.Logging.Level = value
	}
}

func lookupTrimmed(lookup func(string) (string, bool), key string) (string, bool) {
	value, ok := lookup(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
