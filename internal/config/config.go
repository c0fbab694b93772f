package config

import (
	"fmt"
	"slices"

	"github.com/dmitrijs2005/seedkeeper/internal/challenge"
	"github.com/dmitrijs2005/seedkeeper/internal/secretstore"
)

// Config holds runtime settings for seedkeeper.
type Config struct {
	StoreDriver        string
	DatabaseDSN        string
	LogLevel           string
	ChallengeWords     int
	MinPasswordScore   int
	ReshuffleOnFailure bool
	S3Bucket           string
	S3Region           string
	S3BaseEndpoint     string
	S3AccessKey        string
	S3SecretKey        string
}

// LoadDefaults populates c with defaults suitable for a single local user.
func (c *Config) LoadDefaults() {
	c.StoreDriver = secretstore.DriverSQLite
	c.DatabaseDSN = "seedkeeper.db"
	c.LogLevel = "info"
	c.ChallengeWords = challenge.MinWords
	c.MinPasswordScore = 0
	c.ReshuffleOnFailure = false
	c.S3Region = "us-east-1"
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !slices.Contains(secretstore.Drivers, c.StoreDriver) {
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.StoreDriver != secretstore.DriverMemory && c.DatabaseDSN == "" {
		return fmt.Errorf("store driver %q needs a DSN", c.StoreDriver)
	}
	if c.ChallengeWords < challenge.MinWords {
		return fmt.Errorf("challenge words must be at least %d, got %d", challenge.MinWords, c.ChallengeWords)
	}
	if c.MinPasswordScore < 0 || c.MinPasswordScore > 4 {
		return fmt.Errorf("min password score must be within 0..4, got %d", c.MinPasswordScore)
	}
	return nil
}

// BackupEnabled reports whether S3 backups are configured.
func (c *Config) BackupEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. Unreadable sources panic; invalid values are
// returned as an error.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
