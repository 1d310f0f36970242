package internal

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvRegion          = "AWS_REGION"
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvRoleName        = "AWS_ROLE_NAME"
	EnvConfigFile      = "SAGECTL_CONFIG"

	DefaultCacheTTL        = 3600 * time.Second
	DefaultRefreshInterval = 30 * time.Second
	DefaultFetchMaxTries   = 3
)

// Config is built once at startup and handed to the components that need it.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	RoleName        string

	CacheTTL        time.Duration
	RefreshInterval time.Duration
	FetchMaxTries   uint
	// SessionDuration is passed to AssumeRole; zero leaves the STS default.
	SessionDuration time.Duration
}

type fileConfig struct {
	Region          string `yaml:"region"`
	RoleName        string `yaml:"role_name"`
	CacheTTL        string `yaml:"cache_ttl"`
	RefreshInterval string `yaml:"refresh_interval"`
	FetchMaxTries   uint   `yaml:"fetch_max_tries"`
	SessionDuration string `yaml:"session_duration"`
}

func DefaultConfig() Config {
	return Config{
		CacheTTL:        DefaultCacheTTL,
		RefreshInterval: DefaultRefreshInterval,
		FetchMaxTries:   DefaultFetchMaxTries,
	}
}

// ApplyEnv overlays the AWS_* variables that are set. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Region, EnvRegion)
	set(&c.AccessKeyID, EnvAccessKeyID)
	set(&c.SecretAccessKey, EnvSecretAccessKey)
	set(&c.RoleName, EnvRoleName)
}

// LoadFile overlays settings from a YAML file. Credentials are never read from disk.
func (c *Config) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read config %s: %w", ErrConfiguration, path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("%w: parse config %s: %w", ErrConfiguration, path, err)
	}

	if fc.Region != "" {
		c.Region = fc.Region
	}
	if fc.RoleName != "" {
		c.RoleName = fc.RoleName
	}
	if fc.FetchMaxTries > 0 {
		c.FetchMaxTries = fc.FetchMaxTries
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"cache_ttl", fc.CacheTTL, &c.CacheTTL},
		{"refresh_interval", fc.RefreshInterval, &c.RefreshInterval},
		{"session_duration", fc.SessionDuration, &c.SessionDuration},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrConfiguration, d.name, err)
		}
		*d.dst = v
	}
	return nil
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var missing []string
	if c.Region == "" {
		missing = append(missing, EnvRegion)
	}
	if c.AccessKeyID == "" {
		missing = append(missing, EnvAccessKeyID)
	}
	if c.SecretAccessKey == "" {
		missing = append(missing, EnvSecretAccessKey)
	}
	if c.RoleName == "" {
		missing = append(missing, EnvRoleName)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrConfiguration, strings.Join(missing, ", "))
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: cache ttl must be positive, got %s", ErrConfiguration, c.CacheTTL)
	}
	return nil
}

// RoleArn builds the ARN of the configured role inside account.
func (c Config) RoleArn(account string) string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", account, c.RoleName)
}

// SessionName is deterministic so repeated sessions line up in CloudTrail.
func (c Config) SessionName() string {
	return c.RoleName + "-session"
}
