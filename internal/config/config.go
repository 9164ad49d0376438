// Package config loads service configuration and builds the process logger.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Dedup backends.
const (
	DedupMemory  = "memory"
	DedupDurable = "durable"
)

// Config holds all configuration values.
type Config struct {
	// HTTP
	Addr         string
	MaxBodyBytes int64

	// Storage; empty DatabaseDSN means the default SQLite file under the XDG data dir
	DatabaseDSN string

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Upstream messaging provider
	ProviderBaseURL   string
	ProviderAPIKey    string
	ProviderAccountID string

	// Call placement
	CallAPIBaseURL  string
	CallAPIKey      string
	CallTimeout     time.Duration
	AutoCallEnabled bool
	AutoCallBatch   bool
	DefaultAgentID  string
	CallLookback    time.Duration
	StaleAfter      time.Duration

	// Dedup
	DedupBackend  string
	DedupCapacity int
	DedupTTL      time.Duration

	// Warnings collects values that were rejected during Load. They are logged once
	// the logger exists.
	Warnings []string
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Addr:            ":8080",
		MaxBodyBytes:    1 << 20,
		LogLevel:        slog.LevelInfo,
		CallTimeout:     10 * time.Second,
		AutoCallEnabled: true,
		CallLookback:    7 * 24 * time.Hour,
		StaleAfter:      24 * time.Hour,
		DedupBackend:    DedupMemory,
		DedupCapacity:   1000,
		DedupTTL:        72 * time.Hour,
	}
}

// Load resolves configuration: defaults, then the YAML file named by
// OUTREACH_CONFIG_FILE, then environment variables. A .env file in the working
// directory is loaded into the environment first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("OUTREACH_CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv(os.Getenv)
	cfg.validate()
	return cfg, nil
}

// fileConfig mirrors Config with pointer fields so unset YAML keys keep their defaults.
type fileConfig struct {
	Addr              *string `yaml:"addr"`
	MaxBodyBytes      *int64  `yaml:"max_body_bytes"`
	DatabaseDSN       *string `yaml:"database_dsn"`
	LogFile           *string `yaml:"log_file"`
	LogLevel          *string `yaml:"log_level"`
	ProviderBaseURL   *string `yaml:"provider_base_url"`
	ProviderAPIKey    *string `yaml:"provider_api_key"`
	ProviderAccountID *string `yaml:"provider_account_id"`
	CallAPIBaseURL    *string `yaml:"call_api_base_url"`
	CallAPIKey        *string `yaml:"call_api_key"`
	CallTimeout       *string `yaml:"call_timeout"`
	AutoCallEnabled   *bool   `yaml:"auto_call_enabled"`
	AutoCallBatch     *bool   `yaml:"auto_call_batch_mode"`
	DefaultAgentID    *string `yaml:"default_agent_id"`
	CallLookback      *string `yaml:"call_lookback"`
	StaleAfter        *string `yaml:"stale_after"`
	DedupBackend      *string `yaml:"dedup_backend"`
	DedupCapacity     *int    `yaml:"dedup_capacity"`
	DedupTTL          *string `yaml:"dedup_ttl"`
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&c.Addr, f.Addr)
	setString(&c.DatabaseDSN, f.DatabaseDSN)
	setString(&c.LogFile, f.LogFile)
	setString(&c.ProviderBaseURL, f.ProviderBaseURL)
	setString(&c.ProviderAPIKey, f.ProviderAPIKey)
	setString(&c.ProviderAccountID, f.ProviderAccountID)
	setString(&c.CallAPIBaseURL, f.CallAPIBaseURL)
	setString(&c.CallAPIKey, f.CallAPIKey)
	setString(&c.DefaultAgentID, f.DefaultAgentID)
	setString(&c.DedupBackend, f.DedupBackend)
	if f.MaxBodyBytes != nil {
		c.MaxBodyBytes = *f.MaxBodyBytes
	}
	if f.AutoCallEnabled != nil {
		c.AutoCallEnabled = *f.AutoCallEnabled
	}
	if f.AutoCallBatch != nil {
		c.AutoCallBatch = *f.AutoCallBatch
	}
	if f.DedupCapacity != nil {
		c.DedupCapacity = *f.DedupCapacity
	}
	if f.LogLevel != nil {
		c.LogLevel = c.parseLevel("log_level", *f.LogLevel)
	}
	c.setDuration("call_timeout", &c.CallTimeout, f.CallTimeout)
	c.setDuration("call_lookback", &c.CallLookback, f.CallLookback)
	c.setDuration("stale_after", &c.StaleAfter, f.StaleAfter)
	c.setDuration("dedup_ttl", &c.DedupTTL, f.DedupTTL)
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str("OUTREACH_ADDR", &c.Addr)
	str("OUTREACH_DATABASE_DSN", &c.DatabaseDSN)
	str("OUTREACH_LOG_FILE", &c.LogFile)
	str("OUTREACH_PROVIDER_BASE_URL", &c.ProviderBaseURL)
	str("OUTREACH_PROVIDER_API_KEY", &c.ProviderAPIKey)
	str("OUTREACH_PROVIDER_ACCOUNT_ID", &c.ProviderAccountID)
	str("OUTREACH_CALL_API_BASE_URL", &c.CallAPIBaseURL)
	str("OUTREACH_CALL_API_KEY", &c.CallAPIKey)
	str("OUTREACH_DEFAULT_AGENT_ID", &c.DefaultAgentID)
	str("OUTREACH_DEDUP_BACKEND", &c.DedupBackend)

	if v := getenv("OUTREACH_LOG_LEVEL"); v != "" {
		c.LogLevel = c.parseLevel("OUTREACH_LOG_LEVEL", v)
	}
	c.envInt64("OUTREACH_MAX_BODY_BYTES", getenv, &c.MaxBodyBytes)
	c.envInt("OUTREACH_DEDUP_CAPACITY", getenv, &c.DedupCapacity)
	c.envBool("OUTREACH_AUTO_CALL_ENABLED", getenv, &c.AutoCallEnabled)
	c.envBool("OUTREACH_AUTO_CALL_BATCH_MODE", getenv, &c.AutoCallBatch)
	c.envDuration("OUTREACH_CALL_TIMEOUT", getenv, &c.CallTimeout)
	c.envDuration("OUTREACH_CALL_LOOKBACK", getenv, &c.CallLookback)
	c.envDuration("OUTREACH_STALE_AFTER", getenv, &c.StaleAfter)
	c.envDuration("OUTREACH_DEDUP_TTL", getenv, &c.DedupTTL)
}

// validate resets out-of-range values to their defaults.
func (c *Config) validate() {
	d := Defaults()
	if c.DedupBackend != DedupMemory && c.DedupBackend != DedupDurable {
		c.warn("dedup backend", c.DedupBackend, d.DedupBackend)
		c.DedupBackend = d.DedupBackend
	}
	if c.DedupCapacity <= 0 {
		c.warn("dedup capacity", strconv.Itoa(c.DedupCapacity), strconv.Itoa(d.DedupCapacity))
		c.DedupCapacity = d.DedupCapacity
	}
	if c.MaxBodyBytes <= 0 {
		c.warn("max body bytes", strconv.FormatInt(c.MaxBodyBytes, 10), strconv.FormatInt(d.MaxBodyBytes, 10))
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	for _, dur := range []struct {
		name string
		val  *time.Duration
		def  time.Duration
	}{
		{"call timeout", &c.CallTimeout, d.CallTimeout},
		{"call lookback", &c.CallLookback, d.CallLookback},
		{"stale after", &c.StaleAfter, d.StaleAfter},
		{"dedup ttl", &c.DedupTTL, d.DedupTTL},
	} {
		if *dur.val <= 0 {
			c.warn(dur.name, dur.val.String(), dur.def.String())
			*dur.val = dur.def
		}
	}
}

func (c *Config) warn(key, value, fallback string) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s %q, using %s", key, value, fallback))
}

func (c *Config) parseLevel(key, s string) slog.Level {
	level, err := ParseLogLevel(s)
	if err != nil {
		c.warn(key, s, "INFO")
	}
	return level
}

func (c *Config) setDuration(key string, dst *time.Duration, src *string) {
	if src == nil {
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(*src))
	if err != nil {
		c.warn(key, *src, dst.String())
		return
	}
	*dst = d
}

func (c *Config) envDuration(key string, getenv func(string) string, dst *time.Duration) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return
	}
	c.setDuration(key, dst, &v)
}

func (c *Config) envBool(key string, getenv func(string) string, dst *bool) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.warn(key, v, strconv.FormatBool(*dst))
		return
	}
	*dst = b
}

func (c *Config) envInt(key string, getenv func(string) string, dst *int) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.warn(key, v, strconv.Itoa(*dst))
		return
	}
	*dst = n
}

func (c *Config) envInt64(key string, getenv func(string) string, dst *int64) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		c.warn(key, v, strconv.FormatInt(*dst, 10))
		return
	}
	*dst = n
}

func setString(dst *string, src *string) {
	if src != nil && strings.TrimSpace(*src) != "" {
		*dst = strings.TrimSpace(*src)
	}
}

// ErrUnknownLogLevel is returned by ParseLogLevel for unrecognized names.
var ErrUnknownLogLevel = errors.New("unknown log level")

// ParseLogLevel maps a level name to slog.Level. Unknown names yield INFO and an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, s)
	}
}
