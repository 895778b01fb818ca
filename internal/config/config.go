// Package config loads server settings from defaults, an optional YAML file
// and FRESHRACK_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/freshrack/internal/expiry"
)

// Config holds the server configuration. Command-line flags override it in main.
type Config struct {
	DBPath          string        `yaml:"db"`
	Addr            string        `yaml:"addr"`
	LogPath         string        `yaml:"log"`
	APIURL          string        `yaml:"apiURL"`
	CookieSecure    bool          `yaml:"cookieSecure"`
	CleanupInterval time.Duration `yaml:"cleanupInterval"`
	Expiry          expiry.Policy `yaml:"expiry"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:          "freshrack.sqlite3",
		Addr:            ":8080",
		CleanupInterval: time.Hour,
		Expiry:          expiry.DefaultPolicy(),
	}
}

// Load builds the configuration. path may be empty, in which case no file is
// read.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.DBPath = getEnvString("FRESHRACK_DB", c.DBPath)
	c.Addr = getEnvString("FRESHRACK_ADDR", c.Addr)
	c.LogPath = getEnvString("FRESHRACK_LOG", c.LogPath)
	c.APIURL = getEnvString("FRESHRACK_API_URL", c.APIURL)

	var err error
	if c.CookieSecure, err = getEnvBool("FRESHRACK_COOKIE_SECURE", c.CookieSecure); err != nil {
		return err
	}
	if c.CleanupInterval, err = getEnvDuration("FRESHRACK_CLEANUP_INTERVAL", c.CleanupInterval); err != nil {
		return err
	}
	if c.Expiry.NearlyExpiringDays, err = getEnvInt("FRESHRACK_NEARLY_EXPIRING_DAYS", c.Expiry.NearlyExpiringDays); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db path is required"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	if c.CleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("cleanup interval must be positive, got %s", c.CleanupInterval))
	}
	if err := c.Expiry.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
