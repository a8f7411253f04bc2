/*
Package config loads process configuration from the environment.

SOURCES (later wins):
  1. Defaults in the struct tags below
  2. A .env file, when present (values already in the environment win)
  3. PVF_* environment variables
  4. Command-line flags applied by the binaries in cmd/

KEYS:
  PVF_MIN_MONTHS          Months of tenure before PVF accrues (default 3)
  PVF_BOND_RATE_PERCENT   Annual bond interest rate (default 2)
  PVF_SOURCE_URL          Employee feed URL (JSON array)
  PVF_SOURCE_FILE         Local feed file (default assets/_files/employees.json)
  PVF_SOURCE_FORMAT       json | csv (file sources only)
  PVF_HTTP_TIMEOUT        Feed request timeout (default 10s)
  PVF_PORT                HTTP port (default 8080)
  PVF_CACHE               memory | sqlite (default memory)
  PVF_REFRESH_INTERVAL    Re-fetch period, 0 disables (default 0)
  PVF_AS_OF               Pin the as-of date, YYYY-MM-DD
  PVF_LOG_LEVEL           zerolog level (default info)
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/warp/pvf-engine/pvf"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"

	CacheMemory = "memory"
	CacheSQLite = "sqlite"

	// AsOfLayout is the layout of PVF_AS_OF and the as_of query parameter.
	AsOfLayout = "2006-01-02"
)

// Config is the process configuration.
type Config struct {
	MinMonths       int           `env:"PVF_MIN_MONTHS" envDefault:"3"`
	BondRatePercent float64       `env:"PVF_BOND_RATE_PERCENT" envDefault:"2"`
	SourceURL       string        `env:"PVF_SOURCE_URL"`
	SourceFile      string        `env:"PVF_SOURCE_FILE" envDefault:"assets/_files/employees.json"`
	SourceFormat    string        `env:"PVF_SOURCE_FORMAT" envDefault:"json"`
	HTTPTimeout     time.Duration `env:"PVF_HTTP_TIMEOUT" envDefault:"10s"`
	Port            int           `env:"PVF_PORT" envDefault:"8080"`
	Cache           string        `env:"PVF_CACHE" envDefault:"memory"`
	RefreshInterval time.Duration `env:"PVF_REFRESH_INTERVAL" envDefault:"0s"`
	AsOf            string        `env:"PVF_AS_OF"`
	LogLevel        string        `env:"PVF_LOG_LEVEL" envDefault:"info"`
}

// Load reads envFiles (missing files are skipped) and then the environment.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env.Parse cannot.
func (c Config) Validate() error {
	if c.MinMonths < 0 {
		return fmt.Errorf("PVF_MIN_MONTHS must not be negative, got %d", c.MinMonths)
	}
	if c.SourceFormat != FormatJSON && c.SourceFormat != FormatCSV {
		return fmt.Errorf("PVF_SOURCE_FORMAT must be %q or %q, got %q", FormatJSON, FormatCSV, c.SourceFormat)
	}
	if c.Cache != CacheMemory && c.Cache != CacheSQLite {
		return fmt.Errorf("PVF_CACHE must be %q or %q, got %q", CacheMemory, CacheSQLite, c.Cache)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("PVF_REFRESH_INTERVAL must not be negative")
	}
	if _, err := c.AsOfTime(); err != nil {
		return err
	}
	return nil
}

// AsOfTime parses AsOf. The zero time means "use the wall clock".
func (c Config) AsOfTime() (time.Time, error) {
	if c.AsOf == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(AsOfLayout, c.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("PVF_AS_OF: %w", err)
	}
	return t, nil
}

// Calculator builds a pvf.Calculator from the PVF_* settings. A pinned
// PVF_AS_OF replaces the wall clock.
func (c Config) Calculator() (*pvf.Calculator, error) {
	asOf, err := c.AsOfTime()
	if err != nil {
		return nil, err
	}

	opts := []pvf.Option{
		pvf.WithMinMonths(c.MinMonths),
		pvf.WithBondRate(c.BondRatePercent),
	}
	if !asOf.IsZero() {
		opts = append(opts, pvf.WithClock(pvf.FixedClock{At: asOf}))
	}
	return pvf.NewCalculator(opts...), nil
}

// SetSource points the config at raw, the value of a -source flag. An
// http(s) URL selects the HTTP feed; anything else is a file path, read as
// CSV when it ends in .csv.
func (c *Config) SetSource(raw string) {
	if raw == "" {
		return
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		c.SourceURL = raw
		return
	}
	c.SourceURL = ""
	c.SourceFile = raw
	if strings.HasSuffix(strings.ToLower(raw), ".csv") {
		c.SourceFormat = FormatCSV
	} else {
		c.SourceFormat = FormatJSON
	}
}
