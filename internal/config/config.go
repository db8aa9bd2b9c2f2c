package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/contactkeval/option-greeks/internal/norm"
)

// EnvPrefix prefixes every environment override, e.g. GREEKS_DAYS_PER_YEAR.
const EnvPrefix = "GREEKS"

const (
	VerbosityError = iota // 0
	VerbosityInfo         // 1
	VerbosityDebug        // 2
	VerbosityTrace        // 3
)

// Formats accepted for report output.
var Formats = []string{"table", "json", "csv"}

// Config holds the settings shared by the command line and the HTTP server.
type Config struct {
	DaysPerYear float64 `yaml:"days_per_year" envconfig:"DAYS_PER_YEAR"` // day-count basis for theta
	CDF         string  `yaml:"cdf" envconfig:"CDF"`                     // erf, gonum or stats
	Verbosity   int     `yaml:"verbosity" envconfig:"VERBOSITY"`         // 0=errors,1=info,2=debug,3=trace
	Format      string  `yaml:"format" envconfig:"FORMAT"`               // table, json or csv
	Precision   int     `yaml:"precision" envconfig:"PRECISION"`         // decimal places in reports
	Listen      string  `yaml:"listen" envconfig:"LISTEN"`               // HTTP listen address
	EnvFile     string  `yaml:"env_file" envconfig:"ENV_FILE"`           // optional dotenv file
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DaysPerYear: 365,
		CDF:         "erf",
		Verbosity:   VerbosityInfo,
		Format:      "table",
		Precision:   4,
		Listen:      ":8080",
		EnvFile:     ".env",
	}
}

// Load builds the configuration in layers: defaults, then the YAML file at
// path (skipped when path is empty), then variables from the dotenv file if
// it exists, then GREEKS_* environment variables. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envFile := cfg.EnvFile
	if v, ok := os.LookupEnv(EnvPrefix + "_ENV_FILE"); ok {
		envFile = v
	}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if !(c.DaysPerYear > 0) {
		errs = append(errs, fmt.Errorf("days_per_year must be positive, got %v", c.DaysPerYear))
	}
	if _, err := norm.Lookup(c.CDF); err != nil {
		errs = append(errs, err)
	}
	if c.Verbosity < VerbosityError || c.Verbosity > VerbosityTrace {
		errs = append(errs, fmt.Errorf("verbosity must be between %d and %d, got %d", VerbosityError, VerbosityTrace, c.Verbosity))
	}
	if !validFormat(c.Format) {
		errs = append(errs, fmt.Errorf("format must be one of %v, got %q", Formats, c.Format))
	}
	if c.Precision < 0 || c.Precision > 12 {
		errs = append(errs, fmt.Errorf("precision must be between 0 and 12, got %d", c.Precision))
	}
	return errors.Join(errs...)
}

// Provider resolves the configured normal CDF provider.
func (c *Config) Provider() (norm.Provider, error) {
	return norm.Lookup(c.CDF)
}

func validFormat(f string) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}
