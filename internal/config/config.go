// Package config loads service configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

type DataConfig struct {
	// Path to the transaction file (CSV or XLSX).
	Path  string `yaml:"path" validate:"required"`
	Sheet string `yaml:"sheet" default:"Sheet1"`
}

type AnalysisConfig struct {
	ConfidenceLevels      []float64     `yaml:"confidence_levels" default:"[0.90,0.95,0.99]" validate:"dive,gt=0,lt=1"`
	Alpha                 float64       `yaml:"alpha" default:"0.05" validate:"gt=0,lt=1"`
	CLTSampleSizes        []int         `yaml:"clt_sample_sizes" default:"[10,30,50,100,200,500]" validate:"dive,gt=0"`
	Resamples             int           `yaml:"resamples" default:"1000" validate:"gt=0"`
	Seed                  int64         `yaml:"seed" default:"42"`
	CacheTTL              time.Duration `yaml:"cache_ttl" default:"5m"`
	NormalApproxThreshold int           `yaml:"normal_approx_threshold" default:"30" validate:"gt=1"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

// Load builds the configuration: defaults, then the YAML file (if given),
// then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides selected fields from the environment. Only the knobs
// that differ between deployments are exposed this way.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SPENDLENS_DATA_PATH"); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv("SPENDLENS_DATA_SHEET"); v != "" {
		cfg.Data.Sheet = v
	}
	if v := os.Getenv("SPENDLENS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SPENDLENS_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Analysis.Seed = seed
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
