// Package config provides configuration loading and validation for revisor.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrEmptyResultDir    = errors.New("result directory must not be empty")
	ErrEmptyCaseStudyDir = errors.New("case-study directory must not be empty")
	ErrNegativeLimit     = errors.New("sample limit must not be negative")
	ErrInvalidLogLevel   = errors.New("invalid log level")
	ErrInvalidLogFormat  = errors.New("invalid log format")
)

// Default configuration values.
const (
	defaultResultDir    = "results"
	defaultCaseStudyDir = "case_studies"
	defaultProjectDir   = "projects"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
	defaultLogOutput    = "stderr"
)

// Config holds all configuration for revisor.
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Sampling SamplingConfig `mapstructure:"sampling"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PathsConfig holds the directory layout of an experiment workspace.
type PathsConfig struct {
	// ResultDir is the root of per-project experiment result folders.
	ResultDir string `mapstructure:"result_dir"`
	// CaseStudyDir holds persisted case-study documents.
	CaseStudyDir string `mapstructure:"case_study_dir"`
	// ProjectDir is where project repositories are checked out.
	ProjectDir string `mapstructure:"project_dir"`
}

// SamplingConfig holds default sampling behavior.
type SamplingConfig struct {
	// Limit caps the number of sampled revisions, 0 means no cap.
	Limit int `mapstructure:"limit"`
	// RandomOrder shuffles sampled revisions before the cap applies.
	RandomOrder bool `mapstructure:"random_order"`
	// Full selects every revision instead of the single-revision default.
	Full bool `mapstructure:"full"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("revisor")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/revisor")
	}

	viperCfg.SetEnvPrefix("REVISOR")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Path defaults.
	viperCfg.SetDefault("paths.result_dir", defaultResultDir)
	viperCfg.SetDefault("paths.case_study_dir", defaultCaseStudyDir)
	viperCfg.SetDefault("paths.project_dir", defaultProjectDir)

	// Sampling defaults.
	viperCfg.SetDefault("sampling.limit", 0)
	viperCfg.SetDefault("sampling.random_order", false)
	viperCfg.SetDefault("sampling.full", false)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", defaultLogLevel)
	viperCfg.SetDefault("logging.format", defaultLogFormat)
	viperCfg.SetDefault("logging.output", defaultLogOutput)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Paths.ResultDir == "" {
		return ErrEmptyResultDir
	}

	if config.Paths.CaseStudyDir == "" {
		return ErrEmptyCaseStudyDir
	}

	if config.Sampling.Limit < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeLimit, config.Sampling.Limit)
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}
