// File: internal/config/config.go
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
}

// LoggerConfig controls the global zap logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// AnalysisConfig declares which analyses were requested and the limits the
// external engines ran under. The report's information section mirrors
// these flags verbatim, one calculated-quantity block per enabled flag.
type AnalysisConfig struct {
	// LimitOrder is the maximum cut-set order of the minimal-cut-set
	// analysis.
	LimitOrder          int     `mapstructure:"limit_order" yaml:"limit_order"`
	CCFAnalysis         bool    `mapstructure:"ccf_analysis" yaml:"ccf_analysis"`
	ProbabilityAnalysis bool    `mapstructure:"probability_analysis" yaml:"probability_analysis"`
	ImportanceAnalysis  bool    `mapstructure:"importance_analysis" yaml:"importance_analysis"`
	UncertaintyAnalysis bool    `mapstructure:"uncertainty_analysis" yaml:"uncertainty_analysis"`
	Approximation       string  `mapstructure:"approximation" yaml:"approximation"`
	CutOff              float64 `mapstructure:"cut_off" yaml:"cut_off"`
	NumSums             int     `mapstructure:"num_sums" yaml:"num_sums"`
	NumTrials           int     `mapstructure:"num_trials" yaml:"num_trials"`
}

// SetDefaults initializes default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "faultline")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Analysis --
	v.SetDefault("analysis.limit_order", 20)
	v.SetDefault("analysis.ccf_analysis", false)
	v.SetDefault("analysis.probability_analysis", false)
	v.SetDefault("analysis.importance_analysis", false)
	v.SetDefault("analysis.uncertainty_analysis", false)
	v.SetDefault("analysis.approximation", "rare-event")
	v.SetDefault("analysis.cut_off", 1e-8)
	v.SetDefault("analysis.num_sums", 7)
	v.SetDefault("analysis.num_trials", 1000)
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with defaults only.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// validApproximations enumerates the probability approximation strategies
// the external engine supports.
var validApproximations = map[string]bool{
	"no":         true,
	"rare-event": true,
	"mcub":       true,
}

// Validate checks analysis limits for sanity before any reporting happens.
func (c *Config) Validate() error {
	a := c.Analysis
	if a.LimitOrder <= 0 {
		return fmt.Errorf("analysis.limit_order must be positive, got %d", a.LimitOrder)
	}
	if a.CutOff < 0 || a.CutOff >= 1 {
		return fmt.Errorf("analysis.cut_off must be in [0, 1), got %g", a.CutOff)
	}
	if a.NumSums <= 0 {
		return fmt.Errorf("analysis.num_sums must be positive, got %d", a.NumSums)
	}
	if a.NumTrials <= 0 {
		return fmt.Errorf("analysis.num_trials must be positive, got %d", a.NumTrials)
	}
	if !validApproximations[a.Approximation] {
		return fmt.Errorf("analysis.approximation %q is not supported", a.Approximation)
	}
	return nil
}
