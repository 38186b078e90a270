package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DataDir       string   `mapstructure:"data_dir" yaml:"data_dir"`
	OutputDir     string   `mapstructure:"output_dir" yaml:"output_dir"`
	TargetParams  []string `mapstructure:"target_params" yaml:"target_params"`
	ExtraParams   []string `mapstructure:"extra_params" yaml:"extra_params"`
	CleanStrategy string   `mapstructure:"clean_strategy" yaml:"clean_strategy"`

	// Cleaning thresholds
	ZScoreThreshold float64 `mapstructure:"zscore_threshold" yaml:"zscore_threshold"`
	OutlierHighMult float64 `mapstructure:"outlier_high_mult" yaml:"outlier_high_mult"`
	OutlierLowMult  float64 `mapstructure:"outlier_low_mult" yaml:"outlier_low_mult"`

	// Logging
	JSONLogs bool `mapstructure:"json_logs" yaml:"json_logs"`
	Debug    bool `mapstructure:"debug" yaml:"debug"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.cpqa/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".cpqa")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CPQA")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_dir", "data")
	v.SetDefault("output_dir", "output")
	v.SetDefault("target_params", []string{})
	v.SetDefault("extra_params", []string{})
	v.SetDefault("clean_strategy", "standard")
	v.SetDefault("zscore_threshold", 3.0)
	v.SetDefault("outlier_high_mult", 1.5)
	v.SetDefault("outlier_low_mult", 0.5)
	v.SetDefault("json_logs", false)
	v.SetDefault("debug", false)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".cpqa")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
