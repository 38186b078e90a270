package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cfgpkg "github.com/waferlab/cpqa-cli/internal/config"
)

var (
	// Global flags (wired to config/viper)
	cfgFile  string
	debug    bool
	jsonLogs bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "cpqa",
	Short: "CPQA: ingest, normalize and summarize wafer CP-test logs",
	Long: `cpqa ingests chip-probe test logs exported by wafer probers, reconciles
the per-file spec limits, normalizes mixed measurement units onto one scale
per parameter, flags out-of-spec and outlier readings, and emits per-parameter
JSON datasets plus descriptive statistics.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.cpqa/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "emit diagnostics as JSON lines")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("debug") {
		cfg.Debug = debug
	}
	if f.Changed("json-logs") {
		cfg.JSONLogs = jsonLogs
	}
}

// newLogger builds the diagnostics logger from the effective config.
func newLogger() *zap.Logger {
	level := zapcore.InfoLevel
	if cfg != nil && cfg.Debug {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if cfg != nil && cfg.JSONLogs {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}
