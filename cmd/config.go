package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/waferlab/cpqa-cli/internal/config"
	"github.com/waferlab/cpqa-cli/internal/dataset"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set cpqa configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("data_dir: %s\n", cfg.DataDir)
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		if len(cfg.TargetParams) > 0 {
			fmt.Printf("target_params: %s\n", strings.Join(cfg.TargetParams, ","))
		}
		if len(cfg.ExtraParams) > 0 {
			fmt.Printf("extra_params: %s\n", strings.Join(cfg.ExtraParams, ","))
		}
		fmt.Printf("clean_strategy: %s\n", cfg.CleanStrategy)
		fmt.Printf("zscore_threshold: %.2f\n", cfg.ZScoreThreshold)
		fmt.Printf("outlier_high_mult: %.2f\n", cfg.OutlierHighMult)
		fmt.Printf("outlier_low_mult: %.2f\n", cfg.OutlierLowMult)
		fmt.Printf("json_logs: %t\n", cfg.JSONLogs)
		fmt.Printf("debug: %t\n", cfg.Debug)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_dir":
			cfg.DataDir = val
		case "output_dir":
			cfg.OutputDir = val
		case "target_params":
			cfg.TargetParams = splitParams(val)
		case "extra_params":
			cfg.ExtraParams = splitParams(val)
		case "clean_strategy":
			if _, err := dataset.ParseStrategy(val); err != nil {
				return err
			}
			cfg.CleanStrategy = val
		case "zscore_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for zscore_threshold: %v", val)
			}
			cfg.ZScoreThreshold = f
		case "outlier_high_mult":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for outlier_high_mult: %v", val)
			}
			cfg.OutlierHighMult = f
		case "outlier_low_mult":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid float for outlier_low_mult: %v", val)
			}
			cfg.OutlierLowMult = f
		case "json_logs":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for json_logs: %v", val)
			}
			cfg.JSONLogs = b
		case "debug":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for debug: %v", val)
			}
			cfg.Debug = b
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func splitParams(val string) []string {
	var out []string
	for _, p := range strings.Split(val, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
