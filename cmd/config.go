package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/housewrangle/internal/acquire"
	cfgpkg "github.com/KaramelBytes/housewrangle/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set housewrangle configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "db_driver: %s\n", cfg.DBDriver)
		fmt.Fprintf(out, "db_host: %s\n", cfg.DBHost)
		fmt.Fprintf(out, "db_port: %d\n", cfg.DBPort)
		fmt.Fprintf(out, "db_user: %s\n", cfg.DBUser)
		fmt.Fprintf(out, "db_password: %s\n", mask(cfg.DBPassword))
		fmt.Fprintf(out, "db_name: %s\n", cfg.DBName)
		if cfg.DBSSLMode != "" {
			fmt.Fprintf(out, "db_sslmode: %s\n", cfg.DBSSLMode)
		}
		fmt.Fprintf(out, "cache_path: %s\n", cfg.CachePath)
		fmt.Fprintf(out, "outlier_threshold: %.3f\n", cfg.OutlierThreshold)
		fmt.Fprintf(out, "split_seed: %d\n", cfg.SplitSeed)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
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
		case "db_driver":
			switch strings.ToLower(val) {
			case acquire.DriverMySQL:
				cfg.DBDriver = acquire.DriverMySQL
			case acquire.DriverPostgres, "postgresql", "pg":
				cfg.DBDriver = acquire.DriverPostgres
			default:
				return fmt.Errorf("invalid db_driver: %s (use mysql or postgres)", val)
			}
		case "db_host":
			cfg.DBHost = val
		case "db_port":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 || i > 65535 {
				return fmt.Errorf("invalid port for db_port: %v", val)
			}
			cfg.DBPort = i
		case "db_user":
			cfg.DBUser = val
		case "db_password":
			cfg.DBPassword = val
		case "db_name":
			cfg.DBName = val
		case "db_sslmode":
			cfg.DBSSLMode = val
		case "cache_path":
			cfg.CachePath = val
		case "outlier_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid positive float for outlier_threshold: %v", val)
			}
			cfg.OutlierThreshold = f
		case "split_seed":
			u, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid seed for split_seed: %w", err)
			}
			cfg.SplitSeed = u
		case "log_level":
			cfg.LogLevel = val
		case "log_format":
			if val != "console" && val != "json" {
				return fmt.Errorf("invalid log_format: %s (use console or json)", val)
			}
			cfg.LogFormat = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
