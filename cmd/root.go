package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/housewrangle/internal/acquire"
	cfgpkg "github.com/KaramelBytes/housewrangle/internal/config"
	"github.com/KaramelBytes/housewrangle/internal/logging"
	"github.com/KaramelBytes/housewrangle/internal/table"
	"github.com/KaramelBytes/housewrangle/internal/utils"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logLevel  string
	logFormat string

	// Loaded configuration and logger
	cfg    *cfgpkg.Global
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "housewrangle",
	Short: "Acquire, clean and explore single-family housing transactions",
	Long: `housewrangle pulls 2017 single-family property transactions from a SQL database,
caches them as CSV, and runs an outlier-aware cleaning pipeline before splitting,
scaling, exploring and evaluating the data.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
	_ = logger.Sync()
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.housewrangle/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
	} else {
		cfg = c
	}

	s := settings()
	level, format := s.LogLevel, s.LogFormat
	if logLevel != "" {
		level = logLevel
	}
	if logFormat != "" {
		format = logFormat
	}
	if debug {
		level = "debug"
	}
	l, err := logging.New(level, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		return
	}
	logger = l
}

// settings returns the loaded configuration, or defaults when loading failed.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		DBDriver:         acquire.DriverMySQL,
		DBName:           "zillow",
		CachePath:        "zillow_data.csv",
		OutlierThreshold: 3,
		SplitSeed:        713,
		LogLevel:         "info",
		LogFormat:        "console",
	}
}

// loadRaw reads input when given, otherwise the configured cache, and falls
// back to querying the database. refresh forces a database fetch.
func loadRaw(ctx context.Context, input string, refresh bool) (*table.Table, error) {
	if input != "" {
		return acquire.ReadCSV(input)
	}
	s := settings()
	if !refresh && s.CachePath != "" && utils.FileExists(s.CachePath) {
		return acquire.NewAcquirer(nil, s.CachePath, logger).Load(ctx, acquire.ZillowQuery)
	}
	src, err := acquire.Open(ctx, s.Database(), logger)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	a := acquire.NewAcquirer(src, s.CachePath, logger)
	if refresh {
		return a.Refresh(ctx, acquire.ZillowQuery)
	}
	return a.Load(ctx, acquire.ZillowQuery)
}
