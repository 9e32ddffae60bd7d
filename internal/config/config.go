package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/housewrangle/internal/acquire"
)

// Global configuration structure.
type Global struct {
	// Database connection
	DBDriver   string `mapstructure:"db_driver" yaml:"db_driver"`
	DBHost     string `mapstructure:"db_host" yaml:"db_host"`
	DBPort     int    `mapstructure:"db_port" yaml:"db_port"`
	DBUser     string `mapstructure:"db_user" yaml:"db_user"`
	DBPassword string `mapstructure:"db_password" yaml:"db_password"`
	DBName     string `mapstructure:"db_name" yaml:"db_name"`
	DBSSLMode  string `mapstructure:"db_sslmode" yaml:"db_sslmode,omitempty"`

	// CachePath is the CSV cache of the raw query result.
	CachePath string `mapstructure:"cache_path" yaml:"cache_path"`

	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`
	SplitSeed        uint64  `mapstructure:"split_seed" yaml:"split_seed"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Database returns the connection parameters for the acquisition source.
func (g *Global) Database() acquire.Config {
	c := acquire.Config{
		Driver:   g.DBDriver,
		Host:     g.DBHost,
		Port:     g.DBPort,
		User:     g.DBUser,
		Password: g.DBPassword,
		Database: g.DBName,
	}
	if g.DBSSLMode != "" && g.DBDriver == acquire.DriverPostgres {
		c.Params = map[string]string{"sslmode": g.DBSSLMode}
	}
	return c
}

// Dir returns ~/.housewrangle.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".housewrangle"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.housewrangle/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults. A .env file in the
// working directory is applied to the environment first without overriding
// variables that are already set.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("HOUSEWRANGLE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("db_driver", acquire.DriverMySQL)
	v.SetDefault("db_host", "")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "zillow")
	v.SetDefault("db_sslmode", "")
	v.SetDefault("cache_path", "zillow_data.csv")
	v.SetDefault("outlier_threshold", 3.0)
	v.SetDefault("split_seed", 713)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.OutlierThreshold <= 0 {
		return nil, fmt.Errorf("outlier_threshold must be positive, got %v", c.OutlierThreshold)
	}
	return &c, nil
}
