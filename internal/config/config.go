package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	ServerAddr        string `mapstructure:"server_addr" yaml:"server_addr" toml:"server_addr"`
	DefaultSheetIndex int    `mapstructure:"default_sheet_index" yaml:"default_sheet_index" toml:"default_sheet_index"`
	MaxUploadMB       int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" toml:"max_upload_mb"`
	LogLevel          string `mapstructure:"log_level" yaml:"log_level" toml:"log_level"`

	// Chart output size in inches
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in" toml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in" toml:"chart_height_in"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{"server_addr", "default_sheet_index", "max_upload_mb", "log_level", "chart_width_in", "chart_height_in"}

const dirName = ".cropinsights"

// DefaultPath returns ~/.cropinsights/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.cropinsights/config.yaml, creating the directory if necessary.
// A path ending in .toml is written as TOML, anything else as YAML.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	var (
		b   []byte
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		b, err = toml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal toml: %w", err)
		}
	} else {
		b, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_addr", "127.0.0.1:8080")
	v.SetDefault("default_sheet_index", 1)
	v.SetDefault("max_upload_mb", 32)
	v.SetDefault("log_level", "info")
	v.SetDefault("chart_width_in", 10.0)
	v.SetDefault("chart_height_in", 6.0)
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CROPINSIGHTS")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, dirName))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; a missing file leaves defaults in place
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
	return &c, nil
}

// Set validates and assigns one key from its string form.
func (c *Global) Set(key, val string) error {
	switch key {
	case "server_addr":
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("server_addr must not be empty")
		}
		c.ServerAddr = val
	case "default_sheet_index":
		i, err := strconv.Atoi(val)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid int for default_sheet_index: %v (must be >= 1)", val)
		}
		c.DefaultSheetIndex = i
	case "max_upload_mb":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for max_upload_mb: %v", val)
		}
		c.MaxUploadMB = i
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "chart_width_in", "chart_height_in":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for %s: %v", key, val)
		}
		if key == "chart_width_in" {
			c.ChartWidthIn = f
		} else {
			c.ChartHeightIn = f
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the string form of one key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "server_addr":
		return c.ServerAddr, nil
	case "default_sheet_index":
		return strconv.Itoa(c.DefaultSheetIndex), nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "log_level":
		return c.LogLevel, nil
	case "chart_width_in":
		return strconv.FormatFloat(c.ChartWidthIn, 'f', -1, 64), nil
	case "chart_height_in":
		return strconv.FormatFloat(c.ChartHeightIn, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}
