package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/leengari/viewdash/internal/query/ordering"
	"github.com/leengari/viewdash/internal/query/paginate"
)

// EnvPrefix prefixes environment overrides, e.g. VIEWDASH_VIEW_DEFAULT_PAGE_SIZE=25
const EnvPrefix = "VIEWDASH"

type Config struct {
	AppName string `mapstructure:"app_name"`

	Data struct {
		Path   string `mapstructure:"path"`   // CSV file or dataset directory
		Schema string `mapstructure:"schema"` // .hcl / .json; empty means built-in
	} `mapstructure:"data"`

	View struct {
		PageSizes       []int  `mapstructure:"page_sizes"`
		DefaultPageSize int    `mapstructure:"default_page_size"`
		SortColumn      string `mapstructure:"sort_column"`
		SortDirection   string `mapstructure:"sort_direction"`
	} `mapstructure:"view"`

	Logging struct {
		Level  string `mapstructure:"level"`
		SeqURL string `mapstructure:"seq_url"`
	} `mapstructure:"logging"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "viewdash")
	v.SetDefault("data.path", "insurance.csv")
	v.SetDefault("data.schema", "")
	v.SetDefault("view.page_sizes", paginate.DefaultPageSizes)
	v.SetDefault("view.default_page_size", paginate.DefaultPageSizes[0])
	v.SetDefault("view.sort_column", "")
	v.SetDefault("view.sort_direction", ordering.Ascending.String())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.seq_url", "")
}

// LoadConfig reads the YAML file at path (optional: empty path means defaults only),
// applies VIEWDASH_* environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that would otherwise only fail on the first view
func (c *Config) Validate() error {
	if len(c.View.PageSizes) == 0 {
		return fmt.Errorf("view.page_sizes is empty")
	}
	for _, size := range c.View.PageSizes {
		if size <= 0 {
			return fmt.Errorf("view.page_sizes: %d is not positive", size)
		}
	}
	if !slices.Contains(c.View.PageSizes, c.View.DefaultPageSize) {
		return fmt.Errorf("view.default_page_size %d is not one of %v", c.View.DefaultPageSize, c.View.PageSizes)
	}
	if _, err := ordering.ParseDirection(c.View.SortDirection); err != nil {
		return fmt.Errorf("view.sort_direction: %w", err)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// SortSpec returns the configured default ordering
func (c *Config) SortSpec() ordering.Spec {
	dir, _ := ordering.ParseDirection(c.View.SortDirection)
	return ordering.Spec{Column: c.View.SortColumn, Direction: dir}
}

// LogLevel parses logging.level ("debug", "info", "warn", "error")
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
