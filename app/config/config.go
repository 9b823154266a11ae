package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"postviewer/app/viewer"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. POSTVIEWER_API_BASE_URL.
const EnvPrefix = "POSTVIEWER"

// Config holds every tunable of the viewer frontend and the fixture backend.
type Config struct {
	Server struct {
		Addr      string `mapstructure:"addr"`
		StaticDir string `mapstructure:"static_dir"`
	} `mapstructure:"server"`
	API struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"api"`
	Viewer struct {
		DiscardStale bool   `mapstructure:"discard_stale"`
		FailedState  bool   `mapstructure:"failed_state"`
		Timezone     string `mapstructure:"timezone"`
	} `mapstructure:"viewer"`
	Backend struct {
		Addr      string `mapstructure:"addr"`
		DBPath    string `mapstructure:"db_path"`
		BackupDir string `mapstructure:"backup_dir"`
	} `mapstructure:"backend"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("api.base_url", "http://localhost:8081")
	v.SetDefault("api.timeout", "0s")
	v.SetDefault("viewer.discard_stale", false)
	v.SetDefault("viewer.failed_state", false)
	v.SetDefault("viewer.timezone", "Local")
	v.SetDefault("backend.addr", ":8081")
	v.SetDefault("backend.db_path", "data/badger")
	v.SetDefault("backend.backup_dir", "data/backups")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "production")
}

// Load reads .env (if present), then the yaml config file, then POSTVIEWER_*
// environment variables. An empty path searches ./postviewer.yaml and
// $HOME/.config/postviewer/postviewer.yaml and tolerates neither existing.
func Load(path string) (*Config, error) {
	if err := loadEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("postviewer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/postviewer")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be defaulted sensibly.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout cannot be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ViewerOptions returns the viewer behaviour selected by the viewer section.
func (c *Config) ViewerOptions() viewer.Options {
	return viewer.Options{
		DiscardStale: c.Viewer.DiscardStale,
		FailedState:  c.Viewer.FailedState,
	}
}

// Default returns the configuration with every default applied and nothing
// read from files or the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Location resolves viewer.timezone. "Local" and "" mean the process zone.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Viewer.Timezone)
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid viewer.timezone %q: %w", name, err)
	}
	return loc, nil
}

func loadEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
