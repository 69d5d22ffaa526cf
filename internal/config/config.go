package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type AuthConfig struct {
	Secret     string            `mapstructure:"secret"`
	ExpireDays int               `mapstructure:"expire_days"`
	Users      map[string]string `mapstructure:"users"`
	Roles      map[string]string `mapstructure:"roles"`
}

type AppConfig struct {
	// Path is the base path the application is mounted under,
	// e.g. "/fragematning".
	Path           string            `mapstructure:"path"`
	CSVFilename    string            `mapstructure:"csv_filename"`
	StaticDir      string            `mapstructure:"static_dir"`
	Types          []string          `mapstructure:"types"`
	Locations      []string          `mapstructure:"locations"`
	Colors         map[string]string `mapstructure:"colors"`
	ColorSortOrder []string          `mapstructure:"color_sort_order"`
}

type BackupConfig struct {
	Dir      string `mapstructure:"dir"`
	Schedule string `mapstructure:"schedule"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	App      AppConfig      `mapstructure:"app"`
	Backup   BackupConfig   `mapstructure:"backup"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. FM_SERVER_PORT=9000
		v.SetEnvPrefix("FM")
		v.AutomaticEnv()

		v.SetDefault("auth.expire_days", 7)
		v.SetDefault("app.csv_filename", "Frågemätning.csv")
		v.SetDefault("app.static_dir", "./web/dist")

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
