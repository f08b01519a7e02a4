package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Значение-заглушка секрета: в production запрещено.
const placeholderSecret = "CHANGE_ME"

// Конечная структура конфигурации приложения.
type Config struct {
	App struct {
		Name      string `mapstructure:"name"`       // ECAT Prep Platform
		SecretKey string `mapstructure:"secret_key"` // подпись cookie; в debug может быть пустым
	} `mapstructure:"app"`

	Server struct {
		ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"` // 10s
		ReadTimeout       time.Duration `mapstructure:"read_timeout"`        // 15s
		WriteTimeout      time.Duration `mapstructure:"write_timeout"`       // 15s
		IdleTimeout       time.Duration `mapstructure:"idle_timeout"`        // 60s
		ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`    // 5s
	} `mapstructure:"server"`

	Logging struct {
		Level  string `mapstructure:"level"`  // trace|debug|info|warning|error|fatal
		Format string `mapstructure:"format"` // text|json
		File   string `mapstructure:"file"`   // путь/префикс файла, пусто — только stdout
	} `mapstructure:"logs"`

	Database struct {
		Driver string `mapstructure:"driver"` // "postgres" | "mysql" | "" (без БД)
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`

	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"metrics"`

	Session struct {
		Name   string `mapstructure:"name"`
		MaxAge int    `mapstructure:"max_age"` // секунды
		Secure bool   `mapstructure:"secure"`  // cookie только по https (за TLS-прокси)
	} `mapstructure:"session"`

	// файл, из которого реально прочитан конфиг (пусто — только env/дефолты)
	Source string `mapstructure:"-"`
}

// Load читает конфиг из env/файла с дефолтами. dir — каталог приложения,
// в нём ищется config.yaml первым.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "ECAT Prep Platform")
	v.SetDefault("app.secret_key", "")

	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("logs.level", "info")
	v.SetDefault("logs.format", "text")
	v.SetDefault("logs.file", "")

	// DB: по умолчанию выключена
	v.SetDefault("database.driver", "")
	v.SetDefault("database.dsn", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("session.name", "ecatprep")
	v.SetDefault("session.max_age", 86400*30)
	v.SetDefault("session.secure", false)

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir != "" {
			v.AddConfigPath(dir)
		}
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "ecatprep"))
		}
		v.AddConfigPath("/etc/ecatprep")
	}

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(c *Config) error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logs.format must be text or json, got %q", c.Logging.Format)
	}
	switch c.Database.Driver {
	case "":
	case "mysql", "postgres":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return errors.New("database.dsn must be set when database.driver is set")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("metrics.path must start with /")
	}
	if strings.TrimSpace(c.Session.Name) == "" {
		return errors.New("session.name must not be empty")
	}
	s := c.Server
	if s.ReadHeaderTimeout < 0 || s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.IdleTimeout < 0 || s.ShutdownTimeout < 0 {
		return errors.New("server timeouts must not be negative")
	}
	return nil
}

// RequireProduction — проверки, которые ослабляются в debug-режиме.
func RequireProduction(c *Config) error {
	if strings.TrimSpace(c.App.SecretKey) == "" || c.App.SecretKey == placeholderSecret {
		return errors.New("app.secret_key must be set (not empty and not CHANGE_ME)")
	}
	return nil
}
