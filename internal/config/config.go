package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"liferpg/internal/storage"
)

// EnvPrefix namespaces every environment variable, e.g. LIFERPG_DB_PATH.
const EnvPrefix = "LIFERPG"

type Config struct {
	Env          string        `mapstructure:"ENV"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	DBPath       string        `mapstructure:"DB_PATH"`
	HTTPAddr     string        `mapstructure:"HTTP_ADDR"`
	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
}

// IsDevelopment reports whether human-friendly output should be used.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// AuthEnabled reports whether API requests must carry a bearer token.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Load reads configuration from the environment and, when file is not empty, from
// that file. Environment variables win over the file.
func Load(file string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("READ_TIMEOUT", 15*time.Second)
	v.SetDefault("WRITE_TIMEOUT", 15*time.Second)
	if p, err := storage.DefaultDBPath(); err == nil {
		v.SetDefault("DB_PATH", p)
	} else {
		v.SetDefault("DB_PATH", ".liferpg.db")
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.DBPath == "" {
		return Config{}, fmt.Errorf("config: DB_PATH must not be empty")
	}
	return cfg, nil
}
