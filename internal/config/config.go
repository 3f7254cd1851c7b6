package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const ConfigPathEnv = "CASHBACK_CONFIG_PATH"

type CashbackConfig struct {
	Env          string `yaml:"env" env:"CASHBACK_ENV" env-default:"local"`
	Database     `yaml:"database"`
	LogConfig    `yaml:"log_config"`
	KafkaService `yaml:"kafka-service"`
	Redis        `yaml:"redis"`
	RateLimits   `yaml:"rate_limits"`
}

type Database struct {
	// Driver is postgres or sqlite.
	Driver         string `yaml:"driver" env:"CASHBACK_DB_DRIVER" env-default:"postgres"`
	Dsn            string `yaml:"dsn" env:"CASHBACK_DB_DSN"`
	MaxTxRetries   int    `yaml:"max_tx_retries" env-default:"3"`
	MaxOpenConns   int    `yaml:"max_open_conns" env-default:"20"`
	MigrationsPath string `yaml:"migrations_path" env-default:"./migrations"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level" env:"CASHBACK_LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env-default:"json"`
}

type KafkaService struct {
	Enabled         bool   `yaml:"enabled" env:"CASHBACK_KAFKA_ENABLED"`
	Host            string `yaml:"host" env:"CASHBACK_KAFKA_HOST"`
	Port            string `yaml:"port" env:"CASHBACK_KAFKA_PORT"`
	EntryTopic      string `yaml:"entry_topic" env-default:"cashback-entry-events"`
	SuggestionTopic string `yaml:"suggestion_topic" env-default:"rate-suggestion-events"`
}

func (k KafkaService) Brokers() []string {
	return []string{fmt.Sprintf("%s:%s", k.Host, k.Port)}
}

type Redis struct {
	Addr     string `yaml:"addr" env:"CASHBACK_REDIS_ADDR"`
	Password string `yaml:"password" env:"CASHBACK_REDIS_PASSWORD"`
	DB       int    `yaml:"db"`
}

type RateLimits struct {
	EntriesPerWindow     int           `yaml:"entries_per_window" env-default:"5"`
	SuggestionsPerWindow int           `yaml:"suggestions_per_window" env-default:"10"`
	CommentsPerWindow    int           `yaml:"comments_per_window" env-default:"20"`
	Window               time.Duration `yaml:"window" env-default:"1m"`
}

// Load reads the YAML file at path and applies env overrides and defaults.
func Load(path string) (*CashbackConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	var cfg CashbackConfig
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if cfg.Database.Dsn == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	return &cfg, nil
}
