package config

import (
	"github.com/maxviazov/composer-workspace-service/internal/logger"
)

// Config is the root application configuration. Field tags follow viper's
// mapstructure decoding; validate tags are checked once after loading.
type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Publish  PublishConfig       `mapstructure:"publish"`
	I18n     I18nConfig          `mapstructure:"i18n"`
}

type AppConfig struct {
	Name            string `mapstructure:"name"`
	Version         string `mapstructure:"version"`
	Env             string `mapstructure:"env" validate:"omitempty,oneof=dev staging prod test"`
	Port            int    `mapstructure:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory postgres"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
	Migrate           bool   `mapstructure:"migrate"`
}

// PublishConfig lists the publish destination types a profile may use and
// where submissions are delivered. An empty WebhookURL logs submissions only.
type PublishConfig struct {
	WebhookURL     string              `mapstructure:"webhook_url" validate:"omitempty,url"`
	TimeoutSeconds int                 `mapstructure:"timeout_seconds"`
	Types          []PublishTypeConfig `mapstructure:"types" validate:"dive"`
}

type PublishTypeConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Description string `mapstructure:"description"`
	// Schema is a JSON Schema document, inline as a string.
	Schema string `mapstructure:"schema"`
}

type I18nConfig struct {
	DefaultLocale string `mapstructure:"default_locale"`
}
