package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Storage       StorageConfig       `mapstructure:"storage"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Server        ServerConfig        `mapstructure:"server"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Planner       PlannerConfig       `mapstructure:"planner"`
	Outputs       OutputsConfig       `mapstructure:"outputs"`
}

// StorageConfig selects where materials and plans are kept.
type StorageConfig struct {
	Driver    string `mapstructure:"driver" validate:"oneof=yaml mysql"`
	Directory string `mapstructure:"directory" validate:"required_if=Driver yaml"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port" validate:"min=1,max=65535"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds" validate:"min=0"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type NotificationsConfig struct {
	Webhook WebhookConfig `mapstructure:"webhook"`
	Redis   RedisConfig   `mapstructure:"redis"`
}

// WebhookConfig is disabled when URL is empty.
type WebhookConfig struct {
	URL            string `mapstructure:"url" validate:"omitempty,url"`
	Secret         string `mapstructure:"secret"`
	MaxRetries     int    `mapstructure:"max_retries" validate:"min=0"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"min=1"`
}

// RedisConfig is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
	Channel  string `mapstructure:"channel" validate:"required_with=Addr"`
}

type PlannerConfig struct {
	CompanionMode    string `mapstructure:"companion_mode" validate:"companion_mode"`
	MaxUpdateRetries int    `mapstructure:"max_update_retries" validate:"min=1"`
	// Timezone decides which calendar day "today" is; empty means the local zone.
	Timezone string `mapstructure:"timezone" validate:"omitempty,timezone"`
}

type OutputsConfig struct {
	ExportDirectory string `mapstructure:"export_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/studyplan")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.driver", "yaml")
	v.SetDefault("storage.directory", filepath.Join("data"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "studyplan")
	v.SetDefault("database.username", "user")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("notifications.webhook.max_retries", 3)
	v.SetDefault("notifications.webhook.timeout_seconds", 10)
	v.SetDefault("notifications.redis.channel", "studyplan.events")
	v.SetDefault("planner.companion_mode", "eligible_days")
	v.SetDefault("planner.max_update_retries", 5)
	v.SetDefault("outputs.export_directory", filepath.Join("outputs", "plans"))

	// Secrets are bound to environment variables only
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("notifications.webhook.secret", "STUDYPLAN_WEBHOOK_SECRET"); err != nil {
		return nil, fmt.Errorf("failed to bind STUDYPLAN_WEBHOOK_SECRET environment variable: %w", err)
	}
	if err := v.BindEnv("notifications.redis.addr", "REDIS_ADDR"); err != nil {
		return nil, fmt.Errorf("failed to bind REDIS_ADDR environment variable: %w", err)
	}
	if err := v.BindEnv("notifications.redis.password", "REDIS_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind REDIS_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
