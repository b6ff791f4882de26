package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Dashboard API.
	BackendURL     string        `mapstructure:"BACKEND_URL"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`

	// DeviceID namespaces every persisted key; the token and push flags are per device.
	DeviceID string `mapstructure:"DEVICE_ID"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDeviceDB int    `mapstructure:"REDIS_DEVICE_DB"`

	// Push channel.
	PushEnabled    bool   `mapstructure:"PUSH_ENABLED"`
	PushServiceURL string `mapstructure:"PUSH_SERVICE_URL"`
	PushPublicKey  string `mapstructure:"PUSH_PUBLIC_KEY"`

	// Notification store.
	ClearOnFetchFailure bool `mapstructure:"NOTIFICATIONS_CLEAR_ON_FETCH_FAILURE"`
	SyncQueueSize       int  `mapstructure:"SYNC_QUEUE_SIZE"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("BACKEND_URL", "http://localhost:8000/api")
	v.SetDefault("BACKEND_TIMEOUT", 15*time.Second)
	v.SetDefault("DEVICE_ID", "default")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DEVICE_DB", 3)
	v.SetDefault("PUSH_ENABLED", true)
	v.SetDefault("PUSH_SERVICE_URL", "")
	v.SetDefault("PUSH_PUBLIC_KEY", "")
	v.SetDefault("NOTIFICATIONS_CLEAR_ON_FETCH_FAILURE", false)
	v.SetDefault("SYNC_QUEUE_SIZE", 64)
}

// LoadConfig reads config.yaml from the current or ./config directory, overlays the
// environment and unmarshals into AppConfig. An explicit file path takes precedence.
func LoadConfig(file string) {
	v := viper.GetViper()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// Defaults returns a Config populated only with default values.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
