package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP_PORT      string        `mapstructure:"HTTP_PORT"`
	DB_STRING      string        `mapstructure:"DB_STRING"`
	KAFKA_BROKERS  string        `mapstructure:"KAFKA_BROKERS"`
	KAFKA_TOPIC    string        `mapstructure:"KAFKA_TOPIC"`
	KAFKA_GROUP_ID string        `mapstructure:"KAFKA_GROUP_ID"`
	S3_BUCKET      string        `mapstructure:"S3_BUCKET"`
	S3_REGION      string        `mapstructure:"S3_REGION"`
	S3_PUBLIC_URL  string        `mapstructure:"S3_PUBLIC_URL"`
	TIMEZONE       string        `mapstructure:"TIMEZONE"`
	CACHE_TTL      time.Duration `mapstructure:"CACHE_TTL"`
	APP_ENV        string        `mapstructure:"APP_ENV"`
	LOG_LEVEL      string        `mapstructure:"LOG_LEVEL"`
}

var keys = []string{
	"HTTP_PORT", "DB_STRING",
	"KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_GROUP_ID",
	"S3_BUCKET", "S3_REGION", "S3_PUBLIC_URL",
	"TIMEZONE", "CACHE_TTL", "APP_ENV", "LOG_LEVEL",
}

// LoadConfig reads .env (if present), the optional config file and the
// environment, in increasing order of precedence.
func LoadConfig(file string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("KAFKA_TOPIC", "store.admin.changes")
	v.SetDefault("KAFKA_GROUP_ID", "store-admin")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("CACHE_TTL", time.Minute)
	v.SetDefault("APP_ENV", "development")

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.DB_STRING == "" {
		return nil, fmt.Errorf("DB_STRING is required")
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TIMEZONE)
	if err != nil {
		return nil, fmt.Errorf("bad TIMEZONE %q: %w", c.TIMEZONE, err)
	}
	return loc, nil
}

func (c *Config) Production() bool {
	return strings.EqualFold(c.APP_ENV, "production")
}

func (c *Config) KafkaEnabled() bool {
	return strings.TrimSpace(c.KAFKA_BROKERS) != ""
}
