// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerHost string `mapstructure:"server_host"`
	ServerPort string `mapstructure:"server_port" validate:"required"`

	// Database configuration
	DBHost     string `mapstructure:"db_host" validate:"required"`
	DBPort     string `mapstructure:"db_port" validate:"required"`
	DBUser     string `mapstructure:"db_user" validate:"required"`
	DBPassword string `mapstructure:"db_password" validate:"required"`
	DBName     string `mapstructure:"db_name" validate:"required"`
	DBSSLMode  string `mapstructure:"db_ssl_mode"`

	// Redis configuration
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisURL      string `mapstructure:"redis_url"`

	// JWT configuration
	JWTSecret string `mapstructure:"jwt_secret" validate:"required"`

	// S3 image storage
	S3Bucket  string `mapstructure:"s3_bucket"`
	AWSRegion string `mapstructure:"aws_region"`

	// Shopping list document layout
	DocLinesPerPage int `mapstructure:"doc_lines_per_page" validate:"gte=0"`
}

// Load reads configuration from environment variables (FOODGRAM_ prefix)
// and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("foodgram")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8000")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("s3_bucket", "foodgram-recipe-images")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("doc_lines_per_page", 35)

	// Bind explicitly: AutomaticEnv alone does not populate Unmarshal for
	// keys that were never set.
	for _, key := range []string{
		"server_host", "server_port",
		"db_host", "db_port", "db_user", "db_password", "db_name", "db_ssl_mode",
		"redis_host", "redis_port", "redis_password", "redis_db", "redis_url",
		"jwt_secret", "s3_bucket", "aws_region", "doc_lines_per_page",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
