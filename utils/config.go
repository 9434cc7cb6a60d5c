package utils

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

var (
	EnvPath string = "."
)

type Config struct {
	Env               string `mapstructure:"ENV"`
	ServerPort        int    `mapstructure:"SERVER_PORT"`
	SigningKey        string `mapstructure:"SIGNING_KEY"`
	DBUsername        string `mapstructure:"DB_USERNAME"`
	DBPassword        string `mapstructure:"DB_PASSWORD"`
	DBHost            string `mapstructure:"DB_HOST"`
	DBPort            string `mapstructure:"DB_PORT"`
	DBDriver          string `mapstructure:"DB_DRIVER"`
	DBName            string `mapstructure:"DB_NAME"`
	SSLMode           string `mapstructure:"SSLMODE"`
	Papertrail        string `mapstructure:"PAPERTRAIL"`
	PapertrailAppName string `mapstructure:"PAPERTRAIL_APP_NAME"`
	RedisHost         string `mapstructure:"REDIS_HOST"`
	RedisPort         string `mapstructure:"REDIS_PORT"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "."
	}

	// A fresh viper instance keeps config loading free of global state.
	v := viper.New()

	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Unable to read config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func validateConfig(config *Config) error {
	if config.ServerPort == 0 {
		return fmt.Errorf("server port must be specified")
	}

	if config.DBUsername == "" || config.DBPassword == "" {
		return fmt.Errorf("database credentials must be provided")
	}

	if config.SigningKey == "" {
		return fmt.Errorf("signing key must be provided")
	}

	return nil
}

// Redact masks sensitive fields so the config can be logged at startup.
func (c *Config) Redact() Config {
	redacted := *c
	redacted.SigningKey = "****"
	redacted.DBPassword = "****"
	redacted.RedisPassword = "****"
	return redacted
}

// LoadCustomConfig unmarshals the `.env` file into a caller-supplied struct, used
// by providers that keep their own config block.
func LoadCustomConfig(path string, val interface{}) error {
	if path == "" {
		path = "."
	}

	v := viper.New()

	v.SetEnvPrefix("KOBO")
	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Unable to read config file: %v", err)
	}

	if err := v.Unmarshal(&val); err != nil {
		return fmt.Errorf("unable to decode config: %w", err)
	}

	return nil
}
