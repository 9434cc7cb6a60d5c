package utils

import (
	"fmt"
)

func GetDBSource(config *Config, dbName string) string {
	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		config.DBUsername, config.DBPassword, config.DBHost, config.DBPort, dbName, sslMode)
}
