package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultDBPort = 3306

type Config struct {
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            int
	DBName            string
	DBWaitTimeout     time.Duration
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	CSVDir            string
	AppPort           string
	LogLevel          string
	RabbitMQURL       string
	OrderExchange     string
	AuditQueue        string
}

// LoadConfig reads settings from the environment, optionally seeded from a
// .env file in the working directory.
func LoadConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_NAME", "order_db")
	v.SetDefault("DB_WAIT_TIMEOUT", 60)
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("CSV_DIR", "csv_files")
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("ORDER_EXCHANGE", "orders_exchange")
	v.SetDefault("AUDIT_QUEUE", "orders_audit_queue")
	v.AutomaticEnv()

	return &Config{
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        getEnvFromFile("DB_PASSWORD_FILE", "DB_PASSWORD", ""),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            parsePort(os.Getenv("DB_PORT")),
		DBName:            v.GetString("DB_NAME"),
		DBWaitTimeout:     time.Duration(v.GetInt("DB_WAIT_TIMEOUT")) * time.Second,
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		CSVDir:            v.GetString("CSV_DIR"),
		AppPort:           v.GetString("APP_PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		RabbitMQURL:       getEnvFromFile("RABBITMQ_URL_FILE", "RABBITMQ_URL", v.GetString("RABBITMQ_URL")),
		OrderExchange:     v.GetString("ORDER_EXCHANGE"),
		AuditQueue:        v.GetString("AUDIT_QUEUE"),
	}
}

// parsePort falls back to the MySQL default for empty or malformed values.
func parsePort(raw string) int {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || port <= 0 || port > 65535 {
		return defaultDBPort
	}
	return port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}
