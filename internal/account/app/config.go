package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Issuer string // Required: issuer claim for tokens

	SigningKeyFile string        // Optional: PEM file with the Ed25519 signing key (default: ephemeral key per process)
	AccessTTL      time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL     time.Duration // Optional: refresh token lifetime (default: 720h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./account.db)
	PepperFile   string // Optional: path to file containing pepper for code hashing (default: ./pepper)

	MailMode     string // Mail transport: "smtp" or "log" (default: log)
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	ProductName  string // Display name used in email subjects (default: Atrium)

	KafkaBrokers []string // Optional: event publishing, disabled when empty
	KafkaTopic   string   // Optional: topic for account events (default: account-events)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:         os.Getenv("ACCOUNT_ISSUER"),
		SigningKeyFile: os.Getenv("ACCOUNT_SIGNING_KEY_FILE"), // Optional
		AccessTTL:      getEnvDurationOrDefault("ACCOUNT_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:     getEnvDurationOrDefault("ACCOUNT_REFRESH_TTL", 30*24*time.Hour),

		DatabaseFile: getEnvOrDefault("ACCOUNT_DATABASE_FILE", "account.db"),
		PepperFile:   getEnvOrDefault("ACCOUNT_PEPPER_FILE", "pepper"),

		MailMode:     getEnvOrDefault("MAIL_MODE", "log"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 465),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		ProductName:  getEnvOrDefault("PRODUCT_NAME", "Atrium"),

		KafkaTopic: getEnvOrDefault("KAFKA_TOPIC", "account-events"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	if cfg.Issuer == "" {
		cfg.Issuer = "atrium-account"
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
