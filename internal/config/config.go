// Package config loads the service configuration from an optional YAML file, an optional
// .env file and the process environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBConnectionString string `yaml:"db_connection_string"`
	JWTSecret          string `yaml:"jwt_secret"`
	HTTPAddr           string `yaml:"http_addr"`
	LogLevel           string `yaml:"log_level"`
	Development        bool   `yaml:"development"`

	Recurring RecurringConfig `yaml:"recurring"`
	Email     EmailConfig     `yaml:"email"`
}

type RecurringConfig struct {
	// Schedule is a robfig/cron spec, e.g. "@every 1h" or "0 5 * * *".
	Schedule    string `yaml:"schedule"`
	HorizonDays int    `yaml:"horizon_days"`
}

type EmailConfig struct {
	Address      string `yaml:"address"`
	Password     string `yaml:"password"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     string `yaml:"smtp_port"`
	TemplatesDir string `yaml:"templates_dir"`
}

// Enabled reports whether enough is configured to send mail.
func (c EmailConfig) Enabled() bool {
	return c.Address != "" && c.Password != "" && c.SMTPHost != ""
}

func defaults() Config {
	return Config{
		HTTPAddr: ":8080",
		LogLevel: "info",
		Recurring: RecurringConfig{
			Schedule: "@every 1h",
		},
		Email: EmailConfig{
			SMTPHost:     "smtp.gmail.com",
			SMTPPort:     "587",
			TemplatesDir: "templates",
		},
	}
}

// Load builds the configuration. envPath optionally names a .env file; without it a .env in
// the working directory is used when present. CONFIG_FILE points at an optional YAML file.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// .env file is optional in production
		_ = godotenv.Load()
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.DBConnectionString = getEnvOrDefault("DB_CONNECTION_STRING", cfg.DBConnectionString)
	cfg.JWTSecret = getEnvOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.HTTPAddr = getEnvOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.Recurring.Schedule = getEnvOrDefault("RECURRING_SCHEDULE", cfg.Recurring.Schedule)
	cfg.Email.Address = getEnvOrDefault("EMAIL_ADDRESS", cfg.Email.Address)
	cfg.Email.Password = getEnvOrDefault("EMAIL_PASSWORD", cfg.Email.Password)
	cfg.Email.SMTPHost = getEnvOrDefault("SMTP_HOST", cfg.Email.SMTPHost)
	cfg.Email.SMTPPort = getEnvOrDefault("SMTP_PORT", cfg.Email.SMTPPort)
	cfg.Email.TemplatesDir = getEnvOrDefault("TEMPLATES_DIR", cfg.Email.TemplatesDir)

	var err error
	if cfg.Recurring.HorizonDays, err = parseIntEnv("RECURRING_HORIZON_DAYS", cfg.Recurring.HorizonDays); err != nil {
		return nil, fmt.Errorf("invalid RECURRING_HORIZON_DAYS: %w", err)
	}
	if cfg.Development, err = parseBoolEnv("DEVELOPMENT", cfg.Development); err != nil {
		return nil, fmt.Errorf("invalid DEVELOPMENT: %w", err)
	}

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that everything the server cannot start without is set.
func (c *Config) Validate() error {
	var missing []string
	if c.DBConnectionString == "" {
		missing = append(missing, "DB_CONNECTION_STRING")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Recurring.HorizonDays < 0 {
		return fmt.Errorf("recurring horizon must not be negative, got %d", c.Recurring.HorizonDays)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(value)
}
