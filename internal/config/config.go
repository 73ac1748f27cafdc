package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/logger"
)

type Config struct {
	Port          string
	BaseURL       string
	SessionSecret string
	UploadDir     string
	MaxUploadSize int64
	Timezone      string // IANA name chart and advice times are shown in, or "Local"
	AIProvider    string // "gemini" or "openai"
	GeminiAPIKey  string
	OpenAIAPIKey  string
	DB            DBConfig
	Redis         RedisConfig
	Dexcom        DexcomConfig
	Logger        LoggerConfig
}

type DBConfig struct {
	Driver     string // "postgres" or "sqlite"
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SQLitePath string
}

// DSN returns the postgres connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}

// RedisConfig is optional. An empty Host keeps chat state in memory.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Enabled reports whether a redis server is configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type DexcomConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	BaseURL      string
}

// Enabled reports whether Dexcom credentials are present
func (c DexcomConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

func Load() (*Config, error) {
	port := getEnvOrDefault("PORT", "5000")
	cfg := &Config{
		Port:          port,
		BaseURL:       getEnvOrDefault("BASE_URL", "http://localhost:"+port),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		UploadDir:     getEnvOrDefault("UPLOAD_DIR", "data/uploads"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		Timezone:      getEnvOrDefault("DISPLAY_TIMEZONE", "Local"),
		AIProvider:    strings.ToLower(getEnvOrDefault("AI_PROVIDER", "gemini")),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		DB: DBConfig{
			Driver:     strings.ToLower(getEnvOrDefault("DB_DRIVER", "postgres")),
			Host:       getEnvOrDefault("DB_HOST", "localhost"),
			Port:       getEnvOrDefault("DB_PORT", "5432"),
			User:       getEnvOrDefault("DB_USER", "postgres"),
			Password:   getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:     getEnvOrDefault("DB_NAME", "sweet_friend"),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "data/sweet_friend.db"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Dexcom: DexcomConfig{
			ClientID:     os.Getenv("DEXCOM_CLIENT_ID"),
			ClientSecret: os.Getenv("DEXCOM_CLIENT_SECRET"),
			RedirectURL:  getEnvOrDefault("DEXCOM_REDIRECT_URL", "http://localhost:"+port+"/api/dexcom_callback"),
			BaseURL:      getEnvOrDefault("DEXCOM_BASE_URL", "https://sandbox-api.dexcom.com"),
		},
		Logger: LoggerConfig{
			Level:      logger.ParseLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every missing or inconsistent setting at once
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT cannot be empty"))
	}
	if len(c.SessionSecret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 characters"))
	}
	switch c.AIProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required when AI_PROVIDER=gemini"))
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required when AI_PROVIDER=openai"))
		}
	default:
		errs = append(errs, fmt.Errorf("AI_PROVIDER must be gemini or openai, got %q", c.AIProvider))
	}
	switch c.DB.Driver {
	case "postgres":
		if c.DB.Host == "" || c.DB.DBName == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for postgres"))
		}
	case "sqlite":
		if c.DB.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH cannot be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DB.Driver))
	}
	if c.MaxUploadSize <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be > 0"))
	}
	if (c.Dexcom.ClientID == "") != (c.Dexcom.ClientSecret == "") {
		errs = append(errs, errors.New("DEXCOM_CLIENT_ID and DEXCOM_CLIENT_SECRET must be set together"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("DISPLAY_TIMEZONE %q is not a known time zone", c.Timezone))
	}
	return errors.Join(errs...)
}

// Location is the display time zone; Validate has already checked the name
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SecureCookies reports whether the app is served over HTTPS
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}
