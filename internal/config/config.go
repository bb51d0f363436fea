// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"upi-wallet/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	LogLevel   string
	DB         db.Config

	JWTSecret     string
	JWTIssuer     string
	JWTTTL        time.Duration
	ResetTokenTTL time.Duration
	BcryptCost    int

	AllowNegativeBalance bool
	CORSAllowedOrigins   []string
	AdminSignupKey       string

	Redis          RedisConfig
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// RedisConfig configures the shared rate limiter store. An empty Addr means
// the in-process limiter is used.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any required variable is missing or invalid.
func LoadConfig() (*AppConfig, error) {
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	jwtTTLMinutes, err := getEnvInt("JWT_TTL_MINUTES", 1440)
	if err != nil {
		return nil, err
	}
	resetTTLMinutes, err := getEnvInt("RESET_TOKEN_TTL_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	bcryptCost, err := getEnvInt("BCRYPT_COST", 10)
	if err != nil {
		return nil, err
	}
	allowNegative, err := getEnvBool("ALLOW_NEGATIVE_BALANCE", true)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getEnvInt("AUTH_RATE_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	rateWindow, err := getEnvInt("AUTH_RATE_WINDOW_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	if jwtTTLMinutes <= 0 || resetTTLMinutes <= 0 || rateLimit <= 0 || rateWindow <= 0 {
		return nil, errors.New("TTL and rate limit settings must be positive")
	}

	return &AppConfig{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "upiwallet"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWTSecret:            jwtSecret,
		JWTIssuer:            getEnv("JWT_ISSUER", "upi-wallet"),
		JWTTTL:               time.Duration(jwtTTLMinutes) * time.Minute,
		ResetTokenTTL:        time.Duration(resetTTLMinutes) * time.Minute,
		BcryptCost:           bcryptCost,
		AllowNegativeBalance: allowNegative,
		CORSAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		AdminSignupKey:       os.Getenv("ADMIN_SIGNUP_KEY"),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		AuthRateLimit:  rateLimit,
		AuthRateWindow: time.Duration(rateWindow) * time.Second,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
