package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	Env        string
	Database   DatabaseConfig
	JWT        JWTConfig
	RateLimit  RateLimitConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "stocktrack"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "stocktrack_db"),
		UseSSL:   getEnvBool("DB_USE_SSL", false),
	}

	jwtConfig := JWTConfig{
		Secret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		ExpiresIn: getEnvDuration("JWT_EXPIRES_IN", 24*time.Hour),
	}

	rateLimitConfig := RateLimitConfig{
		Window: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 900000)) * time.Millisecond,
		Max:    getEnvInt("RATE_LIMIT_MAX", 100),
	}

	return Config{
		ServerPort: getEnvInt("PORT", 3000),
		Env:        getEnv("ENV", "production"),
		Database:   dbConfig,
		JWT:        jwtConfig,
		RateLimit:  rateLimitConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return strings.EqualFold(valueStr, "true") || valueStr == "1"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := time.ParseDuration(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
