package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Scan     ScanConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

// ScanConfig carries the door-control knobs: the business timezone the
// venue operates in, the fallback entry limit applied when an event has
// none, and the scan endpoint rate limit.
type ScanConfig struct {
	// BusinessZoneName labels the venue timezone ("America/Lima").
	BusinessZoneName string
	// BusinessUTCOffset is the fixed offset in hours (no DST in the
	// business zone, so a constant offset is enough).
	BusinessUTCOffset int
	// DefaultEntryLimit is the HH:mm fallback cutoff.
	DefaultEntryLimit string
	// RateLimitWindow / RateLimitMax bound scans per (ip, staff) pair.
	RateLimitWindow time.Duration
	RateLimitMax    int
}

// BusinessLocation builds the fixed-offset location used for all entry
// cutoff arithmetic.
func (c *ScanConfig) BusinessLocation() *time.Location {
	return time.FixedZone(c.BusinessZoneName, c.BusinessUTCOffset*3600)
}

var AppConfig *Config

func LoadConfig() *Config {
	// .env is optional; real deployments inject plain env vars.
	_ = godotenv.Load()

	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Auth:     GetAuthConfig(),
		Scan:     GetScanConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433",
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380",
		Password: "",
		DB:       1,
	}

	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: *testConfig,
		Redis:    testRedisConfig,
		Auth:     AuthConfig{JWTSecret: "test-secret"},
		Scan:     GetScanConfig(),
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnv("PORT", "8080"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
	}
}

func GetAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret: getEnv("JWT_SECRET", "change-me"),
	}
}

func GetScanConfig() ScanConfig {
	return ScanConfig{
		BusinessZoneName:  getEnv("BUSINESS_TZ_NAME", "America/Lima"),
		BusinessUTCOffset: getEnvAsInt("BUSINESS_TZ_OFFSET", -5),
		DefaultEntryLimit: getEnv("DEFAULT_ENTRY_LIMIT", "23:30"),
		RateLimitWindow:   getEnvAsDuration("SCAN_RATE_WINDOW", "60s"),
		RateLimitMax:      getEnvAsInt("SCAN_RATE_MAX", 120),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvAsDuration(key, fallback string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		value = fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}
