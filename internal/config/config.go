// Package config loads runtime settings from the environment, optionally
// seeded from configs/.env.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "default_super_secret_key"

type Config struct {
	Runtime       string
	LocalDBDir    string
	DatabaseURL   string
	EnableRLS     bool
	JWTSecret     []byte
	JWTTTL        time.Duration
	ProfileMaxAge time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Port          string
	CORSOrigins   []string
	AuthRateLimit string
	DBLogLevel    string
	ReleaseMode   bool
}

// Load reads configs/.env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := &Config{
		Runtime:       getEnv("POS_RUNTIME", "server"),
		LocalDBDir:    getEnv("LOCAL_DB_DIR", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		EnableRLS:     getBool("DB_ENABLE_RLS", false),
		JWTTTL:        getDuration("JWT_TTL", 24*time.Hour),
		ProfileMaxAge: getDuration("PROFILE_MAX_AGE", 24*time.Hour),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		AuthRateLimit: getEnv("AUTH_RATE_LIMIT", "10-M"),
		DBLogLevel:    getEnv("DB_LOG_LEVEL", "silent"),
		ReleaseMode:   os.Getenv("GIN_MODE") == "release",
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_NAME", "postgres"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if cfg.ReleaseMode {
			return nil, fmt.Errorf("JWT_SECRET environment variable is required in release mode")
		}
		secret = devJWTSecret // development fallback only
	}
	cfg.JWTSecret = []byte(secret)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		log.Printf("[config] invalid %s, using %v", key, fallback)
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		log.Printf("[config] invalid %s, using %d", key, fallback)
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, fallback.String()))
	if err != nil {
		log.Printf("[config] invalid %s, using %s", key, fallback)
		return fallback
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
