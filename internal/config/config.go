package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DBDSN       string
	JWTSecret   string
	TokenTTLMin int
	LogFile     string
	CORSOrigins string
}

func Load() Config {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		DBDSN:       getEnv("DB_DSN", "shopfront.db"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		TokenTTLMin: getEnvInt("TOKEN_TTL_MINUTES", 30),
		LogFile:     getEnv("LOG_FILE", "./shopfront.log"),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s TOKEN_TTL_MINUTES=%d LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.TokenTTLMin, cfg.LogFile)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
