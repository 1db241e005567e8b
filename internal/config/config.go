package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// DefaultKeywords is the stock search list. HBCU and MSI additionally carry
// their own scoring bonuses; the rest score per distinct match.
var DefaultKeywords = []string{
	"HBCU", "MSI", "minority serving", "Hispanic-Serving", "HSI", "Tribal",
	"TCU", "Alaska Native", "Native Hawaiian", "Black", "broadening participation",
	"EPSCoR",
}

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	FetchTimeout time.Duration
	WindowDays   int
	EnableMUREP  bool

	SyncConfigPath string
}

func Load() *Config {
	cfg := &Config{
		AppPort:        getEnv("APP_PORT", "9000"),
		PostgresDSN:    getEnv("BRASSLOOM_POSTGRES_DSN", ""),
		RedisAddr:      getEnv("BRASSLOOM_REDIS_ADDR", ""),
		FetchTimeout:   getEnvDuration("BRASSLOOM_FETCH_TIMEOUT", 30*time.Second),
		WindowDays:     getEnvInt("BRASSLOOM_WINDOW_DAYS", 60),
		EnableMUREP:    getEnv("BRASSLOOM_ENABLE_MUREP", "") == "true",
		SyncConfigPath: getEnv("BRASSLOOM_SYNC_CONFIG", "brassloom_config.yaml"),
	}

	log.Printf("config loaded: port=%s window=%dd timeout=%s", cfg.AppPort, cfg.WindowDays, cfg.FetchTimeout)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("warn: %s=%q is not an integer, using %d", key, v, def)
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("warn: %s=%q is not a duration, using %s", key, v, def)
	}
	return def
}
