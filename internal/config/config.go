package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds application configuration from environment.
type Config struct {
	HTTPPort         string
	DatabaseURL      string
	DBPoolSize       int
	RedisURL         string
	RedisPoolSize    int
	CacheTTL         int // seconds
	KafkaBrokers     []string
	KafkaTopic       string
	JWTSecret        string
	LoginURL         string
	MaxTasksPerOwner int
	PageSize         int
}

var (
	cfg     *Config
	cfgOnce sync.Once
)

// Get returns the application config (loads once from env).
func Get() *Config {
	cfgOnce.Do(func() {
		cfg = load()
	})
	return cfg
}

func load() *Config {
	return &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBPoolSize:       getIntEnv("DB_POOL_SIZE", 25),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisPoolSize:    getIntEnv("REDIS_POOL_SIZE", 50),
		CacheTTL:         getIntEnv("CACHE_TTL_SEC", 60),
		KafkaBrokers:     getSliceEnv("KAFKA_BROKERS"),
		KafkaTopic:       getEnv("KAFKA_AUDIT_TOPIC", "task-audit"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		LoginURL:         getEnv("LOGIN_URL", "/login"),
		MaxTasksPerOwner: getIntEnv("MAX_TASKS_PER_OWNER", 1000),
		PageSize:         getIntEnv("PAGE_SIZE", 10),
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultVal
}

func getSliceEnv(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
