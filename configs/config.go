package config

import (
	"os"
	"strconv"
	"time"
)

type Trello struct {
	APIURL  string
	Timeout time.Duration
}

type Reset struct {
	TimeZone string
	Schedule string
}

type Config struct {
	Port           string
	PostgresURI    string
	RedisURI       string
	RedisPassword  string
	FrontendURL    string
	SecretKey      string
	CookieName     string
	CacheTTL       time.Duration
	NotifyMaxRetry int
	Trello         Trello
	Reset          Reset
}

func LoadConfig() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		PostgresURI:    getEnv("POSTGRES_URI", ""),
		RedisURI:       getEnv("REDIS_URI", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:      getEnv("SECRET_KEY", ""),
		CookieName:     getEnv("COOKIE_NAME", "token"),
		CacheTTL:       getEnvSeconds("CACHE_TTL", 300),
		NotifyMaxRetry: getEnvInt("NOTIFY_MAX_RETRY", 5),
		Trello: Trello{
			APIURL:  getEnv("TRELLO_API_URL", "https://api.trello.com"),
			Timeout: getEnvSeconds("TRELLO_TIMEOUT", 15),
		},
		Reset: Reset{
			TimeZone: getEnv("RESET_TIMEZONE", "America/New_York"),
			Schedule: getEnv("RESET_SCHEDULE", "@every 00h05m00s"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}
