package config

import (
	"fmt"
	"os"
	"strconv"
)

// AppConfig holds everything outside the database connection: the token
// secret, external endpoints, OAuth client pairs and tunables.
type AppConfig struct {
	ServerPort      string
	JWTSecret       string
	JWTExpHours     int64
	CovidAPIURL     string
	FrontendURL     string
	RedirectBaseURL string

	GoogleClientID       string
	GoogleClientSecret   string
	LinkedInClientID     string
	LinkedInClientSecret string

	InitialAdminUsername string

	CacheTTLSeconds int
	RateLimitRPS    float64
	RateLimitBurst  int
}

// LoadAppConfig reads application configuration from environment variables.
// Only the JWT secret is mandatory; everything else has a sane default.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		ServerPort:           envOr("SERVER_PORT", "8080"),
		JWTSecret:            os.Getenv("JWT_SECRET_KEY"),
		JWTExpHours:          envInt64("JWT_EXPIRATION_HOURS", 24),
		CovidAPIURL:          envOr("COVID_API_URL", "https://api.covid19api.com/summary"),
		FrontendURL:          envOr("FRONTEND_URL", "http://localhost:3000"),
		RedirectBaseURL:      envOr("OAUTH_REDIRECT_BASE_URL", "http://localhost:8080"),
		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		LinkedInClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		InitialAdminUsername: os.Getenv("INITIAL_ADMIN_USERNAME"),
		CacheTTLSeconds:      int(envInt64("CACHE_TTL_SECONDS", 300)),
		RateLimitRPS:         envFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:       int(envInt64("RATE_LIMIT_BURST", 20)),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
