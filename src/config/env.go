package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds settings read once from the environment.
type AppConfig struct {
	Env                string
	Host               string
	Port               string
	LogLevel           string
	AdminAPIKey        string
	TokenEncryptionKey string
	ProfileTokenSecret string
	SessionMaxAge      time.Duration
	SessionUpdateAge   time.Duration
	MediaOriginURL     string
	CORSOrigins        []string
}

// App is populated by Load and may be overridden in tests.
var App = defaults()

func defaults() *AppConfig {
	return &AppConfig{
		Env:              "development",
		Host:             "0.0.0.0",
		Port:             "2000",
		LogLevel:         "info",
		SessionMaxAge:    30 * 24 * time.Hour,
		SessionUpdateAge: 24 * time.Hour,
		CORSOrigins:      []string{"http://localhost:3000"},
	}
}

// Load reads configuration from environment variables
func Load() *AppConfig {
	d := defaults()
	App = &AppConfig{
		Env:                GetEnv("NODE_ENV", d.Env),
		Host:               GetEnv("HOST", d.Host),
		Port:               GetEnv("APP_PORT", d.Port),
		LogLevel:           GetEnv("LOG_LEVEL", d.LogLevel),
		AdminAPIKey:        os.Getenv("ADMIN_API_KEY"),
		TokenEncryptionKey: os.Getenv("TOKEN_ENCRYPTION_KEY"),
		ProfileTokenSecret: os.Getenv("PROFILE_TOKEN_SECRET"),
		SessionMaxAge:      GetEnvDuration("SESSION_MAX_AGE", d.SessionMaxAge),
		SessionUpdateAge:   GetEnvDuration("SESSION_UPDATE_AGE", d.SessionUpdateAge),
		MediaOriginURL:     strings.TrimRight(os.Getenv("MEDIA_ORIGIN_URL"), "/"),
		CORSOrigins:        GetEnvList("CORS_ORIGINS", d.CORSOrigins),
	}
	return App
}

// OriginAllowed reports whether a browser Origin header may talk to the API
// with credentials. Requests without an Origin are not cross-site.
func (c *AppConfig) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	origin = strings.TrimRight(origin, "/")
	for _, allowed := range c.CORSOrigins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvList splits a comma separated variable, dropping blanks and trailing slashes.
func GetEnvList(key string, fallback []string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimRight(strings.TrimSpace(part), "/"); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func GetEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
