package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	UpstreamBaseURL    string
	UpstreamToken      string
	ProxyPathPrefix    string
	CORSAllowedOrigins []string
	GeoIPDBPath        string
	PollInterval       time.Duration
	MaxPollTime        time.Duration
	UpstreamTimeout    time.Duration
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. A missing upstream token is not an error here: the
// gateway reports it per-request so the rest of the service stays useful.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		UpstreamBaseURL:    getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		UpstreamToken:      os.Getenv("REPLICATE_API_TOKEN"),
		ProxyPathPrefix:    getEnv("PROXY_PATH_PREFIX", "/api"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		PollInterval:       time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 2)),
		MaxPollTime:        time.Second * time.Duration(getEnvInt("MAX_POLL_SECONDS", 0)),
		UpstreamTimeout:    time.Second * time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 60)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 90)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if !strings.HasPrefix(cfg.ProxyPathPrefix, "/") {
		return nil, fmt.Errorf("PROXY_PATH_PREFIX must start with a slash, got %q", cfg.ProxyPathPrefix)
	}

	return cfg, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
