package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	// Microsoft Graph credentials and addressing.
	TenantID     string
	ClientID     string
	ClientSecret string
	DriveUserID  string
	LoginBaseURL string
	GraphBaseURL string

	UpstreamTimeout    time.Duration
	MaxUploadBytes     int64
	RateLimitPerMinute int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "")),
		TenantID:           getEnv("TENANT_ID", ""),
		ClientID:           getEnv("CLIENT_ID", ""),
		ClientSecret:       getEnv("CLIENT_SECRET", ""),
		DriveUserID:        getEnv("GRAPH_USER_ID", ""),
		LoginBaseURL:       getEnv("LOGIN_BASE_URL", "https://login.microsoftonline.com"),
		GraphBaseURL:       getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
		UpstreamTimeout:    time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 60)) * time.Second,
		MaxUploadBytes:     int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		RateLimitPerMinute: getEnvInt("CONVERT_RATE_LIMIT_PER_MINUTE", 0),
	}
}

// Validate reports missing Graph credentials. Bootstrap fails on this in
// production and only warns elsewhere, so dev keeps the lazy-failure behavior.
func (c Config) Validate() error {
	var missing []string
	for _, kv := range []struct{ key, val string }{
		{"TENANT_ID", c.TenantID},
		{"CLIENT_ID", c.ClientID},
		{"CLIENT_SECRET", c.ClientSecret},
		{"GRAPH_USER_ID", c.DriveUserID},
	} {
		if strings.TrimSpace(kv.val) == "" {
			missing = append(missing, kv.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsProduction reports whether the environment is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
