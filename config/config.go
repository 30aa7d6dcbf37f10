package config

import (
	"os"
	"strconv"
	"strings"
)

// AppConfig holds environment driven configuration values. Secrets must come
// from the environment or an env file, never from defaults in code.
type AppConfig struct {
	AppPort        string
	DatabaseURL    string
	ServiceToken   string
	AllowedOrigins []string

	// Logging
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool

	// R2 object storage for KYC photos
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2Bucket          string

	// Background work
	ReconcileIntervalMinutes int
	NotifyIntervalSeconds    int
}

// Load reads configuration from the environment.
func Load() AppConfig {
	cfg := AppConfig{
		AppPort:      getenv("APP_PORT", "5300"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		ServiceToken: os.Getenv("PLATFORM_SERVICE_TOKEN"),

		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogPath:       os.Getenv("LOG_PATH"),
		LogMaxSizeMB:  atoi(os.Getenv("LOG_MAX_SIZE_MB")),
		LogMaxBackups: atoi(os.Getenv("LOG_MAX_BACKUPS")),
		LogMaxAgeDays: atoi(os.Getenv("LOG_MAX_AGE_DAYS")),
		LogCompress:   os.Getenv("LOG_COMPRESS") == "true",

		R2AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2Bucket:          os.Getenv("R2_BUCKET_NAME"),

		ReconcileIntervalMinutes: nzInt(atoi(os.Getenv("RECONCILE_INTERVAL_MINUTES")), 5),
		NotifyIntervalSeconds:    nzInt(atoi(os.Getenv("NOTIFY_INTERVAL_SECONDS")), 15),
	}

	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func nzInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
