package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const appName = "talent"

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	CORSAllowOrigin []string
	LogJSON         bool
	LogDebug        bool
	QueueURL        string
	AWSRegion       string
	Matching        MatchingConfig
	Storage         StorageConfig
	RateLimit       RateLimitConfig
	UsageLimit      int
	Worker          WorkerConfig

	// Warnings are problems found while loading, for the caller to log.
	Warnings []string
}

// MatchingConfig tunes recommendation generation.
type MatchingConfig struct {
	MinScore    int
	MaxResults  int
	TTL         time.Duration
	Concurrency int
}

// StorageConfig bounds calls made at the storage boundary.
type StorageConfig struct {
	Timeout time.Duration
	Retries int
}

// RateLimitConfig is the default per-principal request budget.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// WorkerConfig tunes the queue consumer.
type WorkerConfig struct {
	Concurrency       int
	VisibilityTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Load reads configuration from defaults, an optional config file, .env files and
// environment variables, in increasing order of precedence.
func Load() Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// Best-effort load of local env files for dev convenience.
	mergeEnvFiles(v, ".env", "cmd/.env")
	var warnings []string
	if err := mergeConfigFile(v, strings.TrimSpace(os.Getenv("CONFIG_FILE"))); err != nil {
		warnings = append(warnings, err.Error())
	}

	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		warnings = append(warnings, "DATABASE_URL is required in production")
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		DatabaseURL:     dbURL,
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		LogJSON:         v.GetBool("LOG_JSON"),
		LogDebug:        v.GetBool("LOG_DEBUG"),
		QueueURL:        strings.TrimSpace(v.GetString("QUEUE_URL")),
		AWSRegion:       v.GetString("AWS_REGION"),
		Matching: MatchingConfig{
			MinScore:    v.GetInt("MATCH_MIN_SCORE"),
			MaxResults:  v.GetInt("MATCH_MAX_RESULTS"),
			TTL:         v.GetDuration("MATCH_TTL"),
			Concurrency: v.GetInt("MATCH_CONCURRENCY"),
		},
		Storage: StorageConfig{
			Timeout: v.GetDuration("STORAGE_TIMEOUT"),
			Retries: v.GetInt("STORAGE_RETRIES"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		UsageLimit: v.GetInt("USAGE_WEEKLY_LIMIT"),
		Worker: WorkerConfig{
			Concurrency:       v.GetInt("WORKER_CONCURRENCY"),
			VisibilityTimeout: v.GetDuration("WORKER_VISIBILITY_TIMEOUT"),
			ShutdownTimeout:   v.GetDuration("WORKER_SHUTDOWN_TIMEOUT"),
		},
		Warnings: warnings,
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_JSON", true)
	v.SetDefault("LOG_DEBUG", false)
	v.SetDefault("QUEUE_URL", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("MATCH_MIN_SCORE", 60)
	v.SetDefault("MATCH_MAX_RESULTS", 10)
	v.SetDefault("MATCH_TTL", 7*24*time.Hour)
	v.SetDefault("MATCH_CONCURRENCY", 4)
	v.SetDefault("STORAGE_TIMEOUT", 5*time.Second)
	v.SetDefault("STORAGE_RETRIES", 2)
	v.SetDefault("RATE_LIMIT_RPS", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("USAGE_WEEKLY_LIMIT", 10)
	v.SetDefault("WORKER_CONCURRENCY", 4)
	v.SetDefault("WORKER_VISIBILITY_TIMEOUT", 5*time.Minute)
	v.SetDefault("WORKER_SHUTDOWN_TIMEOUT", 30*time.Second)
}

// mergeEnvFiles merges KEY=VALUE files into v if they exist. Errors are ignored.
func mergeEnvFiles(v *viper.Viper, paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		fileV := viper.New()
		fileV.SetConfigFile(path)
		fileV.SetConfigType("env")
		if err := fileV.ReadInConfig(); err != nil {
			continue
		}
		for _, key := range fileV.AllKeys() {
			upper := strings.ToUpper(key)
			// Real environment variables win over .env entries.
			if _, set := os.LookupEnv(upper); set {
				continue
			}
			v.Set(upper, fileV.Get(key))
		}
	}
}

// mergeConfigFile fills keys not set in the environment. A missing default file
// is ignored; an explicit path that cannot be read is an error.
func mergeConfigFile(v *viper.Viper, path string) error {
	fileV := viper.New()
	if path != "" {
		fileV.SetConfigFile(path)
	} else {
		fileV.AddConfigPath(".")
		fileV.SetConfigName(appName)
		fileV.SetConfigType("yaml")
	}
	if err := fileV.ReadInConfig(); err != nil {
		if path != "" {
			return fmt.Errorf("config: read %s: %w", path, err)
		}
		return nil
	}
	for _, key := range fileV.AllKeys() {
		upper := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, set := os.LookupEnv(upper); set {
			continue
		}
		v.Set(upper, fileV.Get(key))
	}
	return nil
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
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

// IsDevLike reports whether env permits in-memory fallbacks and dev routes.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
