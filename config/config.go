package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreFirestore = "firestore"
	StoreMongo     = "mongo"
	StorePostgres  = "postgres"
	StoreMemory    = "memory"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	FirebaseCredentialsPath string
	FirebaseProjectID       string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string

	NLPModelName string
	NLPAPIURL    string
	NLPAPIToken  string
	NLPTimeout   time.Duration

	PushEnabled bool
	TaskTimeout time.Duration

	AuthEnforce bool
	JWTSecret   string

	RedisURI           string
	RateLimitPerMinute int

	MetricsEnabled bool

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string

	AllowedOrigins []string
}

// Load reads the configuration from the environment. Malformed values are errors
// rather than silently falling back to defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                    getEnv("PORT", "8000"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "text"),
		FirebaseCredentialsPath: firstEnv("./serviceAccountKey.json", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_CREDENTIALS_PATH"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		StoreDriver:             strings.ToLower(getEnv("STORE_DRIVER", StoreFirestore)),
		MongoURI:                os.Getenv("MONGO_URI"),
		MongoDatabase:           getEnv("MONGO_DATABASE", "halo"),
		PostgresDSN:             os.Getenv("POSTGRES_DSN"),
		NLPModelName:            getEnv("NLP_MODEL_NAME", "distilbert-base-uncased-finetuned-sst-2-english"),
		NLPAPIURL:               getEnv("NLP_API_URL", "https://api-inference.huggingface.co/models"),
		NLPAPIToken:             os.Getenv("NLP_API_TOKEN"),
		JWTSecret:               os.Getenv("JWT_SECRET"),
		RedisURI:                os.Getenv("REDIS_URI"),
		SMTPHost:                os.Getenv("SMTP_HOST"),
		SMTPPort:                getEnv("SMTP_PORT", "587"),
		SMTPUsername:            os.Getenv("SMTP_USERNAME"),
		SMTPPassword:            os.Getenv("SMTP_PASSWORD"),
		FromEmail:               os.Getenv("FROM_EMAIL"),
		AllowedOrigins:          splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.NLPTimeout, err = durationEnv("NLP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.TaskTimeout, err = durationEnv("TASK_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.PushEnabled, err = boolEnv("PUSH_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.AuthEnforce, err = boolEnv("AUTH_ENFORCE", false); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled, err = boolEnv("METRICS_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = intEnv("RATE_LIMIT_PER_MINUTE", 30); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreFirestore, StoreMemory:
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("STORE_DRIVER=mongo requires MONGO_URI")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("STORE_DRIVER=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	if c.TaskTimeout <= 0 {
		return fmt.Errorf("TASK_TIMEOUT must be positive")
	}
	return nil
}

// NeedsFirebase reports whether a Firebase app must be initialised.
func (c *Config) NeedsFirebase() bool {
	return c.StoreDriver == StoreFirestore || c.PushEnabled || c.JWTSecret == ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func firstEnv(fallback string, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
