package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Store drivers.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Auth modes.
const (
	AuthSession  = "session"
	AuthFirebase = "firebase"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	StoreDriver       string
	MongoURI          string
	MongoDatabase     string
	MongoTransactions bool
	PostgresURL       string
	AutoMigrate       bool

	AuthMode                string
	JWTSecret               string
	SessionTTL              time.Duration
	FirebaseCredentialsPath string
	FirebaseStorageBucket   string

	ImageFolder    string
	MaxUploadBytes int64

	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreDriver:       getEnv("STORE_DRIVER", StoreMongo),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getEnv("MONGO_DATABASE", "socialmedia"),
		MongoTransactions: getEnvBool("MONGO_TRANSACTIONS", false),
		PostgresURL:       getEnv("POSTGRES_URL", ""),
		AutoMigrate:       getEnvBool("AUTO_MIGRATE", true),

		AuthMode:                getEnv("AUTH_MODE", AuthSession),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		SessionTTL:              getEnvDuration("SESSION_TTL", 72*time.Hour),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseStorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),

		ImageFolder:    getEnv("IMAGE_FOLDER", "social_media_posts"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 5<<20),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: int(getEnvInt64("RATE_LIMIT_BURST", 20)),
		CORSOrigins:    splitAndTrim(getEnv("CORS_ORIGINS", "*")),
	}
	return cfg, cfg.validate()
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo:
		if c.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_URL must be set when STORE_DRIVER=%s", StoreMongo)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.AuthMode {
	case AuthSession:
		if c.JWTSecret == "" {
			if !c.IsDevelopment() {
				return fmt.Errorf("JWT_SECRET must be set when AUTH_MODE=%s", AuthSession)
			}
			c.JWTSecret = "development-only-secret"
			log.Warn().Msg("JWT_SECRET not set, using the development secret")
		}
	case AuthFirebase:
		if c.FirebaseCredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH must be set when AUTH_MODE=%s", AuthFirebase)
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if v, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
