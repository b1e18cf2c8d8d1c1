package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/goodypm20014-source/hapche-social/models"
)

// Config holds all runtime configuration. Each field maps to one
// environment variable; optional collaborators stay empty when unset.
type Config struct {
	Port          string
	JWTSecret     string
	StorageDriver string // "sqlite" (default) | "postgres"
	StoragePath   string // sqlite file path
	StorageDSN    string // postgres DSN when StorageDriver=postgres

	OCRBaseURL  string // supplement OCR backend; empty → Rekognition fallback
	ChatBaseURL string // LLM endpoint for moderation + compatibility

	AWSRegion string
	S3Bucket  string
	FCMArn    string
	APNSArn   string

	ModerationTimeout time.Duration
	ScanTimeout       time.Duration
}

// Load reads configuration from the environment. A missing .env file is
// fine (env vars may come from the process environment).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          getenv("APP_PORT", "8080"),
		JWTSecret:     must("JWT_SECRET"),
		StorageDriver: getenv("STORAGE_DRIVER", "sqlite"),
		StoragePath:   getenv("STORAGE_PATH", "hapche.db"),
		StorageDSN:    os.Getenv("STORAGE_DSN"),

		OCRBaseURL:  os.Getenv("OCR_BASE_URL"),
		ChatBaseURL: os.Getenv("CHAT_BASE_URL"),

		AWSRegion: os.Getenv("AWS_REGION"),
		S3Bucket:  os.Getenv("S3_BUCKET"),
		FCMArn:    os.Getenv("SNS_FCM_ARN"),
		APNSArn:   os.Getenv("SNS_APNS_ARN"),

		ModerationTimeout: duration("MODERATION_TIMEOUT", 20*time.Second),
		ScanTimeout:       duration("SCAN_TIMEOUT", 15*time.Second),
	}
}

var DB *gorm.DB

// InitDB opens the snapshot database and migrates the two persisted
// tables. Everything else lives inside the snapshot blob.
func InitDB(cfg Config) {
	var err error
	switch cfg.StorageDriver {
	case "postgres":
		dsn := cfg.StorageDSN
		if dsn == "" {
			dsn = DSN()
		}
		DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		DB, err = gorm.Open(sqlite.Open(cfg.StoragePath), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to open snapshot storage: %v", err)
	}

	if err := DB.AutoMigrate(
		&models.Snapshot{},
		&models.UserDevice{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %v", key, err)
	}
	return d
}

// DSN assembles a postgres DSN from the discrete DB_* variables when
// STORAGE_DSN itself is not provided.
func DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
}
