package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	OCR      OCRConfig
	Autofill AutofillConfig
	Log      LogConfig
}

// DatabaseConfig holds catalogue store configuration. A DSN starting with
// postgres:// or postgresql:// selects Postgres; anything else is a SQLite path.
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr        string
	ShutdownTimeout time.Duration
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Pdftoppm        string
	Pdftotext       string
	Tesseract       string
	TesseractLang   string
	TessdataDir     string
	DPI             int
	PSM             int
	PreferTextLayer bool
	TSVConfidence   bool
}

// AutofillConfig holds settings for draft resolution.
type AutofillConfig struct {
	CoursesFile    string // empty -> embedded table
	BatchWorkers   int
	MaxUploadLimit int // drafts held at once; 0 = unlimited
}

// LogConfig selects handler and level for slog.
type LogConfig struct {
	Level  string
	Format string // "json" | "text"
}

// LoadConfig loads configuration from environment variables, reading an
// optional .env file first.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", "papers.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr:        getEnv("GRPC_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OCR: OCRConfig{
			Pdftoppm:        getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Pdftotext:       getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Tesseract:       getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang:   getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:     getEnv("TESSDATA_PREFIX", ""),
			DPI:             getEnvAsInt("OCR_DPI", 150),
			PSM:             getEnvAsInt("TESSERACT_PSM", 0),
			PreferTextLayer: getEnvAsBool("OCR_PREFER_TEXT_LAYER", false),
			TSVConfidence:   getEnvAsBool("OCR_TSV_CONFIDENCE", false),
		},
		Autofill: AutofillConfig{
			CoursesFile:    getEnv("COURSES_FILE", ""),
			BatchWorkers:   getEnvAsInt("AUTOFILL_WORKERS", 4),
			MaxUploadLimit: getEnvAsInt("MAX_UPLOAD_LIMIT", 10),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// IsPostgres reports whether the DSN points at a Postgres server.
func (d DatabaseConfig) IsPostgres() bool {
	return strings.HasPrefix(d.DSN, "postgres://") || strings.HasPrefix(d.DSN, "postgresql://")
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 {
		return NewAppError("CONFIG_ERROR", "OCR_DPI must be positive", ErrInvalidInput)
	}
	if c.Autofill.BatchWorkers <= 0 {
		return NewAppError("CONFIG_ERROR", "AUTOFILL_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
