package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// Entra al menos una foto de 5 MiB en base64 (~6.7 MiB) más el resto de la colección.
	DefaultQuotaBytes = 8 * 1024 * 1024
)

type Config struct {
	AppName   string `validate:"required"`
	Port      string `validate:"required|isNumber"`
	LogLevel  string `validate:"in:debug,info,warn,warning,error"`
	LogFormat string `validate:"in:text,json"`

	// Storage
	StorageDriver   string `validate:"required|in:memory,file,postgres,sqlite"`
	StorageDir      string
	StorageCompress bool
	StorageQuota    int64 `validate:"min:0"`
	DBDSN           string

	// Auth remoto (opcional). Sin BaseURL => modo dev con X-Debug-User-ID.
	AuthBaseURL string
	AuthAPIKey  string

	MetricsEnabled  bool
	SwaggerEnabled  bool
	ShutdownTimeout time.Duration
}

// Load lee .env (si existe) y luego el entorno.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName:   envString("APP_NAME", "pet-party"),
		Port:      envString("PORT", "8080"),
		LogLevel:  strings.ToLower(envString("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envString("LOG_FORMAT", "text")),

		StorageDriver:   strings.ToLower(envString("STORAGE_DRIVER", DriverMemory)),
		StorageDir:      envString("STORAGE_DIR", "./data"),
		StorageCompress: envBool("STORAGE_COMPRESS", false),
		StorageQuota:    envInt64("STORAGE_QUOTA_BYTES", DefaultQuotaBytes),
		DBDSN:           os.Getenv("DB_DSN"),

		AuthBaseURL: os.Getenv("AUTH_BASE_URL"),
		AuthAPIKey:  os.Getenv("AUTH_API_KEY"),

		MetricsEnabled:  envBool("METRICS_ENABLED", true),
		SwaggerEnabled:  envBool("SWAGGER_ENABLED", true),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	v := validate.Struct(c)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.One())
	}

	switch c.StorageDriver {
	case DriverFile:
		if strings.TrimSpace(c.StorageDir) == "" {
			return fmt.Errorf("invalid config: STORAGE_DIR required for driver %q", c.StorageDriver)
		}
	case DriverPostgres, DriverSQLite:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("invalid config: DB_DSN required for driver %q", c.StorageDriver)
		}
	}
	if strings.TrimSpace(c.AuthBaseURL) != "" && strings.TrimSpace(c.AuthAPIKey) == "" {
		return fmt.Errorf("invalid config: AUTH_API_KEY required when AUTH_BASE_URL is set")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
