package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Upload   UploadConfig
	HTTP     HTTPConfig
	Janitor  JanitorConfig
	Catalog  CatalogConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
	Migrate  bool
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type UploadConfig struct {
	Dir       string
	URLPrefix string
	MaxFiles  int
	MaxFileMB int64
}

// MaxFileBytes returns the per-file size cap in bytes.
func (c UploadConfig) MaxFileBytes() int64 {
	return c.MaxFileMB << 20
}

type HTTPConfig struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
}

type JanitorConfig struct {
	Schedule string
	Grace    time.Duration
}

type CatalogConfig struct {
	Concurrency int
}

type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "material-market")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIGRATE", true)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_URL_PREFIX", "/uploads")
	v.SetDefault("UPLOAD_MAX_FILES", 5)
	v.SetDefault("UPLOAD_MAX_FILE_MB", 5)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 100)
	v.SetDefault("JANITOR_SCHEDULE", "@every 1h")
	v.SetDefault("JANITOR_GRACE", "24h")
	v.SetDefault("CATALOG_CONCURRENCY", 8)

	// .env boleh tidak ada, environment tetap dipakai
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
			Migrate:  v.GetBool("DB_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Upload: UploadConfig{
			Dir:       v.GetString("UPLOAD_DIR"),
			URLPrefix: strings.TrimRight(v.GetString("UPLOAD_URL_PREFIX"), "/"),
			MaxFiles:  v.GetInt("UPLOAD_MAX_FILES"),
			MaxFileMB: v.GetInt64("UPLOAD_MAX_FILE_MB"),
		},
		HTTP: HTTPConfig{
			AllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Janitor: JanitorConfig{
			Schedule: v.GetString("JANITOR_SCHEDULE"),
			Grace:    v.GetDuration("JANITOR_GRACE"),
		},
		Catalog: CatalogConfig{
			Concurrency: v.GetInt("CATALOG_CONCURRENCY"),
		},
		Admin: AdminConfig{
			Name:     v.GetString("ADMIN_NAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
