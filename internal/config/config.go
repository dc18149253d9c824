package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// ConfigFileEnv names an optional TOML file loaded before environment overrides.
const ConfigFileEnv = "PDFVAULT_CONFIG"

// Supported values for AppConfig.Backend.
const (
	BackendMemory     = "memory"
	BackendSQLite     = "sqlite"
	BackendPostgres   = "postgres"
	BackendMinIO      = "minio"
	BackendS3         = "s3"
	BackendFilesystem = "filesystem"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `toml:"host"`
	Port               string `toml:"port"`
	User               string `toml:"user"`
	Password           string `toml:"password"`
	Name               string `toml:"name"`
	SSLMode            string `toml:"sslmode"`
	MaxOpenConns       int    `toml:"max_open_conns"`
	MaxIdleConns       int    `toml:"max_idle_conns"`
	ConnMaxLifetimeSec int    `toml:"conn_max_lifetime_sec"`
}

// SQLiteConfig holds settings for the embedded SQLite store.
type SQLiteConfig struct {
	Path          string `toml:"path"`
	BusyTimeoutMs int    `toml:"busy_timeout_ms"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

// S3Config holds AWS S3 settings. Credentials come from the default AWS chain.
type S3Config struct {
	Bucket string `toml:"bucket"`
	Region string `toml:"region"`
}

// FilesystemConfig holds settings for the local directory store.
type FilesystemConfig struct {
	Root string `toml:"root"`
}

// UploadConfig limits uploads and controls usage reporting.
type UploadConfig struct {
	MaxBytes       int64 `toml:"max_bytes"`
	UsageWarnBytes int64 `toml:"usage_warn_bytes"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"`
	Timezone string `toml:"timezone"`
}

// AppConfig is the centralized configuration struct for the application.
// Values come from defaults, then the optional TOML file, then environment
// variables. Sensitive values are not hardcoded.
type AppConfig struct {
	// AppHost is the public host advertised in the API docs. Empty means
	// the Host header of each docs request.
	AppHost    string           `toml:"app_host"`
	Port       string           `toml:"port"`
	Backend    string           `toml:"backend"`
	Database   DatabaseConfig   `toml:"database"`
	SQLite     SQLiteConfig     `toml:"sqlite"`
	MinIO      MinIOConfig      `toml:"minio"`
	S3         S3Config         `toml:"s3"`
	Filesystem FilesystemConfig `toml:"filesystem"`
	Upload     UploadConfig     `toml:"upload"`
	Log        LogConfig        `toml:"log"`
}

// Default returns the configuration used when nothing is set.
func Default() *AppConfig {
	return &AppConfig{
		Port:    "8080",
		Backend: BackendMemory,
		Database: DatabaseConfig{
			Port:               "5432",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
		},
		SQLite: SQLiteConfig{
			Path:          "data/pdfvault.db",
			BusyTimeoutMs: 5000,
		},
		Filesystem: FilesystemConfig{
			Root: "data/documents",
		},
		Upload: UploadConfig{
			MaxBytes:       64 << 20,
			UsageWarnBytes: 50 << 20,
		},
		Log: LogConfig{
			Level:    "info",
			Format:   "json",
			Timezone: "UTC",
		},
	}
}

// Load builds the configuration. A .env file can be auto-loaded by importing:
// _ "github.com/joho/godotenv/autoload". Real environment variables take
// precedence over the TOML file named by PDFVAULT_CONFIG.
func Load() (*AppConfig, error) {
	cfg := Default()
	if path := os.Getenv(ConfigFileEnv); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail late.
func (c *AppConfig) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendMinIO, BackendS3, BackendFilesystem:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q", c.Backend)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func applyEnv(c *AppConfig) {
	c.AppHost = getEnv("APP_HOST", c.AppHost)
	c.Port = getEnv("PORT", c.Port)
	c.Backend = getEnv("STORE_BACKEND", c.Backend)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetimeSec = getEnvInt("DB_CONN_MAX_LIFETIME_SEC", c.Database.ConnMaxLifetimeSec)

	c.SQLite.Path = getEnv("SQLITE_PATH", c.SQLite.Path)
	c.SQLite.BusyTimeoutMs = getEnvInt("SQLITE_BUSY_TIMEOUT_MS", c.SQLite.BusyTimeoutMs)

	c.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", c.MinIO.Endpoint)
	c.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", c.MinIO.AccessKey)
	c.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", c.MinIO.SecretKey)
	c.MinIO.Bucket = getEnv("MINIO_BUCKET", c.MinIO.Bucket)
	c.MinIO.UseSSL = getEnvBool("MINIO_USE_SSL", c.MinIO.UseSSL)

	c.S3.Bucket = getEnv("S3_BUCKET", c.S3.Bucket)
	c.S3.Region = getEnv("S3_REGION", c.S3.Region)

	c.Filesystem.Root = getEnv("FS_ROOT", c.Filesystem.Root)

	c.Upload.MaxBytes = getEnvInt64("MAX_UPLOAD_BYTES", c.Upload.MaxBytes)
	c.Upload.UsageWarnBytes = getEnvInt64("USAGE_WARN_BYTES", c.Upload.UsageWarnBytes)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Log.Timezone = getEnv("TZ_NAME", c.Log.Timezone)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
