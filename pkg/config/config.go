package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	Import      ImportConfig
	Derivation  DerivationConfig
	Maintenance MaintenanceConfig
	Notify      NotifyConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ImportConfig tunes the bulk-load pipeline.
type ImportConfig struct {
	// MaxFieldLen is the hard cap applied to every incoming string field;
	// the normalized tables store varchar(250).
	MaxFieldLen int
	// ProgressEvery controls how often a status checkpoint is written
	// during a long-running import (in rows).
	ProgressEvery int
	// RetainFiles disables deletion of source files after an import.
	RetainFiles bool
	// UploadDir is where uploaded extracts are staged before import.
	UploadDir string
}

// DerivationConfig tunes the student-dates derivation.
type DerivationConfig struct {
	// FullTimeCredits is the minimum average credit load to classify a
	// student as full time.
	FullTimeCredits float64
	// ProgressEvery controls status checkpoints (in students).
	ProgressEvery int
}

// MaintenanceConfig locates the shared maintenance-mode flag consulted
// by the reporting front end while bulk loads are in flight.
type MaintenanceConfig struct {
	RedisKey string
	TTL      time.Duration
}

// NotifyConfig configures optional email notification on completed imports.
type NotifyConfig struct {
	Enabled     bool
	SendgridKey string
	FromName    string
	FromAddress string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Import = ImportConfig{
		MaxFieldLen:   v.GetInt("IMPORT_MAX_FIELD_LEN"),
		ProgressEvery: v.GetInt("IMPORT_PROGRESS_EVERY"),
		RetainFiles:   v.GetBool("IMPORT_RETAIN_FILES"),
		UploadDir:     v.GetString("IMPORT_UPLOAD_DIR"),
	}

	cfg.Derivation = DerivationConfig{
		FullTimeCredits: v.GetFloat64("DERIVATION_FULL_TIME_CREDITS"),
		ProgressEvery:   v.GetInt("DERIVATION_PROGRESS_EVERY"),
	}

	cfg.Maintenance = MaintenanceConfig{
		RedisKey: v.GetString("MAINTENANCE_REDIS_KEY"),
		TTL:      parseDuration(v.GetString("MAINTENANCE_TTL"), 12*time.Hour),
	}

	cfg.Notify = NotifyConfig{
		Enabled:     v.GetBool("NOTIFY_ENABLED"),
		SendgridKey: v.GetString("SENDGRID_API_KEY"),
		FromName:    v.GetString("NOTIFY_FROM_NAME"),
		FromAddress: v.GetString("NOTIFY_FROM_ADDRESS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "uni_reporting")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("IMPORT_MAX_FIELD_LEN", 250)
	v.SetDefault("IMPORT_PROGRESS_EVERY", 1000)
	v.SetDefault("IMPORT_RETAIN_FILES", false)
	v.SetDefault("IMPORT_UPLOAD_DIR", "./uploads")

	v.SetDefault("DERIVATION_FULL_TIME_CREDITS", 120)
	v.SetDefault("DERIVATION_PROGRESS_EVERY", 1000)

	v.SetDefault("MAINTENANCE_REDIS_KEY", "reporting:maintenance")
	v.SetDefault("MAINTENANCE_TTL", "12h")

	v.SetDefault("NOTIFY_ENABLED", false)
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("NOTIFY_FROM_NAME", "Reporting")
	v.SetDefault("NOTIFY_FROM_ADDRESS", "reporting@localhost")
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
