package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tutorbook/tutorbook/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Auth       AuthConfig       `validate:"required"`
	Invoice    InvoiceConfig    `validate:"required"`
	Exam       ExamConfig
	Cache      CacheConfig
	Typst      TypstConfig
	S3         S3Config
	Sentry     SentryConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required,oneof=local api"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host" validate:"required"`
	Port                   int    `mapstructure:"port" validate:"required"`
	User                   string `mapstructure:"user" validate:"required"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname" validate:"required"`
	SSLMode                string `mapstructure:"sslmode" validate:"required"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
	// LockTimeoutMs bounds how long the sequencer waits on a profile row lock
	LockTimeoutMs int `mapstructure:"lock_timeout_ms" validate:"min=0"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret" validate:"required"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// InvoiceConfig holds the invoicing conventions of the German standard regime.
// Allocation is retried on lock timeouts and deadlocks up to LockRetryMaxAttempts.
type InvoiceConfig struct {
	CodePrefix               string        `mapstructure:"code_prefix" validate:"required"`
	SurchargeVATRate         float64       `mapstructure:"surcharge_vat_rate" validate:"min=0,max=100"`
	DefaultNextNumber        int64         `mapstructure:"default_next_number" validate:"min=1"`
	DefaultDueDays           int           `mapstructure:"default_due_days" validate:"min=0"`
	LockRetryMaxAttempts     int           `mapstructure:"lock_retry_max_attempts" validate:"min=1"`
	LockRetryInitialInterval time.Duration `mapstructure:"lock_retry_initial_interval"`
	LockRetryMaxElapsedTime  time.Duration `mapstructure:"lock_retry_max_elapsed_time"`
}

// ExamConfig limits uploaded exam papers
type ExamConfig struct {
	MaxAttachmentBytes     int64    `mapstructure:"max_attachment_bytes" validate:"min=0"`
	AllowedAttachmentTypes []string `mapstructure:"allowed_attachment_types"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type TypstConfig struct {
	BinaryPath  string `mapstructure:"binary_path"`
	FontDir     string `mapstructure:"font_dir"`
	TemplateDir string `mapstructure:"template_dir"`
	OutputDir   string `mapstructure:"output_dir"`
}

type S3Config struct {
	Enabled             bool           `mapstructure:"enabled"`
	Region              string         `mapstructure:"region" validate:"required_if=Enabled true"`
	InvoiceBucketConfig S3BucketConfig `mapstructure:"invoice"`

	ExamAttachmentBucketConfig S3BucketConfig `mapstructure:"exam_attachment"`
}

type S3BucketConfig struct {
	Bucket                string `mapstructure:"bucket"`
	KeyPrefix             string `mapstructure:"key_prefix"`
	PresignExpiryDuration string `mapstructure:"presign_expiry_duration"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"min=0,max=1"`
}

func NewConfig() (*Configuration, error) {
	// local overrides, missing file is fine
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			fmt.Printf("Error loading .env file: %v\n", err)
		}
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tutorbook")

	v.SetEnvPrefix("TUTORBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

const DefaultMaxAttachmentBytes int64 = 20 << 20

var DefaultAttachmentTypes = []string{"application/pdf", "image/jpeg", "image/png"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.user", "tutorbook")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "tutorbook")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 60)
	v.SetDefault("postgres.lock_timeout_ms", 5000)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", 30*24*time.Hour)
	v.SetDefault("invoice.code_prefix", "RE-")
	v.SetDefault("invoice.surcharge_vat_rate", 19)
	v.SetDefault("invoice.default_next_number", 1000)
	v.SetDefault("invoice.default_due_days", 14)
	v.SetDefault("invoice.lock_retry_max_attempts", 3)
	v.SetDefault("invoice.lock_retry_initial_interval", 50*time.Millisecond)
	v.SetDefault("invoice.lock_retry_max_elapsed_time", 10*time.Second)
	v.SetDefault("exam.max_attachment_bytes", DefaultMaxAttachmentBytes)
	v.SetDefault("exam.allowed_attachment_types", DefaultAttachmentTypes)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("typst.binary_path", "typst")
	v.SetDefault("typst.font_dir", "assets/fonts")
	v.SetDefault("typst.output_dir", os.TempDir())
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			User:          "tutorbook",
			DBName:        "tutorbook",
			SSLMode:       "disable",
			LockTimeoutMs: 5000,
		},
		Auth: AuthConfig{
			Secret:   "local-development-secret",
			TokenTTL: 30 * 24 * time.Hour,
		},
		Invoice: InvoiceConfig{
			CodePrefix:               "RE-",
			SurchargeVATRate:         19,
			DefaultNextNumber:        1000,
			DefaultDueDays:           14,
			LockRetryMaxAttempts:     3,
			LockRetryInitialInterval: 50 * time.Millisecond,
			LockRetryMaxElapsedTime:  10 * time.Second,
		},
		Exam: ExamConfig{
			MaxAttachmentBytes:     DefaultMaxAttachmentBytes,
			AllowedAttachmentTypes: DefaultAttachmentTypes,
		},
		Cache: CacheConfig{Enabled: true, TTL: 10 * time.Minute},
		Typst: TypstConfig{
			BinaryPath: "typst",
			FontDir:    "assets/fonts",
			OutputDir:  os.TempDir(),
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
