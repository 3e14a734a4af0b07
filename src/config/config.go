package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Log       LogConfig       `mapstructure:"log"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Limits    LimitsConfig    `mapstructure:"limits"`
}

type ServerConfig struct {
	Port           string `mapstructure:"port"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
	BodyLimitMB    int    `mapstructure:"body_limit_mb"`
}

type StorageConfig struct {
	Driver      string `mapstructure:"driver"` // mongo | postgres | sqlite
	MongoURI    string `mapstructure:"mongo_uri"`
	MongoDB     string `mapstructure:"mongo_db"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	SQLitePath  string `mapstructure:"sqlite_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	PublicURL string `mapstructure:"public_url"`
}

type SMTPConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Pass         string `mapstructure:"pass"`
	From         string `mapstructure:"from"`
	ContactInbox string `mapstructure:"contact_inbox"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AnalyticsConfig struct {
	TimeZone string `mapstructure:"timezone"`
}

type LimitsConfig struct {
	GeneratePerMinute int `mapstructure:"generate_per_minute"`
	CountConcurrency  int `mapstructure:"count_concurrency"`
}

// Load อ่าน config จาก .env, config.yaml และ environment variables (env ชนะเสมอ)
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: No .env file found")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8888")
	v.SetDefault("server.allowed_origins", "*")
	v.SetDefault("server.body_limit_mb", 21)

	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.mongo_db", "FormGenDB")
	v.SetDefault("storage.sqlite_path", "formgen.db")

	v.SetDefault("gemini.model", "")
	v.SetDefault("gemini.timeout", 60*time.Second)

	v.SetDefault("minio.bucket", "form-uploads")

	v.SetDefault("smtp.port", 587)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("analytics.timezone", "Asia/Bangkok")

	v.SetDefault("limits.generate_per_minute", 10)
	v.SetDefault("limits.count_concurrency", 8)
}

func bindEnvVariables(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "APP_URI")
	v.BindEnv("server.allowed_origins", "ALLOWED_ORIGINS")

	// Storage
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.mongo_uri", "MONGO_URI")
	v.BindEnv("storage.mongo_db", "MONGO_DB")
	v.BindEnv("storage.postgres_dsn", "DATABASE_URL")
	v.BindEnv("storage.sqlite_path", "SQLITE_PATH")

	// Redis
	v.BindEnv("redis.addr", "REDIS_URI")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Gemini
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("gemini.model", "GEMINI_MODEL")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// MinIO
	v.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	v.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("minio.bucket", "MINIO_BUCKET")
	v.BindEnv("minio.use_ssl", "MINIO_USE_SSL")
	v.BindEnv("minio.public_url", "MINIO_PUBLIC_URL")

	// SMTP
	v.BindEnv("smtp.host", "SMTP_HOST")
	v.BindEnv("smtp.port", "SMTP_PORT")
	v.BindEnv("smtp.user", "SMTP_USER")
	v.BindEnv("smtp.pass", "SMTP_PASS")
	v.BindEnv("smtp.from", "SMTP_FROM")
	v.BindEnv("smtp.contact_inbox", "CONTACT_INBOX")

	// Log
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")

	v.BindEnv("analytics.timezone", "ANALYTICS_TIMEZONE")
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "mongo":
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo storage driver")
		}
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres storage driver")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}

// Location returns the analytics time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Analytics.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Missing lists the env vars still needed before mail can be sent.
func (c SMTPConfig) Missing() []string {
	missing := []string{}
	if c.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.Port == 0 {
		missing = append(missing, "SMTP_PORT")
	}
	if c.User == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.Pass == "" {
		missing = append(missing, "SMTP_PASS")
	}
	if c.From == "" {
		missing = append(missing, "SMTP_FROM")
	}
	if c.ContactInbox == "" {
		missing = append(missing, "CONTACT_INBOX")
	}
	return missing
}
