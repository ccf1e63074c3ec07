package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Backend     BackendConfig
	Token       TokenConfig
	Redis       RedisConfig
	Storage     StorageConfig
	Certificate CertificateConfig
	Languages   LanguageConfig
	Log         LogConfig
	Tracing     TracingConfig   `mapstructure:"tracing"`
	CORS        CORSConfig      `mapstructure:"cors"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`

	// path of the file the config was read from, used by the watcher
	File string `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

// BackendConfig describes the external course-management service every
// route proxies to.
type BackendConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	LongTimeout   time.Duration `mapstructure:"long_timeout"`
	AdminEmail    string        `mapstructure:"admin_email"`
	AdminPassword string        `mapstructure:"admin_password"`
}

type TokenConfig struct {
	Buffer     time.Duration `mapstructure:"buffer"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
	Store      string        `mapstructure:"store"`
	RedisKey   string        `mapstructure:"redis_key"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioSecure   bool   `mapstructure:"minio_secure"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type CertificateConfig struct {
	TemplatePath  string  `mapstructure:"template_path"`
	FontName      string  `mapstructure:"font_name"`
	FontFile      string  `mapstructure:"font_file"`
	FontDir       string  `mapstructure:"font_dir"`
	FontSize      int     `mapstructure:"font_size"`
	NameOffsetY   float64 `mapstructure:"name_offset_y"`
	CourseOffsetY float64 `mapstructure:"course_offset_y"`
	CourseFontSz  int     `mapstructure:"course_font_size"`
	Color         string  `mapstructure:"color"`
	Archive       bool    `mapstructure:"archive"`
}

// LanguageConfig holds the backend's language record ids.
type LanguageConfig struct {
	AzID string `mapstructure:"az_id"`
	EnID string `mapstructure:"en_id"`
	RuID string `mapstructure:"ru_id"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("backend.long_timeout", 360*time.Second)

	v.SetDefault("token.buffer", 5*time.Minute)
	v.SetDefault("token.default_ttl", time.Hour)
	v.SetDefault("token.store", "memory")
	v.SetDefault("token.redis_key", "admin_gateway:admin_token")

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")

	v.SetDefault("certificate.template_path", "assets/certificate_template.pdf")
	v.SetDefault("certificate.font_name", "Roboto-Regular")
	v.SetDefault("certificate.font_file", "assets/fonts/Roboto-Regular.ttf")
	v.SetDefault("certificate.font_size", 36)
	v.SetDefault("certificate.name_offset_y", 300)
	v.SetDefault("certificate.course_offset_y", 170)
	v.SetDefault("certificate.course_font_size", 18)
	v.SetDefault("certificate.color", "#1F2A44")

	v.SetDefault("log.file", "logs/app.log")

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ADMIN_GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Backend
	v.BindEnv("backend.base_url", "BACKEND_BASE_URL")
	v.BindEnv("backend.admin_email", "BACKEND_ADMIN_EMAIL")
	v.BindEnv("backend.admin_password", "BACKEND_ADMIN_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "SERVER_PORT")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" && cfg.Certificate.Archive {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	if c.Server.Mode == "release" && (c.Backend.AdminEmail == "" || c.Backend.AdminPassword == "") {
		return fmt.Errorf("backend admin credentials are required in release mode")
	}
	if c.Token.Store != "memory" && c.Token.Store != "redis" {
		return fmt.Errorf("token.store must be memory or redis, got %q", c.Token.Store)
	}
	if c.Token.Buffer < 0 || c.Token.DefaultTTL <= 0 {
		return fmt.Errorf("token.buffer must be >= 0 and token.default_ttl > 0")
	}
	return nil
}
