// Package config loads UnitHub configuration from defaults, an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"unithub/internal/database"
)

// Config UnitHub（HTTP API）配置
type Config struct {
	HTTP        HTTPConfig        `mapstructure:"http"`
	DBEnabled   bool              `mapstructure:"db_enabled"`
	Database    database.Config   `mapstructure:"db"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	AI          AIConfig          `mapstructure:"ai"`
	Storage     StorageConfig     `mapstructure:"storage"`
	MQTT        MQTTConfig        `mapstructure:"mqtt"`
	Auth        AuthConfig        `mapstructure:"auth"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Dashboard   DashboardConfig   `mapstructure:"dashboard"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	// MaxUploadBytes 单个文档上传上限
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// RedisConfig Redis配置；为空地址时不启用缓存
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AIConfig OpenAI 兼容的文本生成服务
type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// StorageConfig driver: "local" | "s3"
type StorageConfig struct {
	Driver    string   `mapstructure:"driver"`
	LocalRoot string   `mapstructure:"local_root"`
	PublicURL string   `mapstructure:"public_url"`
	S3        S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// MQTTConfig MQTT 配置（用于发布领域事件，默认禁用）
type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	QoS         byte   `mapstructure:"qos"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// AuthConfig Disabled=true 时所有请求归属 DevOwnerID
type AuthConfig struct {
	Disabled   bool   `mapstructure:"disabled"`
	JWTSecret  string `mapstructure:"jwt_secret"`
	DevOwnerID string `mapstructure:"dev_owner_id"`
}

type RateLimiterConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
}

type DashboardConfig struct {
	RecentLimit  int `mapstructure:"recent_limit"`
	UpcomingDays int `mapstructure:"upcoming_days"`
}

// Load reads configuration from file and environment variables.
// Environment keys are the upper-cased config keys with "." replaced by "_"
// (db.host -> DB_HOST). A .env file in the working directory is loaded first.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/unithub/")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found, use defaults/env)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "30s")
	v.SetDefault("http.write_timeout", "60s")
	v.SetDefault("http.idle_timeout", "120s")
	v.SetDefault("http.shutdown_timeout", "15s")
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("http.max_upload_bytes", 20<<20)

	// Default to false for local dev: memory repositories, no Postgres needed.
	v.SetDefault("db_enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "unithub")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_conns", 20)
	v.SetDefault("db.max_idle", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", "60s")
	v.SetDefault("ai.cache_ttl", "24h")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_root", "./data/documents")
	v.SetDefault("storage.public_url", "http://localhost:8080/files")
	v.SetDefault("storage.s3.endpoint", "localhost:9000")
	v.SetDefault("storage.s3.access_key", "")
	v.SetDefault("storage.s3.secret_key", "")
	v.SetDefault("storage.s3.bucket", "documents")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.use_ssl", false)

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "unithub-api")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.topic_prefix", "unithub")

	v.SetDefault("auth.disabled", true)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.dev_owner_id", "dev-owner")

	v.SetDefault("rate_limiter.enabled", false)
	v.SetDefault("rate_limiter.requests_per_second", 50.0)
	v.SetDefault("rate_limiter.burst_size", 100)

	v.SetDefault("dashboard.recent_limit", 5)
	v.SetDefault("dashboard.upcoming_days", 30)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http addr is required")
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return fmt.Errorf("http max upload bytes must be positive")
	}

	if c.DBEnabled {
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("db host and name are required when db is enabled")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid db port: %d", c.Database.Port)
		}
	}

	switch c.Storage.Driver {
	case "local":
		if c.Storage.LocalRoot == "" {
			return fmt.Errorf("storage local root is required")
		}
	case "s3":
		if c.Storage.S3.Endpoint == "" || c.Storage.S3.Bucket == "" {
			return fmt.Errorf("storage s3 endpoint and bucket are required")
		}
	default:
		return fmt.Errorf("unknown storage driver: %q", c.Storage.Driver)
	}

	if c.AI.Enabled && c.AI.BaseURL == "" {
		return fmt.Errorf("ai base url is required when ai is enabled")
	}
	if c.AI.CacheTTL < 0 {
		return fmt.Errorf("ai cache ttl must not be negative")
	}

	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt broker is required when mqtt is enabled")
	}
	if c.MQTT.QoS > 2 {
		return fmt.Errorf("invalid mqtt qos: %d", c.MQTT.QoS)
	}

	if !c.Auth.Disabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth jwt secret is required unless auth is disabled")
	}
	if c.Auth.Disabled && c.Auth.DevOwnerID == "" {
		return fmt.Errorf("auth dev owner id is required when auth is disabled")
	}

	if c.RateLimiter.Enabled {
		if c.RateLimiter.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate limiter requests per second must be positive")
		}
		if c.RateLimiter.BurstSize <= 0 {
			return fmt.Errorf("rate limiter burst size must be positive")
		}
	}

	if c.Dashboard.RecentLimit <= 0 {
		return fmt.Errorf("dashboard recent limit must be positive")
	}
	if c.Dashboard.UpcomingDays <= 0 {
		return fmt.Errorf("dashboard upcoming days must be positive")
	}
	return nil
}
