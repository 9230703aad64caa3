package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	YouTube    YouTubeConfig    `mapstructure:"youtube"`
	Enrichment EnrichmentConfig `mapstructure:"enrichment"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// YouTubeConfig YouTube Data API v3 配置。APIKey 为空时视频时长降级为 0
type YouTubeConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	DailyQuotaUnits int64         `mapstructure:"daily_quota_units"`
	Timeout         time.Duration `mapstructure:"timeout_seconds"`
}

// EnrichmentConfig 富化引擎运行参数
type EnrichmentConfig struct {
	DurationCacheTTLHours int           `mapstructure:"duration_cache_ttl_hours"`
	RecalcPollInterval    time.Duration `mapstructure:"recalc_poll_seconds"`
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

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("COURSE_ENRICH")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// YouTube
	viper.BindEnv("youtube.api_key", "YOUTUBE_API_KEY")
	viper.BindEnv("youtube.daily_quota_units", "YOUTUBE_DAILY_QUOTA_UNITS")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.YouTube.Timeout = cfg.YouTube.Timeout * time.Second
	cfg.Enrichment.RecalcPollInterval = cfg.Enrichment.RecalcPollInterval * time.Second

	// 外部API调用超时默认10秒
	if cfg.YouTube.Timeout <= 0 {
		cfg.YouTube.Timeout = 10 * time.Second
	}
	// YouTube Data API 免费档默认每日10000配额单位
	if cfg.YouTube.DailyQuotaUnits <= 0 {
		cfg.YouTube.DailyQuotaUnits = 10000
	}
	if cfg.Enrichment.DurationCacheTTLHours <= 0 {
		cfg.Enrichment.DurationCacheTTLHours = 24 * 7
	}
	if cfg.Enrichment.RecalcPollInterval <= 0 {
		cfg.Enrichment.RecalcPollInterval = 5 * time.Second
	}

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}
