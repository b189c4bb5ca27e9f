package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Log     LogConfig
	AI      AIConfig
	Game    GameConfig
	CORS    CORSConfig    `mapstructure:"cors"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// AIConfig 外部语言模型配置，APIKey 为空时只走题库
type AIConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	APIKey               string        `mapstructure:"api_key"`
	Model                string        `mapstructure:"model"`
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxRequestsPerMinute int           `mapstructure:"max_requests_per_minute"`
}

type GameConfig struct {
	SessionTTL       time.Duration `mapstructure:"session_ttl"`
	JanitorInterval  time.Duration `mapstructure:"janitor_interval"`
	DecorateFallback bool          `mapstructure:"decorate_fallback"`
	StaticDir        string        `mapstructure:"static_dir"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

const (
	DefaultModel   = "gpt-5-mini"
	DefaultContext = "朋友"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)

	v.SetDefault("ai.model", DefaultModel)
	v.SetDefault("ai.timeout", 10*time.Second)
	v.SetDefault("ai.max_requests_per_minute", 60)

	v.SetDefault("game.session_ttl", 24*time.Hour)
	v.SetDefault("game.janitor_interval", 10*time.Minute)
	v.SetDefault("game.decorate_fallback", false)
	v.SetDefault("game.static_dir", "static")

	v.SetDefault("tracing.enabled", false)
}

// LoadConfig 读取 path 下的 config.yaml，文件不存在时使用默认值和环境变量
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DEEP_CARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Server
	v.BindEnv("server.port", "PORT", "DEEP_CARD_SERVER_PORT")
	v.BindEnv("server.mode", "SERVER_MODE", "DEEP_CARD_SERVER_MODE")

	// AI
	v.BindEnv("ai.api_key", "OPENAI_API_KEY", "AI_API_KEY")
	v.BindEnv("ai.base_url", "OPENAI_BASE_URL", "AI_BASE_URL")
	v.BindEnv("ai.model", "AI_MODEL", "DEEP_CARD_AI_MODEL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.AI.APIKey = strings.TrimSpace(cfg.AI.APIKey)
	if cfg.AI.Model == "" {
		cfg.AI.Model = DefaultModel
	}
	if cfg.AI.Timeout <= 0 {
		return nil, fmt.Errorf("ai.timeout must be positive, got %s", cfg.AI.Timeout)
	}
	if cfg.AI.MaxRequestsPerMinute < 0 {
		return nil, fmt.Errorf("ai.max_requests_per_minute must not be negative, got %d", cfg.AI.MaxRequestsPerMinute)
	}
	if cfg.Game.SessionTTL > 0 && cfg.Game.JanitorInterval <= 0 {
		return nil, fmt.Errorf("game.janitor_interval must be positive when session_ttl is set")
	}

	return &cfg, nil
}
