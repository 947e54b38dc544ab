package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config - 環境変数から読み込むサーバー設定
type Config struct {
	// サービス
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"map-painting"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"10485760"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// GenAI
	GenAIBackend  string `env:"GENAI_BACKEND" envDefault:"gemini"` // "gemini" または "vertex"
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	ProjectID     string `env:"PROJECT_ID"`
	Location      string `env:"LOCATION" envDefault:"us-central1"`
	PaintingModel string `env:"PAINTING_MODEL" envDefault:"gemini-2.5-flash-image"`

	// Google Maps
	MapsAPIKey      string `env:"MAPS_API_KEY"`
	MapsBaseURL     string `env:"MAPS_BASE_URL" envDefault:"https://maps.googleapis.com"`
	CaptureProvider string `env:"CAPTURE_PROVIDER" envDefault:"frame"` // "frame" または "staticmap"

	// セッション保存先
	SessionStore  string        `env:"SESSION_STORE" envDefault:"memory"` // "memory" または "redis"
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string        `env:"REDIS_PREFIX" envDefault:"painting:"`
}

// Load - 環境変数を Config に読み込む
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.GenAIBackend = strings.ToLower(strings.TrimSpace(cfg.GenAIBackend))
	cfg.CaptureProvider = strings.ToLower(strings.TrimSpace(cfg.CaptureProvider))
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	cfg.MapsAPIKey = strings.TrimSpace(cfg.MapsAPIKey)

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 * 1024 * 1024
	}

	switch cfg.GenAIBackend {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when GENAI_BACKEND is gemini")
		}
	case "vertex":
		if strings.TrimSpace(cfg.ProjectID) == "" {
			return nil, fmt.Errorf("PROJECT_ID is required when GENAI_BACKEND is vertex")
		}
	default:
		return nil, fmt.Errorf("unsupported GENAI_BACKEND: %q", cfg.GenAIBackend)
	}

	// ジオコーディングは常にMaps APIを使う
	if cfg.MapsAPIKey == "" {
		return nil, fmt.Errorf("MAPS_API_KEY is required")
	}

	switch cfg.CaptureProvider {
	case "frame", "staticmap":
	default:
		return nil, fmt.Errorf("unsupported CAPTURE_PROVIDER: %q", cfg.CaptureProvider)
	}

	switch cfg.SessionStore {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE: %q", cfg.SessionStore)
	}

	return cfg, nil
}

// Addr - HTTPの待ち受けアドレス
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsRedisStore - セッションとフレームを Redis に保存するか
func (c *Config) IsRedisStore() bool {
	return c.SessionStore == "redis"
}

// UsesStaticMapCapture - キャプチャをサーバー側で描画するか
func (c *Config) UsesStaticMapCapture() bool {
	return c.CaptureProvider == "staticmap"
}
