package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CYBERFEAST_"

type Config struct {
	App struct {
		HTTPAddr  string `koanf:"http_addr"`
		BaseURL   string `koanf:"base_url"`
		LogLevel  string `koanf:"log_level"`
		LogFormat string `koanf:"log_format"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout     time.Duration `koanf:"read_timeout"`
		WriteTimeout    time.Duration `koanf:"write_timeout"`
		IdleTimeout     time.Duration `koanf:"idle_timeout"`
		RequestTimeout  time.Duration `koanf:"request_timeout"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
		MaxBodyBytes    int64         `koanf:"max_body_bytes"`
	} `koanf:"http"`

	Mongo struct {
		URI      string `koanf:"uri"`
		Database string `koanf:"database"`
	} `koanf:"mongo"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Catalog struct {
		CacheTTL time.Duration `koanf:"cache_ttl"`
	} `koanf:"catalog"`

	Stripe struct {
		SecretKey     string `koanf:"secret_key"`
		WebhookSecret string `koanf:"webhook_secret"`
		Currency      string `koanf:"currency"`
	} `koanf:"stripe"`

	Auth struct {
		SessionSecret string        `koanf:"session_secret"`
		IDTokenSecret string        `koanf:"id_token_secret"`
		SessionTTL    time.Duration `koanf:"session_ttl"`
	} `koanf:"auth"`

	Kafka struct {
		Brokers []string `koanf:"brokers"`
		Topic   string   `koanf:"topic"`
	} `koanf:"kafka"`

	GenAI struct {
		APIKey string `koanf:"api_key"`
		Model  string `koanf:"model"`
	} `koanf:"genai"`
}

// Default returns the values used for keys absent from every source.
func Default() Config {
	var c Config
	c.App.HTTPAddr = ":8080"
	c.App.BaseURL = "http://localhost:9002"
	c.App.LogLevel = "info"
	c.App.LogFormat = "json"
	c.HTTP.ReadTimeout = 10 * time.Second
	c.HTTP.WriteTimeout = 30 * time.Second
	c.HTTP.IdleTimeout = 60 * time.Second
	c.HTTP.RequestTimeout = 25 * time.Second
	c.HTTP.ShutdownTimeout = 15 * time.Second
	c.HTTP.MaxBodyBytes = 1 << 20
	c.Mongo.Database = "cyberfeast"
	c.Redis.Addr = "localhost:6379"
	c.Idempotency.TTL = 10 * time.Minute
	c.Catalog.CacheTTL = 5 * time.Minute
	c.Stripe.Currency = "usd"
	c.Auth.SessionTTL = 5 * 24 * time.Hour
	c.Kafka.Topic = "order.created"
	c.GenAI.Model = "gemini-2.0-flash"
	return c
}

// Load reads, in order of increasing precedence: defaults, the optional YAML
// file at path, a .env file in the working directory and CYBERFEAST_* env
// variables (nested keys with "__", e.g. CYBERFEAST_MONGO__URI).
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return errors.New("app.http_addr required")
	}
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri required")
	}
	if c.Auth.SessionSecret == "" {
		return errors.New("auth.session_secret required")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("auth.session_ttl must be positive")
	}
	return nil
}

// SuccessURL is where the provider sends the shopper after paying.
func (c Config) SuccessURL() string {
	return strings.TrimSuffix(c.App.BaseURL, "/") + "/dashboard/orders?session_id={CHECKOUT_SESSION_ID}"
}

func (c Config) CancelURL() string {
	return strings.TrimSuffix(c.App.BaseURL, "/") + "/dashboard"
}
