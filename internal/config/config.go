// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // fare rule cache
}

type CommerceConfig struct {
	OrderCacheTTL     time.Duration `yaml:"order_cache_ttl"`
	OrderCacheBackend string        `yaml:"order_cache_backend"` // redis|memory
	ClaimWindow       time.Duration `yaml:"claim_window"`
	Currency          string        `yaml:"currency"`
	Gateway           string        `yaml:"gateway"` // default processor name
}

type PayMasterConfig struct {
	Enabled    bool          `yaml:"enabled"`
	BaseURL    string        `yaml:"base_url"`
	MerchantID string        `yaml:"merchant_id"`
	APIToken   string        `yaml:"api_token"`
	ReturnURL  string        `yaml:"return_url"`
	TestMode   bool          `yaml:"test_mode"`
	Timeout    time.Duration `yaml:"timeout"`
}

type ZarinPalConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MerchantID  string        `yaml:"merchant_id"`
	CallbackURL string        `yaml:"callback_url"`
	Sandbox     bool          `yaml:"sandbox"`
	Timeout     time.Duration `yaml:"timeout"`
}

type StripeConfig struct {
	Enabled    bool          `yaml:"enabled"`
	SecretKey  string        `yaml:"secret_key"`
	SuccessURL string        `yaml:"success_url"`
	CancelURL  string        `yaml:"cancel_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// NoopConfig enables the in-memory processor for local runs.
type NoopConfig struct {
	Enabled bool `yaml:"enabled"`
}

type PaymentConfig struct {
	PayMaster PayMasterConfig `yaml:"paymaster"`
	ZarinPal  ZarinPalConfig  `yaml:"zarinpal"`
	Stripe    StripeConfig    `yaml:"stripe"`
	Noop      NoopConfig      `yaml:"noop"`
}

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Commerce CommerceConfig `yaml:"commerce"`
	Payment  PaymentConfig  `yaml:"payment"`

	Runtime RuntimeConfig `yaml:"-"`
}

const (
	DefaultOrderCacheTTL  = 2 * time.Hour
	DefaultClaimWindow    = 2 * time.Minute
	DefaultGatewayTimeout = 15 * time.Second
)

// LoadConfig reads the YAML file at path, loads an optional .env next to the
// process and applies environment overrides for secrets.
func LoadConfig(path string, dev bool) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return cfg, nil
}

// Parse decodes YAML, applies env overrides and defaults, and validates.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	override(&cfg.Database.URL, "DATABASE_URL")
	override(&cfg.Redis.URL, "REDIS_URL")
	override(&cfg.Redis.Password, "REDIS_PASSWORD")
	override(&cfg.Auth.JWTSecret, "JWT_SECRET")
	override(&cfg.Payment.PayMaster.APIToken, "PAYMASTER_API_TOKEN")
	override(&cfg.Payment.PayMaster.MerchantID, "PAYMASTER_MERCHANT_ID")
	override(&cfg.Payment.ZarinPal.MerchantID, "ZARINPAL_MERCHANT_ID")
	override(&cfg.Payment.Stripe.SecretKey, "STRIPE_SECRET_KEY")
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL, time.Hour)
	cfg.Commerce.OrderCacheTTL = normalizeTTL(cfg.Commerce.OrderCacheTTL, DefaultOrderCacheTTL)
	cfg.Commerce.ClaimWindow = normalizeTTL(cfg.Commerce.ClaimWindow, DefaultClaimWindow)
	if cfg.Commerce.OrderCacheBackend == "" {
		cfg.Commerce.OrderCacheBackend = "redis"
	}
	if cfg.Commerce.Currency == "" {
		cfg.Commerce.Currency = "RUB"
	}
	if cfg.Commerce.Gateway == "" {
		cfg.Commerce.Gateway = "paymaster"
	}
	if cfg.Payment.PayMaster.BaseURL == "" {
		cfg.Payment.PayMaster.BaseURL = "https://paymaster.ru"
	}
	cfg.Payment.PayMaster.Timeout = normalizeTTL(cfg.Payment.PayMaster.Timeout, DefaultGatewayTimeout)
	cfg.Payment.ZarinPal.Timeout = normalizeTTL(cfg.Payment.ZarinPal.Timeout, DefaultGatewayTimeout)
	cfg.Payment.Stripe.Timeout = normalizeTTL(cfg.Payment.Stripe.Timeout, DefaultGatewayTimeout)
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Commerce.OrderCacheBackend != "redis" && c.Commerce.OrderCacheBackend != "memory" {
		return fmt.Errorf("commerce.order_cache_backend must be redis or memory, got %q", c.Commerce.OrderCacheBackend)
	}
	if c.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	if !c.gatewayEnabled(c.Commerce.Gateway) {
		return fmt.Errorf("commerce.gateway %q is not an enabled payment processor", c.Commerce.Gateway)
	}
	if c.Payment.PayMaster.Enabled && (c.Payment.PayMaster.APIToken == "" || c.Payment.PayMaster.MerchantID == "") {
		return errors.New("payment.paymaster requires api_token and merchant_id")
	}
	if c.Payment.ZarinPal.Enabled && c.Payment.ZarinPal.MerchantID == "" {
		return errors.New("payment.zarinpal.merchant_id is required")
	}
	if c.Payment.Stripe.Enabled && c.Payment.Stripe.SecretKey == "" {
		return errors.New("payment.stripe.secret_key is required")
	}
	return nil
}

func (c *Config) gatewayEnabled(name string) bool {
	switch strings.ToLower(name) {
	case "paymaster":
		return c.Payment.PayMaster.Enabled
	case "zarinpal":
		return c.Payment.ZarinPal.Enabled
	case "stripe":
		return c.Payment.Stripe.Enabled
	case "noop":
		return c.Payment.Noop.Enabled
	default:
		return false
	}
}

func normalizeTTL(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
