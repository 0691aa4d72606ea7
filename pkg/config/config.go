package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Mail      MailConfig
	SMTP      SMTPConfig
	Redis     RedisConfig
	RateLimit QuoteRateLimitConfig
	Eventing  EventingConfig
	CORS      CORSConfig
	Relay     RelayClientConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Mail.normalize()
	return &cfg, nil
}

// LoadClient parses only the settings the quote client needs, so it can run
// without the server-side SMTP and app variables.
func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing client config: %w", err)
	}
	return &cfg, nil
}

type ClientConfig struct {
	Relay    RelayClientConfig
	Mail     MailConfig
	LogLevel string `envconfig:"CAMBROOS_LOG_LEVEL" default:"info"`
}

type AppConfig struct {
	Env          string `envconfig:"CAMBROOS_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMBROOS_APP_PORT" default:"3001"`
	LogLevel     string `envconfig:"CAMBROOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMBROOS_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"json"`
}

// MailConfig holds the addresses the relay writes to and signs with.
type MailConfig struct {
	AdminEmail   string `envconfig:"CAMBROOS_ADMIN_EMAIL"`
	SupportEmail string `envconfig:"CAMBROOS_SUPPORT_EMAIL" default:"info@cambroos.com"`
	Brand        string `envconfig:"CAMBROOS_MAIL_BRAND" default:"Cambroos"`
}

func (m *MailConfig) normalize() {
	m.AdminEmail = strings.TrimSpace(m.AdminEmail)
	if m.AdminEmail == "" {
		m.AdminEmail = DefaultAdminEmail
	}
	if strings.TrimSpace(m.Brand) == "" {
		m.Brand = DefaultBrand
	}
}

type SMTPConfig struct {
	Host        string        `envconfig:"CAMBROOS_SMTP_SERVER"`
	Port        int           `envconfig:"CAMBROOS_SMTP_PORT" default:"465"`
	Secure      bool          `envconfig:"CAMBROOS_SMTP_SECURE" default:"true"`
	SenderEmail string        `envconfig:"CAMBROOS_SENDER_EMAIL"`
	Password    string        `envconfig:"CAMBROOS_SENDER_PASSWORD"`
	Timeout     time.Duration `envconfig:"CAMBROOS_SMTP_TIMEOUT" default:"15s"`
}

// Configured reports whether enough SMTP settings exist to attempt delivery.
func (s SMTPConfig) Configured() bool {
	return strings.TrimSpace(s.Host) != "" && strings.TrimSpace(s.SenderEmail) != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"CAMBROOS_REDIS_URL"`
	Address      string        `envconfig:"CAMBROOS_REDIS_ADDR"`
	Password     string        `envconfig:"CAMBROOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMBROOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMBROOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMBROOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMBROOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMBROOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMBROOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type QuoteRateLimitConfig struct {
	Window     time.Duration `envconfig:"CAMBROOS_QUOTE_RATE_LIMIT_WINDOW" default:"10m"`
	IPLimit    int           `envconfig:"CAMBROOS_QUOTE_RATE_LIMIT_IP_LIMIT" default:"20"`
	EmailLimit int           `envconfig:"CAMBROOS_QUOTE_RATE_LIMIT_EMAIL_LIMIT" default:"5"`
}

type EventingConfig struct {
	IdempotencyTTL time.Duration `envconfig:"CAMBROOS_IDEMPOTENCY_TTL" default:"24h"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CAMBROOS_CORS_ALLOWED_ORIGINS" default:"*"`
}

type RelayClientConfig struct {
	BaseURL string        `envconfig:"CAMBROOS_RELAY_URL" default:"http://localhost:3001"`
	Timeout time.Duration `envconfig:"CAMBROOS_RELAY_TIMEOUT" default:"30s"`
}

// Endpoint returns the absolute send-order URL for the configured relay.
func (r RelayClientConfig) Endpoint() string {
	return strings.TrimRight(strings.TrimSpace(r.BaseURL), "/") + SendOrderPath
}
