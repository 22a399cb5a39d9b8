package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	httpapi "github.com/aussiebroadwan/vault/internal/vault/http"
	"github.com/aussiebroadwan/vault/pkg/httpx"
)

type Config struct {
	Issuer         string        `env:"VAULT_ISSUER" envDefault:"My Vault"`              // issuer claim and authenticator app label
	DatabaseFile   string        `env:"VAULT_DATABASE_FILE" envDefault:"vault.db"`       // SQLite database file
	PepperFile     string        `env:"VAULT_PEPPER_FILE" envDefault:"pepper"`           // password hashing pepper, created on first start
	SigningKeyFile string        `env:"VAULT_SIGNING_KEY_FILE" envDefault:"signing.key"` // Ed25519 PKCS8 PEM, created on first start
	TokenTTL       time.Duration `env:"JWT_EXPIRE" envDefault:"24h"`

	Env                  string        `env:"ENV" envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                 int           `env:"PORT" envDefault:"5000"`
	TrustProxy           bool          `env:"TRUST_PROXY_HEADERS"` // client address from X-Forwarded-For, only behind a proxy that sets it
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`

	TOTPWindow  uint          `env:"TOTP_WINDOW" envDefault:"1"` // accepted steps either side of now
	QRSize      int           `env:"QR_SIZE" envDefault:"256"`
	ResetOTPTTL time.Duration `env:"RESET_OTP_TTL" envDefault:"10m"`

	SMTP SMTPConfig

	// Pre-filled with the httpx profiles; only variables that are set override them
	RateLimits RateLimitConfig
}

// SMTPConfig configures reset email delivery. With no host, mail is logged
// and dropped.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Pass     string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM" envDefault:"no-reply@localhost"`
	TLSMode  string `env:"SMTP_TLS_MODE" envDefault:"auto"`
	Insecure bool   `env:"SMTP_INSECURE"`
}

type RateLimitConfig struct {
	Strict   httpx.RateLimitConfig `envPrefix:"RATELIMIT_STRICT_"`
	Moderate httpx.RateLimitConfig `envPrefix:"RATELIMIT_MODERATE_"`
	Lenient  httpx.RateLimitConfig `envPrefix:"RATELIMIT_LENIENT_"`
	Public   httpx.RateLimitConfig `envPrefix:"RATELIMIT_PUBLIC_"`
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Config{
		RateLimits: RateLimitConfig{
			Strict:   httpx.StrictLimit,
			Moderate: httpx.ModerateLimit,
			Lenient:  httpx.LenientLimit,
			Public:   httpx.PublicLimit,
		},
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.Issuer == "" {
		errs = append(errs, errors.New("VAULT_ISSUER must not be empty"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRE must be positive"))
	}
	if c.ResetOTPTTL <= 0 {
		errs = append(errs, errors.New("RESET_OTP_TTL must be positive"))
	}
	if c.QRSize <= 0 {
		errs = append(errs, errors.New("QR_SIZE must be positive"))
	}
	for name, rl := range map[string]httpx.RateLimitConfig{
		"STRICT":   c.RateLimits.Strict,
		"MODERATE": c.RateLimits.Moderate,
		"LENIENT":  c.RateLimits.Lenient,
		"PUBLIC":   c.RateLimits.Public,
	} {
		if rl.RequestsPerWindow <= 0 || rl.Window <= 0 || rl.Burst <= 0 {
			errs = append(errs, fmt.Errorf("RATELIMIT_%s_* must all be positive", name))
		}
	}
	return errors.Join(errs...)
}

func (c Config) routerLimits() httpapi.RateLimits {
	return httpapi.RateLimits{
		Strict:   c.RateLimits.Strict,
		Moderate: c.RateLimits.Moderate,
		Lenient:  c.RateLimits.Lenient,
		Public:   c.RateLimits.Public,
	}
}
