package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Unimarket"`
		Env      string `envconfig:"APP_ENV" default:"dev"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Migrate  bool   `envconfig:"APP_MIGRATE" default:"false"`
		// Public URL of the web frontend; browser redirects point here.
		URL string `envconfig:"APP_URL" default:"http://localhost:3000"`
		// Public URL of this API.
		APIURL string `envconfig:"API_URL" default:"http://localhost:8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"unimarket"`
	}

	Server struct {
		Timeout    time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		TrustProxy bool          `envconfig:"SERVER_TRUST_PROXY" default:"false"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
		Issuer    string `envconfig:"AUTH_JWT_ISSUER" default:""`
	}

	Paystack struct {
		SecretKey string        `envconfig:"PAYSTACK_SECRET_KEY"`
		BaseURL   string        `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
		Currency  string        `envconfig:"PAYSTACK_CURRENCY" default:"NGN"`
		Timeout   time.Duration `envconfig:"PAYSTACK_TIMEOUT" default:"30s"`
	}

	Jobs struct {
		// Shared secret expected as "Authorization: Bearer <secret>" on the cleanup endpoints.
		CronSecret string `envconfig:"CRON_SECRET_KEY"`
		TargetURL  string `envconfig:"CRON_TARGET_URL" default:"http://localhost:8080"`
	}

	Escrow struct {
		HoldPeriod time.Duration `envconfig:"ESCROW_HOLD_PERIOD" default:"168h"`
		SweepBatch int           `envconfig:"ESCROW_SWEEP_BATCH" default:"100"`
	}

	Support struct {
		UserID string `envconfig:"SUPPORT_USER_ID"`
	}

	RateLimit struct {
		VerifyPerMinute float64 `envconfig:"RATE_LIMIT_VERIFY_PER_MINUTE" default:"60"`
		VerifyBurst     int     `envconfig:"RATE_LIMIT_VERIFY_BURST" default:"10"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// CallbackURL is where the gateway sends the buyer after checkout.
func (c *Config) CallbackURL() string {
	return c.App.APIURL + "/api/v1/payments/verify"
}

// SupportUserID parses SUPPORT_USER_ID. An unset value yields uuid.Nil.
func (c *Config) SupportUserID() (uuid.UUID, error) {
	if c.Support.UserID == "" {
		return uuid.Nil, nil
	}

	id, err := uuid.Parse(c.Support.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid SUPPORT_USER_ID: %w", err)
	}

	return id, nil
}

func process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func Load() (*Config, error) {
	cfg, err := process()
	if err != nil {
		return nil, err
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must not be empty")
	}

	if cfg.Escrow.HoldPeriod <= 0 {
		return nil, fmt.Errorf("escrow hold period must be positive, got %s", cfg.Escrow.HoldPeriod)
	}

	return cfg, nil
}

// LoadCron reads only what the cron trigger needs: the target URL and its
// shared secret.
func LoadCron() (*Config, error) {
	cfg, err := process()
	if err != nil {
		return nil, err
	}

	if cfg.Jobs.CronSecret == "" {
		return nil, fmt.Errorf("CRON_SECRET_KEY must not be empty")
	}

	return cfg, nil
}
