package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (ASSIST_ prefix), flags, or YAML config files.
type Config struct {
	Addr         string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DataDir      string `default:"db/seed" usage:"Directory with users/orders/payments/products JSON files" flag:"data-dir"`
	DatabaseURL  string `usage:"PostgreSQL connection URL; when set the dataset is read from the database (ASSIST_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	ImageBaseURL string `default:"" usage:"Base URL for product images (e.g. https://cdn.example.com/images)" flag:"image-base-url"`
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Graceful     GracefulConfig
}

// RateLimitConfig controls the per-client token bucket limiter.
type RateLimitConfig struct {
	Max    int           `default:"100"   usage:"Requests allowed per window"`
	Window time.Duration `default:"1m"    usage:"Time to refill the full budget"`
	Keys   int           `default:"10000" usage:"Maximum number of tracked clients"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from command-line flags, environment
// variables and YAML config files, then applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	return loadConfig(os.Args[1:])
}

func loadConfig(args []string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ASSIST",
		Args:      args,
		Files:            []string{"config.yaml", "/etc/assistant/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlatformDefaults maps DATABASE_URL and PORT, as set by hosting
// platforms, onto the ASSIST_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" && c.DataDir == "" {
		return errors.New("dataset source is required: set ASSIST_DATA_DIR or ASSIST_DATABASE_URL")
	}
	if c.RateLimit.Max <= 0 {
		return errors.Errorf("rate limit max must be positive, got %d", c.RateLimit.Max)
	}
	if c.RateLimit.Window <= 0 {
		return errors.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	}
	return nil
}
