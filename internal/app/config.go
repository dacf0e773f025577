package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the storefront configuration, loadable from environment
// variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"View API listen address" validate:"required,hostname_port"`
	Remote      RemoteConfig
	OrderNotice OrderNoticeConfig
	Navigation  NavigationConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// RemoteConfig points at the catalog and user service.
type RemoteConfig struct {
	BaseURL string        `default:"http://localhost:8083/api" env:"BASE_URL" yaml:"base_url" flag:"remote-url" usage:"Remote service base URL" validate:"required,url"`
	Timeout time.Duration `default:"10s" flag:"remote-timeout" usage:"Remote request timeout" validate:"gt=0"`
}

// OrderNoticeConfig controls the order confirmation message.
type OrderNoticeConfig struct {
	TTL time.Duration `default:"3s" env:"TTL" yaml:"ttl" flag:"order-notice-ttl" usage:"How long the order confirmation stays visible" validate:"gt=0"`
}

// NavigationConfig controls page access.
type NavigationConfig struct {
	RequireLogin bool `default:"false" env:"REQUIRE_LOGIN" yaml:"require_login" flag:"require-login" usage:"Send logged-out users from products and cart to login"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay" validate:"gte=0"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout" validate:"gt=0"`
}

// LoadConfig loads configuration from environment variables, flags and
// YAML config files, applies platform defaults and validates the result.
func LoadConfig() (*Config, error) {
	return loadConfig(aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
}

func loadConfig(ac aconfig.Config) (*Config, error) {
	var cfg Config
	if err := aconfig.LoaderFor(&cfg, ac).Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlatformDefaults honours the PORT variable set by hosting
// platforms when no explicit address was configured.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}

func validateConfig(cfg any) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
