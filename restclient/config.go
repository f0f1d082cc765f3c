package restclient

import (
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/restbase/config"
	"github.com/kbukum/restbase/logger"
	"github.com/kbukum/restbase/validation"
)

// Config holds the settings of one Client.
type Config struct {
	// BaseURL is the absolute URL every relative path resolves against.
	// Keep a trailing slash when paths should nest below it.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,abs_url"`
	// Timeout bounds each call from after the pre-send hooks until the
	// response body is closed. Zero means no limit.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"min=0"`
	// UserAgent replaces the default restbase product token.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// Headers are added to every request before the hooks run.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// StatusCheck makes typed calls fail with ErrCodeStatus on non-2xx
	// responses instead of decoding the body.
	StatusCheck bool `yaml:"status_check" mapstructure:"status_check"`
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			return &Error{Code: ErrCodeInvalidConfig, Message: verr.Error(), Err: err}
		}
		return newError(ErrCodeInvalidConfig, err)
	}
	return nil
}

// EnvPrefix is the default prefix of environment overrides, so
// RESTBASE_BASE_URL sets BaseURL. Pass config.WithEnvPrefix to change it.
const EnvPrefix = "RESTBASE"

// LoadConfig reads a Config from ./config/<name>.yml, .env files and the
// environment, then validates it.
func LoadConfig(name string, opts ...config.LoaderOption) (Config, error) {
	var cfg Config
	opts = append([]config.LoaderOption{config.WithEnvPrefix(EnvPrefix)}, opts...)
	if err := config.LoadConfig(name, &cfg, opts...); err != nil {
		return Config{}, newError(ErrCodeInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Doer sends one HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Client.
type Option func(*options)

type options struct {
	doer   Doer
	log    *logger.Logger
	tracer trace.TracerProvider
	meter  metric.MeterProvider
}

// WithHTTPClient replaces the lazily created transport. The client never
// closes an injected Doer.
func WithHTTPClient(d Doer) Option {
	return func(o *options) { o.doer = d }
}

// WithLogger sets the logger. Defaults to the global logger with
// component "restclient".
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTracerProvider sets the provider for client spans. Defaults to the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracer = tp }
}

// WithMeterProvider sets the provider for client metrics. Defaults to the
// global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meter = mp }
}
