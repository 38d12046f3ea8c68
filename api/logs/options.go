package logs

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mslogs/mslogs-sdk-go/config"
)

type Option func(*LogIngest) error

// WithConfig is used for passing the logs service location and client settings.
func WithConfig(cfg *config.Config) Option {
	return func(lli *LogIngest) error {
		if cfg == nil {
			return fmt.Errorf("config must not be nil")
		}
		if err := config.ValidateConfig(cfg); err != nil {
			return err
		}
		lli.cfg = cfg
		lli.gzip = cfg.Gzip
		lli.trustProxy = cfg.TrustProxy
		return nil
	}
}

// WithEndpoint is used to set the base URL of the logs service, e.g. http://localhost:3000.
// It takes precedence over the address derived from the config.
func WithEndpoint(endpoint string) Option {
	return func(lli *LogIngest) error {
		lli.url = endpoint
		return nil
	}
}

// WithHTTPClient is used to set HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(lli *LogIngest) error {
		lli.client = client
		return nil
	}
}

// WithLogger is used to set the logger receiving diagnostic messages.
func WithLogger(logger *zap.Logger) Option {
	return func(lli *LogIngest) error {
		lli.logger = logger
		return nil
	}
}

// WithResultHandler replaces the default handler, which only logs failures.
func WithResultHandler(handler ResultHandler) Option {
	return func(lli *LogIngest) error {
		lli.resultHandler = handler
		return nil
	}
}

// WithGzipCompression can be used to enable/disable gzip compression of the posted record
// Note: By default, gzip compression is disabled.
func WithGzipCompression(gzip bool) Option {
	return func(lli *LogIngest) error {
		lli.gzip = gzip
		return nil
	}
}

// WithTrustProxy makes captured requests use X-Forwarded-For, X-Forwarded-Proto
// and X-Forwarded-Host.
func WithTrustProxy(trust bool) Option {
	return func(lli *LogIngest) error {
		lli.trustProxy = trust
		return nil
	}
}

// WithHeaders adds headers to every request sent to the logs service.
// Content-Type, Content-Length, Content-Encoding and User-Agent cannot be overridden.
func WithHeaders(headers map[string]string) Option {
	return func(lli *LogIngest) error {
		lli.headers = make(map[string]string, len(headers))
		for key, value := range headers {
			lli.headers[key] = value
		}
		return nil
	}
}
