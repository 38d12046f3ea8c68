// Package config holds the settings of the logs service client: where the
// service lives and how the client talks to it.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration settings.
type Config struct {
	// Host is the hostname or IP address of the logs service.
	Host string `mapstructure:"host" validate:"required"`
	// Port is the TCP port of the logs service.
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
	// Protocol selects plain HTTP or HTTPS.
	Protocol string `mapstructure:"protocol" validate:"required,oneof=http https"`
	// LogLevel specifies the verbosity of the client's diagnostic log.
	LogLevel string `mapstructure:"log_level"`
	// Gzip enables gzip compression of the posted record.
	Gzip bool `mapstructure:"gzip"`
	// TrustProxy makes captured requests honour X-Forwarded-For and X-Forwarded-Proto.
	TrustProxy bool `mapstructure:"trust_proxy"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level `mapstructure:"-"`
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".mslogs.yaml"

	// EnvPrefix prefixes the environment variables that override the file.
	EnvPrefix = "MSLOGS"

	defaultProtocol = "http"
	defaultPort     = 80
	defaultLogLevel = "info"
)

// ErrUnknownLogLevel indicates that the log level is not recognized.
var ErrUnknownLogLevel = errors.New("unknown log level")

var validate = validator.New()

// LoadConfig reads configFilename (if it exists) and applies MSLOGS_* environment overrides.
func LoadConfig(configFilename string) (*Config, error) {
	v := viper.New()
	v.SetDefault("protocol", defaultProtocol)
	v.SetDefault("port", defaultPort)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("host", "")
	v.SetDefault("gzip", false)
	v.SetDefault("trust_proxy", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := configFilename != ""
	if !explicit {
		configFilename = DefaultConfigFilename
	}
	v.SetConfigFile(configFilename)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if explicit || !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	cfg.Protocol = strings.ToLower(strings.TrimSpace(cfg.Protocol))
	cfg.Host = strings.TrimSpace(cfg.Host)

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}
	cfg.ParsedLogLevel = level
	return nil
}

// URL returns the base address of the logs service, e.g. https://logs.local:8443.
func (c *Config) URL() string {
	return c.Protocol + "://" + net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
