// Package config loads and validates the service configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/todovault/todovault/database"
	todohttp "github.com/todovault/todovault/http"
	"github.com/todovault/todovault/trust"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for the service.
type Config struct {
	Env        string              `mapstructure:"env" validate:"required,oneof=dev prod"`
	Server     ServerConfig        `mapstructure:"server"`
	Database   database.Config     `mapstructure:"database"`
	Attachment AttachmentConfig    `mapstructure:"attachment"`
	Auth       AuthConfig          `mapstructure:"auth"`
	CORS       todohttp.CORSConfig `mapstructure:"cors"`
	Log        LogConfig           `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// AttachmentConfig holds attachment object store configuration.
type AttachmentConfig struct {
	// Bucket is the object store bucket attachments are signed against
	Bucket string `mapstructure:"bucket" validate:"required"`
	// Region is the AWS region of the bucket
	Region string `mapstructure:"region"`
	// Endpoint overrides the S3 endpoint (local development)
	Endpoint string `mapstructure:"endpoint"`
	// AccessKey and SecretKey provide static credentials; when empty the
	// default credential chain is used
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	// PublicBaseURL is the stable public URL base recorded on new items;
	// defaults to https://<bucket>.s3.amazonaws.com when empty
	PublicBaseURL string `mapstructure:"public_base_url"`
	// Expires is the signed link validity in seconds
	Expires int `mapstructure:"expires" validate:"min=1"`
	// LegacyObjectKey pins link signing to a fixed object key; leave empty
	// to derive the key from the todo id
	LegacyObjectKey string `mapstructure:"legacy_object_key"`
}

// AuthConfig holds token verification configuration.
type AuthConfig struct {
	// Cert is the trusted signing certificate (inline PEM or file path)
	Cert trust.Config `mapstructure:"cert"`
	// Leeway is the clock-skew tolerance in seconds for time-based claims
	Leeway int `mapstructure:"leeway" validate:"min=0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// BaseURL resolves the attachment base URL, deriving the conventional
// S3 form from the bucket name when no override is configured.
func (c AttachmentConfig) BaseURL() string {
	if c.PublicBaseURL != "" {
		return c.PublicBaseURL
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com", c.Bucket)
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type": "database.type",
	"db-dsn":  "database.dsn",
	"port":    "server.port",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.port", 8080)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "todovault.db")
	v.SetDefault("database.table", "todos")

	v.SetDefault("attachment.bucket", "todovault-attachments")
	v.SetDefault("attachment.region", "us-east-1")
	v.SetDefault("attachment.expires", 300) // seconds

	v.SetDefault("auth.leeway", 60) // seconds

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("TODOVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
