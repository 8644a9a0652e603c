// Package config loads gateway settings from defaults, an optional YAML file,
// a .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string         `yaml:"environment"`
	HTTP        HTTPConfig     `yaml:"http"`
	Log         LogConfig      `yaml:"log"`
	Database    DatabaseConfig `yaml:"database"`
	Device      DeviceConfig   `yaml:"device"`
	Webhook     WebhookConfig  `yaml:"webhook"`
	Security    SecurityConfig `yaml:"security"`
	Archive     ArchiveConfig  `yaml:"archive"`
	Alerts      AlertsConfig   `yaml:"alerts"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Driver         string `yaml:"driver"`
	DSN            string `yaml:"dsn"`
	MaxConnections int    `yaml:"max_connections"`
	LogLevel       string `yaml:"log_level"`
	// SSMParameter names an SSM parameter holding the database list. When
	// set, the DSN for Name is built from it.
	SSMParameter string `yaml:"ssm_parameter"`
	Name         string `yaml:"name"`
}

type DeviceConfig struct {
	// DefaultTimezone is the whole-hour offset given to newly registered machines.
	DefaultTimezone int `yaml:"default_timezone"`
	// CanonicalTimezone is the IANA zone attendance is stored in.
	CanonicalTimezone string `yaml:"canonical_timezone"`
}

type WebhookConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	Concurrency     int           `yaml:"concurrency"`
	BackfillOnStart bool          `yaml:"backfill_on_start"`
}

type SecurityConfig struct {
	// SigningSecret is the base64 HS256 key for admin tokens.
	SigningSecret string `yaml:"signing_secret"`
}

type ArchiveConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

type AlertsConfig struct {
	SlackBotToken     string   `yaml:"slack_bot_token"`
	SlackErrorChannel string   `yaml:"slack_error_channel"`
	SlackInfoChannel  string   `yaml:"slack_info_channel"`
	EmailFrom         string   `yaml:"email_from"`
	EmailTo           []string `yaml:"email_to"`
}

func Default() *Config {
	return &Config{
		Environment: "development",
		HTTP: HTTPConfig{
			Addr:            ":8090",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "console"},
		Database: DatabaseConfig{
			Driver:         "sqlite",
			DSN:            "adms.db",
			MaxConnections: 10,
			LogLevel:       "warn",
		},
		Device: DeviceConfig{
			DefaultTimezone:   7,
			CanonicalTimezone: "Asia/Jakarta",
		},
		Webhook: WebhookConfig{
			Timeout:     10 * time.Second,
			Concurrency: 4,
		},
		Archive: ArchiveConfig{Prefix: "iclock"},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Environment, "ENVIRONMENT")
	setString(&c.HTTP.Addr, "HTTP_ADDR")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DSN")
	setString(&c.Database.LogLevel, "DB_LOG_LEVEL")
	setString(&c.Database.SSMParameter, "DB_SSM_PARAMETER")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Device.CanonicalTimezone, "CANONICAL_TZ")
	setString(&c.Security.SigningSecret, "ADMS_SIGNING_SECRET")
	setString(&c.Archive.Bucket, "ARCHIVE_BUCKET")
	setString(&c.Alerts.SlackBotToken, "SLACK_BOT_TOKEN")
	setString(&c.Alerts.SlackErrorChannel, "SLACK_ERROR_CHANNEL")
	setString(&c.Alerts.SlackInfoChannel, "SLACK_INFO_CHANNEL")
	setString(&c.Alerts.EmailFrom, "ALERT_EMAIL_FROM")
	if v, ok := os.LookupEnv("ALERT_EMAIL_TO"); ok {
		c.Alerts.EmailTo = splitList(v)
	}

	return errors.Join(
		setInt(&c.Device.DefaultTimezone, "DEFAULT_TZ"),
		setInt(&c.Webhook.Concurrency, "WEBHOOK_CONCURRENCY"),
		setInt(&c.Database.MaxConnections, "DB_MAX_CONNECTIONS"),
		setDuration(&c.Webhook.Timeout, "WEBHOOK_TIMEOUT"),
		setBool(&c.Webhook.BackfillOnStart, "BACKFILL_ON_START"),
	)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Device.DefaultTimezone < -12 || c.Device.DefaultTimezone > 14 {
		errs = append(errs, fmt.Errorf("default timezone %d out of range [-12, 14]", c.Device.DefaultTimezone))
	}
	if _, err := time.LoadLocation(c.Device.CanonicalTimezone); err != nil {
		errs = append(errs, fmt.Errorf("canonical timezone: %w", err))
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Database.DSN == "" && c.Database.SSMParameter == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if c.Database.SSMParameter != "" && c.Database.Name == "" {
		errs = append(errs, errors.New("database name is required with an ssm parameter"))
	}
	if c.Webhook.Timeout <= 0 {
		errs = append(errs, errors.New("webhook timeout must be positive"))
	}
	if c.Webhook.Concurrency <= 0 {
		errs = append(errs, errors.New("webhook concurrency must be positive"))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Location returns the canonical storage location.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Device.CanonicalTimezone)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %q is not an integer", key, v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %q is not a duration", key, v)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
