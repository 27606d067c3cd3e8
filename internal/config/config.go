// Package config builds and validates the watcher configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ctfwatch/ctfwatch/internal/common"
)

// DefaultCachePath is the tracking cache location used when none is
// configured. Shared with commands that read the cache without loading
// the full configuration.
const DefaultCachePath = "ctf_cache.json"

// Config is the full configuration surface, read once at startup.
type Config struct {
	Catalog CatalogConfig
	Cache   CacheConfig
	Watch   WatchConfig
	SMTP    SMTPConfig
	Email   EmailConfig
}

// CatalogConfig covers the remote catalog endpoint.
type CatalogConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// CacheConfig covers the persisted tracking state.
type CacheConfig struct {
	Path string
}

// WatchConfig covers watch cycle tuning.
type WatchConfig struct {
	DetailDelay    time.Duration
	ReminderWindow time.Duration
	Interval       time.Duration
}

// SMTPConfig covers the notification transport. Host, port, username
// and password are all required.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// EmailConfig covers sender and recipient identities. Both are required.
type EmailConfig struct {
	To   string
	From string
}

// Load reads the configuration from viper (config file, environment,
// bound flags), applies defaults, and validates it. It fails fast on
// any missing required field.
func Load() (*Config, error) {
	viper.SetDefault("catalog.base_url", "https://ctf.hackthebox.com/api/public/ctfs")
	viper.SetDefault("catalog.user_agent", "ctfwatch/email-bot")
	viper.SetDefault("catalog.timeout", 20*time.Second)
	viper.SetDefault("cache.path", DefaultCachePath)
	viper.SetDefault("watch.detail_delay", time.Second)
	viper.SetDefault("watch.reminder_window", 72*time.Hour)
	viper.SetDefault("watch.interval", 30*time.Minute)

	cfg := &Config{
		Catalog: CatalogConfig{
			BaseURL:   viper.GetString("catalog.base_url"),
			UserAgent: viper.GetString("catalog.user_agent"),
			Timeout:   viper.GetDuration("catalog.timeout"),
		},
		Cache: CacheConfig{
			Path: ExpandPath(viper.GetString("cache.path")),
		},
		Watch: WatchConfig{
			DetailDelay:    viper.GetDuration("watch.detail_delay"),
			ReminderWindow: viper.GetDuration("watch.reminder_window"),
			Interval:       viper.GetDuration("watch.interval"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("smtp.host"),
			Port:     viper.GetInt("smtp.port"),
			Username: viper.GetString("smtp.username"),
			Password: viper.GetString("smtp.password"),
		},
		Email: EmailConfig{
			To:   viper.GetString("email.to"),
			From: viper.GetString("email.from"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every required field and names all missing keys at
// once, so a misconfigured deployment is fixed in one round trip.
func (c *Config) Validate() error {
	var missing []string
	if c.SMTP.Host == "" {
		missing = append(missing, "smtp.host")
	}
	if c.SMTP.Port == 0 {
		missing = append(missing, "smtp.port")
	}
	if c.SMTP.Username == "" {
		missing = append(missing, "smtp.username")
	}
	if c.SMTP.Password == "" {
		missing = append(missing, "smtp.password")
	}
	if c.Email.To == "" {
		missing = append(missing, "email.to")
	}
	if c.Email.From == "" {
		missing = append(missing, "email.from")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, strings.Join(missing, ", "))
	}

	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("%w: catalog.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.Watch.ReminderWindow <= 0 {
		return fmt.Errorf("%w: watch.reminder_window must be positive", common.ErrInvalidConfig)
	}
	return nil
}
