// Package config holds application level configuration that does not belong
// to a single infrastructure component. The alerting configuration decides
// which alert sinks are active and how they are parameterized.
package config

import (
	"fmt"
	"os"
	"time"

	"price-tracker/internal/infra/notifier"
	"price-tracker/internal/usecase/alert"

	"gopkg.in/yaml.v3"
)

// AlertingConfig describes the alert sinks to activate. It is loaded from a
// YAML file so operators can reconfigure channels without a rebuild.
//
// Example:
//
//	webhook:
//	  enabled: true
//	  url: ${ALERT_WEBHOOK_URL}
//	  timeout: 5s
//	logfile:
//	  enabled: true
//	  path: /var/log/price-tracker/alerts.log
//	email:
//	  enabled: false
type AlertingConfig struct {
	Webhook WebhookSinkConfig `yaml:"webhook"`
	LogFile LogFileSinkConfig `yaml:"logfile"`
	Email   EmailSinkConfig   `yaml:"email"`
}

// WebhookSinkConfig configures the Slack-compatible webhook sink.
type WebhookSinkConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogFileSinkConfig configures the local alert log sink.
type LogFileSinkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// EmailSinkConfig configures the SMTP sink.
type EmailSinkConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

// DefaultAlertingConfig returns the configuration used when no file is
// present: console logging only (the dispatcher always logs), with the
// local alert log enabled.
func DefaultAlertingConfig() AlertingConfig {
	return AlertingConfig{
		LogFile: LogFileSinkConfig{
			Enabled: true,
			Path:    "alerts.log",
		},
		Webhook: WebhookSinkConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// LoadAlertingConfig reads the alerting configuration from the given YAML
// file. Environment variable references (${VAR}) in the file are expanded
// before parsing, so secrets like webhook URLs stay out of the file itself.
// A missing file is not an error: the defaults apply.
func LoadAlertingConfig(path string) (AlertingConfig, error) {
	cfg := DefaultAlertingConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read alerting config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, fmt.Errorf("parse alerting config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that every enabled sink carries the fields it needs.
func (c *AlertingConfig) Validate() error {
	if c.Webhook.Enabled && c.Webhook.URL == "" {
		return fmt.Errorf("alerting config: webhook enabled but url is empty")
	}
	if c.Webhook.Enabled && c.Webhook.Timeout <= 0 {
		return fmt.Errorf("alerting config: webhook timeout must be positive")
	}
	if c.LogFile.Enabled && c.LogFile.Path == "" {
		return fmt.Errorf("alerting config: logfile enabled but path is empty")
	}
	if c.Email.Enabled {
		if c.Email.Host == "" || c.Email.Port <= 0 {
			return fmt.Errorf("alerting config: email enabled but host/port incomplete")
		}
		if c.Email.From == "" || len(c.Email.To) == 0 {
			return fmt.Errorf("alerting config: email enabled but from/to incomplete")
		}
	}
	return nil
}

// BuildSinks constructs the active alert sinks in a stable order:
// logfile, webhook, email. The dispatcher notifies sinks in registration
// order, so the local audit log always records the alert first.
// With every channel disabled it returns a single noop sink, keeping the
// delivery path observable in sink metrics.
func (c *AlertingConfig) BuildSinks() []alert.Sink {
	var sinks []alert.Sink

	if c.LogFile.Enabled {
		sinks = append(sinks, notifier.NewLogFileSink(c.LogFile.Path))
	}
	if c.Webhook.Enabled {
		sinks = append(sinks, notifier.NewWebhookSink(notifier.WebhookConfig{
			Enabled:    true,
			WebhookURL: c.Webhook.URL,
			Timeout:    c.Webhook.Timeout,
		}))
	}
	if c.Email.Enabled {
		sinks = append(sinks, notifier.NewSMTPSink(notifier.SMTPConfig{
			Enabled:  true,
			Host:     c.Email.Host,
			Port:     c.Email.Port,
			Username: c.Email.Username,
			Password: c.Email.Password,
			From:     c.Email.From,
			To:       c.Email.To,
		}))
	}

	if len(sinks) == 0 {
		sinks = append(sinks, notifier.NewNoopSink())
	}
	return sinks
}
