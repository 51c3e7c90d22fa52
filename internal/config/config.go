// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback for the bounce handler.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Mailbox MailboxConfig `yaml:"mailbox"`
	Process ProcessConfig `yaml:"process"`
	SES     SESConfig     `yaml:"ses"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig selects and configures the message source.
type SourceConfig struct {
	// Type is imap, eml or mbox.
	Type string `yaml:"type"`

	// EmlFolder is the folder of .eml files for the eml source.
	EmlFolder string `yaml:"eml_folder"`

	// MboxPath is the local mailbox file for the mbox source.
	MboxPath string `yaml:"mbox_path"`
}

// MailboxConfig holds IMAP connection parameters.
type MailboxConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Security is none, notls, tls or ssl.
	Security string `yaml:"security"`

	// ValidateCert controls server certificate validation.
	ValidateCert bool `yaml:"validate_cert"`

	// Name is the mailbox to open.
	Name string `yaml:"name"`

	// Search is ALL or UNSEEN.
	Search string `yaml:"search"`
}

// ProcessConfig holds batch processing options.
type ProcessConfig struct {
	// Mode is neutral, move or delete.
	Mode string `yaml:"mode"`

	// MaxMessages limits one batch; 0 means unlimited.
	MaxMessages int `yaml:"max_messages"`

	// Concurrency bounds parallel message parsing.
	Concurrency int `yaml:"concurrency"`

	ShowProgress bool `yaml:"show_progress"`
}

// SESConfig holds AWS SES suppression-list settings.
type SESConfig struct {
	Suppress        bool   `yaml:"suppress"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with sensible defaults.
// Environment variables always take precedence.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables. Returns an error if the
// specified file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// SESConfigured returns true if suppression is enabled and a region is set.
func (c *Config) SESConfigured() bool {
	return c.SES.Suppress && c.SES.Region != ""
}

// applyDefaults sets sensible default values for all configuration fields.
// Defaults match the historical bounce handler: IMAP on localhost:143
// without TLS, INBOX, search ALL, neutral processing.
func (c *Config) applyDefaults() {
	c.Source.Type = "imap"
	c.Mailbox.Host = "localhost"
	c.Mailbox.Port = 143
	c.Mailbox.Security = "notls"
	c.Mailbox.Name = "INBOX"
	c.Mailbox.Search = "ALL"
	c.Process.Mode = "neutral"
	c.Process.Concurrency = 4
	c.Logging.Level = "info"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("SOURCE_TYPE"); v != "" {
		c.Source.Type = strings.ToLower(v)
	}
	if v := os.Getenv("SOURCE_EML_FOLDER"); v != "" {
		c.Source.EmlFolder = v
	}
	if v := os.Getenv("SOURCE_MBOX_PATH"); v != "" {
		c.Source.MboxPath = v
	}

	if v := os.Getenv("MAILBOX_HOST"); v != "" {
		c.Mailbox.Host = v
	}
	if v := os.Getenv("MAILBOX_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Mailbox.Port = port
		}
	}
	if v := os.Getenv("MAILBOX_USERNAME"); v != "" {
		c.Mailbox.Username = v
	}
	if v := os.Getenv("MAILBOX_PASSWORD"); v != "" {
		c.Mailbox.Password = v
	}
	if v := os.Getenv("MAILBOX_SECURITY"); v != "" {
		c.Mailbox.Security = strings.ToLower(v)
	}
	if v := os.Getenv("MAILBOX_VALIDATE_CERT"); v != "" {
		if validate, err := strconv.ParseBool(v); err == nil {
			c.Mailbox.ValidateCert = validate
		}
	}
	if v := os.Getenv("MAILBOX_NAME"); v != "" {
		c.Mailbox.Name = v
	}
	if v := os.Getenv("MAILBOX_SEARCH"); v != "" {
		c.Mailbox.Search = strings.ToUpper(v)
	}

	if v := os.Getenv("PROCESS_MODE"); v != "" {
		c.Process.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("PROCESS_MAX_MESSAGES"); v != "" {
		if max, err := strconv.Atoi(v); err == nil {
			c.Process.MaxMessages = max
		}
	}
	if v := os.Getenv("PROCESS_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Process.Concurrency = n
		}
	}
	if v := os.Getenv("PROCESS_SHOW_PROGRESS"); v != "" {
		if show, err := strconv.ParseBool(v); err == nil {
			c.Process.ShowProgress = show
		}
	}

	if v := os.Getenv("SES_SUPPRESS"); v != "" {
		if suppress, err := strconv.ParseBool(v); err == nil {
			c.SES.Suppress = suppress
		}
	}
	if v := os.Getenv("SES_REGION"); v != "" {
		c.SES.Region = v
	}
	if v := os.Getenv("SES_ACCESS_KEY_ID"); v != "" {
		c.SES.AccessKeyID = v
	}
	if v := os.Getenv("SES_SECRET_ACCESS_KEY"); v != "" {
		c.SES.SecretAccessKey = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}
