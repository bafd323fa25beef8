package domain

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Defaults applied by Config.WithDefaults.
const (
	DefaultPort          = 9200
	DefaultProtocol      = "https"
	DefaultTimeout       = 300 * time.Second
	DefaultConcurrency   = 4
	DefaultNotifyTimeout = 10 * time.Second
)

// ValidProtocols enumerates the accepted cluster protocols.
var ValidProtocols = []string{"http", "https"}

// Config is the whole run configuration loaded from config.yaml.
type Config struct {
	Settings    Settings        `yaml:"settings"    json:"settings"`
	Concurrency int             `yaml:"concurrency" json:"concurrency,omitempty"`
	Clusters    []ClusterConfig `yaml:"clusters"    json:"clusters"`
	Notifiers   NotifiersConfig `yaml:"notifiers"   json:"notifiers"`
}

// Settings holds credentials and call limits. Global settings are inherited
// by every cluster that does not set the same key.
type Settings struct {
	Username string        `yaml:"username" json:"username,omitempty"`
	Password string        `yaml:"password" json:"-"`
	Timeout  time.Duration `yaml:"timeout"  json:"timeout,omitempty"`
}

// ClusterConfig describes one cluster and the repositories to check on it.
type ClusterConfig struct {
	Name         string                      `yaml:"name"         json:"name,omitempty"`
	Endpoint     string                      `yaml:"endpoint"     json:"endpoint"`
	Port         int                         `yaml:"port"         json:"port,omitempty"`
	Protocol     string                      `yaml:"protocol"     json:"protocol,omitempty"`
	Settings     Settings                    `yaml:"settings"     json:"settings"`
	Repositories map[string]RepositoryConfig `yaml:"repositories" json:"repositories"`
}

// RepositoryConfig lists the date templates of a repository's expected snapshots.
type RepositoryConfig struct {
	Patterns []string `yaml:"patterns" json:"patterns"`
}

// NotifiersConfig enables the alerting channels. Nil entries are disabled.
type NotifiersConfig struct {
	Slack    *SlackConfig    `yaml:"slack"    json:"slack,omitempty"`
	Webhook  *WebhookConfig  `yaml:"webhook"  json:"webhook,omitempty"`
	Stdout   bool            `yaml:"stdout"   json:"stdout,omitempty"`
	Textfile *TextfileConfig `yaml:"textfile" json:"textfile,omitempty"`
	NATS     *NATSConfig     `yaml:"nats"     json:"nats,omitempty"`
}

type SlackConfig struct {
	URL       string        `yaml:"url"        json:"-"`
	Timeout   time.Duration `yaml:"timeout"    json:"timeout,omitempty"`
	MinStatus string        `yaml:"min_status" json:"min_status,omitempty"`
}

type WebhookConfig struct {
	URL       string        `yaml:"url"        json:"-"`
	Token     string        `yaml:"token"      json:"-"`
	Timeout   time.Duration `yaml:"timeout"    json:"timeout,omitempty"`
	MinStatus string        `yaml:"min_status" json:"min_status,omitempty"`
}

type TextfileConfig struct {
	Path string `yaml:"path" json:"path"`
}

type NATSConfig struct {
	URL     string        `yaml:"url"     json:"-"`
	Subject string        `yaml:"subject" json:"subject"`
	Timeout time.Duration `yaml:"timeout" json:"timeout,omitempty"`
}

// Empty reports whether no notifier is enabled.
func (n NotifiersConfig) Empty() bool {
	return n.Slack == nil && n.Webhook == nil && !n.Stdout && n.Textfile == nil && n.NATS == nil
}

// ID identifies the cluster in results: its name, or its endpoint when unnamed.
func (c ClusterConfig) ID() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Endpoint
}

// Address returns the base URL of the cluster API.
func (c ClusterConfig) Address() string {
	return fmt.Sprintf("%s://%s", c.Protocol, net.JoinHostPort(c.Endpoint, strconv.Itoa(c.Port)))
}

// Validate checks the raw config for invalid values. Pattern syntax is
// checked separately by the pattern builder.
func (c Config) Validate() error {
	// 1. at least one cluster
	if len(c.Clusters) == 0 {
		return NewConfigError("clusters", "at least one cluster is required")
	}

	if c.Concurrency < 0 {
		return NewConfigError("concurrency", "must be >= 0 (got %d)", c.Concurrency)
	}
	if c.Settings.Timeout < 0 {
		return NewConfigError("settings.timeout", "must be >= 0 (got %s)", c.Settings.Timeout)
	}

	// 2. clusters
	seen := make(map[string]bool, len(c.Clusters))
	for i, cl := range c.Clusters {
		field := fmt.Sprintf("clusters[%d]", i)
		if cl.Endpoint == "" {
			return NewConfigError(field+".endpoint", "must not be empty")
		}
		if seen[cl.ID()] {
			return NewConfigError(field, "duplicate cluster %q (set a distinct name)", cl.ID())
		}
		seen[cl.ID()] = true

		if cl.Protocol != "" && !isValidProtocol(cl.Protocol) {
			return NewConfigError(field+".protocol", "unknown protocol %q (valid: http, https)", cl.Protocol)
		}
		if cl.Port < 0 || cl.Port > 65535 {
			return NewConfigError(field+".port", "out of range (got %d)", cl.Port)
		}
		if cl.Settings.Timeout < 0 {
			return NewConfigError(field+".settings.timeout", "must be >= 0 (got %s)", cl.Settings.Timeout)
		}
		if len(cl.Repositories) == 0 {
			return NewConfigError(field+".repositories", "at least one repository is required")
		}
		for name, repo := range cl.Repositories {
			if len(repo.Patterns) == 0 {
				return NewConfigError(fmt.Sprintf("%s.repositories.%s.patterns", field, name), "at least one pattern is required")
			}
		}
	}

	// 3. notifiers
	return c.Notifiers.validate()
}

func (n NotifiersConfig) validate() error {
	if n.Slack != nil {
		if n.Slack.URL == "" {
			return NewConfigError("notifiers.slack.url", "must not be empty")
		}
		if err := validateMinStatus("notifiers.slack.min_status", n.Slack.MinStatus); err != nil {
			return err
		}
	}
	if n.Webhook != nil {
		if n.Webhook.URL == "" {
			return NewConfigError("notifiers.webhook.url", "must not be empty")
		}
		if err := validateMinStatus("notifiers.webhook.min_status", n.Webhook.MinStatus); err != nil {
			return err
		}
	}
	if n.Textfile != nil && n.Textfile.Path == "" {
		return NewConfigError("notifiers.textfile.path", "must not be empty")
	}
	if n.NATS != nil {
		if n.NATS.URL == "" {
			return NewConfigError("notifiers.nats.url", "must not be empty")
		}
		if n.NATS.Subject == "" {
			return NewConfigError("notifiers.nats.subject", "must not be empty")
		}
	}
	return nil
}

func validateMinStatus(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := ParseStatus(value); err != nil {
		return &ConfigError{Field: field, Err: err}
	}
	return nil
}

// MinStatusOf parses an optional min_status value; empty means StatusOkay.
// The value is assumed to have passed Validate.
func MinStatusOf(value string) Status {
	if value == "" {
		return StatusOkay
	}
	s, err := ParseStatus(value)
	if err != nil {
		return StatusOkay
	}
	return s
}

// WithDefaults returns a copy of c with defaults filled in and global
// settings merged under each cluster's own settings.
func (c Config) WithDefaults() Config {
	result := c
	if result.Concurrency == 0 {
		result.Concurrency = DefaultConcurrency
	}
	if result.Settings.Timeout == 0 {
		result.Settings.Timeout = DefaultTimeout
	}

	result.Clusters = make([]ClusterConfig, len(c.Clusters))
	for i, cl := range c.Clusters {
		cl.Settings = mergeSettings(result.Settings, cl.Settings)
		if cl.Port == 0 {
			cl.Port = DefaultPort
		}
		if cl.Protocol == "" {
			cl.Protocol = DefaultProtocol
		}
		result.Clusters[i] = cl
	}

	n := c.Notifiers
	if n.Slack != nil {
		s := *n.Slack
		if s.Timeout == 0 {
			s.Timeout = DefaultNotifyTimeout
		}
		n.Slack = &s
	}
	if n.Webhook != nil {
		w := *n.Webhook
		if w.Timeout == 0 {
			w.Timeout = DefaultNotifyTimeout
		}
		n.Webhook = &w
	}
	if n.NATS != nil {
		nc := *n.NATS
		if nc.Timeout == 0 {
			nc.Timeout = DefaultNotifyTimeout
		}
		n.NATS = &nc
	}
	result.Notifiers = n

	return result
}

// mergeSettings overlays explicit cluster values on top of global ones.
// Explicit (non-zero) values always win.
func mergeSettings(global, local Settings) Settings {
	result := global
	if local.Username != "" {
		result.Username = local.Username
	}
	if local.Password != "" {
		result.Password = local.Password
	}
	if local.Timeout != 0 {
		result.Timeout = local.Timeout
	}
	return result
}

func isValidProtocol(p string) bool {
	for _, v := range ValidProtocols {
		if p == v {
			return true
		}
	}
	return false
}
