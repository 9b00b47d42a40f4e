package plexor

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from JSON or YAML or assembled in code. The zero-value is
// useful – all nested fields inherit their package defaults.
type Config struct {
	// WorkspaceDir roots every terminal session and file tool. Empty means
	// the current working directory.
	WorkspaceDir string `json:"workspaceDir,omitempty" yaml:"workspaceDir,omitempty"`

	// Shell overrides the platform default shell for new terminals.
	Shell string `json:"shell,omitempty" yaml:"shell,omitempty"`

	Session     SessionConfig     `json:"session" yaml:"session"`
	Remediation RemediationConfig `json:"remediation" yaml:"remediation"`

	// FailureMarkers replaces the built-in output screening markers.
	FailureMarkers []string `json:"failureMarkers,omitempty" yaml:"failureMarkers,omitempty"`

	// Vocabulary lists call names recognized in plan text in addition to the
	// registered tools, so plans may reference tools an embedder registers
	// after construction.
	Vocabulary []string `json:"vocabulary,omitempty" yaml:"vocabulary,omitempty"`
}

// SessionConfig tunes the shell sessions the workspace opens.
type SessionConfig struct {
	IdleWindowMs      int `json:"idleWindowMs,omitempty" yaml:"idleWindowMs,omitempty"`
	PollMs            int `json:"pollMs,omitempty" yaml:"pollMs,omitempty"`
	RunTimeoutMs      int `json:"runTimeoutMs,omitempty" yaml:"runTimeoutMs,omitempty"`
	BackgroundGraceMs int `json:"backgroundGraceMs,omitempty" yaml:"backgroundGraceMs,omitempty"`
	QueueBuffer       int `json:"queueBuffer,omitempty" yaml:"queueBuffer,omitempty"`
}

// RemediationConfig bounds the per-step retry loop.
type RemediationConfig struct {
	// MaxStepAttempts caps how many times one step may execute, counting the
	// first attempt and every remediated retry.
	MaxStepAttempts int `json:"maxStepAttempts,omitempty" yaml:"maxStepAttempts,omitempty"`

	// RetryDelayMs pauses a remediated step before it re-executes.
	RetryDelayMs int `json:"retryDelayMs,omitempty" yaml:"retryDelayMs,omitempty"`
}

// DefaultConfig returns a Config populated with exactly the same default
// values the individual constructors apply on their own. Callers may modify
// the returned struct before passing it to New via WithConfig.
func DefaultConfig() *Config {
	return &Config{
		Session: SessionConfig{
			IdleWindowMs:      2000,
			PollMs:            200,
			RunTimeoutMs:      30000,
			BackgroundGraceMs: 3000,
			QueueBuffer:       4096,
		},
		Remediation: RemediationConfig{
			MaxStepAttempts: 3,
		},
	}
}

// Init fills zero fields with their defaults.
func (c *Config) Init() {
	defaults := DefaultConfig()
	if c.Session.IdleWindowMs == 0 {
		c.Session.IdleWindowMs = defaults.Session.IdleWindowMs
	}
	if c.Session.PollMs == 0 {
		c.Session.PollMs = defaults.Session.PollMs
	}
	if c.Session.RunTimeoutMs == 0 {
		c.Session.RunTimeoutMs = defaults.Session.RunTimeoutMs
	}
	if c.Session.BackgroundGraceMs == 0 {
		c.Session.BackgroundGraceMs = defaults.Session.BackgroundGraceMs
	}
	if c.Session.QueueBuffer == 0 {
		c.Session.QueueBuffer = defaults.Session.QueueBuffer
	}
	if c.Remediation.MaxStepAttempts == 0 {
		c.Remediation.MaxStepAttempts = defaults.Remediation.MaxStepAttempts
	}
}

// Validate reports the first invalid setting, nil when the configuration is
// usable.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Remediation.MaxStepAttempts <= 0 {
		return fmt.Errorf("remediation.maxStepAttempts must be > 0")
	}
	if c.Session.IdleWindowMs < 0 || c.Session.PollMs < 0 || c.Session.RunTimeoutMs < 0 || c.Session.BackgroundGraceMs < 0 {
		return fmt.Errorf("session timings must not be negative")
	}
	return nil
}

// LoadConfig reads a YAML (or JSON) configuration document from URL. The afs
// scheme set applies, so file://, embed:// and mem:// locations all work.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %v: %w", URL, err)
	}
	config.Init()
	return config, nil
}
