// Package config loads the optional meshctl.yaml configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/go-mesh/meshkit/pkg/permission"
)

// DefaultPath is where meshctl looks for configuration when --config is not
// given.
const DefaultPath = "meshctl.yaml"

// Config represents the optional meshctl.yaml file.
type Config struct {
	// Family selects the simulated platform family (android, apple,
	// desktop). Empty means desktop.
	Family string `yaml:"family,omitempty"`

	// Codec selects the bridge codec (json or cbor). Empty means json.
	Codec string `yaml:"codec,omitempty"`

	Policy  PolicyConfig  `yaml:"policy"`
	Logging LoggingConfig `yaml:"logging"`
}

// PolicyConfig mirrors permission.RequestPolicy with YAML-friendly types.
// Unset fields keep the defaults from permission.DefaultRequestPolicy.
type PolicyConfig struct {
	ShowRationale        *bool             `yaml:"show_rationale,omitempty"`
	AutoNavigateSettings bool              `yaml:"auto_navigate_settings,omitempty"`
	Rationale            map[string]string `yaml:"rationale,omitempty"`
	Timeout              string            `yaml:"timeout,omitempty"`
	RetryOnFailure       *bool             `yaml:"retry_on_failure,omitempty"`
	MaxRetries           *int              `yaml:"max_retries,omitempty"`
}

// LoggingConfig controls meshctl's log output.
type LoggingConfig struct {
	// File routes logs to a rotated file instead of stderr.
	File string `yaml:"file,omitempty"`

	// Verbose enables debug-level output.
	Verbose bool `yaml:"verbose,omitempty"`
}

// LoadOptional reads the config file if present; a missing file yields the
// zero config.
func LoadOptional(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// RequestPolicy resolves the policy section over the library defaults.
func (c *Config) RequestPolicy() (permission.RequestPolicy, error) {
	policy := permission.DefaultRequestPolicy()

	if c.Policy.ShowRationale != nil {
		policy.ShowRationale = *c.Policy.ShowRationale
	}
	policy.AutoNavigateSettings = c.Policy.AutoNavigateSettings
	if c.Policy.RetryOnFailure != nil {
		policy.RetryOnFailure = *c.Policy.RetryOnFailure
	}
	if c.Policy.MaxRetries != nil {
		policy.MaxRetries = *c.Policy.MaxRetries
	}
	if c.Policy.Timeout != "" {
		d, err := time.ParseDuration(c.Policy.Timeout)
		if err != nil {
			return policy, fmt.Errorf("invalid policy timeout %q: %w", c.Policy.Timeout, err)
		}
		policy.Timeout = d
	}
	if len(c.Policy.Rationale) > 0 {
		policy.Rationale = make(map[permission.Permission]string, len(c.Policy.Rationale))
		for name, text := range c.Policy.Rationale {
			p := permission.Permission(name)
			if !p.Valid() {
				return policy, fmt.Errorf("unknown permission %q in rationale config", name)
			}
			policy.Rationale[p] = text
		}
	}
	return policy, nil
}

// PlatformFamily resolves the simulated family, defaulting to desktop.
func (c *Config) PlatformFamily() (permission.Family, error) {
	switch c.Family {
	case "":
		return permission.FamilyDesktop, nil
	case string(permission.FamilyAndroid):
		return permission.FamilyAndroid, nil
	case string(permission.FamilyApple):
		return permission.FamilyApple, nil
	case string(permission.FamilyDesktop):
		return permission.FamilyDesktop, nil
	default:
		return permission.FamilyUnknown, fmt.Errorf("unknown platform family %q", c.Family)
	}
}
