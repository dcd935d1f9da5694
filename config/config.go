// Package config loads webglgen settings with viper.
//
// Precedence (lowest to highest): defaults, webglgen.toml found by walking
// up from the working directory, WEBGLGEN_* environment variables, and
// command-line flags bound by the caller.
package config

import (
	"time"

	"github.com/teranos/webglgen/bindgen"
	"github.com/teranos/webglgen/errors"
)

// FileName is the project config file looked up by FindProjectConfig.
const FileName = "webglgen.toml"

// Config is the full generator configuration.
type Config struct {
	Registry         string      `mapstructure:"registry" toml:"registry"`
	Output           string      `mapstructure:"output" toml:"output"`
	Package          string      `mapstructure:"package" toml:"package"`
	Format           bool        `mapstructure:"format" toml:"format"`
	ContextInterface string      `mapstructure:"context_interface" toml:"context_interface"`
	ContextClasses   []string    `mapstructure:"context_classes" toml:"context_classes"`
	ProbeOperation   string      `mapstructure:"probe_operation" toml:"probe_operation"`
	BuildTag         string      `mapstructure:"build_tag" toml:"build_tag"`
	ExtensionsDir    string      `mapstructure:"extensions_dir" toml:"extensions_dir,omitempty"`
	PostCommand      string      `mapstructure:"post_command" toml:"post_command,omitempty"`
	Watch            WatchConfig `mapstructure:"watch" toml:"watch"`
}

// WatchConfig configures `webglgen watch`.
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"` // quiet period before regenerating
}

// Debounce returns the watch quiet period.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Options converts the configuration into generator options.
func (c *Config) Options() bindgen.Options {
	return bindgen.Options{
		Package:          c.Package,
		BuildTag:         c.BuildTag,
		ContextInterface: c.ContextInterface,
		ContextClasses:   c.ContextClasses,
		ProbeOperation:   c.ProbeOperation,
	}
}

// Validate checks that the configuration can drive a generation run.
func (c *Config) Validate() error {
	if c.Registry == "" {
		return errors.WithHint(
			errors.New("registry is not set"),
			"pass --registry or set registry in "+FileName,
		)
	}
	if c.Package == "" {
		return errors.New("package cannot be empty")
	}
	if c.ContextInterface == "" {
		return errors.New("context_interface cannot be empty")
	}
	if c.ProbeOperation == "" {
		return errors.New("probe_operation cannot be empty")
	}
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	return nil
}
