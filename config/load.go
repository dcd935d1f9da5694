package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/webglgen/bindgen"
	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/logger"
)

// SetDefaults configures default values for every key.
func SetDefaults(v *viper.Viper) {
	opts := bindgen.DefaultOptions()

	v.SetDefault("registry", "")
	v.SetDefault("output", "")
	v.SetDefault("package", opts.Package)
	v.SetDefault("format", true)
	v.SetDefault("context_interface", opts.ContextInterface)
	v.SetDefault("context_classes", opts.ContextClasses)
	v.SetDefault("probe_operation", opts.ProbeOperation)
	v.SetDefault("build_tag", opts.BuildTag)
	v.SetDefault("extensions_dir", "")
	v.SetDefault("post_command", "")

	v.SetDefault("watch.debounce_ms", 300) // editors write in bursts
}

// New returns a viper instance with defaults, the project config found
// from dir, and environment binding. An empty dir means the working
// directory.
func New(dir string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix("WEBGLGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}
		dir = wd
	}

	if path := FindProjectConfig(dir); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		logger.Debugw("Loaded project config", logger.FieldFile, path)
	}

	return v, nil
}

// Load unmarshals v into a Config. Relative paths in a config file are
// resolved against the file's directory.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if file := v.ConfigFileUsed(); file != "" {
		base := filepath.Dir(file)
		cfg.Registry = resolveAgainst(base, cfg.Registry)
		cfg.Output = resolveAgainst(base, cfg.Output)
		cfg.ExtensionsDir = resolveAgainst(base, cfg.ExtensionsDir)
	}
	return &cfg, nil
}

// LoadFromFile reads one config file without environment binding.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return Load(v)
}

// FindProjectConfig walks up from dir looking for webglgen.toml and
// returns its path, or "" when there is none.
func FindProjectConfig(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// resolveAgainst leaves empty, absolute and remote sources untouched.
func resolveAgainst(base, p string) string {
	if p == "" || filepath.IsAbs(p) || strings.Contains(p, "://") || strings.Contains(p, "::") {
		return p
	}
	return filepath.Join(base, p)
}
