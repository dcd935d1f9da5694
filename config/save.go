package config

import (
	"bytes"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/teranos/webglgen/errors"
)

const header = "# webglgen configuration. Every key can be overridden with WEBGLGEN_<KEY>.\n\n"

// Starter returns the configuration `webglgen init` writes.
func Starter(registry, output string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	if err != nil {
		return nil, err
	}
	cfg.Registry = registry
	cfg.Output = output
	return cfg, nil
}

// Save writes cfg to path as TOML. An existing file is kept as
// path.back1 (rotating up to .back3) when overwrite is set, and is an
// error otherwise.
func Save(path string, cfg *Config, overwrite bool) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return errors.WithHint(
				errors.Newf("%s already exists", path),
				"use --force to overwrite it",
			)
		}
		if err := createBackup(path); err != nil {
			return errors.Wrap(err, "failed to create backup")
		}
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// createBackup rotates .back1 -> .back2 -> .back3 and copies path to .back1.
func createBackup(path string) error {
	back3 := path + ".back3"
	back2 := path + ".back2"
	back1 := path + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete .back3")
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	return os.WriteFile(back1, content, 0644)
}
