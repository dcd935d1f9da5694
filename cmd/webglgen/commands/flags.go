package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teranos/webglgen/config"
	"github.com/teranos/webglgen/errors"
)

// flagKeys maps generator flags to config keys.
var flagKeys = map[string]string{
	"registry":          "registry",
	"output":            "output",
	"package":           "package",
	"build-tag":         "build_tag",
	"context-interface": "context_interface",
	"context-classes":   "context_classes",
	"probe-operation":   "probe_operation",
	"extensions-dir":    "extensions_dir",
	"post-command":      "post_command",
	"format":            "format",
	"debounce-ms":       "watch.debounce_ms",
}

// AddGeneratorFlags registers the flags every generating command shares.
// Unset flags leave config file and environment values alone.
func AddGeneratorFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("registry", "r", "", "Registry document (path, URL or go-getter source)")
	f.StringP("output", "o", "", "Output file (default: stdout)")
	f.StringP("package", "p", "", "Package name of the generated file")
	f.String("build-tag", "", "Build constraint for the generated file")
	f.String("context-interface", "", "Name of the rendering context interface")
	f.StringSlice("context-classes", nil, "JavaScript classes accepted as the rendering context")
	f.String("probe-operation", "", "Operation that queries extensions")
	f.String("extensions-dir", "", "Directory of extension definitions to add to the registry")
	f.String("post-command", "", "Command run on the output file after writing, e.g. \"gofumpt -w\"")
	f.Bool("format", true, "Format the generated source")
	f.Int("debounce-ms", 0, "Quiet period before watch regenerates")
}

// loadConfig merges defaults, webglgen.toml, WEBGLGEN_* and changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.New("")
	if err != nil {
		return nil, err
	}
	if err := bindFlags(cmd, v); err != nil {
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "failed to bind --%s", name)
		}
	}
	return nil
}
