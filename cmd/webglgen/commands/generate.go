package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// GenerateCmd writes the bindings once.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Go bindings from the registry",
	Long: `Generate Go bindings from a registry document.

The registry may be a local YAML, JSON or TOML file, or any source
go-getter understands (https URL, git repository, github.com shorthand).
Settings come from webglgen.toml, WEBGLGEN_* environment variables and
flags, in increasing precedence.

Examples:
  webglgen generate --registry webgl.yaml                 # Print to stdout
  webglgen generate -r webgl.yaml -o webgl/bindings.go    # Write a file
  webglgen generate --post-command "gofumpt -w"           # Post-process the file`,
	RunE: runGenerate,
}

func init() {
	AddGeneratorFlags(GenerateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	src, err := generate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if err := writeOutput(cmd.Context(), cfg, src, cmd.OutOrStdout()); err != nil {
		return err
	}

	if cfg.Output != "" {
		pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("Generated %s", cfg.Output)
	}
	return nil
}
