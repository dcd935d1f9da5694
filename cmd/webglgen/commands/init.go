package commands

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/webglgen/config"
)

var (
	initRegistry string
	initOutput   string
	initForce    bool
)

// InitCmd writes a starter webglgen.toml in the working directory.
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter webglgen.toml",
	Long: `Write webglgen.toml with every key set to its default.

An existing file is only replaced with --force; the previous version is
kept as webglgen.toml.back1 (up to three backups rotate).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Starter(initRegistry, initOutput)
		if err != nil {
			return err
		}

		path := filepath.Join(".", config.FileName)
		if err := config.Save(path, cfg, initForce); err != nil {
			return err
		}

		pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("Wrote %s", path)
		return nil
	},
}

func init() {
	InitCmd.Flags().StringVarP(&initRegistry, "registry", "r", "webgl.yaml", "Registry document")
	InitCmd.Flags().StringVarP(&initOutput, "output", "o", "webgl/bindings_js.go", "Output file")
	InitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing webglgen.toml")
}
