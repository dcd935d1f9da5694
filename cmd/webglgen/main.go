package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/webglgen/cmd/webglgen/commands"
	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "webglgen",
	Short: "Generate typed Go WebGL bindings from a WebIDL registry",
	Long: `webglgen turns a registry of WebIDL definitions (typedefs, enums,
dictionaries, callbacks, mixins, interfaces and extension names) into Go
source for typed syscall/js WebGL bindings.

Available commands:
  generate - Write bindings (the default)
  check    - Exit non-zero when the bindings on disk are stale
  watch    - Regenerate whenever the registry changes
  init     - Write a starter webglgen.toml
  version  - Show version information

Examples:
  webglgen --registry webgl.yaml --output webgl/bindings.go
  webglgen check
  webglgen watch -v`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	RunE: commands.GenerateCmd.RunE,
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Write logs as JSON")

	commands.AddGeneratorFlags(rootCmd)

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err == nil {
		return
	}

	if !errors.Is(err, commands.ErrStale) {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
	}
	os.Exit(1)
}
