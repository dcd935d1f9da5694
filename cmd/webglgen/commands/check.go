package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/webglgen/bindgen"
)

// CheckCmd reports whether the bindings on disk match the registry.
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check if generated bindings are up to date",
	Long: `Check if the bindings file matches what the registry generates now.

Generator and source metadata lines in the header are ignored; they
change between builds and registry commits without changing the bindings.
When post_command is set, it runs on a scratch copy of the fresh output
before comparing, so post-processed files are not reported stale.

Exit codes:
  0 - Bindings are up to date
  1 - Bindings are out of date, missing, or the check failed`,
	RunE: runCheck,
}

func init() {
	AddGeneratorFlags(CheckCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireOutput(cfg, "check"); err != nil {
		return err
	}

	src, err := generate(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	src, err = postProcess(cmd.Context(), cfg, src)
	if err != nil {
		return err
	}

	result, err := bindgen.Check(src, cfg.Output)
	if err != nil {
		return err
	}

	out := cmd.ErrOrStderr()
	switch {
	case result.UpToDate:
		pterm.Success.WithWriter(out).Printfln("%s is up to date", cfg.Output)
		return nil
	case result.Missing:
		pterm.Error.WithWriter(out).Printfln("%s does not exist", cfg.Output)
	default:
		pterm.Error.WithWriter(out).Printfln("%s is out of date (first difference at line %d)", cfg.Output, result.FirstDiffLine)
	}
	pterm.Info.WithWriter(out).Println("run 'webglgen generate' to update")
	return ErrStale
}
