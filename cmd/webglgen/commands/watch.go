package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/webglgen/config"
	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/logger"
	"github.com/teranos/webglgen/watch"
)

// WatchCmd regenerates whenever the registry or webglgen.toml changes.
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate bindings whenever the registry changes",
	Long: `Generate once, then regenerate whenever the registry document or
webglgen.toml changes. Changes arriving within watch.debounce_ms of each
other trigger a single run. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	AddGeneratorFlags(WatchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireOutput(cfg, "watch"); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.ErrOrStderr()
	regenerate := func(changed []string) error {
		// Reload so edits to webglgen.toml apply too.
		fresh, err := loadConfig(cmd)
		if err != nil {
			pterm.Error.WithWriter(out).Println(err.Error())
			return err
		}
		if err := runOnce(ctx, fresh); err != nil {
			pterm.Error.WithWriter(out).Println(err.Error())
			return err
		}
		pterm.Success.WithWriter(out).Printfln("Regenerated %s", fresh.Output)
		return nil
	}

	if err := regenerate(nil); err != nil {
		return err
	}

	files := []string{cfg.Registry}
	if project := config.FindProjectConfig("."); project != "" {
		files = append(files, project)
	}

	w, err := watch.New(files, cfg.Watch.Debounce(), regenerate)
	if err != nil {
		return errors.WithHint(err, "watch only works with a local registry file")
	}
	defer w.Close()

	logger.Infow("Watching for changes", logger.FieldFile, cfg.Registry)
	pterm.Info.WithWriter(out).Printfln("Watching %s (Ctrl-C to stop)", cfg.Registry)
	return w.Run(ctx)
}

// runOnce regenerates into cfg.Output. The config is reloaded on every
// change, so an edit may have cleared the output since watch started.
func runOnce(ctx context.Context, cfg *config.Config) error {
	if err := requireOutput(cfg, "watch"); err != nil {
		return err
	}
	src, err := generate(ctx, cfg)
	if err != nil {
		return err
	}
	return writeOutput(ctx, cfg, src, nil)
}
