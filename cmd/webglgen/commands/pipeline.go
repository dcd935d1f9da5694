package commands

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/webglgen/bindgen"
	"github.com/teranos/webglgen/config"
	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/internal/gitmeta"
	"github.com/teranos/webglgen/loader"
	"github.com/teranos/webglgen/logger"
	"github.com/teranos/webglgen/version"
)

// ErrStale is returned by check when the bindings on disk are out of date.
var ErrStale = errors.New("generated bindings are out of date")

// generate runs one full pass: fetch, load, amend, generate.
func generate(ctx context.Context, cfg *config.Config) ([]byte, error) {
	log := logger.ComponentLogger("pipeline")

	src, err := loader.Fetch(ctx, cfg.Registry)
	if err != nil {
		return nil, err
	}
	defer src.Cleanup()

	doc, err := loader.LoadDocument(src.Path)
	if err != nil {
		return nil, err
	}

	if cfg.ExtensionsDir != "" {
		found, err := loader.DiscoverExtensions(cfg.ExtensionsDir)
		if err != nil {
			return nil, err
		}
		log.Debugw("Discovered extensions",
			logger.FieldCount, len(found),
			logger.FieldSource, cfg.ExtensionsDir)
		doc.Extensions = loader.MergeExtensions(doc.Extensions, found)
	}

	r, err := doc.Registry()
	if err != nil {
		return nil, errors.Wrapf(err, "registry %s", cfg.Registry)
	}

	opts := cfg.Options()
	opts.Generator = version.Get().Stamp()
	if !src.Remote {
		info, ok, err := gitmeta.Lookup(src.Path)
		switch {
		case err != nil:
			log.Warnw("Could not read registry history", logger.FieldError, err)
		case ok:
			opts.Source = info
		}
	}

	g := bindgen.New(r, opts)
	if cfg.Format {
		return g.Generate()
	}

	var buf bytes.Buffer
	if err := g.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// requireOutput fails when cfg has no output file for command to work on.
func requireOutput(cfg *config.Config, command string) error {
	if cfg.Output != "" {
		return nil
	}
	return errors.WithHint(
		errors.Newf("%s needs an output file", command),
		"pass --output or set output in webglgen.toml",
	)
}

// postProcess returns src as the post command would leave it on disk. The
// command runs on a copy named like cfg.Output in a scratch directory.
func postProcess(ctx context.Context, cfg *config.Config, src []byte) ([]byte, error) {
	if cfg.PostCommand == "" {
		return src, nil
	}

	dir, err := os.MkdirTemp("", "webglgen-check-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scratch directory")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(cfg.Output))
	if err := os.WriteFile(path, src, 0644); err != nil {
		return nil, errors.Wrapf(err, "failed to write %s", path)
	}
	if err := runPostCommand(ctx, cfg.PostCommand, path); err != nil {
		return nil, err
	}

	out, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return out, nil
}

// writeOutput writes src to cfg.Output, or to stdout when no output is
// set, then runs the post command on the written file.
func writeOutput(ctx context.Context, cfg *config.Config, src []byte, stdout io.Writer) error {
	if cfg.Output == "" {
		_, err := stdout.Write(src)
		return err
	}

	if err := writeFileAtomic(cfg.Output, src); err != nil {
		return err
	}
	logger.Infow("Wrote bindings",
		logger.FieldFile, cfg.Output,
		logger.FieldSize, len(src))

	if cfg.PostCommand == "" {
		return nil
	}
	return runPostCommand(ctx, cfg.PostCommand, cfg.Output)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrap(err, "failed to set permissions")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	return nil
}

// runPostCommand splits command like a shell would and appends path.
func runPostCommand(ctx context.Context, command, path string) error {
	args, err := shellquote.Split(command)
	if err != nil {
		return errors.Wrapf(err, "failed to parse post_command %q", command)
	}
	if len(args) == 0 {
		return nil
	}
	args = append(args, path)

	c := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := c.CombinedOutput()
	if err != nil {
		return errors.WithDetail(
			errors.Wrapf(err, "post_command %q failed", command),
			string(out),
		)
	}
	logger.Debugw("Ran post command", logger.FieldCommand, command, logger.FieldFile, path)
	return nil
}
