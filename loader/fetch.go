package loader

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-getter"

	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/logger"
)

// Source is a registry file ready to be read. Remote sources live in a
// temporary directory that Cleanup removes.
type Source struct {
	Path    string
	Remote  bool
	tempDir string
}

// Cleanup removes downloaded files. It is a no-op for local sources.
func (s *Source) Cleanup() error {
	if s == nil || s.tempDir == "" {
		return nil
	}
	return os.RemoveAll(s.tempDir)
}

// Fetch resolves src to a local file. Local paths are returned as-is;
// anything go-getter can detect (https, git, s3, github.com shorthand) is
// downloaded into a temporary directory.
func Fetch(ctx context.Context, src string) (*Source, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	detected, err := getter.Detect(src, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to detect source type of %s", src)
	}

	parsed, err := url.Parse(detected)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse detected URL")
	}

	if parsed.Scheme == "" || parsed.Scheme == "file" {
		path := src
		if parsed.Scheme == "file" {
			path = parsed.Path
		}
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, "registry %s", path)
		}
		return &Source{Path: path}, nil
	}

	tempDir, err := os.MkdirTemp("", "webglgen-registry-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}

	name := filepath.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		name = "registry.yaml"
	}
	dst := filepath.Join(tempDir, name)

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: getter.Getters,
	}

	logger.Infow("Fetching registry",
		logger.FieldSource, src,
		logger.FieldFile, dst,
	)

	if err := client.Get(); err != nil {
		os.RemoveAll(tempDir)
		return nil, errors.Wrapf(err, "failed to fetch %s", src)
	}

	return &Source{Path: dst, Remote: true, tempDir: tempDir}, nil
}
