// Package version reports which webglgen build produced a set of bindings.
package version

import (
	"fmt"
	"runtime"
)

// Build information, set at build time via ldflags.
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	// Version is the release tag, or "dev" for untagged builds.
	Version = "dev"
)

// Info describes the running generator.
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
	// RegistryFormats is the registry format constraint this build reads.
	RegistryFormats string `json:"registry_formats,omitempty"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Tagged reports whether this is a release build.
func (i Info) Tagged() bool {
	return i.Version != "" && i.Version != "dev"
}

func (i Info) String() string {
	return fmt.Sprintf("webglgen %s (commit %s, built %s)", i.release(), i.CommitHash, i.BuildTime)
}

// Short returns the abbreviated commit hash.
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Stamp is the generator identity written into generated files, e.g.
// "webglgen v0.3.0" or "webglgen dev+abc1234".
func (i Info) Stamp() string {
	if i.Tagged() {
		return "webglgen " + i.Version
	}
	if short := i.Short(); short != "" && short != "dev" {
		return "webglgen dev+" + short
	}
	return "webglgen dev"
}

func (i Info) release() string {
	if i.Tagged() {
		return i.Version
	}
	return "dev"
}
