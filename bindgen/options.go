package bindgen

import "time"

// Options control the shape of the generated package.
type Options struct {
	// Package is the package clause of the generated file.
	Package string
	// BuildTag is the //go:build expression; empty omits the line.
	BuildTag string
	// ContextInterface names the interface that accepts any of
	// ContextClasses as its runtime class.
	ContextInterface string
	ContextClasses   []string
	// ProbeOperation is the operation turned into the generic extension
	// request.
	ProbeOperation string
	// Source stamps the header with where the registry came from.
	Source SourceInfo
	// Generator identifies the webglgen build in the header; empty omits
	// the line.
	Generator string
}

// SourceInfo describes the revision of the registry document. Both fields
// are optional.
type SourceInfo struct {
	Version      string
	LastModified time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Package:          "webgl",
		BuildTag:         "js && wasm",
		ContextInterface: "GLContext",
		ContextClasses:   []string{"WebGLRenderingContext", "WebGL2RenderingContext"},
		ProbeOperation:   "getExtension",
	}
}

// withDefaults fills zero fields from DefaultOptions. BuildTag is left
// alone so an explicit empty tag stays empty.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Package == "" {
		o.Package = def.Package
	}
	if o.ContextInterface == "" {
		o.ContextInterface = def.ContextInterface
	}
	if len(o.ContextClasses) == 0 {
		o.ContextClasses = def.ContextClasses
	}
	if o.ProbeOperation == "" {
		o.ProbeOperation = def.ProbeOperation
	}
	return o
}
