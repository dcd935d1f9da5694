package bindgen

import (
	_ "embed"
	"fmt"
	"strings"
	"time"
)

// runtimeSupport is the support code every generated package carries: the
// constraints synthesized type parameters refer to and the conversion
// helpers the marshalling strategies call.
//
//go:embed runtime.tmpl
var runtimeSupport string

var runtimeImports = []string{
	"encoding",
	"encoding/json",
	"errors",
	"fmt",
	"reflect",
	"syscall/js",
	"unsafe",
}

// runtimeNames are package-level identifiers of the runtime support that
// generated parameter names must not shadow.
var runtimeNames = map[string]bool{
	"convert": true, "copyToJS": true, "instanceOfAny": true, "isPresent": true,
	"jsArgs": true, "jsonFromJS": true, "jsonToJS": true, "mapOptional": true,
	"mapSlice": true, "mustConvert": true, "once": true, "toJS": true,
	"tryConvert": true, "unsafeArrayBufferView": true, "unsafeTypedArray": true,
	"byteView": true, "typedArrayClass": true, "unsafe": true, "reflect": true,
	"json": true, "encoding": true, "errors": true, "fmt": true,
}

// Metadata line prefixes. Check ignores these lines.
const (
	generatorPrefix          = "// Generator:"
	sourceVersionPrefix      = "// Source version:"
	sourceLastModifiedPrefix = "// Source last modified:"
)

var metadataPrefixes = []string{generatorPrefix, sourceVersionPrefix, sourceLastModifiedPrefix}

func (g *Generator) writeHeader(b *strings.Builder) {
	b.WriteString("// Code generated by webglgen. DO NOT EDIT.\n")
	fmt.Fprintf(b, "// Registry: %s\n", g.registry.Describe())
	if g.opts.Generator != "" {
		fmt.Fprintf(b, "%s %s\n", generatorPrefix, g.opts.Generator)
	}
	if v := g.opts.Source.Version; v != "" {
		fmt.Fprintf(b, "%s %s\n", sourceVersionPrefix, v)
	}
	if t := g.opts.Source.LastModified; !t.IsZero() {
		fmt.Fprintf(b, "%s %s\n", sourceLastModifiedPrefix, t.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n")

	if g.opts.BuildTag != "" {
		fmt.Fprintf(b, "//go:build %s\n\n", g.opts.BuildTag)
	}

	fmt.Fprintf(b, "package %s\n\n", g.opts.Package)

	b.WriteString("import (\n")
	for _, path := range runtimeImports {
		fmt.Fprintf(b, "\t%q\n", path)
	}
	b.WriteString(")\n\n")

	b.WriteString(runtimeSupport)
}
