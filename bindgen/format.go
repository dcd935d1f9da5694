package bindgen

import (
	"golang.org/x/tools/imports"

	"github.com/teranos/webglgen/errors"
)

var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// Format gofmts generated source and normalizes its import block.
// FormatOnly keeps the result independent of the local GOPATH.
func Format(src []byte) ([]byte, error) {
	out, err := imports.Process("bindings.go", src, formatOptions)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "formatting generated source"),
			"run with format = false to inspect the unformatted output",
		)
	}
	return out, nil
}
