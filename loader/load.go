// Package loader reads registry documents from disk and turns them into
// an idl.Registry.
//
// A document lists typedefs, enums, dictionaries, callbacks, mixins and
// interfaces by name. Types are written as WebIDL type expressions. YAML,
// JSON and TOML encodings are accepted; the encoding is chosen from the
// file extension.
package loader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/idl"
	"github.com/teranos/webglgen/logger"
)

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// SupportedFormats is the document format constraint this loader reads.
const SupportedFormats = "^1"

// FormatFor picks the encoding from a file name.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.WithHint(
		errors.Configf(errors.ErrInvalidRegistry, "cannot tell the encoding of %s", path),
		"registry files must end in .yaml, .yml, .json or .toml",
	)
}

// Load reads and converts the registry document at path.
func Load(path string) (*idl.Registry, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}

	r, err := doc.Registry()
	if err != nil {
		return nil, errors.Wrapf(err, "registry %s", path)
	}

	logger.Debugw("Loaded registry",
		logger.FieldFile, path,
		logger.FieldRegistry, r.Describe(),
		logger.FieldCount, r.Len(),
	)
	return r, nil
}

// LoadDocument reads and decodes the document at path without building
// the registry, so callers can amend it first.
func LoadDocument(path string) (*Document, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read registry %s", path)
	}

	doc, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "registry %s", path)
	}
	return doc, nil
}

// Decode parses a document and checks its format version.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML, FormatJSON:
		// JSON is a subset of YAML.
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "failed to decode document"), errors.ErrConfiguration)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "failed to decode document"), errors.ErrConfiguration)
		}
	default:
		return nil, errors.Newf("unknown document format %q", format)
	}

	if err := checkFormat(doc.Format); err != nil {
		return nil, err
	}
	return &doc, nil
}

func checkFormat(v string) error {
	if v == "" {
		return errors.WithHint(
			errors.Configf(errors.ErrInvalidRegistry, "document has no format version"),
			`add format = "1" at the top of the document`,
		)
	}

	ver, err := semver.NewVersion(v)
	if err != nil {
		return errors.Configf(errors.ErrInvalidRegistry, "format %q is not a version: %v", v, err)
	}

	constraint, err := semver.NewConstraint(SupportedFormats)
	if err != nil {
		return errors.Wrap(err, "invalid format constraint")
	}

	if !constraint.Check(ver) {
		return errors.WithHintf(
			errors.Configf(errors.ErrInvalidRegistry, "format %s is not supported", v),
			"this webglgen reads formats matching %s", SupportedFormats,
		)
	}
	return nil
}
