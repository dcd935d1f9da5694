package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/idl"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSampleRegistry(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "webgl.yaml"))
	require.NoError(t, err)

	assert.True(t, r.HasExtension("OES_texture_float"))
	assert.True(t, r.HasExtension("WEBGL_lose_context"))

	named, err := r.Resolve("Float32List")
	require.NoError(t, err)
	td, ok := idl.AsTypedef(named)
	require.True(t, ok)
	_, isUnion := td.Type.Kind.(idl.Union)
	assert.True(t, isUnion)

	named, err = r.Resolve("WebGLPowerPreference")
	require.NoError(t, err)
	enum, ok := idl.AsEnum(named)
	require.True(t, ok)
	assert.Equal(t, []string{"default", "low-power", "high-performance"}, enum.Variants)

	named, err = r.Resolve("WebGLRenderingContext")
	require.NoError(t, err)
	ctx, ok := idl.AsInterface(named)
	require.True(t, ok)
	assert.Equal(t, "webgl", ctx.RenderingContext)
	assert.Equal(t, "WebGL 1 rendering context.", ctx.Doc)

	groups, err := r.CollectMembers(ctx)
	require.NoError(t, err)

	byName := map[string][]idl.Member{}
	for _, g := range groups {
		byName[g.Name] = g.Members
	}
	require.Len(t, byName["uniform1fv"], 2, "overloads keep document order")
	assert.Len(t, byName["uniform1fv"][1].(*idl.Operation).Args, 3)

	width := byName["drawingBufferWidth"][0].(*idl.Attribute)
	assert.True(t, width.Getter)
	assert.False(t, width.Setter, "readonly attributes have no setter")

	space := byName["drawingBufferColorSpace"][0].(*idl.Attribute)
	assert.True(t, space.Setter)

	clearOp := byName["clear"][0].(*idl.Operation)
	assert.Nil(t, clearOp.Return)

	c := byName["DEPTH_BUFFER_BIT"][0].(*idl.Const)
	assert.Equal(t, "0x00000100", c.Value)

	location := byName["uniform1fv"][0].(*idl.Operation).Args[0]
	assert.Equal(t, idl.NamedRef("WebGLUniformLocation").AsOptional(), location.Type)

	created := byName["createBuffer"][0].(*idl.Operation)
	require.NotNil(t, created.Return)
	assert.True(t, created.Return.Optional)
}

func TestDictionaryFieldsDefaultToOptional(t *testing.T) {
	doc, err := Decode([]byte(`format: "1"
dictionaries:
  WebGLContextAttributes:
    fields:
      alpha: {type: boolean}
      depth: {type: boolean, required: true}
      stencil: {type: "boolean?"}
`), FormatYAML)
	require.NoError(t, err)

	r, err := doc.Registry()
	require.NoError(t, err)
	named, err := r.Resolve("WebGLContextAttributes")
	require.NoError(t, err)
	dict, ok := idl.AsDictionary(named)
	require.True(t, ok)

	assert.Equal(t, idl.Of(idl.Bool).AsOptional(), dict.Fields["alpha"].Type)
	assert.False(t, dict.Fields["alpha"].Required)

	assert.Equal(t, idl.Of(idl.Bool), dict.Fields["depth"].Type, "required fields keep their type")
	assert.True(t, dict.Fields["depth"].Required)

	assert.Equal(t, idl.Of(idl.Bool).AsOptional(), dict.Fields["stencil"].Type)
}

func TestDecodeFormats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		doc    string
	}{
		{
			name:   "yaml",
			format: FormatYAML,
			doc: `format: "1"
typedefs:
  GLenum: unsigned long
interfaces:
  WebGLBuffer:
    has_class: true
    members:
      - {kind: attribute, name: size, type: GLenum, readonly: true}
`,
		},
		{
			name:   "json",
			format: FormatJSON,
			doc: `{
  "format": "1",
  "typedefs": {"GLenum": "unsigned long"},
  "interfaces": {
    "WebGLBuffer": {
      "has_class": true,
      "members": [{"kind": "attribute", "name": "size", "type": "GLenum", "readonly": true}]
    }
  }
}`,
		},
		{
			name:   "toml",
			format: FormatTOML,
			doc: `format = "1"

[typedefs]
GLenum = "unsigned long"

[interfaces.WebGLBuffer]
has_class = true

[[interfaces.WebGLBuffer.members]]
kind = "attribute"
name = "size"
type = "GLenum"
readonly = true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.doc), tt.format)
			require.NoError(t, err)

			assert.Equal(t, idl.Of(idl.U32), doc.Typedefs["GLenum"].Type)
			iface := doc.Interfaces["WebGLBuffer"]
			assert.True(t, iface.HasClass)
			require.Len(t, iface.Members, 1)
			assert.Equal(t, KindAttribute, iface.Members[0].Kind)
			assert.True(t, iface.Members[0].Readonly)
			assert.Equal(t, idl.NamedRef("GLenum"), iface.Members[0].Type.Type)

			r, err := doc.Registry()
			require.NoError(t, err)
			assert.Equal(t, 2, r.Len())
		})
	}
}

func TestDecodeRejectsFormatVersions(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing", "typedefs: {}\n"},
		{"newer major", "format: \"2.0\"\n"},
		{"not a version", "format: banana\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc), FormatYAML)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidRegistry))
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode([]byte("format: \"1\"\ninterfacez: {}\n"), FormatYAML)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))

	_, err = Decode([]byte("format = \"1\"\ninterfacez = 1\n"), FormatTOML)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestDecodeRejectsBadTypeExpression(t *testing.T) {
	_, err := Decode([]byte("format: \"1\"\ntypedefs:\n  Broken: sequence<\n"), FormatYAML)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestRegistryErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"duplicate name", `format: "1"
typedefs: {Thing: long}
enums: {Thing: [a]}
`},
		{"unknown member kind", `format: "1"
interfaces:
  A:
    members: [{kind: method, name: draw}]
`},
		{"attribute without type", `format: "1"
interfaces:
  A:
    members: [{kind: attribute, name: width}]
`},
		{"const without value", `format: "1"
interfaces:
  A:
    members: [{kind: const, name: ONE, type: long}]
`},
		{"argument without type", `format: "1"
callbacks:
  Cb:
    args: [{name: x}]
`},
		{"duplicate extension", `format: "1"
extensions: [EXT_a, EXT_a]
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.doc), FormatYAML)
			require.NoError(t, err)

			_, err = doc.Registry()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidRegistry))
		})
	}
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{
		"webgl.yaml":     FormatYAML,
		"webgl.YML":      FormatYAML,
		"dir/webgl.json": FormatJSON,
		"webgl.toml":     FormatTOML,
	} {
		got, err := FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFor("webgl.idl")
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.False(t, errors.IsConfigurationError(err))
}

func TestLoadWrapsPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "format: \"1\"\ntypedefs: {A: Missing}\ninterfaces:\n  B:\n    members: [{kind: nope, name: x}]\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
