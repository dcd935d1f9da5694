package bindgen

import (
	"bytes"
	"encoding/json"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/idl"
	"github.com/teranos/webglgen/logger"
)

func ptr[T any](v T) *T { return &v }

func sampleTypes() map[string]idl.NamedType {
	base := &idl.Mixin{Members: map[string][]idl.Member{
		"DEPTH_BUFFER_BIT":   {&idl.Const{Type: idl.NamedRef("GLenum"), Value: "0x00000100"}},
		"drawingBufferWidth": {&idl.Attribute{Type: idl.Of(idl.I32), Getter: true}},
		"unpackFlip":         {&idl.Attribute{Type: idl.Of(idl.Bool), Getter: true, Setter: true}},
		"debugPixels":        {&idl.Attribute{Type: idl.Of(idl.TypedArray{Elem: idl.U8}), Setter: true}},
		"getError":           {&idl.Operation{Return: ptr(idl.NamedRef("GLenum"))}},
		"createBuffer":       {&idl.Operation{Return: ptr(idl.NamedRef("WebGLBuffer").AsOptional())}},
		"bufferData": {
			&idl.Operation{
				Doc: "Allocates size bytes of storage.",
				Args: []idl.Arg{
					{Name: "target", Type: idl.NamedRef("GLenum")},
					{Name: "size", Type: idl.NamedRef("GLsizeiptr")},
					{Name: "usage", Type: idl.NamedRef("GLenum")},
				},
			},
			&idl.Operation{Args: []idl.Arg{
				{Name: "target", Type: idl.NamedRef("GLenum")},
				{Name: "srcData", Type: idl.NamedRef("Float32List")},
				{Name: "usage", Type: idl.NamedRef("GLenum")},
			}},
		},
		"blendFunc": {&idl.Operation{Args: []idl.Arg{
			{Name: "sfactor", Type: idl.NamedRef("BlendFactor")},
			{Name: "type", Type: idl.NamedRef("BlendFactor")},
		}}},
		"uniform2f": {&idl.Operation{Args: []idl.Arg{
			{Name: "x", Type: idl.Of(idl.F32)},
			{Name: "w", Type: idl.Of(idl.F32)},
		}}},
		"onLost": {&idl.Operation{Args: []idl.Arg{
			{Name: "callback", Type: idl.NamedRef("FrameRequestCallback")},
		}}},
		"getContextAttributes": {&idl.Operation{Return: ptr(idl.NamedRef("WebGLContextAttributes").AsOptional())}},
		"getExtension": {&idl.Operation{
			Args:   []idl.Arg{{Name: "name", Type: idl.Of(idl.String)}},
			Return: ptr(idl.Of(idl.Object).AsOptional()),
		}},
	}}

	return map[string]idl.NamedType{
		"GLenum":      &idl.Typedef{Type: idl.Of(idl.U32)},
		"GLsizeiptr":  &idl.Typedef{Type: idl.Of(idl.I64)},
		"GLfloat":     &idl.Typedef{Type: idl.Of(idl.F32)},
		"Float32List": &idl.Typedef{Type: float32List()},
		"BlendFactor": &idl.Enum{Variants: []string{"ZERO", "ONE"}},
		"WebGLPowerPreference": &idl.Enum{Variants: []string{
			"default", "low-power", "high-performance",
		}},
		"WebGLContextAttributes": &idl.Dictionary{Fields: map[string]idl.Field{
			"alpha":           {Type: idl.Of(idl.Bool).AsOptional()},
			"depth":           {Type: idl.Of(idl.Bool), Required: true},
			"powerPreference": {Type: idl.NamedRef("WebGLPowerPreference").AsOptional()},
		}},
		"HiddenDictionary":          &idl.Dictionary{Hidden: true, Fields: map[string]idl.Field{"x": {Type: idl.Of(idl.I8)}}},
		"FrameRequestCallback":      &idl.Callback{},
		"WebGLRenderingContextBase": base,
		"WebGLObject": &idl.Interface{Name: "WebGLObject", Hidden: true, Members: map[string][]idl.Member{
			"broken": {&idl.Operation{Args: []idl.Arg{{Name: "m", Type: idl.NamedRef("WebGLRenderingContextBase")}}}},
		}},
		"WebGLBuffer": &idl.Interface{Name: "WebGLBuffer", HasClass: true},
		"WebGLRenderingContext": &idl.Interface{
			Name:             "WebGLRenderingContext",
			Doc:              "WebGLRenderingContext is the WebGL 1 context.",
			HasClass:         true,
			RenderingContext: "webgl",
			Mixins:           []string{"WebGLRenderingContextBase"},
		},
		"GLContext": &idl.Interface{Name: "GLContext", Mixins: []string{"WebGLRenderingContextBase"}},
		"WEBGL_lose_context": &idl.Interface{Name: "WEBGL_lose_context", Members: map[string][]idl.Member{
			"loseContext": {&idl.Operation{}},
		}},
	}
}

func sampleRegistry(t *testing.T) *idl.Registry {
	return mustRegistry(t, sampleTypes(), "OES_texture_float", "WEBGL_lose_context")
}

func writeRaw(t *testing.T, g *Generator) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, g.Write(&buf))
	return buf.String()
}

// decls indexes the top-level declarations of a generated file.
type decls struct {
	file   *ast.File
	types  map[string]*ast.TypeSpec
	funcs  map[string]*ast.FuncDecl
	values map[string]*ast.ValueSpec
}

func parseGenerated(t *testing.T, src string) decls {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "bindings.go", src, parser.ParseComments)
	require.NoError(t, err, src)

	d := decls{
		file:   file,
		types:  map[string]*ast.TypeSpec{},
		funcs:  map[string]*ast.FuncDecl{},
		values: map[string]*ast.ValueSpec{},
	}
	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			name := decl.Name.Name
			if decl.Recv != nil {
				name = receiverType(decl.Recv.List[0].Type) + "." + name
			}
			d.funcs[name] = decl
		case *ast.GenDecl:
			for _, spec := range decl.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					d.types[spec.Name.Name] = spec
				case *ast.ValueSpec:
					for _, n := range spec.Names {
						d.values[n.Name] = spec
					}
				}
			}
		}
	}
	return d
}

func receiverType(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.StarExpr:
		return receiverType(e.X)
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		return receiverType(e.X)
	}
	return ""
}

func exprString(t *testing.T, src string, node ast.Node) string {
	t.Helper()
	return src[node.Pos()-1 : node.End()-1]
}

func TestGenerateProducesValidFormattedSource(t *testing.T) {
	out, err := New(sampleRegistry(t), DefaultOptions()).Generate()
	require.NoError(t, err)

	src := string(out)
	d := parseGenerated(t, src)
	assert.Equal(t, "webgl", d.file.Name.Name)
	assert.True(t, strings.HasPrefix(src, "// Code generated by webglgen. DO NOT EDIT.\n"))
	assert.Contains(t, src, "//go:build js && wasm\n")
}

func TestWriteCategoryOrder(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))

	markers := []string{
		"type GLenum = uint32",
		"type BlendFactor uint32",
		"type WebGLContextAttributes struct",
		"type GLContext struct",
		"type WebGLRenderingContext struct",
		"type OES_texture_float struct",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(src, m)
		require.NotEqual(t, -1, idx, "missing %q", m)
		assert.Greater(t, idx, last, "%q is out of order", m)
		last = idx
	}
}

func TestWriteTypedefs(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))
	d := parseGenerated(t, src)

	for name, want := range map[string]string{
		"GLenum":      "uint32",
		"GLsizeiptr":  "int64",
		"Float32List": "TypedArray[float32]",
	} {
		spec := d.types[name]
		require.NotNil(t, spec, name)
		assert.True(t, spec.Assign.IsValid(), "%s must be an alias", name)
		assert.Equal(t, want, exprString(t, src, spec.Type))
	}
}

func TestWriteEnumBlendFactor(t *testing.T) {
	r := mustRegistry(t, map[string]idl.NamedType{
		"BlendFactor": &idl.Enum{Variants: []string{"ZERO", "ONE"}},
	})
	src := writeRaw(t, New(r, Options{}))
	d := parseGenerated(t, src)

	require.Contains(t, d.types, "BlendFactor")
	assert.Contains(t, d.values, "BlendFactorZero")
	assert.Contains(t, d.values, "BlendFactorOne")

	table := d.values["_BlendFactor_tags"]
	require.NotNil(t, table)
	lit := table.Values[0].(*ast.CompositeLit)
	var tags []string
	for _, elt := range lit.Elts {
		raw := elt.(*ast.KeyValueExpr).Value.(*ast.BasicLit).Value
		tag, err := strconv.Unquote(raw)
		require.NoError(t, err)
		tags = append(tags, tag)
	}
	assert.Equal(t, []string{"ZERO", "ONE"}, tags)

	for _, fn := range []string{"BlendFactor.String", "BlendFactor.MarshalText", "BlendFactor.UnmarshalText", "BlendFactor.JSValue"} {
		assert.Contains(t, d.funcs, fn)
	}
}

func TestWriteEnumConvertsTagsToCamelCase(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))
	d := parseGenerated(t, src)

	table := d.values["_WebGLPowerPreference_tags"]
	require.NotNil(t, table)

	got := map[string]string{}
	for _, elt := range table.Values[0].(*ast.CompositeLit).Elts {
		kv := elt.(*ast.KeyValueExpr)
		tag, err := strconv.Unquote(kv.Value.(*ast.BasicLit).Value)
		require.NoError(t, err)
		got[kv.Key.(*ast.Ident).Name] = tag
	}
	assert.Equal(t, map[string]string{
		"WebGLPowerPreferenceDefault":         "default",
		"WebGLPowerPreferenceLowPower":        "low-power",
		"WebGLPowerPreferenceHighPerformance": "high-performance",
	}, got)

	for name := range got {
		assert.Contains(t, d.values, name)
	}
}

// fieldStruct rebuilds the generated dictionary as a runtime struct type so
// its JSON tags can be exercised.
func fieldStruct(t *testing.T, src string, spec *ast.TypeSpec) reflect.Type {
	t.Helper()
	goTypes := map[string]reflect.Type{
		"bool":  reflect.TypeOf(false),
		"*bool": reflect.TypeOf((*bool)(nil)),
	}

	var fields []reflect.StructField
	for _, f := range spec.Type.(*ast.StructType).Fields.List {
		typ, ok := goTypes[exprString(t, src, f.Type)]
		if !ok {
			continue
		}
		tag, err := strconv.Unquote(f.Tag.Value)
		require.NoError(t, err)
		fields = append(fields, reflect.StructField{
			Name: f.Names[0].Name,
			Type: typ,
			Tag:  reflect.StructTag(tag),
		})
	}
	return reflect.StructOf(fields)
}

func TestWriteDictionaryOptionalFieldIsOmittable(t *testing.T) {
	r := mustRegistry(t, map[string]idl.NamedType{
		"Options": &idl.Dictionary{Fields: map[string]idl.Field{
			"premultipliedAlpha": {Type: idl.Of(idl.Bool).AsOptional()},
		}},
	})
	out, err := New(r, Options{}).Generate()
	require.NoError(t, err)
	src := string(out)
	d := parseGenerated(t, src)

	spec := d.types["Options"]
	require.NotNil(t, spec)
	field := spec.Type.(*ast.StructType).Fields.List[0]
	assert.Equal(t, "PremultipliedAlpha", field.Names[0].Name)
	assert.Equal(t, "*bool", exprString(t, src, field.Type))
	assert.Equal(t, "`json:\"premultipliedAlpha,omitempty\"`", field.Tag.Value)

	typ := fieldStruct(t, src, spec)

	absent := reflect.New(typ)
	data, err := json.Marshal(absent.Interface())
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	present := reflect.New(typ)
	present.Elem().Field(0).Set(reflect.ValueOf(ptr(false)))
	data, err = json.Marshal(present.Interface())
	require.NoError(t, err)
	assert.JSONEq(t, `{"premultipliedAlpha":false}`, string(data))

	decodedAbsent := reflect.New(typ)
	require.NoError(t, json.Unmarshal([]byte(`{}`), decodedAbsent.Interface()))
	assert.True(t, decodedAbsent.Elem().Field(0).IsNil())

	decodedZero := reflect.New(typ)
	require.NoError(t, json.Unmarshal([]byte(`{"premultipliedAlpha":false}`), decodedZero.Interface()))
	require.False(t, decodedZero.Elem().Field(0).IsNil())
	assert.False(t, decodedZero.Elem().Field(0).Elem().Bool())
}

func TestWriteDictionaryFields(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))
	d := parseGenerated(t, src)

	spec := d.types["WebGLContextAttributes"]
	require.NotNil(t, spec)

	got := map[string]string{}
	for _, f := range spec.Type.(*ast.StructType).Fields.List {
		got[f.Names[0].Name] = exprString(t, src, f.Type) + " " + f.Tag.Value
	}
	assert.Equal(t, map[string]string{
		"Alpha":           "*bool `json:\"alpha,omitempty\"`",
		"Depth":           "bool `json:\"depth\"`",
		"PowerPreference": "*WebGLPowerPreference `json:\"powerPreference,omitempty\"`",
	}, got)

	assert.Contains(t, d.funcs, "WebGLContextAttributes.JSValue")
	assert.Contains(t, d.funcs, "WebGLContextAttributes.fromJS")
}

func TestWriteSkipsHiddenDefinitions(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))
	d := parseGenerated(t, src)

	assert.NotContains(t, d.types, "HiddenDictionary")
	assert.NotContains(t, d.types, "WebGLObject")
	assert.NotContains(t, src, "broken")
}

func TestWriteInterfaceMembers(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))
	d := parseGenerated(t, src)

	for _, fn := range []string{
		"WebGLRenderingContext.JSValue",
		"WebGLRenderingContext.fromJS",
		"WebGLRenderingContext.DrawingBufferWidth",
		"WebGLRenderingContext.UnpackFlip",
		"WebGLRenderingContext.SetUnpackFlip",
		"WebGLRenderingContext.GetError",
		"WebGLRenderingContext.CreateBuffer",
		"WebGLRenderingContext.BufferData",
		"WebGLRenderingContext.BlendFunc",
		"WebGLRenderingContext.Uniform2f",
		"WebGLRenderingContext.GetContextAttributes",
		"WebGLRenderingContextBufferData_1",
		"WebGLRenderingContextSetDebugPixels",
		"WebGLRenderingContextOnLost",
		"WebGLRenderingContextGetExtension",
		"WebGLRenderingContextFromCanvas",
		"GLContext.BufferData",
		"GLContextBufferData_1",
		"WEBGL_lose_context.LoseContext",
	} {
		assert.Contains(t, d.funcs, fn)
	}

	assert.NotContains(t, d.funcs, "WebGLRenderingContext.DebugPixels", "write-only attribute has no getter")
	assert.NotContains(t, d.funcs, "WebGLRenderingContext.SetDrawingBufferWidth", "read-only attribute has no setter")
	assert.NotContains(t, d.funcs, "GLContextFromCanvas")
	assert.NotContains(t, d.funcs, "WebGLRenderingContext.GetExtension")

	assert.Contains(t, d.values, "WebGLRenderingContext_DEPTH_BUFFER_BIT")
	assert.Contains(t, d.values, "GLContext_DEPTH_BUFFER_BIT")
}

func TestWriteOperationBodies(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))

	assert.Contains(t, src, "// Allocates size bytes of storage.\n"+
		"func (w WebGLRenderingContext) BufferData(target GLenum, size GLsizeiptr, usage GLenum) {\n"+
		"\tw.ref.Call(\"bufferData\", jsArgs(target, float64(size), usage)...)\n}")
	assert.Contains(t, src,
		"func WebGLRenderingContextBufferData_1[T0 AsTypedArray[float32]](w WebGLRenderingContext, target GLenum, srcData T0, usage GLenum) {\n"+
			"\tw.ref.Call(\"bufferData\", jsArgs(target, unsafeTypedArray[float32](srcData), usage)...)\n}")
	assert.Contains(t, src,
		"func (w WebGLRenderingContext) GetError() GLenum {\n\treturn mustConvert[uint32](w.ref.Call(\"getError\"))\n}")
	assert.Contains(t, src,
		"func (w WebGLRenderingContext) CreateBuffer() *WebGLBuffer {\n\treturn tryConvert[WebGLBuffer](w.ref.Call(\"createBuffer\"))\n}")
	assert.Contains(t, src,
		"func WebGLRenderingContextOnLost[F0 Callback](w WebGLRenderingContext, callback F0) {\n"+
			"\tw.ref.Call(\"onLost\", jsArgs(once(callback))...)\n}")
	assert.Contains(t, src,
		"func WebGLRenderingContextSetDebugPixels[T0 AsTypedArray[uint8]](w WebGLRenderingContext, value T0) {\n"+
			"\tw.ref.Set(\"debugPixels\", toJS(unsafeTypedArray[uint8](value)))\n}")
	assert.Contains(t, src, "func (w WebGLRenderingContext) BlendFunc(sfactor BlendFactor, type_ BlendFactor) {")
	assert.Contains(t, src, "func (w WebGLRenderingContext) Uniform2f(x float32, w_ float32) {")
	assert.Contains(t, src, "const WebGLRenderingContext_DEPTH_BUFFER_BIT GLenum = 0x00000100")
}

func TestWriteInstanceChecks(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))

	assert.Contains(t, src, "func (g *GLContext) fromJS(val js.Value) bool {\n"+
		"\tif !instanceOfAny(val, \"WebGLRenderingContext\", \"WebGL2RenderingContext\") {")
	assert.Contains(t, src, "if !instanceOfAny(val, \"WebGLBuffer\") {")
	assert.Contains(t, src, "func (w *WEBGL_lose_context) fromJS(val js.Value) bool {\n\tif !isPresent(val) {")
	assert.Contains(t, src, "canvas.ref.Call(\"getContext\", \"webgl\")")
}

func TestWriteProbeYieldsAbsentForUnsupportedExtensions(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))
	d := parseGenerated(t, src)

	for _, iface := range []string{"WebGLRenderingContext", "GLContext"} {
		fn := d.funcs[iface+"GetExtension"]
		require.NotNil(t, fn, iface)

		require.NotNil(t, fn.Type.TypeParams)
		assert.Len(t, fn.Type.TypeParams.List, 2)
		assert.Equal(t, "Extension[E]", exprString(t, src, fn.Type.TypeParams.List[1].Type))
		require.Len(t, fn.Type.Results.List, 2)
		assert.Equal(t, "bool", exprString(t, src, fn.Type.Results.List[1].Type))

		body := exprString(t, src, fn.Body)
		assert.Contains(t, body, "var zero E\n\t\treturn zero, false")
		assert.Contains(t, body, `Call("getExtension", P(&ext).ExtensionName())`)
	}
}

func TestWriteExtensionMarkers(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))
	d := parseGenerated(t, src)

	// Not an interface in the registry: a marker type is declared.
	assert.Contains(t, d.types, "OES_texture_float")
	assert.Contains(t, d.funcs, "OES_texture_float.fromJS")
	assert.Contains(t, src, `func (OES_texture_float) ExtensionName() string { return "OES_texture_float" }`)

	// Already an interface: only the name is attached.
	assert.Contains(t, src, `func (WEBGL_lose_context) ExtensionName() string { return "WEBGL_lose_context" }`)
	assert.Equal(t, 1, strings.Count(src, "type WEBGL_lose_context struct"))
}

func TestWriteIsDeterministic(t *testing.T) {
	first, err := New(sampleRegistry(t), Options{}).Generate()
	require.NoError(t, err)
	second, err := New(sampleRegistry(t), Options{}).Generate()
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestWriteHeaderOptions(t *testing.T) {
	opts := Options{
		Package:   "gl",
		Generator: "webglgen v0.3.0",
		Source: SourceInfo{
			Version:      "abc1234",
			LastModified: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	src := writeRaw(t, New(sampleRegistry(t), opts))

	assert.Contains(t, src, "// Generator: webglgen v0.3.0\n")
	assert.Contains(t, src, "// Source version: abc1234\n")
	assert.Contains(t, src, "// Source last modified: 2026-03-01T12:00:00Z\n")
	assert.Contains(t, src, "// Registry: callbacks=1 dictionaries=2")
	assert.Contains(t, src, "\npackage gl\n")
	assert.NotContains(t, src, "//go:build")

	bare := writeRaw(t, New(sampleRegistry(t), Options{}))
	assert.NotContains(t, bare, "// Generator:")
}

func TestWriteCustomContextAndProbe(t *testing.T) {
	types := sampleTypes()
	types["WebGLRenderingContextBase"].(*idl.Mixin).Members["requestExtension"] = []idl.Member{
		&idl.Operation{Args: []idl.Arg{{Name: "name", Type: idl.Of(idl.String)}}},
	}
	r := mustRegistry(t, types)

	opts := DefaultOptions()
	opts.ContextInterface = "WebGLRenderingContext"
	opts.ContextClasses = []string{"WebGL2RenderingContext"}
	opts.ProbeOperation = "requestExtension"
	src := writeRaw(t, New(r, opts))
	d := parseGenerated(t, src)

	assert.Contains(t, src, "func (w *WebGLRenderingContext) fromJS(val js.Value) bool {\n"+
		"\tif !instanceOfAny(val, \"WebGL2RenderingContext\") {")
	assert.Contains(t, src, "func (g *GLContext) fromJS(val js.Value) bool {\n\tif !isPresent(val) {")
	assert.Contains(t, d.funcs, "WebGLRenderingContextRequestExtension")
	assert.Contains(t, d.funcs, "WebGLRenderingContext.GetExtension")
}

func TestWriteMixinUsedAsTypeAborts(t *testing.T) {
	types := sampleTypes()
	types["Broken"] = &idl.Interface{Name: "Broken", Members: map[string][]idl.Member{
		"use": {&idl.Operation{Args: []idl.Arg{{Name: "m", Type: idl.NamedRef("WebGLRenderingContextBase")}}}},
	}}
	r := mustRegistry(t, types)

	var buf bytes.Buffer
	err := New(r, Options{}).Write(&buf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMixinAsType))
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "interface Broken")
	assert.NotContains(t, buf.String(), "type Broken struct")
}

func TestWriteDictionaryRejectsNonJSONFields(t *testing.T) {
	tests := []struct {
		name  string
		field idl.Type
	}{
		{"interface handle", idl.NamedRef("WebGLBuffer")},
		{"optional handle", idl.NamedRef("WebGLBuffer").AsOptional()},
		{"typed array", idl.Of(idl.TypedArray{Elem: idl.F32})},
		{"typedef to typed array", idl.NamedRef("Float32Array")},
		{"array buffer", idl.Of(idl.ArrayBuffer)},
		{"any", idl.Of(idl.Any)},
		{"canvas", idl.Of(idl.CanvasElement)},
		{"sequence of handles", idl.Of(idl.Sequence{Elem: idl.NamedRef("WebGLBuffer")})},
		{"union", idl.NamedRef("Float32List")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types := sampleTypes()
			types["WebGLBuffer"] = &idl.Interface{Name: "WebGLBuffer", HasClass: true}
			types["Float32Array"] = &idl.Typedef{Type: idl.Of(idl.TypedArray{Elem: idl.F32})}
			types["Broken"] = &idl.Dictionary{Fields: map[string]idl.Field{"held": {Type: tt.field}}}

			err := New(mustRegistry(t, types), Options{}).Write(&bytes.Buffer{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrUnsupportedField))
			assert.True(t, errors.IsConfigurationError(err))
			assert.Contains(t, err.Error(), "dictionary Broken")
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}

func TestWriteDictionaryAcceptsJSONFields(t *testing.T) {
	types := sampleTypes()
	types["Nested"] = &idl.Dictionary{Fields: map[string]idl.Field{
		"label":  {Type: idl.Of(idl.String)},
		"mode":   {Type: idl.NamedRef("WebGLPowerPreference").AsOptional()},
		"inner":  {Type: idl.NamedRef("WebGLContextAttributes").AsOptional()},
		"counts": {Type: idl.Of(idl.Sequence{Elem: idl.NamedRef("GLenum")})},
	}}

	_, err := New(mustRegistry(t, types), Options{}).Generate()
	require.NoError(t, err)
}

func TestArgumentTraceNeedsTraceVerbosity(t *testing.T) {
	prevLogger, prevVerbosity := logger.Logger, logger.Verbosity
	t.Cleanup(func() {
		logger.Logger = prevLogger
		logger.Verbosity = prevVerbosity
	})

	core, logs := observer.New(zapcore.DebugLevel)
	logger.Logger = zap.New(core).Sugar()

	logger.Verbosity = logger.VerbosityDebug
	writeRaw(t, New(sampleRegistry(t), Options{}))
	assert.Zero(t, logs.FilterMessage("resolved argument").Len(), "-vv stays at one line per declaration group")
	assert.NotZero(t, logs.FilterMessage("dictionary").Len())

	logger.Verbosity = logger.VerbosityTrace
	writeRaw(t, New(sampleRegistry(t), Options{}))
	traced := logs.FilterMessage("resolved argument").All()
	require.NotEmpty(t, traced)
	assert.Equal(t, "bindgen", traced[0].LoggerName)
}

func TestRuntimeToJSPassesNilPointersAsNull(t *testing.T) {
	src := writeRaw(t, New(sampleRegistry(t), Options{}))
	d := parseGenerated(t, src)

	toJS := d.funcs["toJS"]
	require.NotNil(t, toJS)
	first, ok := toJS.Body.List[0].(*ast.IfStmt)
	require.True(t, ok, "toJS must handle nil pointers before dispatching on jsValuer")
	cond := exprString(t, src, first.Cond)
	assert.Contains(t, cond, "reflect.Pointer")
	assert.Contains(t, cond, "IsNil()")
}

type failingWriter struct {
	failAt int
	writes int
	err    error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes >= w.failAt {
		return 0, w.err
	}
	return len(p), nil
}

func TestWritePropagatesSinkErrorsVerbatim(t *testing.T) {
	for _, failAt := range []int{1, 2, 5} {
		sinkErr := errors.New("disk full")
		w := &failingWriter{failAt: failAt, err: sinkErr}

		err := New(sampleRegistry(t), Options{}).Write(w)
		assert.Equal(t, sinkErr, err, "write %d", failAt)
		assert.False(t, errors.IsConfigurationError(err))
	}
}
