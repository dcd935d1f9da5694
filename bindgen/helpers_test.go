package bindgen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teranos/webglgen/idl"
)

func mustRegistry(t *testing.T, types map[string]idl.NamedType, exts ...string) *idl.Registry {
	t.Helper()
	r, err := idl.NewRegistry(types, exts)
	require.NoError(t, err)
	return r
}

func float32List() idl.Type {
	return idl.Of(idl.Union{Variants: []idl.Type{
		idl.Of(idl.TypedArray{Elem: idl.F32}),
		idl.Of(idl.Sequence{Elem: idl.NamedRef("GLfloat")}),
	}})
}

// typeRegistry holds one definition of every named kind.
func typeRegistry(t *testing.T) *idl.Registry {
	return mustRegistry(t, map[string]idl.NamedType{
		"GLenum":               &idl.Typedef{Type: idl.Of(idl.U32)},
		"GLfloat":              &idl.Typedef{Type: idl.Of(idl.F32)},
		"GLint64":              &idl.Typedef{Type: idl.Of(idl.I64)},
		"Float32List":          &idl.Typedef{Type: float32List()},
		"MaybeFloat":           &idl.Typedef{Type: idl.Of(idl.F32).AsOptional()},
		"MaybeBuffer":          &idl.Typedef{Type: idl.NamedRef("WebGLBuffer").AsOptional()},
		"WebGLBuffer":          &idl.Interface{Name: "WebGLBuffer", HasClass: true},
		"BlendFactor":          &idl.Enum{Variants: []string{"ZERO", "ONE"}},
		"FrameRequestCallback": &idl.Callback{},
		"WebGLContextAttributes": &idl.Dictionary{Fields: map[string]idl.Field{
			"alpha": {Type: idl.Of(idl.Bool).AsOptional()},
		}},
		"WebGLRenderingContextBase": &idl.Mixin{},
	})
}
