// Package idl models a resolved WebIDL-style registry: type references,
// named definitions, and the extension names a graphics API declares.
//
// Values in this package are built once by a loader and are read-only for
// the rest of generation. Type references form a tree: a Sequence or Union
// owns its sub-types by value, so no node is shared and no cycle exists.
package idl

import (
	"fmt"
	"strings"
)

// Type is a reference to a type, possibly optional.
//
// Optional types are the default in WebIDL, so optionality lives on the
// reference instead of being a kind of its own. That keeps "optional of
// optional" from ever being expressible.
type Type struct {
	Kind     TypeKind
	Optional bool
}

// AsOptional returns an optional view of t. It is idempotent.
func (t Type) AsOptional() Type {
	return Type{Kind: t.Kind, Optional: true}
}

// NamedRef builds a non-optional reference to a named definition.
func NamedRef(name string) Type {
	return Type{Kind: Named{Name: name}}
}

// Of builds a non-optional reference to kind.
func Of(kind TypeKind) Type {
	return Type{Kind: kind}
}

func (t Type) String() string {
	if t.Kind == nil {
		return "<nil>"
	}
	s := t.Kind.String()
	if t.Optional {
		s += "?"
	}
	return s
}

// TypeKind is the closed set of type shapes. The unexported method keeps
// implementations inside this package.
type TypeKind interface {
	isTypeKind()
	String() string
}

// Primitive is a WebIDL numeric or boolean type.
type Primitive uint8

const (
	Bool Primitive = iota
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	F32
	F64
)

var primitiveNames = [...]string{
	Bool: "bool",
	I8:   "int8",
	U8:   "uint8",
	I16:  "int16",
	U16:  "uint16",
	I32:  "int32",
	U32:  "uint32",
	I64:  "int64",
	U64:  "uint64",
	F32:  "float32",
	F64:  "float64",
}

// Name returns the Go representation of p.
func (p Primitive) Name() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Primitive(%d)", uint8(p))
}

// IsWide reports whether p is a 64-bit integer, which cannot cross the
// JavaScript boundary losslessly.
func (p Primitive) IsWide() bool {
	return p == I64 || p == U64
}

// Primitives lists every primitive in declaration order.
func Primitives() []Primitive {
	return []Primitive{Bool, I8, U8, I16, U16, I32, U32, I64, U64, F32, F64}
}

func (Primitive) isTypeKind()      {}
func (p Primitive) String() string { return p.Name() }

// Builtin covers the kinds that carry no payload.
type Builtin uint8

const (
	String Builtin = iota + 1
	ArrayBuffer
	ArrayBufferView
	BufferSource
	CanvasElement
	Any
	Object
)

var builtinNames = map[Builtin]string{
	String:          "DOMString",
	ArrayBuffer:     "ArrayBuffer",
	ArrayBufferView: "ArrayBufferView",
	BufferSource:    "BufferSource",
	CanvasElement:   "HTMLCanvasElement",
	Any:             "any",
	Object:          "object",
}

func (Builtin) isTypeKind() {}

func (b Builtin) String() string {
	if name, ok := builtinNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Builtin(%d)", uint8(b))
}

// TypedArray is a typed array view over Elem, e.g. Float32Array.
type TypedArray struct {
	Elem Primitive
}

func (TypedArray) isTypeKind() {}

func (a TypedArray) String() string {
	return "TypedArray<" + a.Elem.Name() + ">"
}

// Sequence is sequence<Elem>.
type Sequence struct {
	Elem Type
}

func (Sequence) isTypeKind() {}

func (s Sequence) String() string {
	return "sequence<" + s.Elem.String() + ">"
}

// Union is (A or B or ...), variants in declaration order.
type Union struct {
	Variants []Type
}

func (Union) isTypeKind() {}

func (u Union) String() string {
	parts := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, " or ") + ")"
}

// Named refers to a definition in the registry by identifier.
type Named struct {
	Name string
}

func (Named) isTypeKind()      {}
func (n Named) String() string { return n.Name }
