package bindgen

import (
	"strings"

	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/idl"
)

// ArgWrapper is the conversion applied to an argument on its way from Go
// into the JavaScript call.
type ArgWrapper interface {
	// Wrap renders the Go expression converting expr.
	Wrap(expr string) string
	isArgWrapper()
}

type (
	// WrapNone passes the value through; toJS handles the rest.
	WrapNone struct{}

	// WrapTypedArray presents a slice or TypedArray as a JavaScript typed
	// array. Slices are copied from Go memory, which must stay valid and
	// correctly typed for the call.
	WrapTypedArray struct{ Elem string }

	// WrapArrayBufferView is WrapTypedArray for any element type.
	WrapArrayBufferView struct{}

	// WrapOptional applies Inner only when the pointer is non-nil.
	// Elem is the Go type Inner receives.
	WrapOptional struct {
		Inner ArgWrapper
		Elem  string
	}

	// WrapSequence applies Inner to every element of a slice.
	WrapSequence struct {
		Inner ArgWrapper
		Elem  string
	}

	// WrapDoubleCast widens a 64-bit integer to float64; the interop layer
	// has no lossless 64-bit integer.
	WrapDoubleCast struct{}

	// WrapOnce turns a Go func into a js.Func released after its first call.
	WrapOnce struct{}
)

func (WrapNone) Wrap(expr string) string { return expr }

func (w WrapTypedArray) Wrap(expr string) string {
	return "unsafeTypedArray[" + w.Elem + "](" + expr + ")"
}

func (WrapArrayBufferView) Wrap(expr string) string {
	return "unsafeArrayBufferView(" + expr + ")"
}

func (w WrapOptional) Wrap(expr string) string {
	return "mapOptional(" + expr + ", func(inner " + w.Elem + ") any { return " + w.Inner.Wrap("inner") + " })"
}

func (w WrapSequence) Wrap(expr string) string {
	return "mapSlice(" + expr + ", func(inner " + w.Elem + ") any { return " + w.Inner.Wrap("inner") + " })"
}

func (WrapDoubleCast) Wrap(expr string) string { return "float64(" + expr + ")" }
func (WrapOnce) Wrap(expr string) string       { return "once(" + expr + ")" }

func (WrapNone) isArgWrapper()            {}
func (WrapTypedArray) isArgWrapper()      {}
func (WrapArrayBufferView) isArgWrapper() {}
func (WrapOptional) isArgWrapper()        {}
func (WrapSequence) isArgWrapper()        {}
func (WrapDoubleCast) isArgWrapper()      {}
func (WrapOnce) isArgWrapper()            {}

// IsIdentity reports whether w leaves the value untouched.
func IsIdentity(w ArgWrapper) bool {
	_, ok := w.(WrapNone)
	return ok
}

// Arg is a resolved argument: the Go parameter type and the conversion
// applied at the call boundary.
type Arg struct {
	Type     string
	Wrapper  ArgWrapper
	Optional bool
}

func simpleArg(typ string) Arg {
	return Arg{Type: typ, Wrapper: WrapNone{}}
}

// ResolveArg maps t to a Go parameter type and marshalling strategy. Type
// parameters it needs are allocated in gc.
func ResolveArg(t idl.Type, r *idl.Registry, gc *GenericContext) (Arg, error) {
	arg, err := resolveArgKind(t.Kind, r, gc)
	if err != nil {
		return Arg{}, err
	}
	if t.Optional && !arg.Optional {
		arg = optionalArg(arg)
	}
	return arg, nil
}

// optionalArg makes arg nil-able. Pointer types already are, so only the
// flag changes for them.
func optionalArg(arg Arg) Arg {
	arg.Optional = true
	if strings.HasPrefix(arg.Type, "*") {
		return arg
	}
	if !IsIdentity(arg.Wrapper) {
		arg.Wrapper = WrapOptional{Inner: arg.Wrapper, Elem: arg.Type}
	}
	arg.Type = "*" + arg.Type
	return arg
}

func resolveArgKind(kind idl.TypeKind, r *idl.Registry, gc *GenericContext) (Arg, error) {
	display, flat, err := idl.Flatten(kind, r)
	if err != nil {
		return Arg{}, err
	}

	switch k := flat.(type) {
	case idl.Primitive:
		if k.IsWide() {
			return Arg{Type: display, Wrapper: WrapDoubleCast{}}, nil
		}
		return simpleArg(display), nil

	case idl.Builtin:
		switch k {
		case idl.String:
			return simpleArg("string"), nil
		case idl.ArrayBuffer, idl.BufferSource:
			return simpleArg("ArrayBuffer"), nil
		case idl.CanvasElement:
			return simpleArg("CanvasElement"), nil
		case idl.ArrayBufferView:
			param := gc.Arg("T")
			gc.Constrain(param, "AsArrayBufferView")
			return Arg{Type: param, Wrapper: WrapArrayBufferView{}}, nil
		case idl.Any, idl.Object:
			param := gc.Arg("T")
			gc.Constrain(param, "Serializable")
			return simpleArg(param), nil
		}

	case idl.TypedArray:
		elem := k.Elem.Name()
		param := gc.Arg("T")
		gc.Constrain(param, "AsTypedArray["+elem+"]")
		return Arg{Type: param, Wrapper: WrapTypedArray{Elem: elem}}, nil

	case idl.Sequence:
		inner, err := ResolveArg(k.Elem, r, gc)
		if err != nil {
			return Arg{}, err
		}
		arg := simpleArg("[]" + inner.Type)
		if !IsIdentity(inner.Wrapper) {
			arg.Wrapper = WrapSequence{Inner: inner.Wrapper, Elem: inner.Type}
		}
		return arg, nil

	case idl.Union:
		variant, err := collapseUnion(k)
		if err != nil {
			return Arg{}, err
		}
		return ResolveArg(variant, r, gc)

	case idl.Named:
		return resolveNamedArg(display, k, r, gc)
	}

	return Arg{}, errors.Configf(errors.ErrInvalidRegistry, "unknown type kind %T", flat)
}

func resolveNamedArg(display string, n idl.Named, r *idl.Registry, gc *GenericContext) (Arg, error) {
	def, err := r.Resolve(n.Name)
	if err != nil {
		return Arg{}, err
	}

	switch d := def.(type) {
	case *idl.Dictionary:
		return simpleArg("*" + display), nil
	case *idl.Interface, *idl.Enum:
		return simpleArg(display), nil
	case *idl.Typedef:
		// Only optional typedefs survive flattening. The alias cannot carry
		// the parameter type, so look through it.
		return ResolveArg(d.Type, r, gc)
	case *idl.Callback:
		param := gc.Arg("F")
		gc.Constrain(param, "Callback")
		return Arg{Type: param, Wrapper: WrapOnce{}}, nil
	case *idl.Mixin:
		return Arg{}, mixinAsType(n.Name)
	}

	return Arg{}, errors.Configf(errors.ErrInvalidRegistry, "%q has unknown definition %T", n.Name, def)
}

func mixinAsType(name string) error {
	return errors.WithHint(
		errors.Configf(errors.ErrMixinAsType, "%s", name),
		"reference the interface that includes the mixin instead",
	)
}
