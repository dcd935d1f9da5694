package bindgen

import (
	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/idl"
)

// ResultWrapper is the conversion applied to a JavaScript value coming back
// into Go.
type ResultWrapper uint8

const (
	// Strict treats a failed conversion as a bug and panics.
	Strict ResultWrapper = iota
	// Lenient yields nil when the conversion fails.
	Lenient
)

func (w ResultWrapper) String() string {
	if w == Lenient {
		return "lenient"
	}
	return "strict"
}

// Result is a resolved result type. Type is what the generated code declares;
// Elem is the type the conversion targets, which differs from Type for
// optional results (*Elem) and aliases.
type Result struct {
	Type     string
	Elem     string
	Wrapper  ResultWrapper
	Optional bool
}

func simpleResult(typ string) Result {
	return Result{Type: typ, Elem: typ, Wrapper: Strict}
}

// Wrap renders the conversion of the js.Value expression expr.
func (res Result) Wrap(expr string) string {
	if res.Wrapper == Lenient {
		return "tryConvert[" + res.Elem + "](" + expr + ")"
	}
	return "mustConvert[" + res.Elem + "](" + expr + ")"
}

// ResolveResult maps t to the Go type a getter or operation returns.
// Optional types become pointers converted leniently.
func ResolveResult(t idl.Type, r *idl.Registry) (Result, error) {
	res, err := resolveResultKind(t.Kind, r)
	if err != nil {
		return Result{}, err
	}
	if t.Optional && !res.Optional {
		res.Type = "*" + res.Type
		res.Wrapper = Lenient
		res.Optional = true
	}
	return res, nil
}

func resolveResultKind(kind idl.TypeKind, r *idl.Registry) (Result, error) {
	switch k := kind.(type) {
	case idl.Primitive:
		return simpleResult(k.Name()), nil

	case idl.Builtin:
		switch k {
		case idl.String:
			return simpleResult("string"), nil
		case idl.ArrayBuffer, idl.ArrayBufferView:
			return simpleResult("ArrayBuffer"), nil
		case idl.CanvasElement:
			return simpleResult("CanvasElement"), nil
		case idl.Any, idl.Object:
			return simpleResult("js.Value"), nil
		case idl.BufferSource:
			return Result{}, noResultMapping(k.String())
		}

	case idl.TypedArray:
		return simpleResult("TypedArray[" + k.Elem.Name() + "]"), nil

	case idl.Sequence:
		inner, err := ResolveResult(k.Elem, r)
		if err != nil {
			return Result{}, err
		}
		return simpleResult("[]" + inner.Type), nil

	case idl.Union:
		variant, err := collapseUnion(k)
		if err != nil {
			return Result{}, err
		}
		return ResolveResult(variant, r)

	case idl.Named:
		return resolveNamedResult(k, r)
	}

	return Result{}, errors.Configf(errors.ErrInvalidRegistry, "unknown type kind %T", kind)
}

func resolveNamedResult(n idl.Named, r *idl.Registry) (Result, error) {
	def, err := r.Resolve(n.Name)
	if err != nil {
		return Result{}, err
	}

	switch d := def.(type) {
	case *idl.Dictionary, *idl.Interface, *idl.Enum:
		return simpleResult(n.Name), nil
	case *idl.Typedef:
		// The alias keeps its own name; how the value converts comes from
		// what it aliases.
		inner, err := ResolveResult(d.Type, r)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Type:     n.Name,
			Elem:     inner.Elem,
			Wrapper:  inner.Wrapper,
			Optional: inner.Optional,
		}, nil
	case *idl.Callback:
		return Result{}, noResultMapping("callback " + n.Name)
	case *idl.Mixin:
		return Result{}, mixinAsType(n.Name)
	}

	return Result{}, errors.Configf(errors.ErrInvalidRegistry, "%q has unknown definition %T", n.Name, def)
}

func noResultMapping(what string) error {
	return errors.WithHint(
		errors.Configf(errors.ErrNoResultMapping, "%s", what),
		"this kind can only be passed into the API, never returned from it",
	)
}
