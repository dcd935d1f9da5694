package bindgen

import (
	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/idl"
)

// collapseUnion picks the single typed-array variant of u. Sequence variants
// are dropped; any other shape is rejected because unions get no general
// sum-type marshalling.
func collapseUnion(u idl.Union) (idl.Type, error) {
	var picked *idl.Type
	for i, v := range u.Variants {
		switch v.Kind.(type) {
		case idl.TypedArray:
			if picked != nil {
				return idl.Type{}, unsupportedUnion(u, "more than one typed array variant")
			}
			picked = &u.Variants[i]
		case idl.Sequence:
		default:
			return idl.Type{}, unsupportedUnion(u, "variant "+v.String()+" is neither a typed array nor a sequence")
		}
	}
	if picked == nil {
		return idl.Type{}, unsupportedUnion(u, "no typed array variant")
	}
	return *picked, nil
}

func unsupportedUnion(u idl.Union, reason string) error {
	return errors.WithHint(
		errors.Configf(errors.ErrUnsupportedUnion, "%s: %s", u, reason),
		"only unions of one typed array and sequences of its elements are supported",
	)
}
