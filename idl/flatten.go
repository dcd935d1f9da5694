package idl

// Flatten looks through transparent aliases to find the structural
// definition of kind.
//
// For a Primitive it returns the primitive's Go name and the primitive. For
// a Named reference to a non-optional typedef it recurses into the aliased
// type and returns the deeper kind with the outermost alias kept as the
// display name, so emitted code can still say GLenum where the structure is
// uint32. Optional typedefs stay opaque: their optionality cannot be seen
// through without changing every use. Every other kind returns an empty
// display name and itself.
//
// The registry's typedef graph must be acyclic; that is not checked here.
func Flatten(kind TypeKind, r *Registry) (string, TypeKind, error) {
	switch k := kind.(type) {
	case Primitive:
		return k.Name(), k, nil
	case Named:
		t, err := r.Resolve(k.Name)
		if err != nil {
			return "", nil, err
		}
		if td, ok := t.(*Typedef); ok && !td.Type.Optional {
			_, flat, err := Flatten(td.Type.Kind, r)
			if err != nil {
				return "", nil, err
			}
			return k.Name, flat, nil
		}
		return k.Name, k, nil
	default:
		return "", kind, nil
	}
}
