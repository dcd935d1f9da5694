package bindgen

import (
	"strconv"
	"strings"
)

// GenericContext allocates type parameters and their bounds for one
// generated function. Create a fresh context per operation or accessor.
type GenericContext struct {
	params      []string
	taken       map[string]bool
	constraints []constraint
}

type constraint struct {
	param string
	bound string
}

// NewGenericContext returns an empty context.
func NewGenericContext() *GenericContext {
	return &GenericContext{taken: make(map[string]bool)}
}

// Arg allocates a unique parameter name by appending 0, 1, ... to desired.
func (gc *GenericContext) Arg(desired string) string {
	for i := 0; ; i++ {
		name := desired + strconv.Itoa(i)
		if !gc.taken[name] {
			gc.taken[name] = true
			gc.params = append(gc.params, name)
			return name
		}
	}
}

// Constrain records that param must satisfy bound. Order is kept and
// duplicates are not removed.
func (gc *GenericContext) Constrain(param, bound string) {
	gc.constraints = append(gc.constraints, constraint{param: param, bound: bound})
}

// IsEmpty reports whether nothing was allocated.
func (gc *GenericContext) IsEmpty() bool {
	return len(gc.params) == 0
}

// Names renders the bare parameter list, "[T0, F0]", or "" when empty.
func (gc *GenericContext) Names() string {
	if gc.IsEmpty() {
		return ""
	}
	return "[" + strings.Join(gc.params, ", ") + "]"
}

// TypeParams renders the declaration form with every bound inline,
// "[T0 AsTypedArray[float32], F0 Callback]". A parameter with no bound gets
// any; one with several gets an interface embedding all of them.
func (gc *GenericContext) TypeParams() string {
	if gc.IsEmpty() {
		return ""
	}

	parts := make([]string, len(gc.params))
	for i, param := range gc.params {
		parts[i] = param + " " + gc.boundOf(param)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Constraints returns "param bound" strings in the order they were added.
func (gc *GenericContext) Constraints() []string {
	out := make([]string, len(gc.constraints))
	for i, c := range gc.constraints {
		out[i] = c.param + " " + c.bound
	}
	return out
}

func (gc *GenericContext) boundOf(param string) string {
	var bounds []string
	for _, c := range gc.constraints {
		if c.param == param {
			bounds = append(bounds, c.bound)
		}
	}

	switch len(bounds) {
	case 0:
		return "any"
	case 1:
		return bounds[0]
	default:
		return "interface{ " + strings.Join(bounds, "; ") + " }"
	}
}
