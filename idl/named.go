package idl

// NamedType is a definition the registry can resolve by name.
type NamedType interface {
	isNamedType()
	// KindName is used in diagnostics ("interface", "typedef", ...).
	KindName() string
}

// Dictionary is a WebIDL dictionary.
type Dictionary struct {
	Hidden   bool
	Inherits string
	Fields   map[string]Field
}

// Field is one dictionary member. A field that is not Required and whose
// type is not already optional is treated as optional by the loader.
type Field struct {
	Type     Type
	Required bool
}

// Interface is a WebIDL interface.
type Interface struct {
	Name string
	Doc  string
	// Hidden interfaces are known to the registry but produce no output.
	Hidden bool
	// HasClass means the runtime exposes a global constructor of this name,
	// so instanceof checks are meaningful.
	HasClass bool
	// RenderingContext is the canvas getContext() tag, e.g. "webgl2".
	RenderingContext string
	Inherits         string
	Mixins           []string
	Members          map[string][]Member
}

// Enum is a WebIDL enum; Variants are raw wire tags in declaration order.
type Enum struct {
	Variants []string
}

// Typedef aliases another type.
type Typedef struct {
	Type Type
}

// Callback is a callback function type.
type Callback struct {
	Args   []Arg
	Return *Type
}

// Mixin is an interface mixin. It contributes members to interfaces that
// include it and is never a legal type.
type Mixin struct {
	Members map[string][]Member
}

func (*Dictionary) isNamedType() {}
func (*Interface) isNamedType()  {}
func (*Enum) isNamedType()       {}
func (*Typedef) isNamedType()    {}
func (*Callback) isNamedType()   {}
func (*Mixin) isNamedType()      {}

func (*Dictionary) KindName() string { return "dictionary" }
func (*Interface) KindName() string  { return "interface" }
func (*Enum) KindName() string       { return "enum" }
func (*Typedef) KindName() string    { return "typedef" }
func (*Callback) KindName() string   { return "callback" }
func (*Mixin) KindName() string      { return "mixin" }

// Member is one interface member. Several operations may share a name
// (overloads); consts and attributes never do.
type Member interface {
	isMember()
}

// Const is a constant with a literal value in host syntax.
type Const struct {
	Type  Type
	Value string
}

// Attribute is a property with an optional getter and setter.
type Attribute struct {
	Type   Type
	Getter bool
	Setter bool
}

// Operation is a method. Return is nil for undefined/void.
type Operation struct {
	Args   []Arg
	Return *Type
	Doc    string
}

// Arg is a named operation or callback argument.
type Arg struct {
	Name string
	Type Type
}

func (*Const) isMember()     {}
func (*Attribute) isMember() {}
func (*Operation) isMember() {}

// AsTypedef and friends select one variant; they are the predicates used
// with Iter.
func AsTypedef(n NamedType) (*Typedef, bool) {
	t, ok := n.(*Typedef)
	return t, ok
}

func AsEnum(n NamedType) (*Enum, bool) {
	e, ok := n.(*Enum)
	return e, ok
}

func AsDictionary(n NamedType) (*Dictionary, bool) {
	d, ok := n.(*Dictionary)
	return d, ok
}

func AsInterface(n NamedType) (*Interface, bool) {
	i, ok := n.(*Interface)
	return i, ok
}

func AsCallback(n NamedType) (*Callback, bool) {
	c, ok := n.(*Callback)
	return c, ok
}

func AsMixin(n NamedType) (*Mixin, bool) {
	m, ok := n.(*Mixin)
	return m, ok
}
