package loader

import (
	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/idl"
)

// Document is the on-disk form of a registry. YAML, JSON and TOML
// encodings share these field names.
type Document struct {
	Format       string                   `yaml:"format" toml:"format"`
	Extensions   []string                 `yaml:"extensions" toml:"extensions"`
	Typedefs     map[string]TypeExpr      `yaml:"typedefs" toml:"typedefs"`
	Enums        map[string][]string      `yaml:"enums" toml:"enums"`
	Dictionaries map[string]DictionaryDoc `yaml:"dictionaries" toml:"dictionaries"`
	Callbacks    map[string]CallbackDoc   `yaml:"callbacks" toml:"callbacks"`
	Mixins       map[string]MixinDoc      `yaml:"mixins" toml:"mixins"`
	Interfaces   map[string]InterfaceDoc  `yaml:"interfaces" toml:"interfaces"`
}

type DictionaryDoc struct {
	Inherits string              `yaml:"inherits" toml:"inherits"`
	Hidden   bool                `yaml:"hidden" toml:"hidden"`
	Fields   map[string]FieldDoc `yaml:"fields" toml:"fields"`
}

type FieldDoc struct {
	Type     TypeExpr `yaml:"type" toml:"type"`
	Required bool     `yaml:"required" toml:"required"`
}

type CallbackDoc struct {
	Args    []ArgDoc `yaml:"args" toml:"args"`
	Returns TypeExpr `yaml:"returns" toml:"returns"`
}

type MixinDoc struct {
	Members []MemberDoc `yaml:"members" toml:"members"`
}

type InterfaceDoc struct {
	Doc              string      `yaml:"doc" toml:"doc"`
	Hidden           bool        `yaml:"hidden" toml:"hidden"`
	HasClass         bool        `yaml:"has_class" toml:"has_class"`
	RenderingContext string      `yaml:"rendering_context" toml:"rendering_context"`
	Inherits         string      `yaml:"inherits" toml:"inherits"`
	Includes         []string    `yaml:"includes" toml:"includes"`
	Members          []MemberDoc `yaml:"members" toml:"members"`
}

// MemberDoc is one const, attribute or operation. Several operation
// entries with the same name are overloads, kept in document order.
type MemberDoc struct {
	Kind     string   `yaml:"kind" toml:"kind"`
	Name     string   `yaml:"name" toml:"name"`
	Type     TypeExpr `yaml:"type" toml:"type"`
	Value    string   `yaml:"value" toml:"value"`
	Readonly bool     `yaml:"readonly" toml:"readonly"`
	Args     []ArgDoc `yaml:"args" toml:"args"`
	Returns  TypeExpr `yaml:"returns" toml:"returns"`
	Doc      string   `yaml:"doc" toml:"doc"`
}

type ArgDoc struct {
	Name string   `yaml:"name" toml:"name"`
	Type TypeExpr `yaml:"type" toml:"type"`
}

// Member kinds.
const (
	KindConst     = "const"
	KindAttribute = "attribute"
	KindOperation = "operation"
)

// Registry converts the document into an idl.Registry. Every name must be
// defined once across all sections.
func (d *Document) Registry() (*idl.Registry, error) {
	types := make(map[string]idl.NamedType)
	add := func(name string, t idl.NamedType) error {
		if _, dup := types[name]; dup {
			return errors.Configf(errors.ErrInvalidRegistry, "%q is defined more than once", name)
		}
		types[name] = t
		return nil
	}

	for name, expr := range d.Typedefs {
		if !expr.Set {
			return nil, errors.Configf(errors.ErrInvalidRegistry, "typedef %q has no type", name)
		}
		if err := add(name, &idl.Typedef{Type: expr.Type}); err != nil {
			return nil, err
		}
	}
	for name, variants := range d.Enums {
		if err := add(name, &idl.Enum{Variants: variants}); err != nil {
			return nil, err
		}
	}
	for name, doc := range d.Dictionaries {
		fields := make(map[string]idl.Field, len(doc.Fields))
		for fname, f := range doc.Fields {
			if !f.Type.Set {
				return nil, errors.Configf(errors.ErrInvalidRegistry, "field %s.%s has no type", name, fname)
			}
			t := f.Type.Type
			if !f.Required {
				t = t.AsOptional()
			}
			fields[fname] = idl.Field{Type: t, Required: f.Required}
		}
		if err := add(name, &idl.Dictionary{Hidden: doc.Hidden, Inherits: doc.Inherits, Fields: fields}); err != nil {
			return nil, err
		}
	}
	for name, doc := range d.Callbacks {
		args, err := convertArgs(name, doc.Args)
		if err != nil {
			return nil, err
		}
		if err := add(name, &idl.Callback{Args: args, Return: doc.Returns.Ptr()}); err != nil {
			return nil, err
		}
	}
	for name, doc := range d.Mixins {
		members, err := convertMembers(name, doc.Members)
		if err != nil {
			return nil, err
		}
		if err := add(name, &idl.Mixin{Members: members}); err != nil {
			return nil, err
		}
	}
	for name, doc := range d.Interfaces {
		members, err := convertMembers(name, doc.Members)
		if err != nil {
			return nil, err
		}
		iface := &idl.Interface{
			Name:             name,
			Doc:              doc.Doc,
			Hidden:           doc.Hidden,
			HasClass:         doc.HasClass,
			RenderingContext: doc.RenderingContext,
			Inherits:         doc.Inherits,
			Mixins:           doc.Includes,
			Members:          members,
		}
		if err := add(name, iface); err != nil {
			return nil, err
		}
	}

	return idl.NewRegistry(types, d.Extensions)
}

func convertArgs(owner string, docs []ArgDoc) ([]idl.Arg, error) {
	args := make([]idl.Arg, len(docs))
	for i, a := range docs {
		if !a.Type.Set {
			return nil, errors.Configf(errors.ErrInvalidRegistry, "%s: argument %q has no type", owner, a.Name)
		}
		args[i] = idl.Arg{Name: a.Name, Type: a.Type.Type}
	}
	return args, nil
}

func convertMembers(owner string, docs []MemberDoc) (map[string][]idl.Member, error) {
	members := make(map[string][]idl.Member)
	for _, m := range docs {
		if m.Name == "" {
			return nil, errors.Configf(errors.ErrInvalidRegistry, "%s: member without a name", owner)
		}
		qualified := owner + "." + m.Name

		var member idl.Member
		switch m.Kind {
		case KindConst:
			if !m.Type.Set || m.Value == "" {
				return nil, errors.Configf(errors.ErrInvalidRegistry, "constant %s needs a type and a value", qualified)
			}
			member = &idl.Const{Type: m.Type.Type, Value: m.Value}
		case KindAttribute:
			if !m.Type.Set {
				return nil, errors.Configf(errors.ErrInvalidRegistry, "attribute %s has no type", qualified)
			}
			member = &idl.Attribute{Type: m.Type.Type, Getter: true, Setter: !m.Readonly}
		case KindOperation:
			args, err := convertArgs(qualified, m.Args)
			if err != nil {
				return nil, err
			}
			member = &idl.Operation{Args: args, Return: m.Returns.Ptr(), Doc: m.Doc}
		default:
			return nil, errors.WithHint(
				errors.Configf(errors.ErrInvalidRegistry, "%s has unknown kind %q", qualified, m.Kind),
				"kind must be const, attribute or operation",
			)
		}
		members[m.Name] = append(members[m.Name], member)
	}
	return members, nil
}
