package idl

import (
	"iter"
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/webglgen/errors"
)

// Registry is the resolved, read-only collection of named definitions and
// declared extension names that generation consumes.
type Registry struct {
	types      map[string]NamedType
	Extensions []string
}

// NewRegistry builds a registry. Duplicate extension names are rejected;
// the map already guarantees unique type names.
func NewRegistry(types map[string]NamedType, extensions []string) (*Registry, error) {
	seen := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		if ext == "" {
			return nil, errors.Configf(errors.ErrInvalidRegistry, "empty extension name")
		}
		if seen[ext] {
			return nil, errors.Configf(errors.ErrInvalidRegistry, "extension %q declared twice", ext)
		}
		seen[ext] = true
	}

	copied := make(map[string]NamedType, len(types))
	for name, t := range types {
		if t == nil {
			return nil, errors.Configf(errors.ErrInvalidRegistry, "definition %q is nil", name)
		}
		copied[name] = t
	}

	return &Registry{
		types:      copied,
		Extensions: append([]string(nil), extensions...),
	}, nil
}

// Len returns the number of named definitions.
func (r *Registry) Len() int {
	return len(r.types)
}

// Resolve looks name up. A missing name is a broken precondition and
// returns a configuration error.
func (r *Registry) Resolve(name string) (NamedType, error) {
	if t, ok := r.types[name]; ok {
		return t, nil
	}
	return nil, errors.WithHint(
		errors.Configf(errors.ErrUnresolvedName, "%q", name),
		"every named type referenced by the registry document must be defined in it",
	)
}

// Names returns all definition names in ascending order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Iter yields (name, T) for every definition pick accepts, in name order.
func Iter[T any](r *Registry, pick func(NamedType) (T, bool)) iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, name := range r.Names() {
			v, ok := pick(r.types[name])
			if !ok {
				continue
			}
			if !yield(name, v) {
				return
			}
		}
	}
}

func (r *Registry) Typedefs() iter.Seq2[string, *Typedef]        { return Iter(r, AsTypedef) }
func (r *Registry) Enums() iter.Seq2[string, *Enum]              { return Iter(r, AsEnum) }
func (r *Registry) Dictionaries() iter.Seq2[string, *Dictionary] { return Iter(r, AsDictionary) }
func (r *Registry) Interfaces() iter.Seq2[string, *Interface]    { return Iter(r, AsInterface) }
func (r *Registry) Callbacks() iter.Seq2[string, *Callback]      { return Iter(r, AsCallback) }
func (r *Registry) Mixins() iter.Seq2[string, *Mixin]            { return Iter(r, AsMixin) }

// HasExtension reports whether name is a declared extension.
func (r *Registry) HasExtension(name string) bool {
	for _, ext := range r.Extensions {
		if ext == name {
			return true
		}
	}
	return false
}

// MemberGroup is every member sharing one name after inheritance is applied.
type MemberGroup struct {
	Name    string
	Members []Member
}

// CollectMembers returns the members of iface merged with those of its
// ancestors and included mixins, sorted by name. Groups are applied from the
// root-most ancestor down; at each level mixins come before the interface's
// own members. A group declared closer to iface replaces the inherited group
// of the same name rather than adding overloads to it.
func (r *Registry) CollectMembers(iface *Interface) ([]MemberGroup, error) {
	chain, err := r.interfaceChain(iface)
	if err != nil {
		return nil, err
	}

	merged := make(map[string][]Member)
	for _, level := range chain {
		for _, mixinName := range level.Mixins {
			mixin, err := r.resolveMixin(level, mixinName)
			if err != nil {
				return nil, err
			}
			overlay(merged, mixin.Members)
		}
		overlay(merged, level.Members)
	}

	groups := make([]MemberGroup, 0, len(merged))
	for _, name := range sortedKeys(merged) {
		groups = append(groups, MemberGroup{Name: name, Members: merged[name]})
	}
	return groups, nil
}

// FieldEntry is one collected dictionary field.
type FieldEntry struct {
	Name  string
	Field Field
}

// CollectFields returns dict's fields merged with every inherited
// dictionary's fields, sorted by name. Local fields shadow inherited ones.
func (r *Registry) CollectFields(dict *Dictionary) ([]FieldEntry, error) {
	var chain []*Dictionary
	visited := make(map[*Dictionary]bool)
	for d := dict; d != nil; {
		if visited[d] {
			return nil, errors.Configf(errors.ErrInvalidRegistry, "dictionary inheritance cycle")
		}
		visited[d] = true
		chain = append(chain, d)

		if d.Inherits == "" {
			break
		}
		parent, err := r.Resolve(d.Inherits)
		if err != nil {
			return nil, errors.Wrap(err, "resolving inherited dictionary")
		}
		pd, ok := parent.(*Dictionary)
		if !ok {
			return nil, errors.Configf(errors.ErrInvalidRegistry,
				"dictionary inherits %q, which is a %s", d.Inherits, parent.KindName())
		}
		d = pd
	}

	merged := make(map[string]Field)
	for i := len(chain) - 1; i >= 0; i-- {
		for name, f := range chain[i].Fields {
			merged[name] = f
		}
	}

	entries := make([]FieldEntry, 0, len(merged))
	for _, name := range sortedKeys(merged) {
		entries = append(entries, FieldEntry{Name: name, Field: merged[name]})
	}
	return entries, nil
}

// interfaceChain returns iface and its ancestors, root-most first.
func (r *Registry) interfaceChain(iface *Interface) ([]*Interface, error) {
	var chain []*Interface
	visited := make(map[*Interface]bool)
	for cur := iface; cur != nil; {
		if visited[cur] {
			return nil, errors.Configf(errors.ErrInvalidRegistry,
				"interface inheritance cycle at %q", cur.Name)
		}
		visited[cur] = true
		chain = append(chain, cur)

		if cur.Inherits == "" {
			break
		}
		parent, err := r.Resolve(cur.Inherits)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving parent of %q", cur.Name)
		}
		pi, ok := parent.(*Interface)
		if !ok {
			return nil, errors.Configf(errors.ErrInvalidRegistry,
				"%q inherits %q, which is a %s", cur.Name, cur.Inherits, parent.KindName())
		}
		cur = pi
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

func (r *Registry) resolveMixin(iface *Interface, name string) (*Mixin, error) {
	t, err := r.Resolve(name)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving mixin included by %q", iface.Name)
	}
	m, ok := t.(*Mixin)
	if !ok {
		return nil, errors.Configf(errors.ErrInvalidRegistry,
			"%q includes %q, which is a %s", iface.Name, name, t.KindName())
	}
	return m, nil
}

func overlay(dst, src map[string][]Member) {
	for name, members := range src {
		dst[name] = members
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Describe renders a short summary used in generated headers and logs.
func (r *Registry) Describe() string {
	counts := map[string]int{}
	for _, t := range r.types {
		counts[t.KindName()]++
	}
	parts := make([]string, 0, len(counts)+1)
	for _, kind := range sortedKeys(counts) {
		parts = append(parts, plural(kind)+"="+strconv.Itoa(counts[kind]))
	}
	parts = append(parts, "extensions="+strconv.Itoa(len(r.Extensions)))
	return strings.Join(parts, " ")
}

func plural(kind string) string {
	if strings.HasSuffix(kind, "y") {
		return strings.TrimSuffix(kind, "y") + "ies"
	}
	return kind + "s"
}
