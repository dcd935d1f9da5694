// Package bindgen turns an idl.Registry into Go bindings over syscall/js.
//
// Each type reference is flattened through transparent aliases, then
// resolved to a Go type plus the conversion needed at the call boundary.
// Slices, typed arrays, callbacks and arbitrary values that need conversion
// are accepted through synthesized type parameters, which is why some
// operations are emitted as generic functions rather than methods.
package bindgen

import (
	"bytes"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/idl"
	"github.com/teranos/webglgen/logger"
	"github.com/teranos/webglgen/naming"
)

// Generator writes bindings for one registry.
type Generator struct {
	registry *idl.Registry
	opts     Options
	log      *zap.SugaredLogger
	// trace enables per-member marshalling logs (-vvv).
	trace bool
}

// New creates a generator. Zero option fields take their defaults.
func New(r *idl.Registry, opts Options) *Generator {
	return &Generator{
		registry: r,
		opts:     opts.withDefaults(),
		log:      logger.ComponentLogger("bindgen"),
		trace:    logger.TraceEnabled(),
	}
}

// Write emits the header, typedefs, enums, dictionaries, interfaces and
// extension markers, in that order. A registry error aborts generation and
// leaves whatever was already written in w; errors from w are returned
// unchanged.
func (g *Generator) Write(w io.Writer) error {
	start := time.Now()

	var header strings.Builder
	g.writeHeader(&header)
	if err := emit(w, header.String()); err != nil {
		return err
	}

	steps := []func(io.Writer) error{
		g.writeTypedefs,
		g.writeEnums,
		g.writeDictionaries,
		g.writeInterfaces,
		g.writeExtensions,
	}
	for _, step := range steps {
		if err := step(w); err != nil {
			return err
		}
	}

	g.log.Infow("generated bindings",
		logger.FieldRegistry, g.registry.Describe(),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return nil
}

// Generate runs Write into memory and formats the result.
func (g *Generator) Generate() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf); err != nil {
		return nil, err
	}
	return Format(buf.Bytes())
}

func emit(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func (g *Generator) writeTypedefs(w io.Writer) error {
	for name, td := range g.registry.Typedefs() {
		res, err := ResolveResult(td.Type, g.registry)
		if err != nil {
			return errors.Wrapf(err, "typedef %s", name)
		}
		g.log.Debugw("typedef", logger.FieldTypedef, name, logger.FieldHostType, res.Type)
		if err := emit(w, "type "+name+" = "+res.Type+"\n\n"); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) writeEnums(w io.Writer) error {
	for name, enum := range g.registry.Enums() {
		g.log.Debugw("enum", logger.FieldEnum, name, logger.FieldCount, len(enum.Variants))
		if err := emit(w, renderEnum(name, enum)); err != nil {
			return err
		}
	}
	return nil
}

// enumConst names the constant for one raw tag.
func enumConst(name, tag string) string {
	word := naming.Camel(tag)
	if word == "" {
		word = "Empty"
	}
	return name + word
}

func renderEnum(name string, enum *idl.Enum) string {
	var b strings.Builder
	table := "_" + name + "_tags"

	b.WriteString("type " + name + " uint32\n\n")

	if len(enum.Variants) > 0 {
		b.WriteString("const (\n")
		for i, tag := range enum.Variants {
			if i == 0 {
				b.WriteString("\t" + enumConst(name, tag) + " " + name + " = iota\n")
				continue
			}
			b.WriteString("\t" + enumConst(name, tag) + "\n")
		}
		b.WriteString(")\n\n")
	}

	b.WriteString("var " + table + " = [...]string{\n")
	for _, tag := range enum.Variants {
		b.WriteString("\t" + enumConst(name, tag) + ": " + quote(tag) + ",\n")
	}
	b.WriteString("}\n\n")

	b.WriteString(`func (e ` + name + `) String() string {
	if int(e) < len(` + table + `) {
		return ` + table + `[e]
	}
	return fmt.Sprintf("` + name + `(%d)", uint32(e))
}

func (e ` + name + `) MarshalText() ([]byte, error) {
	if int(e) >= len(` + table + `) {
		return nil, fmt.Errorf("invalid ` + name + ` %d", uint32(e))
	}
	return []byte(` + table + `[e]), nil
}

func (e *` + name + `) UnmarshalText(text []byte) error {
	for i, tag := range ` + table + ` {
		if tag == string(text) {
			*e = ` + name + `(i)
			return nil
		}
	}
	return fmt.Errorf("unknown ` + name + ` tag %q", text)
}

func (e ` + name + `) JSValue() js.Value { return js.ValueOf(e.String()) }

`)
	return b.String()
}

func (g *Generator) writeDictionaries(w io.Writer) error {
	for name, dict := range g.registry.Dictionaries() {
		if dict.Hidden {
			continue
		}
		text, err := g.renderDictionary(name, dict)
		if err != nil {
			return errors.Wrapf(err, "dictionary %s", name)
		}
		if err := emit(w, text); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) renderDictionary(name string, dict *idl.Dictionary) (string, error) {
	fields, err := g.registry.CollectFields(dict)
	if err != nil {
		return "", err
	}
	g.log.Debugw("dictionary", logger.FieldDictionary, name, logger.FieldCount, len(fields))

	var b strings.Builder
	b.WriteString("type " + name + " struct {\n")
	for _, f := range fields {
		if err := jsonField(f.Field.Type, g.registry); err != nil {
			return "", errors.Wrapf(err, "field %s", f.Name)
		}
		res, err := ResolveResult(f.Field.Type, g.registry)
		if err != nil {
			return "", errors.Wrapf(err, "field %s", f.Name)
		}
		// Absent must stay distinguishable from zero, so only nil-able
		// fields are ever omitted.
		tag := f.Name
		if res.Optional && !f.Field.Required {
			tag += ",omitempty"
		}
		b.WriteString("\t" + fieldName(f.Name) + " " + res.Type + " `json:" + quote(tag) + "`\n")
	}
	b.WriteString("}\n\n")

	recv := receiverName(name)
	b.WriteString("func (" + recv + " *" + name + ") JSValue() js.Value { return jsonToJS(" + recv + ") }\n\n")
	b.WriteString("func (" + recv + " *" + name + ") fromJS(val js.Value) bool { return jsonFromJS(val, " + recv + ") }\n\n")
	return b.String(), nil
}

// jsonField fails for field types that would not survive the JSON round
// trip dictionaries take: handles, buffers and arbitrary values would all
// cross as {}.
func jsonField(t idl.Type, r *idl.Registry) error {
	_, kind, err := idl.Flatten(t.Kind, r)
	if err != nil {
		return err
	}

	switch k := kind.(type) {
	case idl.Primitive:
		return nil
	case idl.Builtin:
		if k == idl.String {
			return nil
		}
	case idl.Sequence:
		return jsonField(k.Elem, r)
	case idl.Named:
		def, err := r.Resolve(k.Name)
		if err != nil {
			return err
		}
		switch d := def.(type) {
		case *idl.Enum, *idl.Dictionary:
			return nil
		case *idl.Mixin, *idl.Callback:
			// ResolveResult has the specific error for these.
			return nil
		case *idl.Typedef:
			return jsonField(d.Type, r)
		}
	}

	return errors.WithHint(
		errors.Configf(errors.ErrUnsupportedField, "%s cannot be held in a dictionary", t),
		"dictionary fields may only hold numbers, booleans, strings, enums, dictionaries and sequences of those",
	)
}

func (g *Generator) writeInterfaces(w io.Writer) error {
	for name, iface := range g.registry.Interfaces() {
		if iface.Hidden {
			continue
		}
		text, err := g.renderInterface(name, iface)
		if err != nil {
			return errors.Wrapf(err, "interface %s", name)
		}
		if err := emit(w, text); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) writeExtensions(w io.Writer) error {
	for _, name := range g.registry.Extensions {
		g.log.Debugw("extension", logger.FieldExtension, name)
		if err := emit(w, g.renderExtension(name)); err != nil {
			return err
		}
	}
	return nil
}

// renderExtension ties an extension name to its marker type. Extensions
// the registry also defines as interfaces reuse that handle type.
func (g *Generator) renderExtension(name string) string {
	method := "func (" + name + ") ExtensionName() string { return " + quote(name) + " }\n\n"

	if def, err := g.registry.Resolve(name); err == nil {
		if iface, ok := def.(*idl.Interface); ok && !iface.Hidden {
			return method
		}
	}

	var b strings.Builder
	recv := receiverName(name)
	b.WriteString("// " + name + " is the handle returned when the extension is enabled.\n")
	b.WriteString("type " + name + " struct {\n\tref js.Value\n}\n\n")
	b.WriteString(method)
	b.WriteString("func (" + recv + " " + name + ") JSValue() js.Value { return " + recv + ".ref }\n\n")
	b.WriteString("func (" + recv + " *" + name + ") fromJS(val js.Value) bool {\n")
	b.WriteString("\tif !isPresent(val) {\n\t\treturn false\n\t}\n")
	b.WriteString("\t" + recv + ".ref = val\n\treturn true\n}\n\n")
	return b.String()
}
