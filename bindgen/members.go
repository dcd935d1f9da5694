package bindgen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/idl"
	"github.com/teranos/webglgen/logger"
	"github.com/teranos/webglgen/naming"
)

// ifaceScope carries what every member of one interface needs to render.
type ifaceScope struct {
	name string
	recv string
}

func (g *Generator) renderInterface(name string, iface *idl.Interface) (string, error) {
	groups, err := g.registry.CollectMembers(iface)
	if err != nil {
		return "", err
	}
	g.log.Debugw("interface", logger.FieldInterface, name, logger.FieldCount, len(groups))

	scope := ifaceScope{name: name, recv: receiverName(name)}
	recv := scope.recv

	var b strings.Builder
	writeDoc(&b, iface.Doc)
	b.WriteString("type " + name + " struct {\n\tref js.Value\n}\n\n")
	b.WriteString("func (" + recv + " " + name + ") JSValue() js.Value { return " + recv + ".ref }\n\n")

	b.WriteString("func (" + recv + " *" + name + ") fromJS(val js.Value) bool {\n")
	b.WriteString("\tif !" + g.instanceCheck(name, iface) + " {\n\t\treturn false\n\t}\n")
	b.WriteString("\t" + recv + ".ref = val\n\treturn true\n}\n\n")

	if iface.RenderingContext != "" {
		writeFromCanvas(&b, name, iface.RenderingContext)
	}

	for _, group := range groups {
		for index, member := range group.Members {
			if err := g.renderMember(&b, scope, group.Name, index, member); err != nil {
				return "", errors.Wrapf(err, "member %s", group.Name)
			}
		}
	}
	return b.String(), nil
}

// instanceCheck renders the expression deciding whether val is a valid handle.
func (g *Generator) instanceCheck(name string, iface *idl.Interface) string {
	switch {
	case name == g.opts.ContextInterface:
		classes := make([]string, len(g.opts.ContextClasses))
		for i, c := range g.opts.ContextClasses {
			classes[i] = quote(c)
		}
		return "instanceOfAny(val, " + strings.Join(classes, ", ") + ")"
	case iface.HasClass:
		return "instanceOfAny(val, " + quote(name) + ")"
	default:
		return "isPresent(val)"
	}
}

func writeFromCanvas(b *strings.Builder, name, contextID string) {
	fn := name + "FromCanvas"
	fmt.Fprintf(b, "// %s returns the %q rendering context of canvas.\n", fn, contextID)
	fmt.Fprintf(b, "func %s(canvas CanvasElement) (%s, error) {\n", fn, name)
	fmt.Fprintf(b, "\tvar ctx %s\n", name)
	fmt.Fprintf(b, "\tif !ctx.fromJS(canvas.ref.Call(\"getContext\", %s)) {\n", quote(contextID))
	fmt.Fprintf(b, "\t\treturn %s{}, ErrContextUnavailable\n\t}\n", name)
	b.WriteString("\treturn ctx, nil\n}\n\n")
}

func (g *Generator) renderMember(b *strings.Builder, scope ifaceScope, name string, index int, member idl.Member) error {
	switch m := member.(type) {
	case *idl.Const:
		if index > 0 {
			return errors.Configf(errors.ErrInvalidRegistry, "constant %q is declared more than once", name)
		}
		return g.renderConst(b, scope, name, m)
	case *idl.Attribute:
		if index > 0 {
			return errors.Configf(errors.ErrInvalidRegistry, "attribute %q is declared more than once", name)
		}
		return g.renderAttribute(b, scope, name, m)
	case *idl.Operation:
		if name == g.opts.ProbeOperation {
			if index == 0 {
				g.renderProbe(b, scope)
			}
			return nil
		}
		return g.renderOperation(b, scope, name, index, m)
	}
	return errors.Configf(errors.ErrInvalidRegistry, "unknown member kind %T", member)
}

func (g *Generator) renderConst(b *strings.Builder, scope ifaceScope, name string, c *idl.Const) error {
	res, err := ResolveResult(c.Type, g.registry)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "const %s_%s %s = %s\n\n", scope.name, naming.ShoutySnake(name), res.Type, c.Value)
	return nil
}

func (g *Generator) renderAttribute(b *strings.Builder, scope ifaceScope, name string, attr *idl.Attribute) error {
	recv := scope.recv
	method := memberName(name)

	if attr.Getter {
		res, err := ResolveResult(attr.Type, g.registry)
		if err != nil {
			return err
		}
		expr := res.Wrap(recv + ".ref.Get(" + quote(name) + ")")
		fmt.Fprintf(b, "func (%s %s) %s() %s {\n\treturn %s\n}\n\n", recv, scope.name, method, res.Type, expr)
	}

	if attr.Setter {
		gc := NewGenericContext()
		arg, err := ResolveArg(attr.Type, g.registry, gc)
		if err != nil {
			return err
		}
		g.traceArg(scope.name, name, arg)

		value := paramName("value", 0, recv)
		body := "\t" + recv + ".ref.Set(" + quote(name) + ", toJS(" + arg.Wrapper.Wrap(value) + "))\n"
		if gc.IsEmpty() {
			fmt.Fprintf(b, "func (%s %s) Set%s(%s %s) {\n%s}\n\n", recv, scope.name, method, value, arg.Type, body)
		} else {
			fmt.Fprintf(b, "func %sSet%s%s(%s %s, %s %s) {\n%s}\n\n",
				scope.name, method, gc.TypeParams(), recv, scope.name, value, arg.Type, body)
		}
	}
	return nil
}

// renderProbe emits the generic extension request. It yields the zero
// value and false when the extension is unsupported.
func (g *Generator) renderProbe(b *strings.Builder, scope ifaceScope) {
	recv := scope.recv
	fn := scope.name + memberName(g.opts.ProbeOperation)
	fmt.Fprintf(b, "// %s enables extension E, reporting false when it is unsupported.\n", fn)
	fmt.Fprintf(b, "func %s[E any, P Extension[E]](%s %s) (E, bool) {\n", fn, recv, scope.name)
	b.WriteString("\tvar ext E\n")
	fmt.Fprintf(b, "\tif !P(&ext).fromJS(%s.ref.Call(%s, P(&ext).ExtensionName())) {\n", recv, quote(g.opts.ProbeOperation))
	b.WriteString("\t\tvar zero E\n\t\treturn zero, false\n\t}\n")
	b.WriteString("\treturn ext, true\n}\n\n")
}

func (g *Generator) renderOperation(b *strings.Builder, scope ifaceScope, name string, index int, op *idl.Operation) error {
	recv := scope.recv
	method := memberName(name)
	if index > 0 {
		method += "_" + strconv.Itoa(index)
	}

	gc := NewGenericContext()
	params := make([]string, len(op.Args))
	values := make([]string, len(op.Args))
	for i, a := range op.Args {
		arg, err := ResolveArg(a.Type, g.registry, gc)
		if err != nil {
			return errors.Wrapf(err, "argument %s", a.Name)
		}
		g.traceArg(scope.name, name+"."+a.Name, arg)

		pname := paramName(a.Name, i, recv)
		params[i] = pname + " " + arg.Type
		values[i] = arg.Wrapper.Wrap(pname)
	}

	call := recv + ".ref.Call(" + quote(name)
	if len(values) > 0 {
		call += ", jsArgs(" + strings.Join(values, ", ") + ")..."
	}
	call += ")"

	var returns, body string
	if op.Return != nil {
		res, err := ResolveResult(*op.Return, g.registry)
		if err != nil {
			return errors.Wrap(err, "return type")
		}
		returns = " " + res.Type
		body = "\treturn " + res.Wrap(call) + "\n"
	} else {
		body = "\t" + call + "\n"
	}

	writeDoc(b, op.Doc)
	if gc.IsEmpty() {
		fmt.Fprintf(b, "func (%s %s) %s(%s)%s {\n%s}\n\n",
			recv, scope.name, method, strings.Join(params, ", "), returns, body)
		return nil
	}

	// Methods cannot declare type parameters.
	all := append([]string{recv + " " + scope.name}, params...)
	fmt.Fprintf(b, "func %s%s%s(%s)%s {\n%s}\n\n",
		scope.name, method, gc.TypeParams(), strings.Join(all, ", "), returns, body)
	return nil
}

func (g *Generator) traceArg(iface, member string, arg Arg) {
	if !g.trace {
		return
	}
	g.log.Debugw("resolved argument",
		logger.FieldInterface, iface,
		logger.FieldMember, member,
		logger.FieldHostType, arg.Type,
		logger.FieldWrapper, fmt.Sprintf("%T", arg.Wrapper))
}

func writeDoc(b *strings.Builder, doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "//"))
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// " + line + "\n")
	}
}

// receiverName is the lower-cased first letter of a type name.
func receiverName(typeName string) string {
	for _, r := range typeName {
		return string(unicode.ToLower(r))
	}
	return "x"
}

// memberName is the exported Go name of a WebIDL member.
func memberName(raw string) string {
	name := naming.Camel(raw)
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "X" + name
	}
	return name
}

// fieldName is the exported Go name of a dictionary field.
func fieldName(raw string) string {
	return memberName(raw)
}

// paramName turns a WebIDL argument name into a Go parameter that neither
// collides with a keyword, the receiver, nor the runtime support.
func paramName(raw string, index int, recv string) string {
	name := naming.Unreserve(naming.LowerCamel(raw))
	if name == "" {
		return "arg" + strconv.Itoa(index)
	}
	if name == recv || runtimeNames[name] {
		name += "_"
	}
	return name
}

func quote(s string) string {
	return strconv.Quote(s)
}
