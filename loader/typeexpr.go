package loader

import (
	"strings"
	"unicode"

	"github.com/teranos/webglgen/errors"
	"github.com/teranos/webglgen/idl"
)

var primitiveWords = map[string]idl.Primitive{
	"boolean":             idl.Bool,
	"byte":                idl.I8,
	"octet":               idl.U8,
	"short":               idl.I16,
	"unsigned short":      idl.U16,
	"long":                idl.I32,
	"unsigned long":       idl.U32,
	"long long":           idl.I64,
	"unsigned long long":  idl.U64,
	"float":               idl.F32,
	"unrestricted float":  idl.F32,
	"double":              idl.F64,
	"unrestricted double": idl.F64,
}

var builtinWords = map[string]idl.TypeKind{
	"DOMString":         idl.String,
	"USVString":         idl.String,
	"ByteString":        idl.String,
	"ArrayBuffer":       idl.ArrayBuffer,
	"ArrayBufferView":   idl.ArrayBufferView,
	"BufferSource":      idl.BufferSource,
	"HTMLCanvasElement": idl.CanvasElement,
	"OffscreenCanvas":   idl.CanvasElement,
	"any":               idl.Any,
	"object":            idl.Object,
	"Int8Array":         idl.TypedArray{Elem: idl.I8},
	"Uint8Array":        idl.TypedArray{Elem: idl.U8},
	"Uint8ClampedArray": idl.TypedArray{Elem: idl.U8},
	"Int16Array":        idl.TypedArray{Elem: idl.I16},
	"Uint16Array":       idl.TypedArray{Elem: idl.U16},
	"Int32Array":        idl.TypedArray{Elem: idl.I32},
	"Uint32Array":       idl.TypedArray{Elem: idl.U32},
	"BigInt64Array":     idl.TypedArray{Elem: idl.I64},
	"BigUint64Array":    idl.TypedArray{Elem: idl.U64},
	"Float32Array":      idl.TypedArray{Elem: idl.F32},
	"Float64Array":      idl.TypedArray{Elem: idl.F64},
}

// TypeExpr is a WebIDL type expression in a registry document, such as
// "unsigned long", "sequence<GLfloat>" or "(Float32Array or sequence<GLfloat>)?".
type TypeExpr struct {
	Type idl.Type
	// Set is false for an empty expression, which means "no type".
	Set bool
}

// UnmarshalText parses text with ParseType. Empty text leaves Set false.
func (e *TypeExpr) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*e = TypeExpr{}
		return nil
	}
	t, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*e = TypeExpr{Type: t, Set: true}
	return nil
}

// Ptr returns the type or nil when unset, the shape of optional returns.
func (e TypeExpr) Ptr() *idl.Type {
	if !e.Set {
		return nil
	}
	t := e.Type
	return &t
}

// ParseType parses a WebIDL type expression. Extended attributes such as
// [AllowShared] are skipped.
func ParseType(s string) (idl.Type, error) {
	p := &typeParser{src: s, toks: tokenize(s)}
	t, err := p.parseType()
	if err != nil {
		return idl.Type{}, err
	}
	if !p.done() {
		return idl.Type{}, p.fail("unexpected %q", p.peek())
	}
	return t, nil
}

type typeParser struct {
	src  string
	toks []string
	pos  int
}

func (p *typeParser) done() bool { return p.pos >= len(p.toks) }
func (p *typeParser) peek() string {
	if p.done() {
		return ""
	}
	return p.toks[p.pos]
}

func (p *typeParser) next() string {
	tok := p.peek()
	if !p.done() {
		p.pos++
	}
	return tok
}

func (p *typeParser) accept(tok string) bool {
	if p.peek() == tok {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) expect(tok string) error {
	if !p.accept(tok) {
		return p.fail("expected %q, found %q", tok, p.peek())
	}
	return nil
}

func (p *typeParser) fail(format string, args ...interface{}) error {
	return errors.WithDetailf(
		errors.Configf(errors.ErrInvalidTypeExpr, "%q: "+format, append([]interface{}{p.src}, args...)...),
		"at token %d", p.pos,
	)
}

func (p *typeParser) parseType() (idl.Type, error) {
	p.skipExtendedAttributes()

	var t idl.Type
	var err error
	if p.accept("(") {
		t, err = p.parseUnion()
	} else {
		t, err = p.parseSingle()
	}
	if err != nil {
		return idl.Type{}, err
	}
	if p.accept("?") {
		t = t.AsOptional()
	}
	return t, nil
}

func (p *typeParser) parseUnion() (idl.Type, error) {
	var variants []idl.Type
	for {
		v, err := p.parseType()
		if err != nil {
			return idl.Type{}, err
		}
		variants = append(variants, v)
		if p.accept(")") {
			break
		}
		if err := p.expect("or"); err != nil {
			return idl.Type{}, err
		}
	}
	if len(variants) < 2 {
		return idl.Type{}, p.fail("a union needs at least two members")
	}
	return idl.Of(idl.Union{Variants: variants}), nil
}

func (p *typeParser) parseSingle() (idl.Type, error) {
	tok := p.next()
	switch tok {
	case "":
		return idl.Type{}, p.fail("missing type")
	case "sequence", "FrozenArray":
		if err := p.expect("<"); err != nil {
			return idl.Type{}, err
		}
		elem, err := p.parseType()
		if err != nil {
			return idl.Type{}, err
		}
		if err := p.expect(">"); err != nil {
			return idl.Type{}, err
		}
		return idl.Of(idl.Sequence{Elem: elem}), nil
	case "unsigned", "unrestricted":
		word := tok + " " + p.next()
		if word == "unsigned long" && p.accept("long") {
			word += " long"
		}
		if prim, ok := primitiveWords[word]; ok {
			return idl.Of(prim), nil
		}
		return idl.Type{}, p.fail("unknown primitive %q", word)
	case "long":
		if p.accept("long") {
			return idl.Of(idl.I64), nil
		}
		return idl.Of(idl.I32), nil
	}

	if prim, ok := primitiveWords[tok]; ok {
		return idl.Of(prim), nil
	}
	if kind, ok := builtinWords[tok]; ok {
		return idl.Of(kind), nil
	}
	if !isIdent(tok) {
		return idl.Type{}, p.fail("unexpected %q", tok)
	}
	return idl.NamedRef(tok), nil
}

func (p *typeParser) skipExtendedAttributes() {
	for p.accept("[") {
		for depth := 1; depth > 0 && !p.done(); {
			switch p.next() {
			case "[":
				depth++
			case "]":
				depth--
			}
		}
	}
}

// tokenize splits s into identifiers and single punctuation runes.
func tokenize(s string) []string {
	var toks []string
	var word strings.Builder
	flush := func() {
		if word.Len() > 0 {
			toks = append(toks, word.String())
			word.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			word.WriteRune(r)
		case unicode.IsSpace(r):
			flush()
		default:
			flush()
			toks = append(toks, string(r))
		}
	}
	flush()
	return toks
}

func isIdent(tok string) bool {
	for i, r := range tok {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return tok != ""
}
