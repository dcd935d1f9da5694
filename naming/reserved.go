package naming

// goReserved holds Go keywords plus the predeclared identifiers generated
// code must not shadow, because the emitted runtime support refers to them.
var goReserved = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,

	"any": true, "bool": true, "byte": true, "error": true, "false": true,
	"float32": true, "float64": true, "int": true, "int8": true, "int16": true,
	"int32": true, "int64": true, "len": true, "make": true, "new": true,
	"nil": true, "string": true, "true": true, "uint": true, "uint8": true,
	"uint16": true, "uint32": true, "uint64": true, "js": true,
}

// Unreserve appends an underscore to identifiers that are reserved in Go,
// leaving every other identifier untouched.
func Unreserve(s string) string {
	if goReserved[s] {
		return s + "_"
	}
	return s
}

// IsReserved reports whether s would need escaping.
func IsReserved(s string) bool {
	return goReserved[s]
}
