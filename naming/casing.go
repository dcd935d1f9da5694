// Package naming converts WebIDL identifiers into Go identifiers.
//
// Every function is pure. Conversions are deterministic and, for the
// identifier shapes WebIDL uses, injective enough that two distinct members
// of one interface never collide.
package naming

import (
	"strings"

	"github.com/knq/snaker"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Snake converts PascalCase, camelCase or SHOUTY_CASE to snake_case.
// Handles acronyms properly (e.g., "HTTPSConnection" -> "https_connection",
// "texImage2D" -> "tex_image2_d").
func Snake(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '-' || r == ' ' {
			result.WriteRune('_')
			continue
		}

		if i > 0 && isUpper(r) {
			// Don't split inside an acronym unless the next rune starts a new word
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && isLower(runes[i+1])

			if prev != '_' && prev != '-' && (!isUpper(prev) || nextLower) {
				result.WriteRune('_')
			}
		}

		result.WriteRune(r)
	}

	return strings.ToLower(result.String())
}

// ShoutySnake converts an identifier to SHOUTY_SNAKE_CASE.
func ShoutySnake(s string) string {
	return strings.ToUpper(Snake(s))
}

// Camel converts an identifier to upper camel case, the form Go uses for
// exported names: "getExtension" -> "GetExtension",
// "ONE_MINUS_SRC_ALPHA" -> "OneMinusSrcAlpha", "low-power" -> "LowPower".
// Common initialisms stay upper case: "bindingURL" -> "BindingURL".
func Camel(s string) string {
	// A Caser is stateful; never share one between calls.
	title := cases.Title(language.Und)

	var result strings.Builder
	for _, word := range words(s) {
		result.WriteString(titleWord(title, word))
	}
	return result.String()
}

// LowerCamel is Camel with the first word left in lower case, the form used
// for parameters and locals.
func LowerCamel(s string) string {
	parts := words(s)
	if len(parts) == 0 {
		return ""
	}

	title := cases.Title(language.Und)

	var result strings.Builder
	result.WriteString(strings.ToLower(parts[0]))
	for _, word := range parts[1:] {
		result.WriteString(titleWord(title, word))
	}
	return result.String()
}

func titleWord(title cases.Caser, word string) string {
	if upper := strings.ToUpper(word); snaker.IsInitialism(upper) {
		return upper
	}
	return title.String(word)
}

func words(s string) []string {
	return strings.FieldsFunc(Snake(s), func(r rune) bool {
		return r == '_'
	})
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
