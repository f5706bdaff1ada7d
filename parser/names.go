package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonAlnum      = regexp.MustCompile(`[^A-Za-z0-9]+`)
	titleCaser    = cases.Title(language.English, cases.NoLower)
)

// removeAccents folds accented characters to their base forms so synthesized
// names stay within [A-Za-z0-9].
func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// splitWords splits an identifier into words, handling camelCase,
// PascalCase, snake_case, and kebab-case inputs.
func splitWords(s string) []string {
	s = removeAccents(strings.TrimSpace(s))
	if s == "" {
		return nil
	}

	s = camelBoundary.ReplaceAllString(s, "$1 $2")

	parts := nonAlnum.Split(s, -1)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

func titleWord(word string) string {
	return titleCaser.String(strings.ToLower(word))
}

// camel synthesizes a camelCase name. Word boundaries in the input are
// preserved, so camel("typeA_foo") == "typeAFoo" on every parse of the
// same document.
func camel(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		sb.WriteString(titleWord(w))
	}
	return sb.String()
}

// pascal synthesizes a PascalCase name.
func pascal(s string) string {
	var sb strings.Builder
	for _, w := range splitWords(s) {
		sb.WriteString(titleWord(w))
	}
	return sb.String()
}

// singular reduces a plural word to its singular form.
func singular(s string) string {
	return inflection.Singular(s)
}

// typeName synthesizes the name of an anonymous type nested under parent at
// the given local key.
func typeName(parentName, localName string) string {
	return camel(parentName + "_" + localName)
}

// enumName synthesizes the name of an anonymous enum; the local name is
// singularized so list-valued keys read naturally.
func enumName(parentName, localName string) string {
	return camel(parentName + "_" + singular(localName))
}
