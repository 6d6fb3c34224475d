// Package normalizers provides the name normalization used for facility matching
package normalizers

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", Lowercase)
	Register("trim", Trim)
	Register("compose", Compose)
	Register("fold_accents", FoldAccents)
	Register("collapse_separators", CollapseSeparators)
	Register("strip_article", StripLeadingArticles)
	Register("facility_name", Normalize)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Normalize reduces a facility name to its matching key.
//
// The result is trimmed, lowercased, composed, accent-folded, has separator
// runs collapsed to a single space, and has leading locale articles removed.
// Normalize is idempotent and returns "" for blank input.
func Normalize(raw string) string {
	s := Trim(raw)
	s = Lowercase(s)
	s = composeAndFold(s)
	s = CollapseSeparators(s)
	s = Trim(s)
	return StripLeadingArticles(s)
}

// composeAndFold repeats composition and folding until neither changes the
// string. Folding "é" in "é\u0301" leaves "e\u0301", which composes again.
func composeAndFold(s string) string {
	for {
		folded := FoldAccents(Compose(s))
		if folded == s {
			return folded
		}
		s = folded
	}
}

// Built-in normalizers

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Compose converts to Unicode NFC so decomposed accents fold like precomposed ones
func Compose(s string) string {
	return norm.NFC.String(s)
}

var accentFolds = map[rune]rune{
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'à': 'a', 'â': 'a', 'ä': 'a',
	'ü': 'u', 'ù': 'u',
	'ö': 'o', 'ô': 'o',
	'ç': 'c',
	'ñ': 'n',
}

// FoldAccents replaces the supported lowercase accented letters with their base letter.
// Letters outside the table are kept as is.
func FoldAccents(s string) string {
	return strings.Map(func(r rune) rune {
		if folded, ok := accentFolds[r]; ok {
			return folded
		}
		return r
	}, s)
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || unicode.IsSpace(r)
}

// CollapseSeparators replaces every run of hyphens, underscores and whitespace with one space
func CollapseSeparators(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	inRun := false
	for _, r := range s {
		if isSeparator(r) {
			if !inRun {
				result.WriteRune(' ')
				inRun = true
			}
			continue
		}
		result.WriteRune(r)
		inRun = false
	}
	return result.String()
}

// leadingArticles are only removed when followed by whitespace, so "l'aiguille" keeps its article.
var leadingArticles = []string{"le", "la", "les", "l'", "l’", "the", "der", "die", "das"}

// StripLeadingArticles removes leading articles until none is left.
// Expects lowercased input with collapsed separators.
func StripLeadingArticles(s string) string {
	for {
		stripped := false
		for _, article := range leadingArticles {
			rest, ok := strings.CutPrefix(s, article)
			if !ok || rest == "" {
				continue
			}
			r := []rune(rest)[0]
			if !unicode.IsSpace(r) {
				continue
			}
			s = strings.TrimLeftFunc(rest, unicode.IsSpace)
			stripped = true
			break
		}
		if !stripped {
			return s
		}
	}
}
