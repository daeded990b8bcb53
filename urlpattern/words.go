package urlpattern

import (
	"strings"
	"unicode"
)

// SplitWords splits a camel-case name into lower-cased words.
//
//	"seaLand"       -> ["sea", "land"]
//	"getHTTPStatus" -> ["get", "http", "status"]
//	"sea2Land"      -> ["sea2", "land"]
func SplitWords(name string) []string {
	if name == "" {
		return nil
	}

	runes := []rune(name)
	var (
		words []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		cur, prev := runes[i], runes[i-1]
		if !unicode.IsUpper(cur) {
			continue
		}
		// aB, 2B: a new word starts at B.
		// ABc: the acronym ends before B.
		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
			words = append(words, strings.ToLower(string(runes[start:i])))
			start = i
		}
	}
	words = append(words, strings.ToLower(string(runes[start:])))
	return words
}

// JoinWords joins words into a lower camel-case name. It is the inverse of
// SplitWords for names without acronyms.
func JoinWords(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if w == "" {
			continue
		}
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}
