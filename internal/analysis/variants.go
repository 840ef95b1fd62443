package analysis

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// commonWords are function words that are often optional in a brand name
var commonWords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true, "de": true, "del": true,
	"the": true, "of": true,
}

// GenerateVariants returns the alternate textual forms of a brand to search for.
// The original brand is always first; the result holds no duplicates and its
// order is stable for a given input.
func GenerateVariants(brand string) []string {
	var variants []string
	seen := make(map[string]bool)
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		variants = append(variants, v)
	}

	add(brand)
	add(stripWhitespace(brand))

	words := strings.Fields(brand)
	if len(words) > 1 {
		add(strings.Join(words, "-"))
		add(strings.Join(words, "_"))

		if len(words) == 2 {
			add(words[1] + " " + words[0])
		}
	}

	add(stripAccents(brand))
	add(strings.ToLower(brand))
	add(strings.ToUpper(brand))

	for _, word := range words {
		if !commonWords[strings.ToLower(word)] {
			continue
		}
		var kept []string
		for _, w := range words {
			if w != word {
				kept = append(kept, w)
			}
		}
		add(strings.Join(kept, " "))
	}

	return variants
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// stripAccents removes combining marks after NFD decomposition
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}
