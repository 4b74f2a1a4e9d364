package veramem

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lexical units. Delimited scripts split on
// whitespace/punctuation and lowercase. Han runs additionally emit overlapping
// character bigrams, since Chinese has no whitespace word boundaries and
// whole-run tokens almost never match across documents.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	var tokens []string
	for _, word := range fields {
		lower := strings.ToLower(word)
		tokens = append(tokens, lower)

		runes := []rune(lower)
		if len(runes) <= 2 {
			continue
		}
		for i := 0; i < len(runes)-1; i++ {
			if unicode.Is(unicode.Han, runes[i]) && unicode.Is(unicode.Han, runes[i+1]) {
				tokens = append(tokens, string(runes[i:i+2]))
			}
		}
	}

	return tokens
}
