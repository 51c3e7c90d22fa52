package parser

import "strings"

// addressDelimiters are the characters that separate a bare address from
// the display-name decoration around it.
const addressDelimiters = ` "'<>:()[]`

// ExtractEmail pulls a bare email address out of free text such as
// `John Doe <john@example.com>`. The text is split on the delimiter set
// and the first token containing '@' is returned. If no token qualifies,
// the input is returned unmodified.
func ExtractEmail(text string) string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(addressDelimiters, r)
	})

	for _, token := range tokens {
		if strings.Contains(token, "@") {
			return token
		}
	}

	return text
}
