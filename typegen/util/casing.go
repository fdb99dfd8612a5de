package util

import (
	"unicode"
)

// JSONCamelCase lowercases the leading run of upper-case letters the way
// System.Text.Json's camelCase naming policy does, so generated identifiers
// match what the service serialises: "Name" -> "name", "ID" -> "id",
// "URLValue" -> "urlValue", "IOStream" -> "ioStream".
func JSONCamelCase(s string) string {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return s
	}

	for i := 0; i < len(runes); i++ {
		if i == 1 && !unicode.IsUpper(runes[i]) {
			break
		}

		hasNext := i+1 < len(runes)

		// Stop when the next character is lower case (start of next word)
		if i > 0 && hasNext && !unicode.IsUpper(runes[i+1]) {
			if runes[i+1] == ' ' {
				runes[i] = unicode.ToLower(runes[i])
			}
			break
		}

		runes[i] = unicode.ToLower(runes[i])
	}

	return string(runes)
}
