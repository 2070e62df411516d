package utils

import "strings"

const escapeSymbol = '\\'

// Escape prefixes whitespace and backslashes with a backslash so the value survives Split.
func Escape(data string) string {
	if data == "" {
		return `""`
	}

	builder := strings.Builder{}

	for _, r := range data {
		if r == escapeSymbol || r == ' ' || r == '\t' || r == '"' {
			builder.WriteRune(escapeSymbol)
		}

		builder.WriteRune(r)
	}

	return builder.String()
}

// Split breaks a command line into words on unescaped whitespace.
// A backslash keeps the next rune literal and "" stands for an empty word.
func Split(line string) []string {
	var (
		words   []string
		current strings.Builder
		inWord  bool
		escaped bool
	)

	flush := func() {
		if inWord {
			words = append(words, current.String())
			current.Reset()
			inWord = false
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == escapeSymbol:
			inWord = true
			escaped = true
		case r == ' ' || r == '\t':
			flush()
		case r == '"' && !inWord && i+1 < len(runes) && runes[i+1] == '"':
			inWord = true
			i++
		default:
			inWord = true
			current.WriteRune(r)
		}
	}

	flush()

	return words
}
