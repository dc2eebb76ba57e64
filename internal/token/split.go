package token

import (
	"strings"
	"unicode"
)

// SplitDataLine splits line on whitespace and commas. A run enclosed in single
// or double quotes is kept as one token with the quotes removed; an
// unterminated quote extends to the end of the line.
func SplitDataLine(line string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
		inTok  bool
	)
	flush := func() {
		if inTok {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inTok = false
		}
	}
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			inTok = true
		case r == ',' || unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	flush()
	return tokens
}

// IsComment reports whether line carries no data: it is blank or its first
// non-blank text starts with #, ! or //.
func IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	return strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "!") ||
		strings.HasPrefix(trimmed, "//")
}

// NeedsQuotes reports whether s would not survive SplitDataLine as one token.
func NeedsQuotes(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool {
		return r == ',' || r == '\'' || r == '"' || unicode.IsSpace(r)
	})
}
