package mfdata

import (
	"strings"

	"github.com/goliatone/go-mfdata/structure"
)

// KeywordMatcher validates the keyword expected at tokens[start] and returns
// the index of the token after it together with an auxiliary variable index
// (-1 when the line names none).
type KeywordMatcher interface {
	MatchKeyword(st *structure.Structure, tokens []string, start int) (next, aux int, err error)
}

// KeywordMatcherFunc adapts a function to KeywordMatcher.
type KeywordMatcherFunc func(st *structure.Structure, tokens []string, start int) (int, int, error)

// MatchKeyword implements KeywordMatcher.
func (f KeywordMatcherFunc) MatchKeyword(st *structure.Structure, tokens []string, start int) (int, int, error) {
	return f(st, tokens, start)
}

type defaultKeywordMatcher struct{}

// DefaultKeywordMatcher compares the leading token case-insensitively with
// the structure keyword.
func DefaultKeywordMatcher() KeywordMatcher {
	return defaultKeywordMatcher{}
}

func (defaultKeywordMatcher) MatchKeyword(st *structure.Structure, tokens []string, start int) (int, int, error) {
	expected := st.Keyword()
	if start >= len(tokens) {
		return start, -1, &KeywordError{Field: st.Name, Expected: expected}
	}
	if !strings.EqualFold(tokens[start], expected) {
		return start, -1, &KeywordError{Field: st.Name, Expected: expected, Got: tokens[start]}
	}
	return start + 1, -1, nil
}
