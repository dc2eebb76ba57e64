package mfdata

import (
	"slices"
	"strings"
)

// CommentRef identifies the cell a comment belongs to. Keyed is false for
// cells that are not indexed by stress period.
type CommentRef struct {
	Field string
	Key   int
	Keyed bool
}

// CommentSink accumulates free text that is not data.
type CommentSink interface {
	AddPreDataComment(ref CommentRef, text string)
	AddLineComment(ref CommentRef, text string)
}

// LineCommentClearer is implemented by sinks that can drop the trailing
// comment of a cell. A reload without a trailing comment clears the old one.
type LineCommentClearer interface {
	ClearLineComment(ref CommentRef)
}

// Comment is one stored comment.
type Comment struct {
	Ref  CommentRef
	Text string
}

// Comments is the default in-memory CommentSink. Pre-data comments are kept in
// arrival order; a cell keeps at most one trailing line comment, the latest.
type Comments struct {
	pre  []Comment
	line []Comment
}

// NewComments constructs an empty sink.
func NewComments() *Comments {
	return &Comments{}
}

// AddPreDataComment implements CommentSink.
func (c *Comments) AddPreDataComment(ref CommentRef, text string) {
	c.pre = append(c.pre, Comment{Ref: ref, Text: text})
}

// AddLineComment implements CommentSink.
func (c *Comments) AddLineComment(ref CommentRef, text string) {
	for i := range c.line {
		if c.line[i].Ref == ref {
			c.line[i].Text = text
			return
		}
	}
	c.line = append(c.line, Comment{Ref: ref, Text: text})
}

// ClearLineComment implements LineCommentClearer.
func (c *Comments) ClearLineComment(ref CommentRef) {
	c.line = slices.DeleteFunc(c.line, func(comment Comment) bool {
		return comment.Ref == ref
	})
}

// PreData returns the comments read before the data line of ref.
func (c *Comments) PreData(ref CommentRef) []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, comment := range c.pre {
		if comment.Ref == ref {
			out = append(out, comment.Text)
		}
	}
	return out
}

// Line returns the trailing comment recorded for ref.
func (c *Comments) Line(ref CommentRef) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, comment := range c.line {
		if comment.Ref == ref {
			return comment.Text, true
		}
	}
	return "", false
}

// All returns every stored comment, pre-data comments first.
func (c *Comments) All() []Comment {
	if c == nil {
		return nil
	}
	out := make([]Comment, 0, len(c.pre)+len(c.line))
	out = append(out, c.pre...)
	return append(out, c.line...)
}

func joinCommentTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
