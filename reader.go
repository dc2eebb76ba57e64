package mfdata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-mfdata/internal/token"
)

// LineReader yields the lines of an input file one at a time. ReadLine
// returns io.EOF after the last line.
type LineReader interface {
	ReadLine() (string, error)
}

// Reader is a forward-only LineReader over an io.Reader. It never closes the
// underlying reader.
type Reader struct {
	r    *bufio.Reader
	line int
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its terminator.
func (r *Reader) ReadLine() (string, error) {
	text, err := r.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		return "", err
	}
	r.line++
	return strings.TrimRight(text, "\r\n"), nil
}

// Line is the 1-based number of the last line returned.
func (r *Reader) Line() int {
	return r.line
}

// readPreDataComments hands leading comment lines to sink and returns the
// first data line.
func readPreDataComments(first string, r LineReader, sink CommentSink, ref CommentRef) (string, error) {
	line := first
	for token.IsComment(line) {
		if text := strings.TrimSpace(line); text != "" && sink != nil {
			sink.AddPreDataComment(ref, text)
		}
		if r == nil {
			return "", fmt.Errorf("mfdata: variable %q: %w", ref.Field, io.ErrUnexpectedEOF)
		}
		next, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return "", fmt.Errorf("mfdata: variable %q: %w", ref.Field, err)
		}
		line = next
	}
	return line, nil
}
