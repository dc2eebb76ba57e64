// Package fixedfmt writes the fixed-width numeric records read by the
// older free-format MODFLOW packages.
package fixedfmt

import (
	"fmt"
	"io"
	"strings"
)

// Width is the field width of every value.
const Width = 9

// Line collects the fields of one record.
type Line struct {
	fields []string
}

// NewLine starts an empty record.
func NewLine() *Line {
	return &Line{}
}

// Int appends an integer field.
func (l *Line) Int(v int) *Line {
	l.fields = append(l.fields, fmt.Sprintf("%*d", Width, v))
	return l
}

// Float appends a real field with three significant digits.
func (l *Line) Float(v float64) *Line {
	l.fields = append(l.fields, fmt.Sprintf("%*.3g", Width, v))
	return l
}

// String renders the record with a leading space and a trailing newline.
func (l *Line) String() string {
	return " " + strings.Join(l.fields, " ") + "\n"
}

// WriteTo writes the rendered record to w.
func (l *Line) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, l.String())
	return int64(n), err
}
