package mfdata

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-mfdata/internal/token"
	"github.com/goliatone/go-mfdata/pkg/activity"
	"github.com/goliatone/go-mfdata/storage"
	"github.com/goliatone/go-mfdata/structure"
)

// maxUnwrapDepth bounds how many sequence layers SetData peels.
const maxUnwrapDepth = 8

// ExtFileAction selects how external file paths are handled when rendering.
// Scalar data never references external files; the action is accepted so
// callers can pass one setting to every data type.
type ExtFileAction int

const (
	CopyRelativePaths ExtFileAction = iota
	CopyAll
	CopyNone
)

// EntryOptions controls FileEntry rendering.
type EntryOptions struct {
	// ValuesOnly renders the value without the field name or newline.
	ValuesOnly bool
	// OneBased adds one to integer values for display only.
	OneBased bool
	Action   ExtFileAction
}

// BlockHeader identifies the block a line was read from. Keyed blocks carry
// the stress period the block applies to.
type BlockHeader struct {
	Name  string
	Key   int
	Keyed bool
}

// LoadResult reports how far a load consumed the input. Scalar cells always
// consume exactly their first line, so AllConsumed is false and no line is
// handed back.
type LoadResult struct {
	AllConsumed bool
	NextLine    string
	HasNextLine bool
}

// Scalar holds at most one typed value for the field described by its
// structure.
type Scalar struct {
	structure *structure.Structure
	cfg       config
	storage   *storage.Storage
	dataIndex int
	ref       CommentRef
}

// NewScalar constructs an empty cell, or one holding the WithData value.
func NewScalar(st *structure.Structure, opts ...Option) (*Scalar, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	cfg := applyOptions(opts)
	if cfg.comments == nil {
		cfg.comments = NewComments()
	}
	s := newScalar(st, cfg, CommentRef{Field: st.Name})
	if cfg.hasData {
		if err := s.SetData(cfg.data); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func newScalar(st *structure.Structure, cfg config, ref CommentRef) *Scalar {
	idx := 0
	if st.Kind == structure.KindRecord {
		idx = st.DataIndex()
	}
	return &Scalar{
		structure: st,
		cfg:       cfg,
		storage:   cfg.newStorage(),
		dataIndex: idx,
		ref:       ref,
	}
}

// Structure returns the schema node of the cell.
func (s *Scalar) Structure() *structure.Structure {
	return s.structure
}

// Comments returns the sink receiving this cell's comments.
func (s *Scalar) Comments() CommentSink {
	return s.cfg.comments
}

// HasData reports whether the cell holds a value.
func (s *Scalar) HasData() bool {
	return s != nil && s.storage.HasData()
}

// Data returns the stored value, or nil when the cell is empty. applyMult
// scales numeric values by the cell multiplier.
func (s *Scalar) Data(applyMult bool) any {
	if s == nil {
		return nil
	}
	return s.storage.Get(applyMult)
}

// SetMultiplier sets the factor applied by Data(true).
func (s *Scalar) SetMultiplier(factor float64) {
	s.storage.SetMultiplier(factor)
}

// SetData stores value converted to the declared type. Sequence wrappers are
// peeled down to their first element; the tail of a nested layer is recorded
// as the trailing comment of the cell. A keyword cell set to false is cleared.
func (s *Scalar) SetData(value any) error {
	raw, trailing, err := unwrapValue(value)
	typ := s.valueType()
	if err != nil {
		return wrapConversionError(s.structure.Name, value, typ, err)
	}
	converted, err := storage.Convert(raw, typ)
	if err != nil {
		return wrapConversionError(s.structure.Name, raw, typ, err)
	}
	old := s.storage.Get(false)
	if set, ok := converted.(bool); ok && !set && s.structure.DataType().KeywordOnly() {
		s.storage.Clear()
		s.emit(activity.VerbDataSet, old, nil)
		return nil
	}
	s.storage.Set(converted)
	if len(trailing) > 0 {
		s.cfg.comments.AddLineComment(s.ref, joinCommentTokens(trailing))
	}
	s.emit(activity.VerbDataSet, old, converted)
	return nil
}

// AddOne increments an integer cell, starting absent cells at 1.
func (s *Scalar) AddOne() error {
	typ := s.structure.DatumType()
	if typ != structure.ItemInteger {
		return &UnsupportedOperationError{Field: s.structure.Name, Type: typ, Op: "add one"}
	}
	old := s.storage.Get(false)
	next := 1
	if current, ok := old.(int); ok {
		next = current + 1
	}
	s.storage.Set(next)
	s.emit(activity.VerbDataIncremented, old, next)
	return nil
}

// FileEntry renders the cell in the input file grammar. An empty cell renders
// as the empty string.
func (s *Scalar) FileEntry(opts EntryOptions) string {
	if !s.HasData() {
		return ""
	}
	indent := s.cfg.indent
	value := s.storage.Get(false)
	st := s.structure

	switch st.Kind {
	case structure.KindKeyword:
		if set, _ := value.(bool); !set {
			return ""
		}
		return indent + strings.ToUpper(st.Name) + "\n"
	case structure.KindRecord:
		parts := make([]string, 0, len(st.Items))
		for i, item := range st.Items {
			if item.Type == structure.ItemKeyword && !item.Optional {
				parts = append(parts, strings.ToUpper(item.Name))
				continue
			}
			if i != s.dataIndex {
				continue
			}
			if item.Type == structure.ItemKeyword {
				if set, _ := value.(bool); set {
					parts = append(parts, strings.ToUpper(item.Name))
				}
				continue
			}
			parts = append(parts, s.storage.ToString(value, item.Type, item.UCase))
		}
		return indent + strings.Join(parts, indent) + "\n"
	default:
		item := st.Items[0]
		// OneBased shifts integer fields only; other kinds render unchanged.
		if n, ok := value.(int); ok && opts.OneBased && item.Type == structure.ItemInteger {
			value = n + 1
		}
		text := s.storage.ToString(value, item.Type, item.UCase)
		if opts.ValuesOnly {
			return indent + text
		}
		return indent + strings.ToUpper(st.Name) + indent + text + "\n"
	}
}

// Load reads the cell from first, the current line of r. Comment lines ahead
// of the data are handed to the comment sink, as are pre. The cell consumes
// exactly one data line.
func (s *Scalar) Load(first string, r LineReader, header BlockHeader, pre []string) (LoadResult, error) {
	start := time.Now()
	line, err := s.load(first, r, pre)
	event := LoadLogEvent{
		Field:    s.structure.Name,
		Key:      s.ref.Key,
		Keyed:    s.ref.Keyed,
		Line:     line,
		Duration: time.Since(start),
		Err:      err,
	}
	if event.Line == "" {
		event.Line = first
	}
	s.cfg.loadLog().LogLoad(event)
	if err != nil {
		return LoadResult{}, err
	}
	return LoadResult{}, nil
}

func (s *Scalar) load(first string, r LineReader, pre []string) (string, error) {
	sink := s.cfg.comments
	for _, text := range pre {
		sink.AddPreDataComment(s.ref, text)
	}
	line, err := readPreDataComments(first, r, sink, s.ref)
	if err != nil {
		return "", err
	}

	st := s.structure
	tokens := token.SplitDataLine(line)
	next, _, err := s.cfg.keywordMatcher().MatchKeyword(st, tokens, 0)
	if err != nil {
		return line, withLine(err, line)
	}

	fresh := s.cfg.newStorage()
	fresh.SetMultiplier(s.storage.Multiplier())
	dataIndex := s.dataIndex

	switch {
	case st.Kind == structure.KindRecord:
		index := 0
		for index < len(st.Items) {
			item := st.Items[index]
			if len(tokens) <= index+1 || item.Type != structure.ItemKeyword || (index > 0 && item.Optional) {
				break
			}
			index++
		}
		if index >= len(st.Items) || index >= len(tokens) || (st.Items[index].Type == structure.ItemKeyword && !st.Items[index].Optional) {
			label := st.Name
			if idx := st.DataIndex(); idx >= 0 {
				label = st.Items[idx].Name
			}
			return line, &MissingDataError{Field: st.Name, Label: label, Line: line}
		}
		typ := st.Items[index].Type
		value, err := storage.Convert(tokens[index], typ)
		if err != nil {
			return line, wrapConversionError(st.Name, tokens[index], typ, err)
		}
		fresh.Set(value)
		dataIndex = index
		next = index + 1
	case st.DataType().KeywordOnly():
		fresh.Set(true)
	default:
		if len(tokens) < next+1 {
			return line, &MissingDataError{Field: st.Name, Label: strings.ToLower(st.Items[0].Name), Line: line}
		}
		typ := s.valueType()
		value, err := storage.Convert(tokens[next], typ)
		if err != nil {
			return line, wrapConversionError(st.Name, tokens[next], typ, err)
		}
		fresh.Set(value)
		next++
	}

	old := s.storage.Get(false)
	s.storage = fresh
	s.dataIndex = dataIndex
	if len(tokens) > next {
		sink.AddLineComment(s.ref, joinCommentTokens(tokens[next:]))
	} else if clearer, ok := sink.(LineCommentClearer); ok {
		clearer.ClearLineComment(s.ref)
	}
	s.emit(activity.VerbDataLoaded, old, fresh.Get(false))
	return line, nil
}

func (s *Scalar) valueType() structure.ItemType {
	if s.structure.Kind == structure.KindRecord && s.dataIndex >= 0 {
		return s.structure.Items[s.dataIndex].Type
	}
	return s.structure.DatumType()
}

// emit reports a change to the activity hooks. Hook failures never fail a
// data operation.
func (s *Scalar) emit(verb string, old, value any) {
	if !s.cfg.emitter.Enabled() {
		return
	}
	_ = s.cfg.emitter.Emit(context.Background(), verb, s.cell(), old, value)
}

func (s *Scalar) cell() activity.Cell {
	return activity.Cell{
		Package: s.cfg.pkg,
		Block:   s.structure.Block,
		Field:   s.structure.Name,
		Period:  s.ref.Key,
		Keyed:   s.ref.Keyed,
	}
}

func withLine(err error, line string) error {
	if kwErr, ok := err.(*KeywordError); ok && kwErr.Line == "" {
		kwErr.Line = line
	}
	return err
}

// unwrapValue peels slice and array layers, keeping element 0 of each. When
// the peeled element is itself a sequence of two or more, its tail becomes
// the comment tokens; the outermost layer never contributes a comment.
func unwrapValue(value any) (any, []string, error) {
	var trailing []string
	for depth := 0; ; depth++ {
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return nil, trailing, nil
		}
		if !isSequence(rv) {
			return value, trailing, nil
		}
		if depth == maxUnwrapDepth {
			return nil, nil, fmt.Errorf("value nested deeper than %d sequence layers", maxUnwrapDepth)
		}
		if rv.Len() == 0 {
			return nil, trailing, nil
		}
		value = rv.Index(0).Interface()
		if inner := reflect.ValueOf(value); inner.IsValid() && isSequence(inner) && inner.Len() > 1 {
			trailing = trailing[:0]
			for i := 1; i < inner.Len(); i++ {
				trailing = append(trailing, fmt.Sprint(inner.Index(i).Interface()))
			}
		}
	}
}

func isSequence(rv reflect.Value) bool {
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}
