package mfdata

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-mfdata/structure"
)

// Data is a field cell that can be placed in a block. *Scalar and
// *ScalarTransient implement it.
type Data interface {
	Structure() *structure.Structure
	HasData() bool
	Load(first string, r LineReader, header BlockHeader, pre []string) (LoadResult, error)
}

// Block is an ordered set of fields rendered between BEGIN and END lines.
// Transient blocks render once per stress period holding data; the period
// number written after the block name is the key plus one.
type Block struct {
	name      string
	transient bool
	fields    []Data
	byName    map[string]Data
	byKeyword map[string]Data
}

// NewBlock builds a block whose fields are created from def with opts.
func NewBlock(def structure.BlockDefinition, opts ...Option) (*Block, error) {
	b := &Block{
		name:      strings.ToLower(def.Name),
		transient: def.Transient,
		byName:    make(map[string]Data, len(def.Fields)),
		byKeyword: make(map[string]Data, len(def.Fields)),
	}
	for _, st := range def.Fields {
		var (
			field Data
			err   error
		)
		if st.Transient || def.Transient {
			field, err = NewScalarTransient(st, opts...)
		} else {
			field, err = NewScalar(st, opts...)
		}
		if err != nil {
			return nil, fmt.Errorf("mfdata: block %q: %w", def.Name, err)
		}
		if err := b.add(field); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Block) add(field Data) error {
	st := field.Structure()
	name := SnapshotName(st.Name)
	keyword := strings.ToUpper(st.Keyword())
	if _, dup := b.byName[name]; dup {
		return fmt.Errorf("mfdata: block %q: duplicate field %q", b.name, name)
	}
	if _, dup := b.byKeyword[keyword]; dup {
		return fmt.Errorf("mfdata: block %q: duplicate keyword %q", b.name, keyword)
	}
	b.fields = append(b.fields, field)
	b.byName[name] = field
	b.byKeyword[keyword] = field
	return nil
}

// Name returns the lowercase block name.
func (b *Block) Name() string {
	return b.name
}

// Transient reports whether the block is written once per stress period.
func (b *Block) Transient() bool {
	return b.transient
}

// Fields returns the block fields in definition order.
func (b *Block) Fields() []Data {
	return append([]Data(nil), b.fields...)
}

// Field looks a field up by name, case-insensitively. Dashes and
// underscores are interchangeable.
func (b *Block) Field(name string) (Data, bool) {
	field, ok := b.byName[SnapshotName(name)]
	return field, ok
}

// fieldForKeyword returns the field whose lines start with keyword.
func (b *Block) fieldForKeyword(keyword string) (Data, bool) {
	field, ok := b.byKeyword[strings.ToUpper(keyword)]
	return field, ok
}

// HasData reports whether any field holds data.
func (b *Block) HasData() bool {
	for _, field := range b.fields {
		if field.HasData() {
			return true
		}
	}
	return false
}

// Keys lists the stress periods registered on any transient field, in the
// order they were first seen.
func (b *Block) Keys() []int {
	var keys []int
	seen := map[int]bool{}
	for _, field := range b.fields {
		ts, ok := field.(*ScalarTransient)
		if !ok {
			continue
		}
		for _, key := range ts.Keys() {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// String renders the block. Empty blocks render as the empty string.
func (b *Block) String() string {
	var sb strings.Builder
	name := strings.ToUpper(b.name)
	if !b.transient {
		if !b.HasData() {
			return ""
		}
		fmt.Fprintf(&sb, "BEGIN %s\n", name)
		for _, field := range b.fields {
			sb.WriteString(entryOf(field))
		}
		fmt.Fprintf(&sb, "END %s\n", name)
		return sb.String()
	}

	for _, key := range b.Keys() {
		var body strings.Builder
		for _, field := range b.fields {
			switch cell := field.(type) {
			case *ScalarTransient:
				body.WriteString(cell.FileEntryAt(key, CopyRelativePaths))
			default:
				body.WriteString(entryOf(field))
			}
		}
		if body.Len() == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "BEGIN %s %d\n", name, key+1)
		sb.WriteString(body.String())
		fmt.Fprintf(&sb, "END %s\n", name)
	}
	return sb.String()
}

// WriteTo writes the rendered block to w.
func (b *Block) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func entryOf(field Data) string {
	switch cell := field.(type) {
	case *Scalar:
		return cell.FileEntry(EntryOptions{})
	case *ScalarTransient:
		return cell.FileEntry(CopyRelativePaths)
	default:
		return ""
	}
}
