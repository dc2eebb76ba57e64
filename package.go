package mfdata

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goliatone/go-mfdata/internal/token"
	"github.com/goliatone/go-mfdata/structure"
)

var (
	// ErrUnknownBlock marks a BEGIN line naming a block the package lacks.
	ErrUnknownBlock = errors.New("mfdata: unknown block")
	// ErrUnknownField marks a data line whose keyword matches no field.
	ErrUnknownField = errors.New("mfdata: unknown field")
)

// Package is the set of blocks making up one input file.
type Package struct {
	name   string
	def    *structure.Definition
	blocks []*Block
	cfg    config
}

// NewPackage builds an empty package from def. Every field shares one
// comment sink.
func NewPackage(def *structure.Definition, opts ...Option) (*Package, error) {
	if def == nil {
		return nil, fmt.Errorf("mfdata: nil definition")
	}
	cfg := applyOptions(append([]Option{WithPackageName(def.Package)}, opts...))
	if cfg.comments == nil {
		cfg.comments = NewComments()
	}
	p := &Package{name: def.Package, def: def, cfg: cfg}
	for _, bd := range def.Blocks {
		block, err := NewBlock(bd, cfg.options()...)
		if err != nil {
			return nil, err
		}
		p.blocks = append(p.blocks, block)
	}
	return p, nil
}

// NewEmbeddedPackage builds a package from a bundled definition.
func NewEmbeddedPackage(name string, opts ...Option) (*Package, error) {
	def, err := structure.Embedded(name)
	if err != nil {
		return nil, err
	}
	return NewPackage(def, opts...)
}

// Name returns the package type, such as "gwf-ghb".
func (p *Package) Name() string {
	return p.name
}

// Definition returns the definition the package was built from.
func (p *Package) Definition() *structure.Definition {
	return p.def
}

// Comments returns the sink shared by all fields.
func (p *Package) Comments() CommentSink {
	return p.cfg.comments
}

// Blocks returns the blocks in definition order.
func (p *Package) Blocks() []*Block {
	return append([]*Block(nil), p.blocks...)
}

// Block looks a block up by name, case-insensitively.
func (p *Package) Block(name string) (*Block, bool) {
	for _, b := range p.blocks {
		if strings.EqualFold(b.name, name) {
			return b, true
		}
	}
	return nil, false
}

// Field returns the first field called name in block order.
func (p *Package) Field(name string) (Data, bool) {
	for _, b := range p.blocks {
		if field, ok := b.Field(name); ok {
			return field, true
		}
	}
	return nil, false
}

// Scalar returns the single-valued field called name.
func (p *Package) Scalar(name string) (*Scalar, bool) {
	field, _ := p.Field(name)
	s, ok := field.(*Scalar)
	return s, ok
}

// Transient returns the per-period field called name.
func (p *Package) Transient(name string) (*ScalarTransient, bool) {
	field, _ := p.Field(name)
	ts, ok := field.(*ScalarTransient)
	return ts, ok
}

// String renders every block holding data, separated by blank lines.
func (p *Package) String() string {
	var parts []string
	for _, b := range p.blocks {
		if text := b.String(); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// Write renders the package to w.
func (p *Package) Write(w io.Writer) error {
	_, err := io.WriteString(w, p.String())
	return err
}

// Load reads a package file. Each data line is handed to the field whose
// keyword leads it; the BEGIN line of a transient block supplies the stress
// period, written one-based in the file.
func (p *Package) Load(r io.Reader) error {
	lr := NewReader(r)
	var (
		block   *Block
		header  BlockHeader
		pending []string
	)
	for {
		line, err := lr.ReadLine()
		if errors.Is(err, io.EOF) {
			if block != nil {
				return fmt.Errorf("mfdata: block %q not closed: %w", block.name, io.ErrUnexpectedEOF)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if token.IsComment(line) {
			if text := strings.TrimSpace(line); text != "" {
				pending = append(pending, text)
			}
			continue
		}
		tokens := token.SplitDataLine(line)
		if len(tokens) == 0 {
			continue
		}
		lead := strings.ToUpper(tokens[0])

		if block == nil {
			if lead != "BEGIN" || len(tokens) < 2 {
				return fmt.Errorf("mfdata: line %d: expected BEGIN, found %q", lr.Line(), line)
			}
			b, ok := p.Block(tokens[1])
			if !ok {
				return fmt.Errorf("%w %q at line %d", ErrUnknownBlock, tokens[1], lr.Line())
			}
			header, err = parseHeader(b, tokens, lr.Line())
			if err != nil {
				return err
			}
			block = b
			pending = nil
			continue
		}

		if lead == "END" {
			block = nil
			pending = nil
			continue
		}
		field, ok := block.fieldForKeyword(lead)
		if !ok {
			return fmt.Errorf("%w %q in block %q at line %d", ErrUnknownField, tokens[0], block.name, lr.Line())
		}
		if _, err := field.Load(line, lr, header, pending); err != nil {
			return err
		}
		pending = nil
	}
}

func parseHeader(b *Block, tokens []string, lineNo int) (BlockHeader, error) {
	header := BlockHeader{Name: b.name}
	if !b.transient {
		return header, nil
	}
	if len(tokens) < 3 {
		return header, fmt.Errorf("mfdata: line %d: block %q requires a period number", lineNo, b.name)
	}
	n, err := strconv.Atoi(tokens[2])
	if err != nil || n < 1 {
		return header, fmt.Errorf("mfdata: line %d: invalid period %q for block %q", lineNo, tokens[2], b.name)
	}
	header.Key = n - 1
	header.Keyed = true
	return header, nil
}

// Snapshot returns the values held at stress period key, named by field
// with dashes replaced by underscores. Fields without data are omitted.
func (p *Package) Snapshot(key int) map[string]any {
	out := map[string]any{}
	for _, b := range p.blocks {
		for _, field := range b.fields {
			name := SnapshotName(field.Structure().Name)
			switch cell := field.(type) {
			case *Scalar:
				if cell.HasData() {
					out[name] = cell.Data(true)
				}
			case *ScalarTransient:
				if cell.HasDataAt(key) {
					out[name] = cell.Data(key)
				}
			}
		}
	}
	return out
}

// SnapshotName is the snapshot key of the field called name.
func SnapshotName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "-", "_")
}
