package structure

import (
	"embed"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed dfn/*.yaml
var embedded embed.FS

// Definition is the parsed description of one input package.
type Definition struct {
	Package string
	Blocks  []BlockDefinition
}

// BlockDefinition lists the fields of one block in file order.
type BlockDefinition struct {
	Name      string
	Transient bool
	Fields    []*Structure
}

// Field returns the named field of the block, or nil.
func (b BlockDefinition) Field(name string) *Structure {
	for _, field := range b.Fields {
		if strings.EqualFold(field.Name, name) {
			return field
		}
	}
	return nil
}

// Block returns the named block definition.
func (d *Definition) Block(name string) (BlockDefinition, bool) {
	for _, block := range d.Blocks {
		if strings.EqualFold(block.Name, name) {
			return block, true
		}
	}
	return BlockDefinition{}, false
}

// Structures returns every field structure in definition order.
func (d *Definition) Structures() []*Structure {
	var out []*Structure
	for _, block := range d.Blocks {
		out = append(out, block.Fields...)
	}
	return out
}

type definitionFile struct {
	Package string      `yaml:"package"`
	Blocks  []blockFile `yaml:"blocks"`
}

type blockFile struct {
	Name      string      `yaml:"name"`
	Transient bool        `yaml:"transient"`
	Fields    []fieldFile `yaml:"fields"`
}

type fieldFile struct {
	Name        string     `yaml:"name"`
	Type        string     `yaml:"type"`
	Optional    bool       `yaml:"optional"`
	UCase       bool       `yaml:"ucase"`
	Description string     `yaml:"description"`
	Items       []itemFile `yaml:"items"`
}

type itemFile struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
	UCase    bool   `yaml:"ucase"`
}

// LoadDefinition parses a YAML package definition.
func LoadDefinition(r io.Reader) (*Definition, error) {
	var file definitionFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("structure: decode definition: %w", err)
	}
	if file.Package == "" {
		return nil, fmt.Errorf("%w: package name is required", ErrInvalidDefinition)
	}

	def := &Definition{Package: file.Package}
	for _, bf := range file.Blocks {
		if bf.Name == "" {
			return nil, fmt.Errorf("%w: %s: block name is required", ErrInvalidDefinition, file.Package)
		}
		block := BlockDefinition{Name: strings.ToLower(bf.Name), Transient: bf.Transient}
		for _, ff := range bf.Fields {
			st, err := buildStructure(block.Name, ff)
			if err != nil {
				return nil, fmt.Errorf("structure: %s/%s: %w", file.Package, block.Name, err)
			}
			st.Transient = bf.Transient
			block.Fields = append(block.Fields, st)
		}
		def.Blocks = append(def.Blocks, block)
	}
	return def, nil
}

func buildStructure(block string, ff fieldFile) (*Structure, error) {
	typ, err := ParseItemType(ff.Type)
	if err != nil {
		return nil, err
	}
	var st *Structure
	if typ == ItemRecord {
		items := make([]DataItem, 0, len(ff.Items))
		for _, in := range ff.Items {
			itemType, err := ParseItemType(in.Type)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ff.Name, err)
			}
			items = append(items, DataItem{
				Name:     strings.ToLower(in.Name),
				Type:     itemType,
				Optional: in.Optional,
				UCase:    in.UCase,
			})
		}
		st = NewRecord(block, strings.ToLower(ff.Name), items...)
	} else {
		st = NewScalar(block, strings.ToLower(ff.Name), typ)
		st.Items[0].Optional = ff.Optional
		st.Items[0].UCase = ff.UCase
	}
	st.Description = strings.TrimSpace(ff.Description)
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}

// Embedded loads one of the definitions shipped with the module, such as
// "gwf-ghb".
func Embedded(name string) (*Definition, error) {
	f, err := embedded.Open(path.Join("dfn", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("structure: embedded definition %q: %w", name, err)
	}
	defer f.Close()
	return LoadDefinition(f)
}

// EmbeddedNames lists the shipped definitions.
func EmbeddedNames() []string {
	entries, err := embedded.ReadDir("dfn")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
