package mfdata

import (
	"github.com/goliatone/go-mfdata/structure"
)

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors is a flat list of FieldDescriptor values.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatOpenAPI is an OpenAPI 3 document.
	SchemaFormatOpenAPI SchemaFormat = "openapi"
)

// SchemaDocument is a generated schema. Document must be JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator describes a package definition. Implementations must be
// safe for concurrent use and return an empty document for a nil definition.
type SchemaGenerator interface {
	Generate(def *structure.Definition) (SchemaDocument, error)
}

// FieldDescriptor describes one field of a package.
type FieldDescriptor struct {
	Path      string   `json:"path"`
	DataType  string   `json:"datatype"`
	Items     []string `json:"items"`
	Transient bool     `json:"transient,omitempty"`
}

// DefaultSchemaGenerator returns the descriptor generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

// WithSchemaGenerator replaces the generator used by Package.Schema.
func WithSchemaGenerator(generator SchemaGenerator) Option {
	return func(cfg *config) {
		cfg.schemaGenerator = generator
	}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(def *structure.Definition) (SchemaDocument, error) {
	descriptors := []FieldDescriptor{}
	if def != nil {
		for _, block := range def.Blocks {
			for _, st := range block.Fields {
				descriptors = append(descriptors, describeField(st))
			}
		}
	}
	return SchemaDocument{Format: SchemaFormatDescriptors, Document: descriptors}, nil
}

func describeField(st *structure.Structure) FieldDescriptor {
	types := st.ItemTypes()
	items := make([]string, len(types))
	for i, typ := range types {
		items[i] = typ.String()
	}
	return FieldDescriptor{
		Path:      st.Block + "." + st.Name,
		DataType:  st.DataType().String(),
		Items:     items,
		Transient: st.Transient,
	}
}

// Schema describes the package definition with the configured generator.
func (p *Package) Schema() (SchemaDocument, error) {
	generator := p.cfg.schemaGenerator
	if generator == nil {
		generator = DefaultSchemaGenerator()
	}
	return generator.Generate(p.def)
}
