package openapi

import (
	mfdata "github.com/goliatone/go-mfdata"
	"github.com/goliatone/go-mfdata/structure"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs a generator producing one OpenAPI document per
// package definition, with a component schema per block.
func NewGenerator(opts ...GeneratorOption) mfdata.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{config: cfg}
}

// Option returns an mfdata.Option that makes Package.Schema use the OpenAPI
// generator.
func Option(opts ...GeneratorOption) mfdata.Option {
	return mfdata.WithSchemaGenerator(NewGenerator(opts...))
}

func (g generator) Generate(def *structure.Definition) (mfdata.SchemaDocument, error) {
	if def == nil {
		return mfdata.SchemaDocument{Format: mfdata.SchemaFormatOpenAPI, Document: map[string]any{}}, nil
	}
	document, err := newDocumentBuilder(g.config, def).build()
	if err != nil {
		return mfdata.SchemaDocument{}, err
	}
	return mfdata.SchemaDocument{Format: mfdata.SchemaFormatOpenAPI, Document: document}, nil
}
