package openapi

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-mfdata/structure"
)

type documentBuilder struct {
	config     generatorConfig
	def        *structure.Definition
	components map[string]any
}

func newDocumentBuilder(config generatorConfig, def *structure.Definition) *documentBuilder {
	return &documentBuilder{config: config, def: def, components: map[string]any{}}
}

func (b *documentBuilder) build() (map[string]any, error) {
	if b.def == nil {
		return nil, fmt.Errorf("openapi: definition cannot be nil")
	}

	root := componentName(b.def.Package)
	properties := map[string]any{}
	for _, block := range b.def.Blocks {
		name := componentName(b.def.Package, block.Name)
		b.components[name] = blockSchema(block, b.config.fieldDescriptions)
		properties[strings.ToLower(block.Name)] = map[string]any{"$ref": ref(name)}
	}
	b.components[root] = map[string]any{
		"type":       "object",
		"properties": properties,
	}

	document := map[string]any{
		"openapi": b.config.openAPIVersion,
		"info":    b.buildInfo(),
		"paths":   b.buildPaths(root),
		"components": map[string]any{
			"schemas": b.components,
		},
	}
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func (b *documentBuilder) buildInfo() map[string]any {
	info := map[string]any{
		"title":   b.config.title,
		"version": b.config.version,
	}
	if b.config.description != "" {
		info["description"] = b.config.description
	}
	return info
}

func (b *documentBuilder) path() string {
	return strings.ReplaceAll(b.config.path, PackagePlaceholder, b.def.Package)
}

func (b *documentBuilder) buildPaths(root string) map[string]any {
	method := b.config.method
	path := b.path()
	operationID := b.config.operationID
	if operationID == "" {
		operationID = method + ":" + path
	}

	responses := make(map[string]any, len(b.config.responses))
	for status, description := range b.config.responses {
		responses[status] = map[string]any{"description": description}
	}

	operation := map[string]any{
		"operationId": operationID,
		"requestBody": map[string]any{
			"required": true,
			"content": map[string]any{
				b.config.mediaType: map[string]any{
					"schema": map[string]any{"$ref": ref(root)},
				},
			},
		},
		"responses": responses,
	}
	if b.config.summary != "" {
		operation["summary"] = b.config.summary
	}
	return map[string]any{path: map[string]any{method: operation}}
}

// blockSchema describes a block as an object keyed by field name.
func blockSchema(block structure.BlockDefinition, descriptions bool) map[string]any {
	properties := map[string]any{}
	for _, st := range block.Fields {
		properties[strings.ToLower(st.Name)] = fieldSchema(st, descriptions)
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if block.Transient {
		schema["x-mf-transient"] = true
	}
	return schema
}

// fieldSchema describes the value a field holds. Transient fields map
// stress periods to values.
func fieldSchema(st *structure.Structure, descriptions bool) map[string]any {
	schema := itemSchema(st.DatumType())
	if st.Kind == structure.KindRecord {
		items := make([]any, len(st.Items))
		for i, item := range st.Items {
			items[i] = strings.ToLower(item.Name)
		}
		schema["x-mf-record"] = items
	}
	if st.Transient {
		schema = map[string]any{
			"type":                 "object",
			"additionalProperties": schema,
			"x-mf-transient":       true,
		}
	}
	if descriptions && st.Description != "" {
		schema["description"] = st.Description
	}
	return schema
}

func itemSchema(typ structure.ItemType) map[string]any {
	switch typ {
	case structure.ItemKeyword, structure.ItemBoolean:
		return map[string]any{"type": "boolean"}
	case structure.ItemInteger:
		return map[string]any{"type": "integer"}
	case structure.ItemDouble:
		return map[string]any{"type": "number", "format": "double"}
	default:
		return map[string]any{"type": "string"}
	}
}

func ref(name string) string {
	return "#/components/schemas/" + name
}

// componentName joins parts in PascalCase: ("gwf-ghb", "options") becomes
// GwfGhbOptions.
func componentName(parts ...string) string {
	var sb strings.Builder
	for _, part := range parts {
		for _, word := range strings.FieldsFunc(part, func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
		}) {
			sb.WriteString(strings.ToUpper(word[:1]))
			sb.WriteString(strings.ToLower(word[1:]))
		}
	}
	if sb.Len() == 0 {
		return "Schema"
	}
	return sb.String()
}

func validateDocument(document map[string]any) error {
	if document == nil {
		return fmt.Errorf("openapi: document cannot be nil")
	}
	openapi, _ := document["openapi"].(string)
	if openapi == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	if len(paths) == 0 {
		return fmt.Errorf("openapi: document must define at least one path")
	}
	for pathKey, pathValue := range paths {
		pathItem, _ := pathValue.(map[string]any)
		if pathItem == nil {
			return fmt.Errorf("openapi: path %q invalid payload", pathKey)
		}
		if len(pathItem) == 0 {
			return fmt.Errorf("openapi: path %q missing operations", pathKey)
		}
		for method, operationValue := range pathItem {
			operation, _ := operationValue.(map[string]any)
			if operation == nil {
				return fmt.Errorf("openapi: operation %s %s invalid payload", method, pathKey)
			}
			if _, ok := operation["operationId"].(string); !ok {
				return fmt.Errorf("openapi: operation %s %s missing operationId", method, pathKey)
			}
			requestBody, _ := operation["requestBody"].(map[string]any)
			if requestBody == nil {
				return fmt.Errorf("openapi: operation %s %s missing requestBody", method, pathKey)
			}
			content, _ := requestBody["content"].(map[string]any)
			if len(content) == 0 {
				return fmt.Errorf("openapi: operation %s %s requestBody missing content", method, pathKey)
			}
			if _, ok := operation["responses"].(map[string]any); !ok {
				return fmt.Errorf("openapi: operation %s %s missing responses", method, pathKey)
			}
		}
	}
	return nil
}
