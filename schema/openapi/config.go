package openapi

import "strings"

// PackagePlaceholder in an endpoint path is replaced by the package type.
const PackagePlaceholder = "{package}"

type generatorConfig struct {
	openAPIVersion string
	title          string
	version        string
	description    string

	method      string
	path        string
	operationID string
	summary     string
	mediaType   string
	responses   map[string]string

	fieldDescriptions bool
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		openAPIVersion:    "3.0.3",
		title:             "MF6 Package Schema",
		version:           "1.0.0",
		method:            "put",
		path:              "/packages/" + PackagePlaceholder,
		mediaType:         "application/json",
		responses:         map[string]string{"204": "OK"},
		fieldDescriptions: true,
	}
}

// GeneratorOption configures the generator. Empty arguments leave the
// current value in place.
type GeneratorOption func(*generatorConfig)

// WithOpenAPIVersion sets the openapi version string. Default 3.0.3.
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version != "" {
			cfg.openAPIVersion = version
		}
	}
}

// WithTitle sets info.title and info.version.
func WithTitle(title, version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title != "" {
			cfg.title = title
		}
		if version != "" {
			cfg.version = version
		}
	}
}

// WithDescription sets info.description.
func WithDescription(description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.description = strings.TrimSpace(description)
	}
}

// WithEndpoint sets the method and path of the single operation. The path
// may contain PackagePlaceholder.
func WithEndpoint(method, path string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if method != "" {
			cfg.method = strings.ToLower(method)
		}
		if path != "" {
			cfg.path = path
		}
	}
}

// WithOperationID sets the operationId. It defaults to "<method>:<path>".
func WithOperationID(id string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.operationID = id
	}
}

// WithSummary attaches a summary to the operation.
func WithSummary(summary string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.summary = strings.TrimSpace(summary)
	}
}

// WithMediaType sets the request body media type.
func WithMediaType(mediaType string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if mediaType != "" {
			cfg.mediaType = mediaType
		}
	}
}

// WithResponse adds or replaces the response for status.
func WithResponse(status, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if status == "" {
			return
		}
		responses := make(map[string]string, len(cfg.responses)+1)
		for k, v := range cfg.responses {
			responses[k] = v
		}
		responses[status] = description
		cfg.responses = responses
	}
}

// WithoutFieldDescriptions leaves the definition's field descriptions out
// of the component schemas.
func WithoutFieldDescriptions() GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.fieldDescriptions = false
	}
}
