package parser

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Swagger 2.0 document structure, decoded directly from YAML or JSON.

type swaggerDoc struct {
	Swagger     string                     `yaml:"swagger"`
	Info        swaggerInfo                `yaml:"info"`
	BasePath    string                     `yaml:"basePath"`
	Paths       map[string]swaggerPathItem `yaml:"paths"`
	Definitions map[string]*rawSchema      `yaml:"definitions"`
}

type swaggerInfo struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
}

type swaggerPathItem struct {
	Get        *swaggerOperation  `yaml:"get"`
	Put        *swaggerOperation  `yaml:"put"`
	Post       *swaggerOperation  `yaml:"post"`
	Delete     *swaggerOperation  `yaml:"delete"`
	Patch      *swaggerOperation  `yaml:"patch"`
	Head       *swaggerOperation  `yaml:"head"`
	Options    *swaggerOperation  `yaml:"options"`
	Parameters []swaggerParameter `yaml:"parameters"`
}

// operations returns the path item's operations in a fixed method order.
func (pi *swaggerPathItem) operations() []struct {
	method string
	op     *swaggerOperation
} {
	return []struct {
		method string
		op     *swaggerOperation
	}{
		{"GET", pi.Get},
		{"PUT", pi.Put},
		{"POST", pi.Post},
		{"DELETE", pi.Delete},
		{"PATCH", pi.Patch},
		{"HEAD", pi.Head},
		{"OPTIONS", pi.Options},
	}
}

type swaggerOperation struct {
	Summary     string                     `yaml:"summary"`
	OperationID string                     `yaml:"operationId"`
	Parameters  []swaggerParameter         `yaml:"parameters"`
	Responses   map[string]swaggerResponse `yaml:"responses"`
}

// swaggerParameter covers both shapes of a Swagger 2.0 parameter: body
// parameters carry a schema field, everything else declares constraints
// inline on the parameter itself.
type swaggerParameter struct {
	Name     string     `yaml:"name"`
	In       string     `yaml:"in"`
	Required bool       `yaml:"required"`
	Schema   *rawSchema `yaml:"schema"`

	// Inline constraints for non-body parameters.
	Type             string     `yaml:"type"`
	Format           string     `yaml:"format"`
	Default          any        `yaml:"default"`
	Enum             []any      `yaml:"enum"`
	Pattern          string     `yaml:"pattern"`
	MinLength        *int       `yaml:"minLength"`
	MaxLength        *int       `yaml:"maxLength"`
	Minimum          *float64   `yaml:"minimum"`
	Maximum          *float64   `yaml:"maximum"`
	ExclusiveMinimum bool       `yaml:"exclusiveMinimum"`
	ExclusiveMaximum bool       `yaml:"exclusiveMaximum"`
	MultipleOf       *float64   `yaml:"multipleOf"`
	Items            *rawSchema `yaml:"items"`
	MinItems         *int       `yaml:"minItems"`
	MaxItems         *int       `yaml:"maxItems"`
	UniqueItems      bool       `yaml:"uniqueItems"`
}

// paramSchema returns the schema describing the parameter's value.
func (p *swaggerParameter) paramSchema() *rawSchema {
	if p.Schema != nil {
		return p.Schema
	}
	if p.Type == "" {
		return nil
	}
	r := &rawSchema{
		Type:             p.Type,
		Format:           p.Format,
		Default:          p.Default,
		Enum:             p.Enum,
		Pattern:          p.Pattern,
		MinLength:        p.MinLength,
		MaxLength:        p.MaxLength,
		Minimum:          p.Minimum,
		Maximum:          p.Maximum,
		ExclusiveMinimum: p.ExclusiveMinimum,
		ExclusiveMaximum: p.ExclusiveMaximum,
		MultipleOf:       p.MultipleOf,
		MinItems:         p.MinItems,
		MaxItems:         p.MaxItems,
		UniqueItems:      p.UniqueItems,
	}
	if p.Items != nil {
		r.Items = &rawItems{Schema: p.Items}
	}
	return r
}

type swaggerResponse struct {
	Description string     `yaml:"description"`
	Schema      *rawSchema `yaml:"schema"`
}

func parseSwagger(data []byte) (*rawDocument, error) {
	var doc swaggerDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed swagger document: %w", err)
	}
	if len(doc.Paths) == 0 {
		return nil, fmt.Errorf("swagger document declares no paths")
	}

	raw := &rawDocument{
		title:    doc.Info.Title,
		version:  doc.Info.Version,
		basePath: doc.BasePath,
		prefix:   "#/definitions/",
		defs:     doc.Definitions,
	}
	if raw.defs == nil {
		raw.defs = map[string]*rawSchema{}
	}

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths[path]
		for _, entry := range item.operations() {
			if entry.op == nil {
				continue
			}
			ep := rawEndpoint{
				method:      entry.method,
				path:        path,
				operationID: entry.op.OperationID,
				summary:     entry.op.Summary,
				responses:   make(map[string]rawResponse, len(entry.op.Responses)),
			}

			// Path-level parameters apply to every operation; the
			// operation's own list follows and may extend them.
			params := append(append([]swaggerParameter(nil), item.Parameters...), entry.op.Parameters...)
			for _, p := range params {
				if p.In == "body" {
					ep.body = &rawBody{required: p.Required, schema: p.Schema}
					continue
				}
				ep.params = append(ep.params, rawParam{
					name:     p.Name,
					in:       p.In,
					required: p.Required || p.In == "path",
					schema:   p.paramSchema(),
				})
			}

			for status, resp := range entry.op.Responses {
				ep.responses[status] = rawResponse{
					description: resp.Description,
					schema:      resp.Schema,
				}
			}
			raw.endpoints = append(raw.endpoints, ep)
		}
	}
	return raw, nil
}
