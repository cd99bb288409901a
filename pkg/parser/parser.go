package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mockingj/mockingj/pkg/schema"
)

// ErrUnsupportedDocument is returned for inputs that are neither
// Swagger 2.0 nor OpenAPI 3.x.
var ErrUnsupportedDocument = errors.New("unsupported specification document")

// Document is a parsed API description: the endpoints to mock plus the
// shared schema definitions they reference. It implements the reference
// resolver the generation engine expects.
type Document struct {
	Title    string
	Version  string
	BasePath string

	Endpoints   []Endpoint
	Definitions map[string]*schema.Schema

	refPrefix string
}

// Endpoint is one mockable operation.
type Endpoint struct {
	Method      string
	Path        string // template style, e.g. /pets/{petId}
	OperationID string
	Summary     string

	Parameters  []Parameter
	RequestBody *RequestBody
	// Responses is keyed by status string ("200", "default").
	Responses map[string]*Response
}

// Parameter is a path, query, or header parameter.
type Parameter struct {
	Name     string
	In       string // "path", "query", "header"
	Required bool
	Schema   *schema.Schema
}

// RequestBody carries the operation's body schema twice: the validated
// model for introspection, and a self-contained raw JSON document (all
// referenced definitions inlined alongside) for request validation.
type RequestBody struct {
	Required bool
	Schema   *schema.Schema
	Raw      json.RawMessage
}

// Response describes one declared response.
type Response struct {
	Description string
	// Schema is nil for bodyless responses.
	Schema *schema.Schema
}

// SuccessResponse picks the response to mock: the lowest declared 2xx
// status, falling back to "default" (served as 200). The second return
// is false when the operation declares nothing usable.
func (e *Endpoint) SuccessResponse() (int, *Response, bool) {
	statuses := make([]string, 0, len(e.Responses))
	for s := range e.Responses {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		if len(s) == 3 && s[0] == '2' {
			if code, err := strconv.Atoi(s); err == nil {
				return code, e.Responses[s], true
			}
		}
	}
	if r, ok := e.Responses["default"]; ok {
		return 200, r, true
	}
	return 0, nil, false
}

// Resolve implements the generator's Resolver interface over the
// document's definition arena.
func (d *Document) Resolve(ref string) (*schema.Schema, error) {
	name, ok := strings.CutPrefix(ref, d.refPrefix)
	if ok {
		if s, found := d.Definitions[name]; found {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnresolvedReference, ref)
}

// ParseFile reads and parses a specification document from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read specification: %w", err)
	}
	return Parse(data)
}

// Parse parses a Swagger 2.0 or OpenAPI 3.x document, in YAML or JSON.
func Parse(data []byte) (*Document, error) {
	var probe struct {
		Swagger string `yaml:"swagger"`
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("malformed specification document: %w", err)
	}

	switch {
	case strings.HasPrefix(probe.Swagger, "2."):
		raw, err := parseSwagger(data)
		if err != nil {
			return nil, err
		}
		return assemble(raw)
	case strings.HasPrefix(probe.OpenAPI, "3."):
		raw, err := parseOpenAPI3(data)
		if err != nil {
			return nil, err
		}
		return assemble(raw)
	default:
		return nil, fmt.Errorf("%w: expected swagger 2.x or openapi 3.x", ErrUnsupportedDocument)
	}
}

// Intermediate form produced by the version-specific front-ends.
type rawDocument struct {
	title    string
	version  string
	basePath string

	prefix string
	defs   map[string]*rawSchema

	endpoints []rawEndpoint
}

type rawEndpoint struct {
	method      string
	path        string
	operationID string
	summary     string

	params    []rawParam
	body      *rawBody
	responses map[string]rawResponse
}

type rawParam struct {
	name     string
	in       string
	required bool
	schema   *rawSchema
}

type rawBody struct {
	required bool
	schema   *rawSchema
}

type rawResponse struct {
	description string
	schema      *rawSchema
}

// assemble runs reference checking, validates every schema, and builds
// the final document.
func assemble(raw *rawDocument) (*Document, error) {
	checker := newRefChecker(raw.defs, raw.prefix)
	if err := checker.checkAll(); err != nil {
		return nil, err
	}
	for _, ep := range raw.endpoints {
		for _, p := range ep.params {
			if err := checker.checkNode(p.schema); err != nil {
				return nil, err
			}
		}
		if ep.body != nil {
			if err := checker.checkNode(ep.body.schema); err != nil {
				return nil, err
			}
		}
		for _, r := range ep.responses {
			if err := checker.checkNode(r.schema); err != nil {
				return nil, err
			}
		}
	}

	doc := &Document{
		Title:       raw.title,
		Version:     raw.version,
		BasePath:    raw.basePath,
		Definitions: make(map[string]*schema.Schema, len(raw.defs)),
		refPrefix:   raw.prefix,
	}

	defNames := make([]string, 0, len(raw.defs))
	for name := range raw.defs {
		defNames = append(defNames, name)
	}
	sort.Strings(defNames)
	for _, name := range defNames {
		s, err := validatedSchema(raw.defs[name], defPath(raw.prefix, name))
		if err != nil {
			return nil, err
		}
		doc.Definitions[name] = s
	}

	for _, ep := range raw.endpoints {
		where := fmt.Sprintf("paths.%s.%s", ep.path, strings.ToLower(ep.method))
		endpoint := Endpoint{
			Method:      ep.method,
			Path:        ep.path,
			OperationID: ep.operationID,
			Summary:     ep.summary,
			Responses:   make(map[string]*Response, len(ep.responses)),
		}

		for _, p := range ep.params {
			ps, err := validatedSchema(p.schema, fmt.Sprintf("%s.parameters.%s", where, p.name))
			if err != nil {
				return nil, err
			}
			endpoint.Parameters = append(endpoint.Parameters, Parameter{
				Name:     p.name,
				In:       p.in,
				Required: p.required,
				Schema:   ps,
			})
		}

		if ep.body != nil && ep.body.schema != nil {
			bs, err := validatedSchema(ep.body.schema, where+".requestBody")
			if err != nil {
				return nil, err
			}
			rawJSON, err := selfContained(ep.body.schema, raw)
			if err != nil {
				return nil, fmt.Errorf("%s.requestBody: %w", where, err)
			}
			endpoint.RequestBody = &RequestBody{
				Required: ep.body.required,
				Schema:   bs,
				Raw:      rawJSON,
			}
		}

		for status, r := range ep.responses {
			rs, err := validatedSchema(r.schema, fmt.Sprintf("%s.responses.%s", where, status))
			if err != nil {
				return nil, err
			}
			endpoint.Responses[status] = &Response{Description: r.description, Schema: rs}
		}

		doc.Endpoints = append(doc.Endpoints, endpoint)
	}

	sort.Slice(doc.Endpoints, func(i, j int) bool {
		a, b := doc.Endpoints[i], doc.Endpoints[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Method < b.Method
	})
	return doc, nil
}

func defPath(prefix, name string) string {
	switch prefix {
	case "#/components/schemas/":
		return "components.schemas." + name
	default:
		return "definitions." + name
	}
}

// selfContained serializes a schema node together with the document's
// definition arena so its internal references resolve as JSON pointers
// when the result is compiled standalone.
func selfContained(r *rawSchema, raw *rawDocument) (json.RawMessage, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if len(raw.defs) == 0 {
		return data, nil
	}

	var node map[string]any
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	defs, err := json.Marshal(raw.defs)
	if err != nil {
		return nil, err
	}
	var defNode map[string]any
	if err := json.Unmarshal(defs, &defNode); err != nil {
		return nil, err
	}

	if raw.prefix == "#/components/schemas/" {
		node["components"] = map[string]any{"schemas": defNode}
	} else {
		node["definitions"] = defNode
	}
	return json.Marshal(node)
}
