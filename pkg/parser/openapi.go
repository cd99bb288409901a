package parser

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

func parseOpenAPI3(data []byte) (*rawDocument, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("malformed openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	raw := &rawDocument{
		prefix: "#/components/schemas/",
		defs:   map[string]*rawSchema{},
	}
	if doc.Info != nil {
		raw.title = doc.Info.Title
		raw.version = doc.Info.Version
	}
	raw.basePath = serverBasePath(doc.Servers)

	if doc.Components != nil {
		for name, ref := range doc.Components.Schemas {
			raw.defs[name] = fromKin(ref)
		}
	}

	if doc.Paths == nil || len(doc.Paths.Map()) == 0 {
		return nil, fmt.Errorf("openapi document declares no paths")
	}
	paths := make([]string, 0, len(doc.Paths.Map()))
	for p := range doc.Paths.Map() {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := doc.Paths.Map()[path]
		for _, entry := range []struct {
			method string
			op     *openapi3.Operation
		}{
			{"GET", item.Get},
			{"PUT", item.Put},
			{"POST", item.Post},
			{"DELETE", item.Delete},
			{"PATCH", item.Patch},
			{"HEAD", item.Head},
			{"OPTIONS", item.Options},
		} {
			if entry.op == nil {
				continue
			}
			raw.endpoints = append(raw.endpoints, convertOperation(path, entry.method, item, entry.op))
		}
	}
	return raw, nil
}

func convertOperation(path, method string, item *openapi3.PathItem, op *openapi3.Operation) rawEndpoint {
	ep := rawEndpoint{
		method:      method,
		path:        path,
		operationID: op.OperationID,
		summary:     op.Summary,
		responses:   map[string]rawResponse{},
	}

	params := append(append(openapi3.Parameters(nil), item.Parameters...), op.Parameters...)
	for _, ref := range params {
		if ref == nil || ref.Value == nil {
			continue
		}
		p := ref.Value
		ep.params = append(ep.params, rawParam{
			name:     p.Name,
			in:       p.In,
			required: p.Required || p.In == "path",
			schema:   fromKin(p.Schema),
		})
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		if mt := jsonMediaType(op.RequestBody.Value.Content); mt != nil {
			ep.body = &rawBody{
				required: op.RequestBody.Value.Required,
				schema:   fromKin(mt.Schema),
			}
		}
	}

	if op.Responses != nil {
		for status, ref := range op.Responses.Map() {
			if ref == nil || ref.Value == nil {
				continue
			}
			resp := rawResponse{}
			if ref.Value.Description != nil {
				resp.description = *ref.Value.Description
			}
			if mt := jsonMediaType(ref.Value.Content); mt != nil {
				resp.schema = fromKin(mt.Schema)
			}
			ep.responses[status] = resp
		}
	}
	return ep
}

// jsonMediaType prefers application/json content, falling back to the
// first media type in key order.
func jsonMediaType(content openapi3.Content) *openapi3.MediaType {
	for ct, mt := range content {
		if ct == "application/json" || strings.HasPrefix(ct, "application/json;") {
			return mt
		}
	}
	keys := make([]string, 0, len(content))
	for ct := range content {
		keys = append(keys, ct)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		return content[keys[0]]
	}
	return nil
}

// fromKin converts a kin-openapi schema reference into the shared raw
// form. References are preserved as references, never inlined, so the
// arena stays the single source for shared definitions and cycles are
// caught by the reference checker rather than by unbounded recursion.
func fromKin(ref *openapi3.SchemaRef) *rawSchema {
	if ref == nil {
		return nil
	}
	if ref.Ref != "" {
		return &rawSchema{Ref: ref.Ref}
	}
	v := ref.Value
	if v == nil {
		return nil
	}

	r := &rawSchema{
		Format:      v.Format,
		Title:       v.Title,
		Description: v.Description,
		Default:     v.Default,
		Example:     v.Example,
		Nullable:    v.Nullable,
		Enum:        v.Enum,
		Pattern:     v.Pattern,
	}
	if v.Type != nil {
		for _, t := range *v.Type {
			if t == "null" {
				r.Nullable = true
				continue
			}
			r.Type = t
		}
	}

	if v.Min != nil {
		r.Minimum = ptr(*v.Min)
	}
	if v.Max != nil {
		r.Maximum = ptr(*v.Max)
	}
	r.ExclusiveMinimum = v.ExclusiveMin
	r.ExclusiveMaximum = v.ExclusiveMax
	if v.MultipleOf != nil {
		r.MultipleOf = ptr(*v.MultipleOf)
	}

	if v.MinLength > 0 {
		r.MinLength = ptr(int(v.MinLength))
	}
	if v.MaxLength != nil {
		r.MaxLength = ptr(int(*v.MaxLength))
	}

	if v.Items != nil {
		r.Items = &rawItems{Schema: fromKin(v.Items)}
	}
	if v.MinItems > 0 {
		r.MinItems = ptr(int(v.MinItems))
	}
	if v.MaxItems != nil {
		r.MaxItems = ptr(int(*v.MaxItems))
	}
	r.UniqueItems = v.UniqueItems

	if len(v.Properties) > 0 {
		r.Properties = make(map[string]*rawSchema, len(v.Properties))
		for name, p := range v.Properties {
			r.Properties[name] = fromKin(p)
		}
	}
	r.Required = v.Required
	if v.AdditionalProperties.Schema != nil {
		r.AdditionalProperties = &rawBoolOrSchema{Schema: fromKin(v.AdditionalProperties.Schema)}
	} else if v.AdditionalProperties.Has != nil {
		r.AdditionalProperties = &rawBoolOrSchema{Allowed: *v.AdditionalProperties.Has}
	}
	if v.MinProps > 0 {
		r.MinProperties = ptr(int(v.MinProps))
	}
	if v.MaxProps != nil {
		r.MaxProperties = ptr(int(*v.MaxProps))
	}
	return r
}

func ptr[T any](v T) *T { return &v }

// serverBasePath extracts the path component of the first server URL.
func serverBasePath(servers openapi3.Servers) string {
	if len(servers) == 0 || servers[0] == nil {
		return ""
	}
	u, err := url.Parse(servers[0].URL)
	if err != nil || u.Path == "/" {
		return ""
	}
	return strings.TrimSuffix(u.Path, "/")
}
