package document

import (
	"fmt"
	"strings"

	orderedmap "github.com/pb33f/ordered-map/v2"

	"github.com/kolah/tessa/internal/model"
)

// buildSpec lifts the decoded value tree into the typed model. Every access
// is fallible: substructure of the wrong shape degrades to a warning and the
// offending node is skipped, never aborting a parse that already passed the
// structural checks.
func buildSpec(root model.Value) (*model.Spec, []string) {
	var warnings []string

	spec := &model.Spec{
		Paths:   orderedmap.New[string, *model.PathItem](),
		Schemas: orderedmap.New[string, *model.Schema](),
	}

	if title, ok := stringAt(root, "info", "title"); ok {
		spec.Info.Title = title
	} else {
		warnings = append(warnings, "info.title is missing")
	}
	if version, ok := stringAt(root, "info", "version"); ok {
		spec.Info.Version = version
	} else {
		warnings = append(warnings, "info.version is missing")
	}
	spec.Info.Description, _ = stringAt(root, "info", "description")

	_, hasPaths := root.Member("paths")
	_, hasComponents := root.Member("components")
	if !hasPaths && !hasComponents {
		warnings = append(warnings, "document declares neither paths nor components")
	}

	if servers, ok := root.Member("servers"); ok {
		s, w := buildServers(servers)
		spec.Servers = s
		warnings = append(warnings, w...)
	}

	if paths, ok := root.Member("paths"); ok {
		w := buildPaths(spec, paths)
		warnings = append(warnings, w...)
	}

	if schemas, ok := memberAt(root, "components", "schemas"); ok {
		w := buildComponentSchemas(spec, schemas)
		warnings = append(warnings, w...)
	}

	return spec, warnings
}

func buildServers(v model.Value) ([]model.Server, []string) {
	items, ok := v.AsArray()
	if !ok {
		return nil, []string{"servers is not an array; ignored"}
	}
	var servers []model.Server
	var warnings []string
	for _, item := range items {
		url, ok := stringAt(item, "url")
		if !ok {
			warnings = append(warnings, "server entry without a url; skipped")
			continue
		}
		desc, _ := stringAt(item, "description")
		servers = append(servers, model.Server{URL: url, Description: desc})
	}
	return servers, warnings
}

func buildPaths(spec *model.Spec, v model.Value) []string {
	obj, ok := v.AsObject()
	if !ok {
		return []string{"paths is not an object; ignored"}
	}
	var warnings []string
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		item, w := buildPathItem(pair.Key, pair.Value)
		warnings = append(warnings, w...)
		if item != nil {
			spec.Paths.Set(pair.Key, item)
		}
	}
	return warnings
}

func buildPathItem(path string, v model.Value) (*model.PathItem, []string) {
	obj, ok := v.AsObject()
	if !ok {
		return nil, []string{fmt.Sprintf("paths.%s is not an object; skipped", path)}
	}

	item := &model.PathItem{Path: path}
	var warnings []string

	// parameters declared on the path item apply to every operation under it
	if params, ok := v.Member("parameters"); ok {
		ps, w := buildParameters(path, params)
		item.Parameters = ps
		warnings = append(warnings, w...)
	}

	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		method, ok := model.ParseMethod(pair.Key)
		if !ok {
			continue // summary, description, parameters, extensions
		}
		op, w := buildOperation(method, path, pair.Value)
		warnings = append(warnings, w...)
		if op == nil {
			continue
		}
		op.Parameters = mergeParameters(item.Parameters, op.Parameters)
		item.Operations = append(item.Operations, op)
	}

	return item, warnings
}

func buildOperation(method model.Method, path string, v model.Value) (*model.Operation, []string) {
	if _, ok := v.AsObject(); !ok {
		return nil, []string{fmt.Sprintf("%s %s is not an object; skipped", method, path)}
	}

	op := &model.Operation{Method: method, Path: path}
	op.ID, _ = stringAt(v, "operationId")
	op.Summary, _ = stringAt(v, "summary")
	op.Description, _ = stringAt(v, "description")
	if dep, ok := v.Member("deprecated"); ok {
		op.Deprecated, _ = dep.AsBool()
	}
	if tags, ok := v.Member("tags"); ok {
		if items, ok := tags.AsArray(); ok {
			for _, item := range items {
				if s, ok := item.AsString(); ok {
					op.Tags = append(op.Tags, s)
				}
			}
		}
	}

	var warnings []string
	where := fmt.Sprintf("%s %s", method, path)

	if params, ok := v.Member("parameters"); ok {
		ps, w := buildParameters(where, params)
		op.Parameters = ps
		warnings = append(warnings, w...)
	}

	if body, ok := v.Member("requestBody"); ok {
		rb, w := buildRequestBody(where, body)
		op.RequestBody = rb
		warnings = append(warnings, w...)
	}

	if responses, ok := v.Member("responses"); ok {
		if obj, ok := responses.AsObject(); ok {
			for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
				desc, _ := stringAt(pair.Value, "description")
				op.Responses = append(op.Responses, model.Response{
					StatusCode:  pair.Key,
					Description: desc,
				})
			}
		}
	}

	return op, warnings
}

func buildParameters(where string, v model.Value) ([]model.Parameter, []string) {
	items, ok := v.AsArray()
	if !ok {
		return nil, []string{where + ": parameters is not an array; ignored"}
	}
	var params []model.Parameter
	var warnings []string
	for _, item := range items {
		name, okName := stringAt(item, "name")
		in, okIn := stringAt(item, "in")
		if !okName || !okIn {
			warnings = append(warnings, where+": parameter without name or in; skipped")
			continue
		}
		p := model.Parameter{Name: name, In: model.ParameterLocation(strings.ToLower(in))}
		if req, ok := item.Member("required"); ok {
			p.Required, _ = req.AsBool()
		}
		if dep, ok := item.Member("deprecated"); ok {
			p.Deprecated, _ = dep.AsBool()
		}
		p.Description, _ = stringAt(item, "description")
		if schema, ok := item.Member("schema"); ok {
			p.Schema = buildSchema(schema)
		}
		params = append(params, p)
	}
	return params, warnings
}

// mergeParameters joins path-item parameters with operation ones; the
// operation wins a (name, location) collision.
func mergeParameters(shared, own []model.Parameter) []model.Parameter {
	if len(shared) == 0 {
		return own
	}
	merged := make([]model.Parameter, 0, len(shared)+len(own))
	for _, p := range shared {
		overridden := false
		for _, o := range own {
			if o.Name == p.Name && o.In == p.In {
				overridden = true
				break
			}
		}
		if !overridden {
			merged = append(merged, p)
		}
	}
	return append(merged, own...)
}

func buildRequestBody(where string, v model.Value) (*model.RequestBody, []string) {
	if _, ok := v.AsObject(); !ok {
		return nil, []string{where + ": requestBody is not an object; ignored"}
	}
	rb := &model.RequestBody{}
	rb.Description, _ = stringAt(v, "description")
	if req, ok := v.Member("required"); ok {
		rb.Required, _ = req.AsBool()
	}
	if content, ok := v.Member("content"); ok {
		if obj, ok := content.AsObject(); ok {
			for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
				mtc := model.MediaTypeContent{MediaType: pair.Key}
				if schema, ok := pair.Value.Member("schema"); ok {
					mtc.Schema = buildSchema(schema)
				}
				rb.Content = append(rb.Content, mtc)
			}
		}
	}
	return rb, nil
}

func buildComponentSchemas(spec *model.Spec, v model.Value) []string {
	obj, ok := v.AsObject()
	if !ok {
		return []string{"components.schemas is not an object; ignored"}
	}
	var warnings []string
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		s := buildSchema(pair.Value)
		if s == nil {
			warnings = append(warnings, fmt.Sprintf("components.schemas.%s is not an object; skipped", pair.Key))
			continue
		}
		s.Name = pair.Key
		spec.Schemas.Set(pair.Key, s)
	}
	return warnings
}

// buildSchema reads one schema node. Only inline nesting is followed here;
// $ref stays a string for the resolver.
func buildSchema(v model.Value) *model.Schema {
	if _, ok := v.AsObject(); !ok {
		return nil
	}

	s := &model.Schema{}
	s.Ref, _ = stringAt(v, "$ref")
	if t, ok := stringAt(v, "type"); ok {
		s.Type = model.SchemaType(t)
	}
	s.Format, _ = stringAt(v, "format")
	s.Description, _ = stringAt(v, "description")

	if example, ok := v.Member("example"); ok {
		s.Example = &example
	}
	if enum, ok := v.Member("enum"); ok {
		if items, ok := enum.AsArray(); ok {
			s.Enum = items
		}
	}

	if props, ok := v.Member("properties"); ok {
		if obj, ok := props.AsObject(); ok {
			for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
				ps := buildSchema(pair.Value)
				if ps == nil {
					continue
				}
				if ps.Name == "" {
					ps.Name = pair.Key
				}
				s.Properties = append(s.Properties, model.Property{Name: pair.Key, Schema: ps})
			}
		}
	}

	if req, ok := v.Member("required"); ok {
		if items, ok := req.AsArray(); ok {
			for _, item := range items {
				if name, ok := item.AsString(); ok {
					s.Required = append(s.Required, name)
				}
			}
		}
	}

	if items, ok := v.Member("items"); ok {
		s.Items = buildSchema(items)
	}

	s.Minimum = floatAt(v, "minimum")
	s.Maximum = floatAt(v, "maximum")
	s.MinLength = intAt(v, "minLength")
	s.MaxLength = intAt(v, "maxLength")

	return s
}

func stringAt(v model.Value, path ...string) (string, bool) {
	cur := v
	for _, key := range path {
		next, ok := cur.Member(key)
		if !ok {
			return "", false
		}
		cur = next
	}
	return cur.AsString()
}

func memberAt(v model.Value, path ...string) (model.Value, bool) {
	cur := v
	for _, key := range path {
		next, ok := cur.Member(key)
		if !ok {
			return model.Value{}, false
		}
		cur = next
	}
	return cur, true
}

func floatAt(v model.Value, key string) *float64 {
	member, ok := v.Member(key)
	if !ok {
		return nil
	}
	f, ok := member.AsFloat()
	if !ok {
		return nil
	}
	return &f
}

func intAt(v model.Value, key string) *int64 {
	member, ok := v.Member(key)
	if !ok {
		return nil
	}
	i, ok := member.AsInt()
	if !ok {
		return nil
	}
	return &i
}
