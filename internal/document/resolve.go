package document

import (
	"strings"

	"github.com/kolah/tessa/internal/model"
)

const schemaRefPrefix = "#/components/schemas/"

// Resolve follows a schema's $ref into the document's component schemas.
// Concrete schemas resolve to themselves. Only local single-level references
// of the form "#/components/schemas/Name" are supported.
func Resolve(spec *model.Spec, schema *model.Schema) (*model.Schema, error) {
	if schema == nil || schema.Ref == "" {
		return schema, nil
	}

	name, ok := strings.CutPrefix(schema.Ref, schemaRefPrefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		return nil, &RefError{Ref: schema.Ref, Reason: RefUnsupported}
	}

	if spec == nil {
		return nil, &RefError{Ref: schema.Ref, Name: name, Reason: RefUnknown}
	}
	target := spec.SchemaByName(name)
	if target == nil {
		return nil, &RefError{Ref: schema.Ref, Name: name, Reason: RefUnknown}
	}
	return target, nil
}
