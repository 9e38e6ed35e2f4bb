// Package sample synthesizes example request bodies from schemas.
package sample

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kolah/tessa/internal/document"
	"github.com/kolah/tessa/internal/model"
)

const (
	sampleUUID   = "3fa85f64-5717-4562-b3fc-2c963f66afa6"
	sampleEmail  = "user@example.com"
	sampleURI    = "https://example.com"
	sampleText   = "sample text"
	sampleString = "string"
)

// DefaultMaxDepth bounds schema recursion so reference cycles terminate.
const DefaultMaxDepth = 10

// DepthError reports a schema nested beyond the generator's depth limit.
type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("schema nesting exceeds %d levels", e.Limit)
}

// Generator produces example values for schemas. The zero value is usable;
// New fills in the defaults explicitly.
type Generator struct {
	// MaxDepth bounds nesting. Zero means DefaultMaxDepth.
	MaxDepth int
	// Now supplies the timestamp for date-time strings. Nil means time.Now.
	Now func() time.Time
}

func New() *Generator {
	return &Generator{MaxDepth: DefaultMaxDepth, Now: time.Now}
}

// Body builds an example value for a request body schema. References are
// resolved against spec as they are encountered.
func (g *Generator) Body(spec *model.Spec, schema *model.Schema) (model.Value, error) {
	return g.value(spec, schema, 0, true)
}

func (g *Generator) value(spec *model.Spec, schema *model.Schema, depth int, root bool) (model.Value, error) {
	if depth > g.maxDepth() {
		return model.Value{}, &DepthError{Limit: g.maxDepth()}
	}

	if schema == nil {
		if root {
			return model.ObjectValue(), nil
		}
		return model.NullValue(), nil
	}

	// a declared example always wins, whatever its shape
	if schema.Example != nil {
		return *schema.Example, nil
	}

	if schema.Ref != "" {
		target, err := document.Resolve(spec, schema)
		if err != nil {
			return model.Value{}, err
		}
		return g.value(spec, target, depth+1, root)
	}

	if schema.Type == model.TypeObject && len(schema.Properties) > 0 {
		obj := model.ObjectValue()
		for _, prop := range schema.Properties {
			member, err := g.value(spec, prop.Schema, depth+1, false)
			if err != nil {
				return model.Value{}, err
			}
			obj.Set(prop.Name, member)
		}
		return obj, nil
	}

	return g.leaf(schema, root), nil
}

func (g *Generator) leaf(schema *model.Schema, root bool) model.Value {
	switch schema.Type {
	case model.TypeString:
		switch schema.Format {
		case "email":
			return model.StringValue(sampleEmail)
		case "uuid":
			return model.StringValue(sampleUUID)
		case "date-time":
			return model.StringValue(g.now().UTC().Format(time.RFC3339))
		case "uri":
			return model.StringValue(sampleURI)
		}
		if len(schema.Enum) > 0 {
			return schema.Enum[0]
		}
		if schema.MinLength != nil {
			return model.StringValue(sampleText)
		}
		return model.StringValue(sampleString)
	case model.TypeInteger:
		if schema.Minimum != nil {
			return model.NumberValue(strconv.FormatInt(int64(*schema.Minimum), 10))
		}
		return model.NumberValue("1")
	case model.TypeNumber:
		if schema.Minimum != nil {
			return model.NumberValue(strconv.FormatFloat(*schema.Minimum, 'f', -1, 64))
		}
		return model.NumberValue("1.0")
	case model.TypeBoolean:
		return model.BoolValue(true)
	case model.TypeArray:
		return model.ArrayValue()
	case model.TypeObject:
		return model.ObjectValue()
	}
	if root {
		return model.ObjectValue()
	}
	return model.NullValue()
}

func (g *Generator) maxDepth() int {
	if g.MaxDepth > 0 {
		return g.MaxDepth
	}
	return DefaultMaxDepth
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}
