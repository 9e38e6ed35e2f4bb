package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/kolah/tessa/internal/model"
)

// Result carries a parsed specification together with its non-fatal findings
// and the untouched source text.
type Result struct {
	Spec     *model.Spec
	Version  string
	Warnings []string
	Raw      []byte
}

// Load reads a specification file and parses it.
func Load(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}
	return Parse(data)
}

// Parse turns raw text into a Spec. JSON is attempted first; YAML only when
// the text is not valid JSON. The root must be a non-null mapping carrying an
// "openapi" or "swagger" version marker. Structural defects that do not
// prevent use (missing info fields, malformed substructure) are reported as
// warnings on the Result, never as errors. Parse is pure: it touches no
// files and keeps no state.
func Parse(raw []byte) (*Result, error) {
	root, err := decode(raw)
	if err != nil {
		return nil, err
	}

	if _, ok := root.AsObject(); !ok {
		return nil, &ParseError{
			Kind: KindNotAnObject,
			Msg:  fmt.Sprintf("document root must be an object, got %s", root.Kind()),
		}
	}

	version, warnings := versionMarker(root)
	if version == "" {
		return nil, &ParseError{
			Kind: KindMissingVersion,
			Msg:  `document has neither an "openapi" nor a "swagger" field`,
		}
	}

	spec, buildWarnings := buildSpec(root)
	warnings = append(warnings, buildWarnings...)

	return &Result{Spec: spec, Version: version, Warnings: warnings, Raw: raw}, nil
}

func decode(raw []byte) (model.Value, error) {
	v, jsonErr := decodeJSON(raw)
	if jsonErr == nil {
		return v, nil
	}
	v, yamlErr := decodeYAML(raw)
	if yamlErr == nil {
		return v, nil
	}
	return model.Value{}, &ParseError{
		Kind: KindSyntax,
		Msg:  fmt.Sprintf("document is not valid JSON (%v) nor valid YAML (%v)", jsonErr, yamlErr),
		Err:  yamlErr,
	}
}

// decodeJSON walks the token stream instead of unmarshaling into maps, so
// member order and number text survive.
func decodeJSON(raw []byte) (model.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return model.Value{}, err
	}
	if dec.More() {
		return model.Value{}, fmt.Errorf("trailing content after JSON document")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (model.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return model.Value{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := model.ObjectValue()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return model.Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return model.Value{}, fmt.Errorf("object key %v is not a string", keyTok)
				}
				member, err := readJSONValue(dec)
				if err != nil {
					return model.Value{}, err
				}
				obj.Set(key, member)
			}
			if _, err := dec.Token(); err != nil { // closing brace
				return model.Value{}, err
			}
			return obj, nil
		case '[':
			var items []model.Value
			for dec.More() {
				item, err := readJSONValue(dec)
				if err != nil {
					return model.Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // closing bracket
				return model.Value{}, err
			}
			return model.ArrayValue(items...), nil
		}
		return model.Value{}, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return model.StringValue(t), nil
	case json.Number:
		return model.NumberValue(t.String()), nil
	case bool:
		return model.BoolValue(t), nil
	case nil:
		return model.NullValue(), nil
	}
	return model.Value{}, fmt.Errorf("unexpected token %v", tok)
}

// decodeYAML walks yaml nodes; mapping nodes keep key order the same way the
// JSON leg does.
func decodeYAML(raw []byte) (model.Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return model.Value{}, err
	}
	return yamlValue(&node), nil
}

func yamlValue(node *yaml.Node) model.Value {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return model.NullValue()
		}
		return yamlValue(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return model.NullValue()
		}
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		obj := model.ObjectValue()
		for i := 0; i+1 < len(node.Content); i += 2 {
			obj.Set(node.Content[i].Value, yamlValue(node.Content[i+1]))
		}
		return obj
	case yaml.SequenceNode:
		items := make([]model.Value, 0, len(node.Content))
		for _, item := range node.Content {
			items = append(items, yamlValue(item))
		}
		return model.ArrayValue(items...)
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			return model.NullValue()
		case "!!bool":
			return model.BoolValue(strings.EqualFold(node.Value, "true"))
		case "!!int", "!!float":
			return yamlNumber(node.Value)
		default:
			return model.StringValue(node.Value)
		}
	}
	return model.NullValue()
}

// yamlNumber normalizes YAML number text into valid JSON number text.
// Decimal literals pass through untouched; hex, octal and other YAML-only
// forms are reformatted.
func yamlNumber(text string) model.Value {
	if json.Valid([]byte(text)) {
		return model.NumberValue(text)
	}
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return model.NumberValue(strconv.FormatInt(i, 10))
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return model.NumberValue(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return model.StringValue(text)
}

// versionMarker picks the document's version marker value. When both markers
// are present, "openapi" wins and the conflict is reported as a warning.
func versionMarker(root model.Value) (string, []string) {
	openapi, hasOpenAPI := root.Member("openapi")
	swagger, hasSwagger := root.Member("swagger")

	switch {
	case hasOpenAPI && hasSwagger:
		return scalarText(openapi), []string{`both "openapi" and "swagger" are present; using "openapi"`}
	case hasOpenAPI:
		return scalarText(openapi), nil
	case hasSwagger:
		return scalarText(swagger), nil
	}
	return "", nil
}

// scalarText renders a scalar marker value; "swagger: 2.0" arrives as a YAML
// float and still reads back as "2.0".
func scalarText(v model.Value) string {
	if s, ok := v.AsString(); ok && s != "" {
		return s
	}
	if n, ok := v.AsNumber(); ok {
		return n
	}
	return "unknown"
}
