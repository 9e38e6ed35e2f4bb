package sample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kolah/tessa/internal/document"
	"github.com/kolah/tessa/internal/model"
)

const sampleYAML = `
openapi: "3.0.0"
info: {title: S, version: "1"}
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
        id:
          type: integer
          example: 10
    Node:
      type: object
      properties:
        next:
          $ref: "#/components/schemas/Node"
`

func testSpec(t *testing.T) *model.Spec {
	t.Helper()
	res, err := document.Parse([]byte(sampleYAML))
	require.NoError(t, err)
	return res.Spec
}

func TestBodyFromComponents(t *testing.T) {
	g := New()

	body, err := g.Body(testSpec(t), &model.Schema{Ref: "#/components/schemas/Pet"})
	require.NoError(t, err)
	require.Equal(t, `{"name":"string","id":10}`, body.JSON())
}

func TestLeafValues(t *testing.T) {
	min5 := 5.0
	minHalf := 0.5
	minLen := int64(2)

	tests := []struct {
		name   string
		schema *model.Schema
		want   string
	}{
		{"plain string", &model.Schema{Type: model.TypeString}, `"string"`},
		{"email format", &model.Schema{Type: model.TypeString, Format: "email"}, `"user@example.com"`},
		{"uuid format", &model.Schema{Type: model.TypeString, Format: "uuid"}, `"3fa85f64-5717-4562-b3fc-2c963f66afa6"`},
		{"uri format", &model.Schema{Type: model.TypeString, Format: "uri"}, `"https://example.com"`},
		{"first enum value", &model.Schema{
			Type: model.TypeString,
			Enum: []model.Value{model.StringValue("available"), model.StringValue("sold")},
		}, `"available"`},
		{"min length", &model.Schema{Type: model.TypeString, MinLength: &minLen}, `"sample text"`},
		{"integer", &model.Schema{Type: model.TypeInteger}, "1"},
		{"integer with minimum", &model.Schema{Type: model.TypeInteger, Minimum: &min5}, "5"},
		{"number", &model.Schema{Type: model.TypeNumber}, "1.0"},
		{"number with minimum", &model.Schema{Type: model.TypeNumber, Minimum: &minHalf}, "0.5"},
		{"boolean", &model.Schema{Type: model.TypeBoolean}, "true"},
		{"array stays empty", &model.Schema{
			Type:  model.TypeArray,
			Items: &model.Schema{Type: model.TypeString},
		}, "[]"},
		{"object without properties", &model.Schema{Type: model.TypeObject}, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Body(nil, tt.schema)
			require.NoError(t, err)
			require.Equal(t, tt.want, got.JSON())
		})
	}
}

// A declared example wins over every other rule, shape notwithstanding.
func TestExampleWins(t *testing.T) {
	g := New()

	ex := model.NumberValue("42")
	got, err := g.Body(nil, &model.Schema{Type: model.TypeString, Format: "uuid", Example: &ex})
	require.NoError(t, err)
	require.Equal(t, "42", got.JSON())

	min5 := 5.0
	ex3 := model.NumberValue("3")
	got, err = g.Body(nil, &model.Schema{Type: model.TypeInteger, Minimum: &min5, Example: &ex3})
	require.NoError(t, err)
	require.Equal(t, "3", got.JSON())
}

func TestDateTimeUsesClock(t *testing.T) {
	fixed := time.Date(2024, 5, 4, 3, 2, 1, 0, time.UTC)
	g := &Generator{Now: func() time.Time { return fixed }}

	got, err := g.Body(nil, &model.Schema{Type: model.TypeString, Format: "date-time"})
	require.NoError(t, err)
	require.Equal(t, `"2024-05-04T03:02:01Z"`, got.JSON())
}

// At the root an unusable schema still yields an editable object; nested it
// yields null.
func TestRootFallsBackToObject(t *testing.T) {
	g := New()

	got, err := g.Body(nil, nil)
	require.NoError(t, err)
	require.Equal(t, "{}", got.JSON())

	got, err = g.Body(nil, &model.Schema{})
	require.NoError(t, err)
	require.Equal(t, "{}", got.JSON())
}

func TestUntypedPropertyIsNull(t *testing.T) {
	schema := &model.Schema{
		Type: model.TypeObject,
		Properties: []model.Property{
			{Name: "anything", Schema: &model.Schema{}},
			{Name: "missing", Schema: nil},
		},
	}

	got, err := New().Body(nil, schema)
	require.NoError(t, err)
	require.Equal(t, `{"anything":null,"missing":null}`, got.JSON())
}

func TestNestedObjects(t *testing.T) {
	schema := &model.Schema{
		Type: model.TypeObject,
		Properties: []model.Property{
			{Name: "meta", Schema: &model.Schema{
				Type: model.TypeObject,
				Properties: []model.Property{
					{Name: "tags", Schema: &model.Schema{Type: model.TypeArray, Items: &model.Schema{Type: model.TypeString}}},
					{Name: "active", Schema: &model.Schema{Type: model.TypeBoolean}},
				},
			}},
			{Name: "id", Schema: &model.Schema{Type: model.TypeInteger}},
		},
	}

	got, err := New().Body(nil, schema)
	require.NoError(t, err)
	require.Equal(t, `{"meta":{"tags":[],"active":true},"id":1}`, got.JSON())
}

func TestCyclicReferenceHitsDepthLimit(t *testing.T) {
	_, err := New().Body(testSpec(t), &model.Schema{Ref: "#/components/schemas/Node"})

	var depthErr *DepthError
	require.ErrorAs(t, err, &depthErr)
	require.Equal(t, DefaultMaxDepth, depthErr.Limit)
}

func TestUnknownReferenceFails(t *testing.T) {
	schema := &model.Schema{
		Type: model.TypeObject,
		Properties: []model.Property{
			{Name: "ok", Schema: &model.Schema{Type: model.TypeString}},
			{Name: "broken", Schema: &model.Schema{Ref: "#/components/schemas/Ghost"}},
		},
	}

	_, err := New().Body(testSpec(t), schema)
	var refErr *document.RefError
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, document.RefUnknown, refErr.Reason)
}
