package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kolah/tessa/internal/model"
)

func petstoreDraft() *Draft {
	op := &model.Operation{
		ID:     "getPetById",
		Method: model.MethodGet,
		Path:   "/pet/{petId}",
		Parameters: []model.Parameter{
			{Name: "petId", In: model.LocationPath, Required: true},
		},
	}
	spec := &model.Spec{Servers: []model.Server{{URL: "https://petstore3.swagger.io/api/v3"}}}
	return NewDraft(spec, op)
}

func TestBuildSubstitutesPath(t *testing.T) {
	d := petstoreDraft()
	d.Set("petId", model.LocationPath, "10")

	req, err := Build(d)
	require.NoError(t, err)
	require.Equal(t, model.MethodGet, req.Method)
	require.Equal(t, "https://petstore3.swagger.io/api/v3/pet/10", req.URL)
	require.Equal(t, []Header{{Name: "Content-Type", Value: "application/json"}}, req.Headers)
	require.Empty(t, req.Body)
}

func TestBuildEscapesPathValues(t *testing.T) {
	d := petstoreDraft()
	d.Set("petId", model.LocationPath, "a/b c")

	req, err := Build(d)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(req.URL, "/pet/a%2Fb%20c"))
}

func TestBuildTrimsTrailingServerSlash(t *testing.T) {
	d := petstoreDraft()
	d.Server = "https://example.com/api/"
	d.Set("petId", model.LocationPath, "1")

	req, err := Build(d)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/api/pet/1", req.URL)
}

func TestBuildWithoutServer(t *testing.T) {
	d := petstoreDraft()
	d.Server = "  "
	d.Set("petId", model.LocationPath, "1")

	_, err := Build(d)
	require.ErrorIs(t, err, ErrNoServer)
}

func TestBuildMissingPathParameter(t *testing.T) {
	d := petstoreDraft()

	_, err := Build(d)
	var missing *MissingPathParameterError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "petId", missing.Name)
}

func TestBuildQueryString(t *testing.T) {
	op := &model.Operation{
		Method: model.MethodGet,
		Path:   "/pet/findByStatus",
		Parameters: []model.Parameter{
			{Name: "status", In: model.LocationQuery},
			{Name: "limit", In: model.LocationQuery},
			{Name: "verbose", In: model.LocationQuery},
		},
	}
	spec := &model.Spec{Servers: []model.Server{{URL: "https://example.com"}}}

	d := NewDraft(spec, op)
	d.Set("status", model.LocationQuery, "sold pending")
	d.Set("verbose", model.LocationQuery, "a&b=c")

	req, err := Build(d)
	require.NoError(t, err)

	// unset limit is omitted; set parameters keep declaration order
	require.Equal(t, "https://example.com/pet/findByStatus?status=sold+pending&verbose=a%26b%3Dc", req.URL)
}

func TestBuildRequiredParameterBlocks(t *testing.T) {
	tests := []struct {
		name string
		in   model.ParameterLocation
	}{
		{"query", model.LocationQuery},
		{"header", model.LocationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &model.Operation{
				Method: model.MethodGet,
				Path:   "/things",
				Parameters: []model.Parameter{
					{Name: "key", In: tt.in, Required: true},
				},
			}
			spec := &model.Spec{Servers: []model.Server{{URL: "https://example.com"}}}

			_, err := Build(NewDraft(spec, op))
			var missing *MissingRequiredParameterError
			require.ErrorAs(t, err, &missing)
			require.Equal(t, "key", missing.Name)
			require.Equal(t, tt.name, missing.In)
		})
	}
}

func TestBuildBodyOnlyForBodyMethods(t *testing.T) {
	spec := &model.Spec{Servers: []model.Server{{URL: "https://example.com"}}}

	get := NewDraft(spec, &model.Operation{Method: model.MethodGet, Path: "/pet"})
	get.Body = `{"name":"doggie"}`
	req, err := Build(get)
	require.NoError(t, err)
	require.Empty(t, req.Body)

	post := NewDraft(spec, &model.Operation{Method: model.MethodPost, Path: "/pet"})
	post.Body = `{"name":"doggie"}`
	req, err = Build(post)
	require.NoError(t, err)
	require.Equal(t, `{"name":"doggie"}`, req.Body)
	require.Equal(t, []Header{{Name: "Content-Type", Value: "application/json"}}, req.Headers)
}

func TestBuildKeepsUserContentType(t *testing.T) {
	spec := &model.Spec{Servers: []model.Server{{URL: "https://example.com"}}}

	d := NewDraft(spec, &model.Operation{Method: model.MethodPost, Path: "/raw"})
	d.Set("content-type", model.LocationHeader, "text/plain")
	d.Body = "hello"

	req, err := Build(d)
	require.NoError(t, err)
	require.Equal(t, []Header{{Name: "content-type", Value: "text/plain"}}, req.Headers)
}

func TestBuildHeaderBindings(t *testing.T) {
	op := &model.Operation{
		Method: model.MethodGet,
		Path:   "/secure",
		Parameters: []model.Parameter{
			{Name: "X-API-Key", In: model.LocationHeader, Required: true},
		},
	}
	spec := &model.Spec{Servers: []model.Server{{URL: "https://example.com"}}}

	d := NewDraft(spec, op)
	d.Set("X-API-Key", model.LocationHeader, "secret")

	req, err := Build(d)
	require.NoError(t, err)
	require.Equal(t, []Header{
		{Name: "X-API-Key", Value: "secret"},
		{Name: "Content-Type", Value: "application/json"},
	}, req.Headers)
	require.Equal(t, "https://example.com/secure", req.URL)
}

func TestBuildIgnoresCookies(t *testing.T) {
	op := &model.Operation{
		Method: model.MethodGet,
		Path:   "/session",
		Parameters: []model.Parameter{
			{Name: "sid", In: model.LocationCookie, Required: true},
		},
	}
	spec := &model.Spec{Servers: []model.Server{{URL: "https://example.com"}}}

	d := NewDraft(spec, op)
	d.Set("sid", model.LocationCookie, "abc")

	req, err := Build(d)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/session", req.URL)
	require.Equal(t, []Header{{Name: "Content-Type", Value: "application/json"}}, req.Headers)
}

func TestBuildWithoutOperation(t *testing.T) {
	_, err := Build(&Draft{Server: "https://example.com"})
	require.Error(t, err)

	_, err = Build(nil)
	require.Error(t, err)
}

func TestDraftSet(t *testing.T) {
	d := petstoreDraft()

	// empty location matches the declared binding
	d.Set("petId", "", "7")
	b, ok := d.Binding("petId", model.LocationPath)
	require.True(t, ok)
	require.Equal(t, "7", b.Value)

	// unknown names append, defaulting to query
	d.Set("undeclared", "", "x")
	b, ok = d.Binding("undeclared", "")
	require.True(t, ok)
	require.Equal(t, model.LocationQuery, b.In)
	require.False(t, b.Required)

	// same name in another location is a separate binding
	d.Set("petId", model.LocationQuery, "8")
	b, ok = d.Binding("petId", model.LocationQuery)
	require.True(t, ok)
	require.Equal(t, "8", b.Value)
	b, _ = d.Binding("petId", model.LocationPath)
	require.Equal(t, "7", b.Value)
}

func TestNewDraftSeedsBindings(t *testing.T) {
	d := petstoreDraft()
	require.Equal(t, "https://petstore3.swagger.io/api/v3", d.Server)
	require.Len(t, d.Bindings, 1)
	require.Equal(t, Binding{Name: "petId", In: model.LocationPath, Required: true}, d.Bindings[0])

	spec := &model.Spec{}
	d = NewDraft(spec, &model.Operation{Method: model.MethodGet, Path: "/x"})
	require.Empty(t, d.Server)

	_, err := Build(d)
	require.True(t, errors.Is(err, ErrNoServer))
}
