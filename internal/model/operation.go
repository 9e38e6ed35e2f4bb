package model

import "strings"

type Operation struct {
	ID          string
	Method      Method
	Path        string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []Parameter
	RequestBody *RequestBody
	Responses   []Response
}

// Name returns the operationId when declared, else "METHOD /path".
func (o *Operation) Name() string {
	if o.ID != "" {
		return o.ID
	}
	return string(o.Method) + " " + o.Path
}

type Method string

const (
	MethodGet     Method = "GET"
	MethodPut     Method = "PUT"
	MethodPost    Method = "POST"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"
	MethodPatch   Method = "PATCH"
	MethodTrace   Method = "TRACE"
)

// ParseMethod recognizes an HTTP method name, case-insensitively.
func ParseMethod(s string) (Method, bool) {
	switch m := Method(strings.ToUpper(s)); m {
	case MethodGet, MethodPut, MethodPost, MethodDelete,
		MethodOptions, MethodHead, MethodPatch, MethodTrace:
		return m, true
	}
	return "", false
}

// AllowsBody reports whether a request body travels with this method.
func (m Method) AllowsBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	}
	return false
}

type ParameterLocation string

const (
	LocationPath   ParameterLocation = "path"
	LocationQuery  ParameterLocation = "query"
	LocationHeader ParameterLocation = "header"
	LocationCookie ParameterLocation = "cookie"
)

type Parameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
	Deprecated  bool
	Schema      *Schema
}

type RequestBody struct {
	Description string
	Required    bool
	Content     []MediaTypeContent
}

type MediaTypeContent struct {
	MediaType string
	Schema    *Schema
}

// JSONSchema returns the schema of the first JSON media type. It is nil
// both when the body has no JSON content and when that content carries no
// schema; HasJSON tells the two apart.
func (rb *RequestBody) JSONSchema() *Schema {
	for _, c := range rb.Content {
		if strings.Contains(strings.ToLower(c.MediaType), "json") {
			return c.Schema
		}
	}
	return nil
}

func (rb *RequestBody) HasJSON() bool {
	for _, c := range rb.Content {
		if strings.Contains(strings.ToLower(c.MediaType), "json") {
			return true
		}
	}
	return false
}

type Response struct {
	StatusCode  string
	Description string
}
