package request

import (
	"errors"
	"net/url"
	"strings"

	"github.com/kolah/tessa/internal/model"
)

// Header is one name/value pair. Requests and responses keep headers as a
// slice so order survives.
type Header struct {
	Name  string
	Value string
}

// HTTPRequest is a fully resolved request, ready to execute or print.
type HTTPRequest struct {
	Method  model.Method
	URL     string
	Headers []Header
	Body    string
}

// Build resolves a draft into a concrete request: the path template is
// substituted, required parameters are checked, and the query string is
// assembled in binding order. Bodies are attached only for methods that
// carry one.
func Build(d *Draft) (*HTTPRequest, error) {
	if d == nil || d.Operation == nil {
		return nil, errors.New("no operation selected")
	}

	base := strings.TrimSuffix(strings.TrimSpace(d.Server), "/")
	if base == "" {
		return nil, ErrNoServer
	}

	path, err := substitutePath(d.Operation.Path, d.Bindings)
	if err != nil {
		return nil, err
	}
	if err := checkRequired(d.Bindings); err != nil {
		return nil, err
	}

	target := base + path
	if q := encodeQuery(d.Bindings); q != "" {
		target += "?" + q
	}

	req := &HTTPRequest{Method: d.Operation.Method, URL: target}

	for _, b := range d.Bindings {
		if b.In == model.LocationHeader && b.Value != "" {
			req.Headers = append(req.Headers, Header{Name: b.Name, Value: b.Value})
		}
	}
	if !hasHeader(req.Headers, "Content-Type") {
		req.Headers = append(req.Headers, Header{Name: "Content-Type", Value: "application/json"})
	}

	if d.Operation.Method.AllowsBody() && d.Body != "" {
		req.Body = d.Body
	}

	return req, nil
}

func substitutePath(template string, bindings []Binding) (string, error) {
	path := template
	for _, b := range bindings {
		if b.In != model.LocationPath || b.Value == "" {
			continue
		}
		path = strings.ReplaceAll(path, "{"+b.Name+"}", url.PathEscape(b.Value))
	}
	if start := strings.IndexByte(path, '{'); start >= 0 {
		name := path[start+1:]
		if end := strings.IndexByte(name, '}'); end >= 0 {
			name = name[:end]
		}
		return "", &MissingPathParameterError{Name: name}
	}
	return path, nil
}

func checkRequired(bindings []Binding) error {
	for _, b := range bindings {
		if !b.Required || b.Value != "" {
			continue
		}
		if b.In == model.LocationQuery || b.In == model.LocationHeader {
			return &MissingRequiredParameterError{Name: b.Name, In: string(b.In)}
		}
	}
	return nil
}

// encodeQuery serializes query bindings in their draft order. Unset
// parameters are omitted rather than sent empty.
func encodeQuery(bindings []Binding) string {
	var sb strings.Builder
	for _, b := range bindings {
		if b.In != model.LocationQuery || b.Name == "" || b.Value == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(b.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(b.Value))
	}
	return sb.String()
}

func hasHeader(headers []Header, name string) bool {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}
