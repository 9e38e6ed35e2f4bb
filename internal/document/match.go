package document

import (
	"net/url"

	"github.com/kolah/tessa/internal/model"
)

// Match finds the operation serving a concrete method and path. Templates
// are tried in document order; a path match without the method keeps
// scanning. The returned map holds the values captured by {param} segments.
func Match(spec *model.Spec, method model.Method, path string) (*model.Operation, map[string]string, bool) {
	if spec == nil || spec.Paths == nil {
		return nil, nil, false
	}

	parts := splitPath(path)
	for pair := spec.Paths.Oldest(); pair != nil; pair = pair.Next() {
		captured, ok := matchTemplate(pair.Key, parts)
		if !ok {
			continue
		}
		if op := operationFor(pair.Value, method); op != nil {
			return op, captured, true
		}
	}
	return nil, nil, false
}

func matchTemplate(template string, parts []string) (map[string]string, bool) {
	templateParts := splitPath(template)
	if len(templateParts) != len(parts) {
		return nil, false
	}

	captured := map[string]string{}
	for i, tp := range templateParts {
		if len(tp) > 1 && tp[0] == '{' && tp[len(tp)-1] == '}' {
			value := parts[i]
			if unescaped, err := url.PathUnescape(value); err == nil {
				value = unescaped
			}
			captured[tp[1:len(tp)-1]] = value
			continue
		}
		if tp != parts[i] {
			return nil, false
		}
	}
	return captured, true
}

func splitPath(p string) []string {
	if len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	if len(p) == 0 {
		return nil
	}
	var parts []string
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			parts = append(parts, p[start:i])
			start = i + 1
		}
	}
	return append(parts, p[start:])
}

func operationFor(item *model.PathItem, method model.Method) *model.Operation {
	if item == nil {
		return nil
	}
	for _, op := range item.Operations {
		if op.Method == method {
			return op
		}
	}
	return nil
}
