// Package request turns an operation plus user input into an HTTP request
// and executes it.
package request

import (
	"github.com/kolah/tessa/internal/model"
)

// Binding pairs a declared parameter with the value the user typed for it.
// An empty Value means unset.
type Binding struct {
	Name     string
	In       model.ParameterLocation
	Required bool
	Value    string
}

// Draft is the editable state of a request before it is built: the chosen
// server, one binding per declared parameter, and the raw body text.
type Draft struct {
	Spec      *model.Spec
	Operation *model.Operation
	Server    string
	Bindings  []Binding
	Body      string
}

// NewDraft seeds a draft for op. The first server in the document is
// preselected and every declared parameter gets an empty binding, in
// declaration order.
func NewDraft(spec *model.Spec, op *model.Operation) *Draft {
	d := &Draft{Spec: spec, Operation: op}
	if len(spec.Servers) > 0 {
		d.Server = spec.Servers[0].URL
	}
	for _, p := range op.Parameters {
		d.Bindings = append(d.Bindings, Binding{
			Name:     p.Name,
			In:       p.In,
			Required: p.Required,
		})
	}
	return d
}

// Set assigns a parameter value. An empty location matches any binding with
// the name; a miss appends a new binding so undeclared parameters can still
// be sent (query by default).
func (d *Draft) Set(name string, in model.ParameterLocation, value string) {
	for i := range d.Bindings {
		if d.Bindings[i].Name != name {
			continue
		}
		if in != "" && d.Bindings[i].In != in {
			continue
		}
		d.Bindings[i].Value = value
		return
	}
	if in == "" {
		in = model.LocationQuery
	}
	d.Bindings = append(d.Bindings, Binding{Name: name, In: in, Value: value})
}

// Binding returns the binding for name, preferring an exact location match.
func (d *Draft) Binding(name string, in model.ParameterLocation) (*Binding, bool) {
	for i := range d.Bindings {
		if d.Bindings[i].Name == name && (in == "" || d.Bindings[i].In == in) {
			return &d.Bindings[i], true
		}
	}
	return nil, false
}
