package model

import (
	orderedmap "github.com/pb33f/ordered-map/v2"
)

// Spec is a parsed specification. It is produced by the document package and
// treated as read-only afterwards; edits re-parse into a new Spec.
type Spec struct {
	Info    Info
	Servers []Server
	Paths   *orderedmap.OrderedMap[string, *PathItem]
	Schemas *orderedmap.OrderedMap[string, *Schema]
}

type Info struct {
	Title       string
	Description string
	Version     string
}

type Server struct {
	URL         string
	Description string
}

// PathItem groups the operations declared on one path template, in document
// order, plus the parameters they share.
type PathItem struct {
	Path       string
	Parameters []Parameter
	Operations []*Operation
}

// Operations flattens the document's operations, paths first, then methods,
// both in document order.
func (s *Spec) Operations() []*Operation {
	if s.Paths == nil {
		return nil
	}
	var ops []*Operation
	for pair := s.Paths.Oldest(); pair != nil; pair = pair.Next() {
		ops = append(ops, pair.Value.Operations...)
	}
	return ops
}

// OperationByID finds an operation by its operationId. Returns nil when the
// id is empty or undeclared.
func (s *Spec) OperationByID(id string) *Operation {
	if id == "" {
		return nil
	}
	for _, op := range s.Operations() {
		if op.ID == id {
			return op
		}
	}
	return nil
}

// SchemaByName returns a schema from components.schemas, nil when absent.
func (s *Spec) SchemaByName(name string) *Schema {
	if s.Schemas == nil {
		return nil
	}
	schema, ok := s.Schemas.Get(name)
	if !ok {
		return nil
	}
	return schema
}
