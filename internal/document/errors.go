package document

import "fmt"

// ParseErrorKind classifies fatal parse failures.
type ParseErrorKind int

const (
	// KindSyntax: the text is neither valid JSON nor valid YAML.
	KindSyntax ParseErrorKind = iota
	// KindNotAnObject: the document root is not a non-null mapping.
	KindNotAnObject
	// KindMissingVersion: neither "openapi" nor "swagger" is present.
	KindMissingVersion
)

func (k ParseErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindNotAnObject:
		return "not an object"
	case KindMissingVersion:
		return "missing version field"
	}
	return "parse error"
}

// ParseError is fatal to producing a Spec. Non-fatal findings travel as
// warnings on the Result instead.
type ParseError struct {
	Kind ParseErrorKind
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Kind.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RefReason classifies reference resolution failures.
type RefReason int

const (
	// RefUnknown: the referenced name is not in components.schemas.
	RefUnknown RefReason = iota
	// RefUnsupported: the reference is not of the one supported shape,
	// #/components/schemas/<Name>.
	RefUnsupported
)

// RefError reports a $ref that could not be resolved. Resolution never
// degrades to an empty schema; a broken reference is surfaced.
type RefError struct {
	Ref    string
	Name   string
	Reason RefReason
}

func (e *RefError) Error() string {
	if e.Reason == RefUnsupported {
		return fmt.Sprintf("unsupported reference %q: only #/components/schemas/<Name> can be resolved", e.Ref)
	}
	return fmt.Sprintf("unknown reference %q: components.schemas has no %q", e.Ref, e.Name)
}
