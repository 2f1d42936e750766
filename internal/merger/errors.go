package merger

import "fmt"

// ParseError reports malformed dump text: broken indentation, a declaration
// referencing an undeclared target, or a missing header.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Msg)
	}
	return "parse error: " + e.Msg
}

// ConflictError reports a declaration that appeared twice where it must be
// unique, or a dump added for a target the document already contains.
type ConflictError struct {
	Signature string
	Target    string
}

func (e *ConflictError) Error() string {
	if e.Signature != "" {
		return fmt.Sprintf("conflicting declaration %q", e.Signature)
	}
	return fmt.Sprintf("target %q was already added to this document", e.Target)
}

// RenderError reports a dump request that would silently lose information.
type RenderError struct {
	Msg string
}

func (e *RenderError) Error() string {
	return "render error: " + e.Msg
}
