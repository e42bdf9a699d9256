package anzen

import (
	"errors"
	"fmt"
)

// ErrAsyncRules is returned by the synchronous entry points when the schema
// tree contains at least one asynchronous refinement anywhere. Callers must
// switch to ParseContext/SafeParseContext instead of silently dropping the
// async validators.
var ErrAsyncRules = errors.New("anzen: schema has async refinements; use ParseContext or SafeParseContext")

// MissingKeyError reports that a refinement asked the parse context for a
// runtime dependency that the caller never supplied. It indicates a caller
// configuration bug, not a data problem, so it unwinds through every layer
// of the parse unchanged.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("anzen: missing context value %q", e.Key)
}

// ParseError is the typed failure raised by Parse/ParseContext. It carries
// the flat issue list plus the per-path input records needed to reconstruct
// the parsed-input tree.
type ParseError struct {
	Issues Issues

	root Node
	pc   *Context
}

func (e *ParseError) Error() string { return e.Issues.Error() }

// Unwrap exposes Issues to errors.As chains.
func (e *ParseError) Unwrap() error { return e.Issues }

// Input reconstructs the per-field input tree recorded during the failed
// parse.
func (e *ParseError) Input() *Field {
	return buildField(e.pc, e.root, nil)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Issues, true
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
