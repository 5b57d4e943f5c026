// This file defines the error kinds the schema engine raises: TypeError for
// misuse at registration time, ValidationError for failed setter
// application, PopulationError for bad populate descriptors, and
// OperatorError for unknown $op lookups. The engine never swallows an
// error — it always returns or propagates one of these.
package schema

import "fmt"

// TypeError reports misuse of the schema-building API: an invalid
// declaration shape, an unknown hook kind, or a non-callable hook/method.
// It is raised eagerly from NewSchema/Pre/Post/Method/Static.
type TypeError struct {
	Message string
}

func (e *TypeError) Error() string { return "schema: " + e.Message }

func newTypeError(format string, args ...any) *TypeError {
	return &TypeError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports a failed SchemaType.Validate call, most commonly
// a required field that was absent. It is raised from ApplySetters and
// surfaced unchanged to the caller.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema: validation failed at %q: %s", e.Path, e.Message)
}

func newValidationError(path, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// PopulationError reports a malformed populate descriptor: a missing path
// or a reference field with no resolvable model. It is raised from
// ParsePopulate and surfaced unchanged to the caller.
type PopulationError struct {
	Path    string
	Message string
}

func (e *PopulationError) Error() string {
	if e.Path == "" {
		return "schema: population failed: " + e.Message
	}
	return fmt.Sprintf("schema: population failed at %q: %s", e.Path, e.Message)
}

func newPopulationError(path, format string, args ...any) *PopulationError {
	return &PopulationError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// OperatorError reports a lookup of an unknown or unsupported query ($op)
// or update (u$op) operator, at compile time.
type OperatorError struct {
	Message string
}

func (e *OperatorError) Error() string { return "schema: " + e.Message }

func newOperatorError(format string, args ...any) *OperatorError {
	return &OperatorError{Message: fmt.Sprintf(format, args...)}
}
