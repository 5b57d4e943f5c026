// Package schema provides the fundamental building blocks of the warehouse
// schema engine. It compiles declarative schema trees into path-indexed
// getter/setter/import/export pipelines, and compiles Mongo-like query,
// update, and sort documents into callables over in-memory JSON documents.
package schema

// Doc is a single JSON document as held by the warehouse: a mapping from
// string keys to arbitrary values (nil, bool, float64, string, []any,
// map[string]any, or an opaque host value introduced by a SchemaType such
// as time.Time or []byte).
type Doc = map[string]any

// undefinedType is the sentinel type behind Undefined. It is never equal to
// any JSON value, including nil, so stack closures can distinguish "no
// value" (don't write anything) from an explicit JSON null.
type undefinedType struct{}

// Undefined represents the absence of a value, as distinct from JSON null.
// SchemaType methods return it to mean "there is nothing to write here".
var Undefined any = undefinedType{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedType)
	return ok
}
