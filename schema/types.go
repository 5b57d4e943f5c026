// This file defines the SchemaType protocol every field type must satisfy
// (cast/validate/parse/value/compare/match plus the q$/u$ operator
// tables), the shared option set every type carries, and the registry of
// built-in type tags. A SchemaType is a concrete type implementing a fixed
// capability interface, plus two small keyed tables mapping operator name
// to function, rather than dynamic string-keyed method dispatch.
package schema

import "reflect"

// QueryOpFunc is a query operator: a pure predicate over the current field
// value, the operator's query-side argument, and the owning document.
type QueryOpFunc func(fieldValue, queryValue any, doc Doc) bool

// UpdateResult tells CompiledUpdate.Apply what to do with an UpdateOpFunc's
// return value.
type UpdateResult int

const (
	// ResultSet writes the returned value at the action's path.
	ResultSet UpdateResult = iota
	// ResultDelete removes the value at the action's path.
	ResultDelete
	// ResultNone means the operator already mutated the document itself
	// (the $rename convention) and no further write is needed.
	ResultNone
)

// UpdateOpFunc is an update operator: given the field's current value and
// the update's argument, it returns a replacement value (or ResultDelete /
// ResultNone) for the target path. Implementations that need to write a
// different path than the one they were invoked on (only $rename does)
// use doc/path directly and return ResultNone.
type UpdateOpFunc func(current, arg any, doc Doc, path string) (any, UpdateResult, error)

// TypeOptions holds the options every SchemaType carries, immutable once a
// type has been registered on a Schema.
type TypeOptions struct {
	// Required, when true, makes Validate reject an absent/undefined value.
	Required bool
	// Default supplies a value (or a func() any producing one) substituted
	// by Cast when the input is null/absent.
	Default any
	// Ref names the referenced model for population, used by the Id type
	// and by the child type of an Array of references.
	Ref string
}

// resolveDefault evaluates Default, calling it if it is a producer func.
func (o TypeOptions) resolveDefault() any {
	switch d := o.Default.(type) {
	case nil:
		return Undefined
	case func() any:
		return d()
	default:
		return d
	}
}

// SchemaType is the capability set every field type exposes.
type SchemaType interface {
	// Name returns the type's tag, e.g. "String" or "Number".
	Name() string
	// Options returns the type's immutable option set.
	Options() TypeOptions
	// Cast transforms an ingress value into the in-memory document form.
	// A nil/absent value is substituted by Options().Default, which itself
	// may resolve to Undefined if none was configured.
	Cast(value any, doc Doc) any
	// Validate transforms a value before persistence, enforcing Required.
	Validate(value any, doc Doc) (any, error)
	// Parse decodes a persisted-form value (e.g. an ISO string) into the
	// in-memory representation.
	Parse(value any) any
	// Value encodes an in-memory value into its JSON-safe persisted form.
	// Returning Undefined causes the field to be dropped from the export.
	Value(value any, doc Doc) any
	// Compare returns -1, 0, or 1 for a total order used by sorting.
	Compare(a, b any) int
	// Match is the default equality-style predicate used for bare scalar
	// field queries (key: value, with no operator map).
	Match(value, query any, doc Doc) bool
	// QueryOp looks up a named query operator (canonical name, no "$").
	QueryOp(name string) (QueryOpFunc, bool)
	// UpdateOp looks up a named update operator (canonical name, no "u$").
	UpdateOp(name string) (UpdateOpFunc, bool)
}

// baseType is the common implementation embedded by every built-in
// SchemaType. It supplies required-field validation, default substitution,
// a reflect-based Compare/Match pair, and the operator vocabulary common
// to all types ($exists, $eq, $ne, $lt, $lte, $gt, $gte, $in, $nin for
// query; $set, $unset, $rename for update). A bare baseType is also the
// SchemaType synthesized on the fly for paths the schema never declared,
// so unknown paths don't fail, they get default equality/compare.
type baseType struct {
	name    string
	options TypeOptions
	compare func(a, b any) int
}

func newBaseType(name string, options TypeOptions) baseType {
	return baseType{name: name, options: options, compare: defaultCompare}
}

func (t baseType) Name() string          { return t.name }
func (t baseType) Options() TypeOptions  { return t.options }

func (t baseType) Cast(value any, _ Doc) any {
	if value == nil {
		return t.options.resolveDefault()
	}
	return value
}

func (t baseType) Validate(value any, _ Doc) (any, error) {
	if value == nil || IsUndefined(value) {
		if t.options.Required {
			return nil, newValidationError("", "required field is missing")
		}
		return Undefined, nil
	}
	return value, nil
}

func (t baseType) Parse(value any) any { return value }

func (t baseType) Value(value any, _ Doc) any {
	if value == nil {
		return Undefined
	}
	return value
}

func (t baseType) Compare(a, b any) int { return t.compare(a, b) }

func (t baseType) Match(value, query any, _ Doc) bool {
	return defaultCompare(value, query) == 0
}

func (t baseType) QueryOp(name string) (QueryOpFunc, bool) {
	fn, ok := baseQueryOps[name]
	return fn, ok
}

func (t baseType) UpdateOp(name string) (UpdateOpFunc, bool) {
	fn, ok := baseUpdateOps[name]
	return fn, ok
}

var baseQueryOps = map[string]QueryOpFunc{
	"exists": func(fieldValue, queryValue any, _ Doc) bool {
		present := fieldValue != nil && !IsUndefined(fieldValue)
		want, _ := queryValue.(bool)
		return present == want
	},
	"eq": func(fieldValue, queryValue any, _ Doc) bool {
		return defaultCompare(fieldValue, queryValue) == 0
	},
	"ne": func(fieldValue, queryValue any, _ Doc) bool {
		return defaultCompare(fieldValue, queryValue) != 0
	},
	"lt": func(fieldValue, queryValue any, _ Doc) bool {
		return defaultCompare(fieldValue, queryValue) < 0
	},
	"lte": func(fieldValue, queryValue any, _ Doc) bool {
		return defaultCompare(fieldValue, queryValue) <= 0
	},
	"gt": func(fieldValue, queryValue any, _ Doc) bool {
		return defaultCompare(fieldValue, queryValue) > 0
	},
	"gte": func(fieldValue, queryValue any, _ Doc) bool {
		return defaultCompare(fieldValue, queryValue) >= 0
	},
	"in": func(fieldValue, queryValue any, _ Doc) bool {
		list, _ := queryValue.([]any)
		for _, v := range list {
			if defaultCompare(fieldValue, v) == 0 {
				return true
			}
		}
		return false
	},
	"nin": func(fieldValue, queryValue any, _ Doc) bool {
		list, _ := queryValue.([]any)
		for _, v := range list {
			if defaultCompare(fieldValue, v) == 0 {
				return false
			}
		}
		return true
	},
}

var baseUpdateOps = map[string]UpdateOpFunc{
	"set": func(_, arg any, _ Doc, _ string) (any, UpdateResult, error) {
		return arg, ResultSet, nil
	},
	"unset": func(_, _ any, _ Doc, _ string) (any, UpdateResult, error) {
		return nil, ResultDelete, nil
	},
	"rename": func(current, arg any, doc Doc, path string) (any, UpdateResult, error) {
		newPath, ok := arg.(string)
		if !ok {
			return nil, ResultNone, newTypeError("$rename: value at %q must be a string path", path)
		}
		Delete(doc, path)
		if err := Set(doc, newPath, current); err != nil {
			return nil, ResultNone, err
		}
		return nil, ResultNone, nil
	},
}

// defaultCompare is a best-effort total order over the JSON value universe
// plus the host types built-in SchemaTypes introduce. Values of differing
// kinds are ordered by a stable type-rank so Compare always returns a
// consistent, if arbitrary, answer rather than panicking.
func defaultCompare(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			switch {
			case as < bs:
				return -1
			case as > bs:
				return 1
			default:
				return 0
			}
		}
	}

	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			default:
				return 1
			}
		}
	}

	return typeRank(a) - typeRank(b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func typeRank(v any) int {
	switch v.(type) {
	case bool:
		return 0
	case float64, float32, int, int32, int64:
		return 1
	case string:
		return 2
	default:
		return int(reflect.TypeOf(v).Kind())
	}
}
