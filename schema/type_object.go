// This file defines the Object SchemaType. Nested plain-object declarations
// compile into synthetic Object parents, materialized before their
// children; ObjectType itself stays mostly inert since the Schema's stacks
// walk into the children directly by path.
package schema

// ObjectType is the synthetic container type materialized for every nested
// object declared in a schema tree. It carries no value transformation of
// its own beyond the baseType defaults; its children do the real work.
type ObjectType struct {
	baseType
}

// NewObjectType constructs an Object SchemaType with the given options.
func NewObjectType(options TypeOptions) SchemaType {
	return &ObjectType{baseType: newBaseType("Object", options)}
}

func (t *ObjectType) Cast(value any, doc Doc) any {
	if value == nil {
		return t.baseType.Cast(value, doc)
	}
	if _, ok := value.(map[string]any); ok {
		return value
	}
	return value
}

// Value returns a shallow clone of the sub-document rather than the
// stored map itself: ExportDatabase sets each descendant path's own
// exported value directly into this map afterward, and doing that
// against the original reference would rewrite the caller's in-memory
// document (e.g. a nested Date child's RFC3339 string clobbering the
// live time.Time) instead of producing an independent persisted copy.
func (t *ObjectType) Value(value any, doc Doc) any {
	if value == nil {
		return Undefined
	}
	m, ok := value.(map[string]any)
	if !ok {
		return value
	}
	clone := make(map[string]any, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}
