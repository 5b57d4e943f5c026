// This file defines the Id SchemaType: a string identifier, defaulted to a
// freshly generated UUID when absent, and the type through which population
// reaches a TypeOptions.Ref.
package schema

import "github.com/google/uuid"

// IdType casts values to a string identifier. When no value and no explicit
// Default is configured, Cast substitutes a newly generated UUID rather
// than leaving the field Undefined, matching the CUID-style generator the
// specification's worked examples assume for primary keys.
type IdType struct {
	baseType
}

// NewIdType constructs an Id SchemaType with the given options.
func NewIdType(options TypeOptions) SchemaType {
	return &IdType{baseType: newBaseType("Id", options)}
}

func (t *IdType) Cast(value any, doc Doc) any {
	if value == nil {
		d := t.baseType.Cast(value, doc)
		if IsUndefined(d) && t.options.Default == nil {
			return uuid.NewString()
		}
		return d
	}
	if s, ok := value.(string); ok {
		return s
	}
	return value
}
