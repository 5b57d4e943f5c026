// This file defines the Boolean SchemaType.
package schema

// BooleanType casts values to Go bool.
type BooleanType struct {
	baseType
}

// NewBooleanType constructs a Boolean SchemaType with the given options.
func NewBooleanType(options TypeOptions) SchemaType {
	return &BooleanType{baseType: newBaseType("Boolean", options)}
}

func (t *BooleanType) Cast(value any, doc Doc) any {
	if value == nil {
		return t.baseType.Cast(value, doc)
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "1"
	default:
		if f, ok := toFloat(value); ok {
			return f != 0
		}
		return value
	}
}
