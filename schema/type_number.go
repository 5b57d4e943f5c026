// This file defines the Number SchemaType, including the $inc update
// operator.
package schema

// NumberType casts values to float64 and orders them numerically.
type NumberType struct {
	baseType
}

// NewNumberType constructs a Number SchemaType with the given options.
func NewNumberType(options TypeOptions) SchemaType {
	return &NumberType{baseType: newBaseType("Number", options)}
}

func (t *NumberType) Cast(value any, doc Doc) any {
	if value == nil {
		return t.baseType.Cast(value, doc)
	}
	if f, ok := toFloat(value); ok {
		return f
	}
	return value
}

func (t *NumberType) UpdateOp(name string) (UpdateOpFunc, bool) {
	if fn, ok := numberUpdateOps[name]; ok {
		return fn, true
	}
	return t.baseType.UpdateOp(name)
}

var numberUpdateOps = map[string]UpdateOpFunc{
	"inc": func(current, arg any, _ Doc, path string) (any, UpdateResult, error) {
		delta, ok := toFloat(arg)
		if !ok {
			return nil, ResultNone, newTypeError("$inc: value at %q must be numeric", path)
		}
		base, _ := toFloat(current)
		return base + delta, ResultSet, nil
	},
}
