// This file defines the String SchemaType.
package schema

import "fmt"

// StringType casts values to Go strings and orders them lexicographically.
type StringType struct {
	baseType
}

// NewStringType constructs a String SchemaType with the given options.
func NewStringType(options TypeOptions) SchemaType {
	return &StringType{baseType: newBaseType("String", options)}
}

func (t *StringType) Cast(value any, doc Doc) any {
	if value == nil {
		return t.baseType.Cast(value, doc)
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func (t *StringType) Validate(value any, doc Doc) (any, error) {
	v, err := t.baseType.Validate(value, doc)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (t *StringType) QueryOp(name string) (QueryOpFunc, bool) {
	if fn, ok := stringQueryOps[name]; ok {
		return fn, true
	}
	return t.baseType.QueryOp(name)
}

var stringQueryOps = map[string]QueryOpFunc{
	"regex": func(fieldValue, queryValue any, _ Doc) bool {
		s, ok := fieldValue.(string)
		if !ok {
			return false
		}
		re, err := compileRegexArg(queryValue)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	},
}
