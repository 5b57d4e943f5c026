// This file defines the Array SchemaType, parameterized by a child
// SchemaType that every element is cast/validated/parsed/exported through.
package schema

// ArrayType represents a homogeneous array of Child-typed elements.
type ArrayType struct {
	baseType
	Child SchemaType
}

// NewArrayType constructs an Array SchemaType whose elements are typed by
// child.
func NewArrayType(child SchemaType, options TypeOptions) SchemaType {
	return &ArrayType{baseType: newBaseType("Array", options), Child: child}
}

func (t *ArrayType) Cast(value any, doc Doc) any {
	if value == nil {
		d := t.baseType.Cast(value, doc)
		if IsUndefined(d) {
			return Undefined
		}
		value = d
		if value == nil {
			return Undefined
		}
	}
	list, ok := asSlice(value)
	if !ok {
		return value
	}
	out := make([]any, len(list))
	for i, v := range list {
		out[i] = t.Child.Cast(v, doc)
	}
	return out
}

func (t *ArrayType) Validate(value any, doc Doc) (any, error) {
	if value == nil || IsUndefined(value) {
		return t.baseType.Validate(value, doc)
	}
	list, ok := asSlice(value)
	if !ok {
		return value, nil
	}
	out := make([]any, 0, len(list))
	for _, v := range list {
		nv, err := t.Child.Validate(v, doc)
		if err != nil {
			return nil, err
		}
		if !IsUndefined(nv) {
			out = append(out, nv)
		}
	}
	return out, nil
}

func (t *ArrayType) Parse(value any) any {
	list, ok := asSlice(value)
	if !ok {
		return value
	}
	out := make([]any, len(list))
	for i, v := range list {
		out[i] = t.Child.Parse(v)
	}
	return out
}

func (t *ArrayType) Value(value any, doc Doc) any {
	if value == nil {
		return Undefined
	}
	list, ok := asSlice(value)
	if !ok {
		return value
	}
	out := make([]any, 0, len(list))
	for _, v := range list {
		nv := t.Child.Value(v, doc)
		if !IsUndefined(nv) {
			out = append(out, nv)
		}
	}
	return out
}

func (t *ArrayType) Compare(a, b any) int {
	al, _ := asSlice(a)
	bl, _ := asSlice(b)
	if len(al) != len(bl) {
		if len(al) < len(bl) {
			return -1
		}
		return 1
	}
	for i := range al {
		if c := t.Child.Compare(al[i], bl[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (t *ArrayType) QueryOp(name string) (QueryOpFunc, bool) {
	if fn, ok := arrayQueryOps[name]; ok {
		return fn, true
	}
	return t.baseType.QueryOp(name)
}

var arrayQueryOps = map[string]QueryOpFunc{
	"size": func(fieldValue, queryValue any, _ Doc) bool {
		list, _ := asSlice(fieldValue)
		n, ok := toFloat(queryValue)
		return ok && float64(len(list)) == n
	},
	"all": func(fieldValue, queryValue any, _ Doc) bool {
		list, _ := asSlice(fieldValue)
		want, _ := asSlice(queryValue)
		for _, w := range want {
			found := false
			for _, v := range list {
				if defaultCompare(v, w) == 0 {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	},
}

func (t *ArrayType) UpdateOp(name string) (UpdateOpFunc, bool) {
	if fn, ok := arrayUpdateOps[name]; ok {
		return fn, true
	}
	return t.baseType.UpdateOp(name)
}

var arrayUpdateOps = map[string]UpdateOpFunc{
	"push": func(current, arg any, _ Doc, _ string) (any, UpdateResult, error) {
		list, _ := asSlice(current)
		return append(append([]any{}, list...), arg), ResultSet, nil
	},
	"pull": func(current, arg any, _ Doc, _ string) (any, UpdateResult, error) {
		list, _ := asSlice(current)
		out := make([]any, 0, len(list))
		for _, v := range list {
			if defaultCompare(v, arg) != 0 {
				out = append(out, v)
			}
		}
		return out, ResultSet, nil
	},
}
