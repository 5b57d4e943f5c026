// This file defines the sort compiler. Sort field order is semantically
// significant — the first field breaks ties for the second, and so on —
// so, unlike the Query and Update DSLs, sort input is an explicit ordered
// slice rather than a map[string]any.
package schema

// SortField names one field to order by and the direction: 1 for
// ascending, -1 for descending.
type SortField struct {
	Path  string
	Order int
}

// SortSpec is an ordered list of SortField, applied left to right as tie
// breakers.
type SortSpec []SortField

// CompiledSort is a reusable comparator compiled from a SortSpec.
type CompiledSort struct {
	fields []compiledSortField
}

type compiledSortField struct {
	path  string
	order int
	typ   SchemaType
}

// CompileSort compiles spec against s.
func (s *Schema) CompileSort(spec SortSpec) (*CompiledSort, error) {
	cs := &CompiledSort{fields: make([]compiledSortField, 0, len(spec))}
	for _, f := range spec {
		order := f.Order
		if order == 0 {
			order = 1
		}
		cs.fields = append(cs.fields, compiledSortField{
			path:  f.Path,
			order: order,
			typ:   s.TypeAt(f.Path),
		})
	}
	return cs, nil
}

// Compare orders a and b according to the compiled spec, returning -1, 0,
// or 1. An empty spec reports every pair equal, making the sort stable and
// total by construction.
func (c *CompiledSort) Compare(a, b Doc) int {
	for _, f := range c.fields {
		av, _ := Get(a, f.path)
		bv, _ := Get(b, f.path)
		if cmp := f.typ.Compare(av, bv); cmp != 0 {
			if f.order < 0 {
				return -cmp
			}
			return cmp
		}
	}
	return 0
}

// Less adapts Compare to the sort.Interface-style "less than" predicate
// expected by sort.Slice.
func (c *CompiledSort) Less(a, b Doc) bool {
	return c.Compare(a, b) < 0
}
