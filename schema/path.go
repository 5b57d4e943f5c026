// This file implements the path accessor: Get/Set/Delete a value in a
// nested document by dotted path. Segments are plain string keys — arrays
// are addressed as whole values, there is no numeric index traversal.
//
// A third-party JSONPath library (github.com/ohler55/ojg/jp) was considered
// here but doesn't fit: ojg's Set/Del semantics don't match the contract
// this package needs (create empty map intermediates on Set, preserve
// empty parents on Delete), so the accessor is hand-rolled against that
// contract instead of bent to fit a library built for a different one.
package schema

import (
	"fmt"
	"strings"
)

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// JoinPath joins a (possibly empty) dotted prefix with a single key,
// omitting the separator when prefix is empty so a top-level path never
// starts with a stray leading dot.
func JoinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Get reads the value at path in doc. The second return value reports
// whether the path resolved to a present key; it is false both when an
// intermediate segment is absent and when an intermediate segment exists
// but is not a mapping.
func Get(doc any, path string) (any, bool) {
	cur := doc
	for _, seg := range splitPath(path) {
		m, ok := cur.(Doc)
		if !ok {
			return nil, false
		}
		v, present := m[seg]
		if !present {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// Set writes value at path in doc, creating any missing intermediate
// mappings as empty Docs. It raises an error if an intermediate segment
// already holds a non-mapping value.
func Set(doc any, path string, value any) error {
	m, ok := doc.(Doc)
	if !ok {
		return fmt.Errorf("schema: cannot set path %q: document is not an object", path)
	}
	segs := splitPath(path)
	for i, seg := range segs {
		if i == len(segs)-1 {
			m[seg] = value
			return nil
		}
		next, present := m[seg]
		if !present {
			child := Doc{}
			m[seg] = child
			m = child
			continue
		}
		child, ok := next.(Doc)
		if !ok {
			return fmt.Errorf("schema: cannot set path %q: segment %q is not an object", path, seg)
		}
		m = child
	}
	return nil
}

// Delete removes the leaf key named by path from doc. Empty parent
// mappings left behind are preserved, not pruned. Deleting a path whose
// intermediates are absent or not mappings is a silent no-op.
func Delete(doc any, path string) {
	m, ok := doc.(Doc)
	if !ok {
		return
	}
	segs := splitPath(path)
	for i, seg := range segs {
		if i == len(segs)-1 {
			delete(m, seg)
			return
		}
		next, present := m[seg]
		if !present {
			return
		}
		child, ok := next.(Doc)
		if !ok {
			return
		}
		m = child
	}
}
