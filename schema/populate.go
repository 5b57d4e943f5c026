// This file defines population: resolving a Ref-carrying path's stored
// identifier against another Schema's in-memory collection and
// substituting the referenced document in its place.
package schema

import (
	"sort"
	"strings"
)

// PopulateSpec is one normalized population request: the local path
// carrying the reference, and the lookup function used to resolve it.
type PopulateSpec struct {
	Path     string
	Resolver func(ref any) (Doc, bool)
}

// ParsePopulate normalizes every descriptor form this package accepts (a
// bare path string, possibly naming more than one path separated by
// whitespace, a slice of path strings, a single map with a "path" key, or
// a slice of such maps) into a []PopulateSpec, resolving each path's Ref
// against the resolvers table (model name -> lookup func). Only a map's
// "path" key is read: the model always comes from the path's Ref, and a
// "model" or "resolver" key on the map is ignored.
func (s *Schema) ParsePopulate(descriptor any, resolvers map[string]func(ref any) (Doc, bool)) ([]PopulateSpec, error) {
	switch d := descriptor.(type) {
	case string:
		fields := strings.Fields(d)
		if len(fields) == 0 {
			return nil, newPopulationError("", "path is required")
		}
		return s.ParsePopulate(fields, resolvers)

	case []string:
		out := make([]PopulateSpec, 0, len(d))
		for _, path := range d {
			specs, err := s.resolveOne(path, resolvers)
			if err != nil {
				return nil, err
			}
			out = append(out, specs...)
		}
		return out, nil

	case map[string]any:
		path, ok := d["path"].(string)
		if !ok || path == "" {
			return nil, newPopulationError("", "path is required")
		}
		return s.resolveOne(path, resolvers)

	case []any:
		out := make([]PopulateSpec, 0, len(d))
		for _, raw := range d {
			specs, err := s.ParsePopulate(raw, resolvers)
			if err != nil {
				return nil, err
			}
			out = append(out, specs...)
		}
		return out, nil

	case []map[string]any:
		out := make([]PopulateSpec, 0, len(d))
		for _, m := range d {
			specs, err := s.ParsePopulate(m, resolvers)
			if err != nil {
				return nil, err
			}
			out = append(out, specs...)
		}
		return out, nil

	default:
		return nil, newPopulationError("", "unrecognized population descriptor %T", descriptor)
	}
}

func (s *Schema) resolveOne(path string, resolvers map[string]func(ref any) (Doc, bool)) ([]PopulateSpec, error) {
	if path == "" {
		return nil, newPopulationError("", "path is required")
	}

	typ := s.byPath[path]
	if typ == nil {
		return nil, newPopulationError(path, "path is required")
	}

	ref := typ.Options().Ref
	if arr, ok := typ.(*ArrayType); ok {
		ref = arr.Child.Options().Ref
	}
	if ref == "" {
		return nil, newPopulationError(path, "model is required")
	}

	resolver, ok := resolvers[ref]
	if !ok {
		return nil, newPopulationError(path, "no model registered for ref %q", ref)
	}
	return []PopulateSpec{{Path: path, Resolver: resolver}}, nil
}

// Populate runs every compiled PopulateSpec against doc, replacing each
// path's stored id (or slice of ids, for an Array-of-refs path) with the
// resolved document(s) in place. Unresolvable ids are left untouched
// rather than failing the whole operation, since a dangling reference is
// a data-integrity question for the caller, not a compile-time error.
func Populate(doc Doc, specs []PopulateSpec) error {
	sort.Slice(specs, func(i, j int) bool { return specs[i].Path < specs[j].Path })
	for _, spec := range specs {
		current, ok := Get(doc, spec.Path)
		if !ok {
			continue
		}
		if list, ok := current.([]any); ok {
			resolved := make([]any, len(list))
			for i, ref := range list {
				if found, ok := spec.Resolver(ref); ok {
					resolved[i] = found
				} else {
					resolved[i] = ref
				}
			}
			if err := Set(doc, spec.Path, resolved); err != nil {
				return err
			}
			continue
		}
		if found, ok := spec.Resolver(current); ok {
			if err := Set(doc, spec.Path, found); err != nil {
				return err
			}
		}
	}
	return nil
}
