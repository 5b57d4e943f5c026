// This file defines the update compiler: turning a MongoDB-like update
// document into a CompiledUpdate whose Apply mutates a document in place.
// Both the inline form ($op: {field: value, ...}) and the first-class form
// (field: {$op: value}) are accepted, plus bare assignment for fields with
// no operator at all.
package schema

import "sort"

// updateAction is one compiled (path, operator) pair ready to run against
// a document.
type updateAction struct {
	path string
	op   UpdateOpFunc
	arg  any
}

// CompiledUpdate is a reusable set of field mutations compiled from an
// update document.
type CompiledUpdate struct {
	actions []updateAction
}

// Apply runs every compiled action against doc, in the order the update
// document was compiled, and runs ApplySetters afterward so Required and
// other validation still gates the result.
func (u *CompiledUpdate) Apply(doc Doc, s *Schema) error {
	for _, a := range u.actions {
		current, _ := Get(doc, a.path)
		result, kind, err := a.op(current, a.arg, doc, a.path)
		if err != nil {
			return err
		}
		switch kind {
		case ResultSet:
			if err := Set(doc, a.path, result); err != nil {
				return err
			}
		case ResultDelete:
			Delete(doc, a.path)
		case ResultNone:
			// the operator (only $rename) already mutated doc itself.
		}
	}
	if s != nil {
		return s.ApplySetters(doc)
	}
	return nil
}

// CompileUpdate compiles update, a MongoDB-like update document, against
// s. update's top-level keys are either update operators ("$set", "$inc",
// ...) mapping to a {path: arg} document (the inline form), or bare field
// paths whose value is itself an operator map, a literal to assign
// directly ($set implied), or a plain nested mapping, which recurses with
// the field name joined onto the path prefix (NestedUpdate).
func (s *Schema) CompileUpdate(update Doc) (*CompiledUpdate, error) {
	cu := &CompiledUpdate{}
	if err := s.compileUpdateNode(cu, update, ""); err != nil {
		return nil, err
	}
	return cu, nil
}

func (s *Schema) compileUpdateNode(cu *CompiledUpdate, update Doc, prefix string) error {
	keys := make([]string, 0, len(update))
	for k := range update {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := update[key]
		if len(key) > 0 && key[0] == '$' {
			fields, ok := value.(map[string]any)
			if !ok {
				return newOperatorError("%s: expects a document of {path: value}", key)
			}
			if err := s.compileInlineOp(cu, key, fields); err != nil {
				return err
			}
			continue
		}

		path := JoinPath(prefix, key)

		if sub, ok := value.(map[string]any); ok {
			if isOperatorMap(sub) {
				if err := s.compileFieldOps(cu, path, sub); err != nil {
					return err
				}
				continue
			}
			if err := s.compileUpdateNode(cu, sub, path); err != nil {
				return err
			}
			continue
		}

		if err := s.compileFieldOps(cu, path, map[string]any{"$set": value}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) compileInlineOp(cu *CompiledUpdate, opKey string, fields map[string]any) error {
	canonical, ok := resolveUpdateOp(trimDollar(opKey))
	if !ok {
		return newOperatorError("unknown update operator %q", opKey)
	}
	innerKeys := make([]string, 0, len(fields))
	for k := range fields {
		innerKeys = append(innerKeys, k)
	}
	sort.Strings(innerKeys)

	for _, path := range innerKeys {
		typ := s.TypeAt(path)
		fn, ok := typ.UpdateOp(canonical)
		if !ok {
			return newOperatorError("unsupported update operator %q at path %q", opKey, path)
		}
		cu.actions = append(cu.actions, updateAction{path: path, op: fn, arg: fields[path]})
	}
	return nil
}

func (s *Schema) compileFieldOps(cu *CompiledUpdate, path string, ops map[string]any) error {
	opKeys := make([]string, 0, len(ops))
	for k := range ops {
		opKeys = append(opKeys, k)
	}
	sort.Strings(opKeys)

	typ := s.TypeAt(path)
	for _, opKey := range opKeys {
		canonical, ok := resolveUpdateOp(trimDollar(opKey))
		if !ok {
			return newOperatorError("unknown update operator %q at path %q", opKey, path)
		}
		fn, ok := typ.UpdateOp(canonical)
		if !ok {
			return newOperatorError("unsupported update operator %q at path %q", opKey, path)
		}
		cu.actions = append(cu.actions, updateAction{path: path, op: fn, arg: ops[opKey]})
	}
	return nil
}
