// This file defines the Schema compiler: the component that walks a
// declarative field tree and produces the flat, path-indexed getter,
// setter, parse, and export stacks every document operation runs through.
// A Schema owns no documents; it is compiled once and reused across many
// documents, built once per entity and shared by every call against it.
package schema

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// stackEntry pairs a compiled path with the SchemaType materialized for it.
// A single stack of entries backs all four pipelines (getter, setter,
// parse, export), so each pipeline visits the exact same paths in the exact
// same order (Invariant 1); the pipelines differ only in which SchemaType
// method they call on each entry.
type stackEntry struct {
	path string
	typ  SchemaType
}

// HookKind names a lifecycle point a Pre/Post function can attach to.
type HookKind string

const (
	HookSave   HookKind = "save"
	HookRemove HookKind = "remove"
)

// Schema is a compiled field tree: a flat, ordered list of paths plus the
// SchemaType registered at each, ready to drive ApplyGetters, ApplySetters,
// ParseDatabase, and ExportDatabase over any document shaped like the tree.
type Schema struct {
	stack []stackEntry
	byPath map[string]SchemaType

	pre  map[HookKind][]func(Doc) error
	post map[HookKind][]func(Doc) error

	methods map[string]func(doc Doc, args ...any) any
	statics map[string]func(args ...any) any

	logger *zerolog.Logger
}

// NewSchema compiles decl, a tree of field declarations keyed by path
// segment, into a Schema. decl forms, applied recursively:
//
//   - a SchemaType value: used as-is.
//   - a func(TypeOptions) SchemaType constructor: called with TypeOptions{}.
//   - a map[string]any with a "type" key: the type constructor/instance at
//     "type", with the remaining keys ("required", "default", "ref") read
//     into TypeOptions, UNLESS the map describes a plain nested object (no
//     "type" key), in which case it is compiled as an Object subtree.
//   - a []any of length 1: an Array whose child is the single element,
//     compiled with the same name.
//   - anything else is a TypeError.
func NewSchema(decl map[string]any) (*Schema, error) {
	s := &Schema{
		byPath:  make(map[string]SchemaType),
		pre:     make(map[HookKind][]func(Doc) error),
		post:    make(map[HookKind][]func(Doc) error),
		methods: make(map[string]func(doc Doc, args ...any) any),
		statics: make(map[string]func(args ...any) any),
	}
	if err := s.add(decl, ""); err != nil {
		return nil, err
	}
	return s, nil
}

// add compiles decl under the given path prefix, appending to the stack in
// a stable, sorted-by-key preorder so that a synthetic Object parent is
// always materialized (and pushed onto the stack) before its children.
func (s *Schema) add(decl map[string]any, prefix string) error {
	keys := make([]string, 0, len(decl))
	for k := range decl {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := JoinPath(prefix, key)
		typ, children, err := s.compileField(decl[key], path)
		if err != nil {
			return err
		}
		s.pushPath(path, typ)
		if children != nil {
			if err := s.add(children, path); err != nil {
				return err
			}
		}
	}
	return nil
}

// compileField resolves one declaration value into a SchemaType for path.
// When the declaration is a plain nested object (no "type" key), it
// returns a synthetic ObjectType plus the nested map so the caller recurses
// into it; otherwise children is nil.
func (s *Schema) compileField(raw any, path string) (SchemaType, map[string]any, error) {
	switch v := raw.(type) {
	case SchemaType:
		return v, nil, nil

	case func(TypeOptions) SchemaType:
		return v(TypeOptions{}), nil, nil

	case []any:
		if len(v) != 1 {
			return nil, nil, newTypeError("path %q: array declaration must have exactly one child element", path)
		}
		child, _, err := s.compileField(v[0], path)
		if err != nil {
			return nil, nil, err
		}
		return NewArrayType(child, TypeOptions{}), nil, nil

	case map[string]any:
		if typeRaw, ok := v["type"]; ok {
			options := parseTypeOptions(v)
			typ, err := instantiateType(typeRaw, options, path)
			if err != nil {
				return nil, nil, err
			}
			return typ, nil, nil
		}
		return NewObjectType(TypeOptions{}), v, nil

	default:
		return nil, nil, newTypeError("path %q: unrecognized schema declaration %T", path, raw)
	}
}

// instantiateType resolves the value under a declaration's "type" key into
// a concrete SchemaType carrying options.
func instantiateType(typeRaw any, options TypeOptions, path string) (SchemaType, error) {
	switch t := typeRaw.(type) {
	case SchemaType:
		return t, nil
	case func(TypeOptions) SchemaType:
		return t(options), nil
	case []any:
		if len(t) != 1 {
			return nil, newTypeError("path %q: array type declaration must have exactly one child element", path)
		}
		child, err := instantiateType(t[0], TypeOptions{}, path)
		if err != nil {
			return nil, err
		}
		return NewArrayType(child, options), nil
	default:
		return nil, newTypeError("path %q: \"type\" must be a SchemaType, constructor, or single-element array", path)
	}
}

// parseTypeOptions reads the well-known option keys out of a field
// declaration map, leaving "type" itself untouched.
func parseTypeOptions(decl map[string]any) TypeOptions {
	options := TypeOptions{}
	if req, ok := decl["required"].(bool); ok {
		options.Required = req
	}
	if def, ok := decl["default"]; ok {
		options.Default = def
	}
	if ref, ok := decl["ref"].(string); ok {
		options.Ref = ref
	}
	return options
}

func (s *Schema) pushPath(path string, typ SchemaType) {
	s.stack = append(s.stack, stackEntry{path: path, typ: typ})
	s.byPath[path] = typ
}

// Virtual registers a computed field that participates in getter
// application but, per Invariant 4, is never read by ParseDatabase or
// written by ExportDatabase.
func (s *Schema) Virtual(path string, getter VirtualGetter) *VirtualType {
	v := NewVirtualType(getter)
	s.pushPath(path, v)
	return v
}

// TypeAt returns the SchemaType compiled for path, synthesizing a bare
// baseType on the fly for paths the schema never declared, so unknown
// paths still get default equality/compare behavior rather than failing
// outright.
func (s *Schema) TypeAt(path string) SchemaType {
	if t, ok := s.byPath[path]; ok {
		return t
	}
	return newBaseType("", TypeOptions{})
}

// Pre registers fn to run before the named lifecycle point. kind must be
// HookSave or HookRemove.
func (s *Schema) Pre(kind HookKind, fn func(Doc) error) error {
	if fn == nil {
		return newTypeError("Pre: hook function must not be nil")
	}
	if kind != HookSave && kind != HookRemove {
		return newTypeError("Pre: unknown hook kind %q", kind)
	}
	s.pre[kind] = append(s.pre[kind], fn)
	return nil
}

// Post registers fn to run after the named lifecycle point.
func (s *Schema) Post(kind HookKind, fn func(Doc) error) error {
	if fn == nil {
		return newTypeError("Post: hook function must not be nil")
	}
	if kind != HookSave && kind != HookRemove {
		return newTypeError("Post: unknown hook kind %q", kind)
	}
	s.post[kind] = append(s.post[kind], fn)
	return nil
}

// RunPre invokes every hook registered for kind, in registration order,
// stopping at the first error.
func (s *Schema) RunPre(kind HookKind, doc Doc) error {
	start := time.Now()
	for _, fn := range s.pre[kind] {
		if err := fn(doc); err != nil {
			s.logHookRun(kind, "pre", start, err)
			return err
		}
	}
	s.logHookRun(kind, "pre", start, nil)
	return nil
}

// RunPost invokes every hook registered for kind, in registration order,
// stopping at the first error.
func (s *Schema) RunPost(kind HookKind, doc Doc) error {
	start := time.Now()
	for _, fn := range s.post[kind] {
		if err := fn(doc); err != nil {
			s.logHookRun(kind, "post", start, err)
			return err
		}
	}
	s.logHookRun(kind, "post", start, nil)
	return nil
}

// Method registers an instance-style function invoked with a document and
// the arguments passed to CallMethod.
func (s *Schema) Method(name string, fn func(doc Doc, args ...any) any) error {
	if name == "" {
		return newTypeError("Method: name must not be empty")
	}
	if fn == nil {
		return newTypeError("Method: function must not be nil")
	}
	s.methods[name] = fn
	return nil
}

// Static registers a schema-level function with no bound document.
func (s *Schema) Static(name string, fn func(args ...any) any) error {
	if name == "" {
		return newTypeError("Static: name must not be empty")
	}
	if fn == nil {
		return newTypeError("Static: function must not be nil")
	}
	s.statics[name] = fn
	return nil
}

// CallMethod invokes a registered method on doc, returning an OperatorError
// if no method of that name exists.
func (s *Schema) CallMethod(name string, doc Doc, args ...any) (any, error) {
	fn, ok := s.methods[name]
	if !ok {
		return nil, newOperatorError("method %q is not registered", name)
	}
	return fn(doc, args...), nil
}

// CallStatic invokes a registered static, returning an OperatorError if no
// static of that name exists.
func (s *Schema) CallStatic(name string, args ...any) (any, error) {
	fn, ok := s.statics[name]
	if !ok {
		return nil, newOperatorError("static %q is not registered", name)
	}
	return fn(args...), nil
}

// ApplyGetters runs every entry's Cast over doc in stack order, writing the
// result back at each path. It is the ingress pipeline: the transform a
// caller-supplied document undergoes when attached to the schema.
//
// An absent Object path is materialized as an empty Doc rather than left
// Undefined, so its children below it in the stack always have a mapping
// to write into.
func (s *Schema) ApplyGetters(doc Doc) error {
	for _, entry := range s.stack {
		if v, ok := entry.typ.(*VirtualType); ok {
			if computed := v.Cast(nil, doc); !IsUndefined(computed) {
				if err := Set(doc, entry.path, computed); err != nil {
					return err
				}
			}
			continue
		}
		current, _ := Get(doc, entry.path)
		if _, isObject := entry.typ.(*ObjectType); isObject && current == nil {
			current = Doc{}
		}
		cast := entry.typ.Cast(current, doc)
		if IsUndefined(cast) {
			continue
		}
		if err := Set(doc, entry.path, cast); err != nil {
			return err
		}
	}
	return nil
}

// ApplySetters runs Validate over every path in stack order, surfacing the
// first ValidationError encountered. Virtual paths invoke their setter
// side effect instead of writing a value.
func (s *Schema) ApplySetters(doc Doc) error {
	for _, entry := range s.stack {
		if v, ok := entry.typ.(*VirtualType); ok {
			current, _ := Get(doc, entry.path)
			v.ApplySetter(doc, current)
			continue
		}
		current, _ := Get(doc, entry.path)
		validated, err := entry.typ.Validate(current, doc)
		if err != nil {
			if verr, ok := err.(*ValidationError); ok && verr.Path == "" {
				verr.Path = entry.path
			}
			return err
		}
		if IsUndefined(validated) {
			Delete(doc, entry.path)
			continue
		}
		if err := Set(doc, entry.path, validated); err != nil {
			return err
		}
	}
	return nil
}

// ParseDatabase decodes a document freshly loaded from storage, running
// Parse over every declared path in stack order.
func (s *Schema) ParseDatabase(doc Doc) Doc {
	for _, entry := range s.stack {
		if _, ok := entry.typ.(*VirtualType); ok {
			continue
		}
		current, ok := Get(doc, entry.path)
		if !ok {
			continue
		}
		Set(doc, entry.path, entry.typ.Parse(current))
	}
	return doc
}

// ExportDatabase produces the persisted-form document: Value run over
// every declared path in stack order, with Virtual fields and any path
// whose Value resolves to Undefined dropped from the result entirely
// (Invariant 4).
func (s *Schema) ExportDatabase(doc Doc) Doc {
	out := Doc{}
	for _, entry := range s.stack {
		if _, ok := entry.typ.(*VirtualType); ok {
			Delete(out, entry.path)
			continue
		}
		current, ok := Get(doc, entry.path)
		if !ok {
			continue
		}
		exported := entry.typ.Value(current, doc)
		if IsUndefined(exported) {
			Delete(out, entry.path)
			continue
		}
		Set(out, entry.path, exported)
	}
	return out
}
