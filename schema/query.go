// This file defines the query compiler: turning a MongoDB-like filter
// document into a CompiledQuery whose Match runs over any document. The
// compiled form is a tree of matcher closures whose leaves close directly
// over a SchemaType's QueryOp rather than emitting SQL — there is no wire
// protocol to target, only an in-memory predicate.
package schema

import (
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// whereCache memoizes compiled $where expression programs by source text,
// mirroring how artpar-apigate's TransformService caches compiled Expr
// programs rather than recompiling identical expression strings per call.
var (
	whereCacheMu sync.RWMutex
	whereCache   = map[string]*vm.Program{}
)

func compileWhereExpr(source string) (*vm.Program, error) {
	whereCacheMu.RLock()
	program, ok := whereCache[source]
	whereCacheMu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(source, expr.Env(Doc{}), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	whereCacheMu.Lock()
	whereCache[source] = program
	whereCacheMu.Unlock()
	return program, nil
}

// CompiledQuery is a reusable predicate compiled from a filter document.
type CompiledQuery struct {
	match func(doc Doc) bool
}

// Match reports whether doc satisfies the compiled filter.
func (q *CompiledQuery) Match(doc Doc) bool {
	if q == nil || q.match == nil {
		return true
	}
	return q.match(doc)
}

// CompileQuery compiles filter, a MongoDB-like query document, against s.
// Unknown paths are matched against a synthesized default-equality type
// rather than rejected.
func (s *Schema) CompileQuery(filter Doc) (*CompiledQuery, error) {
	m, err := s.compileQueryNode(filter, "")
	if err != nil {
		return nil, err
	}
	return &CompiledQuery{match: m}, nil
}

func (s *Schema) compileQueryNode(filter Doc, prefix string) (func(Doc) bool, error) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var clauses []func(Doc) bool
	for _, key := range keys {
		value := filter[key]
		switch key {
		case "$and", "$or", "$nor":
			list, ok := value.([]any)
			if !ok {
				return nil, newOperatorError("%s: expects an array of filter documents", key)
			}
			subs := make([]func(Doc) bool, 0, len(list))
			for _, raw := range list {
				sub, ok := raw.(map[string]any)
				if !ok {
					return nil, newOperatorError("%s: each element must be a filter document", key)
				}
				fn, err := s.compileQueryNode(sub, prefix)
				if err != nil {
					return nil, err
				}
				subs = append(subs, fn)
			}
			clauses = append(clauses, combineLogical(key, subs))

		case "$not":
			sub, ok := value.(map[string]any)
			if !ok {
				return nil, newOperatorError("$not: expects a filter document")
			}
			fn, err := s.compileQueryNode(sub, prefix)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, func(doc Doc) bool { return !fn(doc) })

		case "$where":
			fn, err := compileWhere(value)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, fn)

		default:
			path := JoinPath(prefix, key)
			if sub, ok := value.(map[string]any); ok && !isOperatorMap(sub) {
				fn, err := s.compileQueryNode(sub, path)
				if err != nil {
					return nil, err
				}
				clauses = append(clauses, fn)
				continue
			}
			fn, err := s.compileFieldClause(path, value)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, fn)
		}
	}

	return func(doc Doc) bool {
		for _, c := range clauses {
			if !c(doc) {
				return false
			}
		}
		return true
	}, nil
}

// combineLogical builds the closure for $and/$or/$nor over already
// compiled sub-predicates.
func combineLogical(key string, subs []func(Doc) bool) func(Doc) bool {
	switch key {
	case "$or":
		return func(doc Doc) bool {
			for _, fn := range subs {
				if fn(doc) {
					return true
				}
			}
			return len(subs) == 0
		}
	case "$nor":
		return func(doc Doc) bool {
			for _, fn := range subs {
				if fn(doc) {
					return false
				}
			}
			return true
		}
	default: // $and
		return func(doc Doc) bool {
			for _, fn := range subs {
				if !fn(doc) {
					return false
				}
			}
			return true
		}
	}
}

// compileWhere compiles a $where clause. A string is compiled once via
// compileWhereExpr's cache and reused by every subsequent call with the
// same source text; a func(Doc) bool is used directly.
func compileWhere(value any) (func(Doc) bool, error) {
	switch v := value.(type) {
	case func(Doc) bool:
		return v, nil
	case string:
		program, err := compileWhereExpr(v)
		if err != nil {
			return nil, newOperatorError("$where: %v", err)
		}
		return func(doc Doc) bool {
			out, err := expr.Run(program, doc)
			if err != nil {
				return false
			}
			b, _ := out.(bool)
			return b
		}, nil
	default:
		return nil, newOperatorError("$where: expects a string expression or func(Doc) bool")
	}
}

// compileFieldClause compiles the clause for a single field path once the
// caller has already ruled out a nested (non-operator) mapping value: a
// plain scalar is matched with the type's Match; a map whose keys are all
// operators is matched op by op.
func (s *Schema) compileFieldClause(path string, value any) (func(Doc) bool, error) {
	typ := s.TypeAt(path)

	if ops, ok := value.(map[string]any); ok && isOperatorMap(ops) {
		keys := make([]string, 0, len(ops))
		for k := range ops {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		type compiledOp struct {
			fn  QueryOpFunc
			arg any
		}
		compiled := make([]compiledOp, 0, len(keys))
		for _, opKey := range keys {
			canonical, ok := resolveQueryOp(trimDollar(opKey))
			if !ok {
				return nil, newOperatorError("unknown query operator %q at path %q", opKey, path)
			}
			fn, ok := typ.QueryOp(canonical)
			if !ok {
				return nil, newOperatorError("unsupported query operator %q at path %q", opKey, path)
			}
			compiled = append(compiled, compiledOp{fn: fn, arg: ops[opKey]})
		}
		return func(doc Doc) bool {
			fieldValue, _ := Get(doc, path)
			for _, c := range compiled {
				if !c.fn(fieldValue, c.arg, doc) {
					return false
				}
			}
			return true
		}, nil
	}

	return func(doc Doc) bool {
		fieldValue, _ := Get(doc, path)
		return typ.Match(fieldValue, value, doc)
	}, nil
}

// isOperatorMap reports whether every key in m begins with "$", meaning m
// describes an operator clause rather than a literal sub-document to
// compare by equality.
func isOperatorMap(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for k := range m {
		if len(k) == 0 || k[0] != '$' {
			return false
		}
	}
	return true
}
