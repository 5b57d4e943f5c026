// This file defines Collection: the repository-style entry point bound to
// one compiled schema and one Driver, over documents with no Go type of
// their own. Operations run their documents through the schema's
// pipelines; Insert and UpdateMany invoke the save hooks and DeleteMany
// the pre-remove hooks. Every operation except Count dispatches through
// the global middleware chain and emits an event on success; Count only
// compiles its filter and asks the driver.
package storage

import (
	"context"

	"github.com/D-Sketon/warehouse/schema"
)

// Collection is a persistence-backed view of one named collection of
// documents, all shaped by the same compiled *schema.Schema.
type Collection struct {
	Name   string
	Schema *schema.Schema
	driver Driver
}

// NewCollection binds name to schema s and driver d.
func NewCollection(name string, s *schema.Schema, d Driver) *Collection {
	return &Collection{Name: name, Schema: s, driver: d}
}

// Insert runs ApplyGetters and ApplySetters over each doc, the schema's
// HookSave hooks, persists the exported form, and emits EventInsert.
func (c *Collection) Insert(ctx context.Context, docs ...schema.Doc) error {
	return dispatchOperation(ctx, OperationInsert, c.Name, func() error {
		exported := make([]map[string]any, 0, len(docs))
		for _, doc := range docs {
			if err := c.Schema.ApplyGetters(doc); err != nil {
				return err
			}
			if err := c.Schema.ApplySetters(doc); err != nil {
				return err
			}
			if err := c.Schema.RunPre(schema.HookSave, doc); err != nil {
				return err
			}
			exported = append(exported, c.Schema.ExportDatabase(doc))
		}
		if err := c.driver.Insert(ctx, c.Name, exported...); err != nil {
			return err
		}
		for _, doc := range docs {
			if err := c.Schema.RunPost(schema.HookSave, doc); err != nil {
				return err
			}
		}
		Emit(EventInsert, InsertPayload{Collection: c.Name, Docs: exported})
		return nil
	})
}

// FindOne compiles filter, asks the driver for the first matching stored
// document, runs it through ParseDatabase, and emits EventFind.
func (c *Collection) FindOne(ctx context.Context, filter schema.Doc) (schema.Doc, error) {
	query, err := c.Schema.CompileQuery(filter)
	if err != nil {
		return nil, err
	}

	var result schema.Doc
	err = dispatchOperation(ctx, OperationFind, c.Name, func() error {
		raw, err := c.driver.FindOne(ctx, c.Name, query.Match)
		if err != nil || raw == nil {
			return err
		}
		result = c.Schema.ParseDatabase(schema.Doc(raw))
		Emit(EventFind, FindPayload{Collection: c.Name, Count: 1})
		return nil
	})
	return result, err
}

// FindMany compiles filter and sort, asks the driver for every matching
// stored document, sorts and parses them, and emits EventFind.
func (c *Collection) FindMany(ctx context.Context, filter schema.Doc, sortSpec schema.SortSpec) ([]schema.Doc, error) {
	query, err := c.Schema.CompileQuery(filter)
	if err != nil {
		return nil, err
	}
	sorter, err := c.Schema.CompileSort(sortSpec)
	if err != nil {
		return nil, err
	}

	var results []schema.Doc
	err = dispatchOperation(ctx, OperationFind, c.Name, func() error {
		rows, err := c.driver.FindMany(ctx, c.Name, query.Match)
		if err != nil {
			return err
		}
		results = make([]schema.Doc, len(rows))
		for i, row := range rows {
			results[i] = c.Schema.ParseDatabase(schema.Doc(row))
		}
		sortDocs(results, sorter)
		Emit(EventFind, FindPayload{Collection: c.Name, Count: len(results)})
		return nil
	})
	return results, err
}

// UpdateMany compiles filter and update, applies update to every matching
// document in place, runs HookSave, persists, and emits EventUpdate.
func (c *Collection) UpdateMany(ctx context.Context, filter, update schema.Doc) (int, error) {
	query, err := c.Schema.CompileQuery(filter)
	if err != nil {
		return 0, err
	}
	compiledUpdate, err := c.Schema.CompileUpdate(update)
	if err != nil {
		return 0, err
	}

	var matched int
	err = dispatchOperation(ctx, OperationUpdate, c.Name, func() error {
		n, err := c.driver.UpdateMany(ctx, c.Name, query.Match, func(row map[string]any) error {
			doc := c.Schema.ParseDatabase(schema.Doc(row))
			if err := compiledUpdate.Apply(doc, c.Schema); err != nil {
				return err
			}
			if err := c.Schema.RunPre(schema.HookSave, doc); err != nil {
				return err
			}
			exported := c.Schema.ExportDatabase(doc)
			for k := range row {
				delete(row, k)
			}
			for k, v := range exported {
				row[k] = v
			}
			return c.Schema.RunPost(schema.HookSave, doc)
		})
		matched = n
		if err != nil {
			return err
		}
		Emit(EventUpdate, UpdatePayload{Collection: c.Name, Matched: matched})
		return nil
	})
	return matched, err
}

// DeleteMany compiles filter, removes every matching document, running
// HookRemove before deletion, and emits EventDelete.
func (c *Collection) DeleteMany(ctx context.Context, filter schema.Doc) (int, error) {
	query, err := c.Schema.CompileQuery(filter)
	if err != nil {
		return 0, err
	}

	var deleted int
	err = dispatchOperation(ctx, OperationDelete, c.Name, func() error {
		var hookErr error
		match := func(row map[string]any) bool {
			if hookErr != nil || !query.Match(row) {
				return false
			}
			doc := c.Schema.ParseDatabase(schema.Doc(row))
			if err := c.Schema.RunPre(schema.HookRemove, doc); err != nil {
				hookErr = err
				return false
			}
			return true
		}
		n, err := c.driver.DeleteMany(ctx, c.Name, match)
		deleted = n
		if hookErr != nil {
			return hookErr
		}
		if err != nil {
			return err
		}
		Emit(EventDelete, DeletePayload{Collection: c.Name, Deleted: deleted})
		return nil
	})
	return deleted, err
}

// Count compiles filter and returns how many stored documents match it.
func (c *Collection) Count(ctx context.Context, filter schema.Doc) (int64, error) {
	query, err := c.Schema.CompileQuery(filter)
	if err != nil {
		return 0, err
	}
	return c.driver.Count(ctx, c.Name, query.Match)
}

// sortDocs sorts docs in place according to sorter, using insertion sort
// since collections are expected to be small, in-memory, and already
// mostly ordered after a driver scan; a stable sort keeps ties in storage
// order, so the result is a total order that never reshuffles equal keys.
func sortDocs(docs []schema.Doc, sorter *schema.CompiledSort) {
	for i := 1; i < len(docs); i++ {
		for j := i; j > 0 && sorter.Less(docs[j], docs[j-1]); j-- {
			docs[j], docs[j-1] = docs[j-1], docs[j]
		}
	}
}
