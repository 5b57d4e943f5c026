// This file defines MemoryDriver: an in-process Driver backed by plain Go
// maps and slices, protected by a RWMutex. It is the default backend for
// tests and for callers with no durability requirement.
package storage

import (
	"context"
	"sync"
)

// MemoryDriver holds one []map[string]any per collection name in memory.
type MemoryDriver struct {
	mutex sync.RWMutex
	data  map[string][]map[string]any
}

// NewMemoryDriver constructs an empty MemoryDriver.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{data: make(map[string][]map[string]any)}
}

func (d *MemoryDriver) Connect(ctx context.Context) error { return nil }
func (d *MemoryDriver) Ping(ctx context.Context) error    { return nil }
func (d *MemoryDriver) Close(ctx context.Context) error   { return nil }

// Transaction returns a no-op Transaction: MemoryDriver applies every
// mutation immediately, so there is nothing to defer to Commit and nothing
// to undo on Rollback.
func (d *MemoryDriver) Transaction(ctx context.Context) (Transaction, error) {
	return noopTransaction{}, nil
}

type noopTransaction struct{}

func (noopTransaction) Commit(ctx context.Context) error   { return nil }
func (noopTransaction) Rollback(ctx context.Context) error { return nil }

func (d *MemoryDriver) Insert(ctx context.Context, collection string, docs ...map[string]any) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.data[collection] = append(d.data[collection], docs...)
	return nil
}

func (d *MemoryDriver) FindOne(ctx context.Context, collection string, match func(map[string]any) bool) (map[string]any, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	for _, row := range d.data[collection] {
		if match(row) {
			return cloneRow(row), nil
		}
	}
	return nil, nil
}

func (d *MemoryDriver) FindMany(ctx context.Context, collection string, match func(map[string]any) bool) ([]map[string]any, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	var out []map[string]any
	for _, row := range d.data[collection] {
		if match(row) {
			out = append(out, cloneRow(row))
		}
	}
	return out, nil
}

func (d *MemoryDriver) UpdateMany(ctx context.Context, collection string, match func(map[string]any) bool, apply func(map[string]any) error) (int, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	count := 0
	for _, row := range d.data[collection] {
		if match(row) {
			if err := apply(row); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func (d *MemoryDriver) DeleteMany(ctx context.Context, collection string, match func(map[string]any) bool) (int, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	rows := d.data[collection]
	kept := rows[:0]
	count := 0
	for _, row := range rows {
		if match(row) {
			count++
			continue
		}
		kept = append(kept, row)
	}
	d.data[collection] = kept
	return count, nil
}

func (d *MemoryDriver) Count(ctx context.Context, collection string, match func(map[string]any) bool) (int64, error) {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	var count int64
	for _, row := range d.data[collection] {
		if match(row) {
			count++
		}
	}
	return count, nil
}

func cloneRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
