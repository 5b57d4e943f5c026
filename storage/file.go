// This file defines FileDriver: a Driver that keeps its working set in
// memory like MemoryDriver but snapshots the whole store to a JSON file on
// every mutation, using natefinch/atomic so a crash mid-write never leaves
// a half-written snapshot on disk — the same atomic.WriteFile call
// calvinalkan-agent-task's filesystem wrapper uses for its own durable
// writes.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/natefinch/atomic"
)

// FileDriver persists every collection as a single JSON document under
// Path, rewritten atomically after each mutating call.
type FileDriver struct {
	Path  string
	mutex sync.Mutex
	data  map[string][]map[string]any
}

// NewFileDriver constructs a FileDriver writing snapshots to path. The
// file is created on the first mutation if it does not already exist.
func NewFileDriver(path string) *FileDriver {
	return &FileDriver{Path: path, data: make(map[string][]map[string]any)}
}

func (d *FileDriver) Connect(ctx context.Context) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	raw, err := os.ReadFile(d.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, &d.data)
}

func (d *FileDriver) Ping(ctx context.Context) error  { return nil }
func (d *FileDriver) Close(ctx context.Context) error { return nil }

func (d *FileDriver) Transaction(ctx context.Context) (Transaction, error) {
	return noopTransaction{}, nil
}

// flush serializes the whole in-memory store and atomically replaces the
// file on disk. Callers must hold d.mutex.
func (d *FileDriver) flush() error {
	buf, err := json.Marshal(d.data)
	if err != nil {
		return err
	}
	return atomic.WriteFile(d.Path, bytes.NewReader(buf))
}

func (d *FileDriver) Insert(ctx context.Context, collection string, docs ...map[string]any) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.data[collection] = append(d.data[collection], docs...)
	return d.flush()
}

func (d *FileDriver) FindOne(ctx context.Context, collection string, match func(map[string]any) bool) (map[string]any, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	for _, row := range d.data[collection] {
		if match(row) {
			return cloneRow(row), nil
		}
	}
	return nil, nil
}

func (d *FileDriver) FindMany(ctx context.Context, collection string, match func(map[string]any) bool) ([]map[string]any, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	var out []map[string]any
	for _, row := range d.data[collection] {
		if match(row) {
			out = append(out, cloneRow(row))
		}
	}
	return out, nil
}

func (d *FileDriver) UpdateMany(ctx context.Context, collection string, match func(map[string]any) bool, apply func(map[string]any) error) (int, error) {
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
	if count > 0 {
		if err := d.flush(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (d *FileDriver) DeleteMany(ctx context.Context, collection string, match func(map[string]any) bool) (int, error) {
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
	if count > 0 {
		if err := d.flush(); err != nil {
			return count, err
		}
	}
	return count, nil
}

func (d *FileDriver) Count(ctx context.Context, collection string, match func(map[string]any) bool) (int64, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	var count int64
	for _, row := range d.data[collection] {
		if match(row) {
			count++
		}
	}
	return count, nil
}
