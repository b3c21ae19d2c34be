// Package memory provides map-backed repositories for local development and tests.
package memory

import (
	"sort"
	"sync"
	"time"

	pkgerrors "storeadmin/pkg/errors"
)

// table is a concurrency-safe id -> row map. Rows are cloned on the way in
// and on the way out so callers never share memory with the store.
type table[T any] struct {
	mu       sync.RWMutex
	rows     map[string]*T
	resource string
	clone    func(*T) *T
}

func newTable[T any](resource string, clone func(*T) *T) *table[T] {
	return &table[T]{
		rows:     make(map[string]*T),
		resource: resource,
		clone:    clone,
	}
}

func (t *table[T]) put(id string, row *T) error {
	if id == "" {
		return pkgerrors.NewValidationError(t.resource + " ID is required")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = t.clone(row)
	return nil
}

func (t *table[T]) get(id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(t.resource).WithDetail("id", id)
	}
	return t.clone(row), nil
}

func (t *table[T]) remove(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return pkgerrors.NewNotFoundError(t.resource).WithDetail("id", id)
	}
	delete(t.rows, id)
	return nil
}

// filter returns clones of the rows matching keep, in unspecified order.
func (t *table[T]) filter(keep func(*T) bool) []*T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*T, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}

func (t *table[T]) ids() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.rows))
	for id := range t.rows {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// byTime orders rows by a timestamp, ties broken by id so results are stable.
func byTime[T any](rows []*T, at func(*T) time.Time, id func(*T) string, newestFirst bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		ti, tj := at(rows[i]), at(rows[j])
		if !ti.Equal(tj) {
			if newestFirst {
				return ti.After(tj)
			}
			return ti.Before(tj)
		}
		return id(rows[i]) < id(rows[j])
	})
}

func limit[T any](rows []*T, n int) []*T {
	if n >= 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
