package reactive

import (
	"reflect"
	"sort"
	"sync"
)

// cell is one reactive property: the captured value plus its owned
// dependency registry.
type cell struct {
	dep *Dep

	// value is the captured current value. Nested plain objects are stored
	// as child *Scope values.
	value any

	// mu protects the value.
	mu sync.RWMutex
}

// Scope is an observed data object: a map from key to reactive cell.
// Reading a key during a tracked evaluation subscribes the current watcher
// to that key; writing a key with a different value notifies its
// subscribers before Set returns.
type Scope struct {
	cells map[string]*cell

	// mu protects the cells map. Individual values have their own locks.
	mu sync.RWMutex
}

// Observe converts a plain key-value object into a reactive Scope,
// recursing into nested objects. Non-object input (primitives, slices,
// nil) is a no-op returning nil — recursion simply terminates there.
func Observe(value any) *Scope {
	m, ok := value.(map[string]any)
	if !ok || m == nil {
		return nil
	}

	s := &Scope{cells: make(map[string]*cell, len(m))}
	for k, v := range m {
		s.define(k, v)
	}
	return s
}

// define installs a fresh reactive cell for key. Nested plain objects are
// converted to child Scopes so their keys become reactive too.
func (s *Scope) define(key string, initial any) {
	if child := Observe(initial); child != nil {
		initial = child
	}
	s.cells[key] = &cell{dep: NewDep(), value: initial}
}

// Get returns the captured value for key. If a watcher is currently
// evaluating on this goroutine, it is registered into the key's registry —
// this read accessor is the only mechanism by which a dependency edge is
// formed. The second return is false when the key does not exist.
func (s *Scope) Get(key string) (any, bool) {
	s.mu.RLock()
	c := s.cells[key]
	s.mu.RUnlock()
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	value := c.value
	c.mu.RUnlock()

	// Track dependency (after releasing the value lock to prevent deadlock)
	if l := getCurrentListener(); l != nil {
		c.dep.AddSub(l)
		if rec, ok := l.(depRecorder); ok {
			rec.recordDep(c.dep)
		}
	}

	return value, true
}

// Set writes a value to key. A value-equal write is a no-op and never
// triggers notification. Otherwise the captured value is replaced, a newly
// attached plain object is recursively observed, and the key's subscribers
// are notified synchronously before Set returns.
//
// Writing to an unknown key defines a new reactive cell for it.
func (s *Scope) Set(key string, value any) {
	s.mu.Lock()
	c, ok := s.cells[key]
	if !ok {
		s.define(key, value)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	c.mu.Lock()
	if equalValues(c.value, value) {
		c.mu.Unlock()
		return
	}
	if child := Observe(value); child != nil {
		value = child
	}
	c.value = value
	c.mu.Unlock()

	c.dep.Notify()
}

// Has reports whether key is an observed property. Does not form a
// dependency edge.
func (s *Scope) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.cells[key]
	return ok
}

// Keys returns the observed keys in sorted order. Does not form dependency
// edges.
func (s *Scope) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.cells))
	for k := range s.cells {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Peek returns the captured value for key without forming a dependency
// edge, even during a tracked evaluation.
func (s *Scope) Peek(key string) (any, bool) {
	s.mu.RLock()
	c := s.cells[key]
	s.mu.RUnlock()
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, true
}

// Snapshot materializes the scope as a plain map, recursing into child
// Scopes. Every key is read through Get, so snapshotting during a tracked
// evaluation subscribes the watcher to the entire object.
func (s *Scope) Snapshot() map[string]any {
	out := make(map[string]any)
	for _, k := range s.Keys() {
		v, ok := s.Get(k)
		if !ok {
			continue
		}
		if child, isScope := v.(*Scope); isScope {
			v = child.Snapshot()
		}
		out[k] = v
	}
	return out
}

// dep returns the registry owned by key, or nil. Used by tests to assert
// subscription bookkeeping.
func (s *Scope) dep(key string) *Dep {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.cells[key]; c != nil {
		return c.dep
	}
	return nil
}

// equalValues reports whether a write is redundant. Child Scopes compare by
// identity; everything else uses == fast paths with a reflect.DeepEqual
// fallback for slices, maps, and structs.
func equalValues(a, b any) bool {
	if as, ok := a.(*Scope); ok {
		bs, ok := b.(*Scope)
		return ok && as == bs
	}

	switch av := a.(type) {
	case nil:
		return b == nil
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case uint64:
		bv, ok := b.(uint64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return reflect.DeepEqual(a, b)
	}
}
