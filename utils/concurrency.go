package utils

import "sync"

// TaskGroup runs a fixed set of tasks concurrently and joins on all of
// them. The first error returned by any task is kept and surfaced by
// Wait; later errors are dropped.
type TaskGroup struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	firstErr error
}

// NewTaskGroup creates an empty TaskGroup.
func NewTaskGroup() *TaskGroup {
	return &TaskGroup{}
}

// Go launches task in its own goroutine.
func (g *TaskGroup) Go(task func() error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		if err := task(); err != nil {
			g.mu.Lock()
			if g.firstErr == nil {
				g.firstErr = err
			}
			g.mu.Unlock()
		}
	}()
}

// Wait blocks until every launched task has finished, then returns the
// first recorded error, if any.
func (g *TaskGroup) Wait() error {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.firstErr
}

// ResultMap is a concurrency-safe map keyed by source name. Each source
// goroutine stores its output here; readers only touch it after the
// group barrier.
type ResultMap[T any] struct {
	mu sync.Mutex
	m  map[string]T
}

// NewResultMap creates an empty ResultMap.
func NewResultMap[T any]() *ResultMap[T] {
	return &ResultMap[T]{m: make(map[string]T)}
}

// Put stores value under key, overwriting any previous entry.
func (r *ResultMap[T]) Put(key string, value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[key] = value
}

// Get returns the value stored under key.
func (r *ResultMap[T]) Get(key string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.m[key]
	return v, ok
}

// Keys returns the stored keys in unspecified order.
func (r *ResultMap[T]) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.m))
	for k := range r.m {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of stored entries.
func (r *ResultMap[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}
