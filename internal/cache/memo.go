// Package cache provides the concurrent, re-entrancy-checked memoising
// maps that break the lowering/partial-evaluation mutual recursion
// (spec.md §3 "Lifecycles", §5): every entity is constructed exactly once
// per key, stored read-only thereafter. A construction already in flight
// for a key is reported rather than re-entered only when the caller is
// the same goroutine that started it; a concurrent caller on a different
// goroutine instead waits and observes the first construction's result
// (spec.md §5 "a second writer for the same key observes the first's
// result").
//
// Grounded on the teacher's internal/module.Loader: a sync.RWMutex-guarded
// map plus a load stack used for cycle detection, generalised here from
// string module identities to an arbitrary comparable key type via Go
// generics.
package cache

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/Techno-coder/lexica-sub000/internal/errors"
)

// buildResult is the outcome build() reached for a key, captured once so
// every concurrent waiter on that key's inflight entry observes the same
// value or error rather than racing to build it again.
type buildResult[V any] struct {
	value V
	err   error
}

// inflight tracks one key's in-progress construction: the goroutine that
// started it, so a same-goroutine re-entry is recognised as genuine
// mutual recursion rather than mistaken for a concurrent writer, and a
// done channel other goroutines can wait on for the result.
type inflight[V any] struct {
	goroutine uint64
	done      chan struct{}
	result    buildResult[V]
}

// Memo is a concurrent map from K to V that constructs each entry at most
// once, via Get's builder function, and detects recursive construction of
// the same key (spec.md §3 "detecting re-entrant construction").
type Memo[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]V
	inFlight map[K]*inflight[V]
}

// New creates an empty memo.
func New[K comparable, V any]() *Memo[K, V] {
	return &Memo[K, V]{entries: make(map[K]V), inFlight: make(map[K]*inflight[V])}
}

// Get returns the cached value for key, constructing it with build if
// absent. If the same goroutine is already constructing key further up
// its own call stack — the mutual-recursion case between lowering and
// partial evaluation — Get returns a CAC001 error instead of deadlocking
// or recursing forever. A different goroutine racing for the same key
// instead blocks until the first construction finishes and returns
// exactly what it returned, success or failure, without building twice.
func (m *Memo[K, V]) Get(key K, build func() (V, error)) (V, error) {
	m.mu.Lock()
	if v, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return v, nil
	}
	if entry, ok := m.inFlight[key]; ok {
		if entry.goroutine == goroutineID() {
			m.mu.Unlock()
			var zero V
			return zero, errors.Wrap(recursiveConstructionError(key))
		}
		m.mu.Unlock()
		<-entry.done
		return entry.result.value, entry.result.err
	}
	entry := &inflight[V]{goroutine: goroutineID(), done: make(chan struct{})}
	m.inFlight[key] = entry
	m.mu.Unlock()

	v, err := build()
	entry.result = buildResult[V]{value: v, err: err}
	close(entry.done)

	m.mu.Lock()
	delete(m.inFlight, key)
	if err == nil {
		m.entries[key] = v
	}
	m.mu.Unlock()
	return v, err
}

// goroutineID extracts the calling goroutine's numeric ID from the
// "goroutine N [running]:" header runtime.Stack always writes first.
// There is no supported API for this; it is used here only to
// distinguish genuine same-stack recursion from a merely concurrent
// caller, never for scheduling or correctness beyond that distinction.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, _ := strconv.ParseUint(string(fields[1]), 10, 64)
	return id
}

// Peek returns the cached value without attempting construction.
func (m *Memo[K, V]) Peek(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

// Len reports the number of frozen entries.
func (m *Memo[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func recursiveConstructionError[K comparable](key K) *errors.Report {
	return errors.New("cache", errors.CAC001, fmt.Sprintf("recursive construction of cache key %v", key))
}
