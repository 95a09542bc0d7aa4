// Package dedupe maps client request IDs to the job they created, so a
// retried submission returns the original job instead of running twice.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// DefaultMaxSize bounds the index when no size is configured.
const DefaultMaxSize = 50000

// Index records which job each request ID produced.
type Index interface {
	// Claim records requestID -> jobID if requestID is new and returns
	// (jobID, false). For a known requestID it returns the job recorded
	// first and true. Claim is atomic.
	Claim(ctx context.Context, requestID, jobID string) (string, bool)

	// Release forgets requestID so it can be claimed again. Use it when the
	// claimed job never got queued.
	Release(ctx context.Context, requestID string)

	// Size returns the number of tracked request IDs.
	Size() int64
}

type entry struct {
	requestID string
	jobID     string
}

// memoryIndex keeps the newest claims at the front of a list; when bounded
// and full, the oldest claim is evicted first.
type memoryIndex struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	maxSize int // <= 0 means unbounded
}

// NewMemoryIndex returns an in-memory Index.
func NewMemoryIndex(opts ...Option) Index {
	d := &memoryIndex{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *memoryIndex) Claim(_ context.Context, requestID, jobID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.entries[requestID]; ok {
		return el.Value.(*entry).jobID, true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		d.evictOldest()
	}
	d.entries[requestID] = d.order.PushFront(&entry{requestID: requestID, jobID: jobID})
	return jobID, false
}

func (d *memoryIndex) Release(_ context.Context, requestID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.entries[requestID]; ok {
		d.order.Remove(el)
		delete(d.entries, requestID)
	}
}

func (d *memoryIndex) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}

// evictOldest must be called with d.mu held.
func (d *memoryIndex) evictOldest() {
	el := d.order.Back()
	if el == nil {
		return
	}
	d.order.Remove(el)
	delete(d.entries, el.Value.(*entry).requestID)
}
