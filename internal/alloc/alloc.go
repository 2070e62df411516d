// Package alloc provides block accounting allocators for queues: one that always
// grants and one that refuses a configurable share of requests.
package alloc

import "math/rand"

const maxPercent = 100

type Allocator interface {
	Alloc(size int) bool
	Free(size int)
	// Blocks is the number of granted blocks not yet freed.
	Blocks() int
	// Bytes is the total size of granted blocks not yet freed.
	Bytes() int
}

type FaultyAllocator interface {
	Allocator
	SetFailPercent(percent int)
	FailPercent() int
	// Failures is the number of refused requests.
	Failures() int
}

type heap struct {
	blocks int
	bytes  int
}

func (h *heap) Alloc(size int) bool {
	h.blocks++
	h.bytes += size

	return true
}

func (h *heap) Free(size int) {
	h.blocks--
	h.bytes -= size
}

func (h *heap) Blocks() int {
	return h.blocks
}

func (h *heap) Bytes() int {
	return h.bytes
}

type faulty struct {
	heap

	rnd         *rand.Rand
	failPercent int
	failures    int
}

func (f *faulty) Alloc(size int) bool {
	if f.failPercent > 0 && f.rnd.Intn(maxPercent) < f.failPercent {
		f.failures++

		return false
	}

	return f.heap.Alloc(size)
}

func (f *faulty) SetFailPercent(percent int) {
	f.failPercent = max(0, min(maxPercent, percent))
}

func (f *faulty) FailPercent() int {
	return f.failPercent
}

func (f *faulty) Failures() int {
	return f.failures
}

// NewHeap returns an allocator that grants every request.
func NewHeap() Allocator {
	return &heap{}
}

// NewFaulty returns an allocator refusing about failPercent of requests, drawn from a source seeded with seed.
func NewFaulty(seed int64, failPercent int) FaultyAllocator {
	f := &faulty{rnd: rand.New(rand.NewSource(seed))} //nolint:gosec
	f.SetFailPercent(failPercent)

	return f
}
