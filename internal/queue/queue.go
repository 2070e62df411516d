// Package queue is a singly linked list of strings with head and tail insertion,
// head removal, in-place reversal and in-place stable sort.
//
// A nil *Queue is a valid absent queue: every method accepts it and reports
// false, zero or does nothing. A Queue is not safe for concurrent use.
package queue

import "strings"

type node struct {
	next  *node
	value string
}

// Queue owns its chain of nodes starting at head. rear caches the last node.
type Queue struct {
	head  *node
	rear  *node
	size  int
	alloc Allocator
}

// New returns an empty queue whose allocations never fail.
func New() *Queue {
	q, _ := NewWithAllocator(unbounded{})

	return q
}

// NewWithAllocator returns an empty queue charging its blocks to a.
// ErrAllocation is returned when a refuses the queue header.
func NewWithAllocator(a Allocator) (*Queue, error) {
	if a == nil {
		a = unbounded{}
	}

	if !a.Alloc(headerBlock) {
		return nil, ErrAllocation
	}

	return &Queue{alloc: a}, nil
}

// Free releases every node, every stored string and the queue header.
// The queue must not be used afterwards.
func (q *Queue) Free() {
	if q == nil {
		return
	}

	for n := q.head; n != nil; {
		next := n.next
		q.release(n)
		n = next
	}

	q.head, q.rear, q.size = nil, nil, 0
	q.alloc.Free(headerBlock)
}

// InsertHead stores a copy of s before the current head.
func (q *Queue) InsertHead(s string) bool {
	if q == nil {
		return false
	}

	n, ok := q.newNode(s)
	if !ok {
		return false
	}

	if q.rear == nil {
		q.rear = n
	}

	n.next = q.head
	q.head = n
	q.size++

	return true
}

// InsertTail stores a copy of s after the current rear in constant time.
func (q *Queue) InsertTail(s string) bool {
	if q == nil {
		return false
	}

	n, ok := q.newNode(s)
	if !ok {
		return false
	}

	if q.head == nil {
		q.head = n
	} else {
		q.rear.next = n
	}

	q.rear = n
	q.size++

	return true
}

// RemoveHead detaches the head and releases it. When buf is not nil it receives
// at most len(buf)-1 bytes of the removed value followed by a zero byte.
// It reports false for an absent or empty queue.
func (q *Queue) RemoveHead(buf []byte) bool {
	if q == nil || q.head == nil {
		return false
	}

	n := q.head
	q.head = n.next

	if len(buf) > 0 {
		copied := copy(buf[:len(buf)-1], n.value)
		buf[copied] = 0
	}

	q.release(n)

	if q.head == nil {
		q.rear = nil
	}

	q.size--

	return true
}

// PopHead removes the head and returns its whole value.
func (q *Queue) PopHead() (string, bool) {
	if q == nil || q.head == nil {
		return "", false
	}

	value := q.head.value

	return value, q.RemoveHead(nil)
}

// Size returns the cached element count.
func (q *Queue) Size() int {
	if q == nil {
		return 0
	}

	return q.size
}

// Reverse relinks the existing nodes so that the traversal order is inverted.
func (q *Queue) Reverse() {
	if q == nil || q.head == nil {
		return
	}

	var prev *node

	q.rear = q.head

	for cur := q.head; cur != nil; {
		next := cur.next
		cur.next = prev
		prev = cur
		cur = next
	}

	q.head = prev
}

// Values returns a copy of the stored strings in traversal order.
// At most Size() values are read.
func (q *Queue) Values() []string {
	if q == nil {
		return nil
	}

	values := make([]string, 0, q.size)
	for n := q.head; n != nil && len(values) < q.size; n = n.next {
		values = append(values, n.value)
	}

	return values
}

func (q *Queue) newNode(s string) (*node, bool) {
	if !q.alloc.Alloc(nodeBlock) {
		return nil, false
	}

	if !q.alloc.Alloc(valueBlock(s)) {
		q.alloc.Free(nodeBlock)

		return nil, false
	}

	return &node{value: strings.Clone(s)}, true
}

func (q *Queue) release(n *node) {
	q.alloc.Free(valueBlock(n.value))
	q.alloc.Free(nodeBlock)
	n.next = nil
}

// BufferString returns the content of buf up to its first zero byte.
func BufferString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}

	return string(buf)
}
