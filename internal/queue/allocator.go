package queue

import "unsafe"

//go:generate mockgen -source=allocator.go -destination=mocks/mock_allocator.go -package=mocks

var (
	headerBlock = int(unsafe.Sizeof(Queue{}))
	nodeBlock   = int(unsafe.Sizeof(node{}))
)

// Allocator grants or refuses the blocks a queue needs: its header, one per node and one per stored string.
type Allocator interface {
	Alloc(size int) bool
	Free(size int)
}

type unbounded struct{}

func (unbounded) Alloc(int) bool { return true }

func (unbounded) Free(int) {}

func valueBlock(s string) int {
	return len(s) + 1
}
