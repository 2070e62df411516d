package queue

import "github.com/pkg/errors"

// Check walks at most Size() links from head and reports the first broken invariant.
func (q *Queue) Check() error {
	if q == nil {
		return nil
	}

	if (q.head == nil) != (q.rear == nil) {
		return errors.Wrapf(ErrCorrupted, "head set %t, rear set %t", q.head != nil, q.rear != nil)
	}

	if q.head == nil {
		if q.size != 0 {
			return errors.Wrapf(ErrCorrupted, "empty queue reports size %d", q.size)
		}

		return nil
	}

	var (
		count int
		last  *node
	)

	for n := q.head; n != nil; n = n.next {
		count++
		if count > q.size {
			return errors.Wrapf(ErrCorrupted, "more than %d nodes reachable from head", q.size)
		}

		last = n
	}

	if count != q.size {
		return errors.Wrapf(ErrCorrupted, "size %d, reachable nodes %d", q.size, count)
	}

	if last != q.rear {
		return errors.Wrap(ErrCorrupted, "rear is not the last reachable node")
	}

	return nil
}
