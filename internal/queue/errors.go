package queue

import "github.com/pkg/errors"

var (
	ErrAllocation = errors.New("queue allocation refused")
	ErrCorrupted  = errors.New("queue invariant violated")
)
