package queue

import "errors"

var (
	// ErrClosed is returned when enqueuing onto a closed queue.
	ErrClosed = errors.New("persistence queue closed")
	// ErrFull is returned when the queue is at capacity.
	ErrFull = errors.New("persistence queue full")
)
