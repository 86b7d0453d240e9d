package queue

import (
	"context"
)

// Queue hands validated commands to the ingestion worker. Implementations
// guarantee FIFO order within a command kind; no ordering holds across
// kinds, so the worker polls each kind independently.
//
// Enqueue returns only after the backing store has acknowledged the
// command. Dequeue is non-blocking and returns (nil, nil) when no command
// of the requested kind is ready. Length is the approximate number of
// outstanding commands across all kinds.
type Queue interface {
	Enqueue(ctx context.Context, cmd Command) error
	Dequeue(ctx context.Context, kind Kind) (Command, error)
	Length(ctx context.Context) (int64, error)
}
