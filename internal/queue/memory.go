package queue

import (
	"context"
	"sync"
)

// MemoryQueue is an in-process queue for single-process deployments and
// tests. Not durable: queued commands are lost on crash. Commands still
// cross the boundary serialized, exactly like the redis-backed queue, so
// nothing is shared by reference with the producer.
type MemoryQueue struct {
	mu     sync.Mutex
	queues map[Kind][][]byte
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{queues: make(map[Kind][][]byte)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, cmd Command) error {
	data, err := Encode(cmd)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	kind := cmd.CommandKind()
	q.queues[kind] = append(q.queues[kind], data)
	return nil
}

func (q *MemoryQueue) Dequeue(ctx context.Context, kind Kind) (Command, error) {
	q.mu.Lock()
	items := q.queues[kind]
	if len(items) == 0 {
		q.mu.Unlock()
		return nil, nil
	}
	data := items[0]
	q.queues[kind] = items[1:]
	q.mu.Unlock()

	return Decode(data)
}

func (q *MemoryQueue) Length(ctx context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var total int64
	for _, items := range q.queues {
		total += int64(len(items))
	}
	return total, nil
}
