package queue

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const queueKeyPrefix = "chat:queue:"

// RedisQueue is a durable queue on redis lists, one list per command kind
// (RPUSH to enqueue, LPOP to dequeue keeps each list FIFO). It survives
// process restarts and lets several worker processes share one queue.
type RedisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func queueKey(kind Kind) string {
	return queueKeyPrefix + string(kind)
}

func (q *RedisQueue) Enqueue(ctx context.Context, cmd Command) error {
	data, err := Encode(cmd)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, queueKey(cmd.CommandKind()), data).Err()
}

func (q *RedisQueue) Dequeue(ctx context.Context, kind Kind) (Command, error) {
	data, err := q.client.LPop(ctx, queueKey(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (q *RedisQueue) Length(ctx context.Context) (int64, error) {
	var total int64
	for _, kind := range Kinds {
		n, err := q.client.LLen(ctx, queueKey(kind)).Result()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
