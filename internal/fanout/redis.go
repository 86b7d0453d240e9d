package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const (
	redisTopicPrefix  = "chat:fanout:"
	redisTopicPattern = redisTopicPrefix + "*"
)

// RedisPublisher broadcasts events over redis pub/sub, one topic per
// channel. Subscribers in other processes relay them to their local
// connections.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func redisTopic(channelID uint) string {
	return fmt.Sprintf("%s%d", redisTopicPrefix, channelID)
}

func (p *RedisPublisher) Publish(ctx context.Context, channelID uint, event string, payload interface{}) error {
	evt, err := NewEvent(channelID, event, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, redisTopic(channelID), data).Err()
}

// RedisSubscriber pattern-subscribes every channel topic and hands decoded
// events to the handler. Runs until the context is cancelled.
type RedisSubscriber struct {
	client *redis.Client
}

func NewRedisSubscriber(client *redis.Client) *RedisSubscriber {
	return &RedisSubscriber{client: client}
}

func (s *RedisSubscriber) Subscribe(ctx context.Context, handler func(Event)) error {
	sub := s.client.PSubscribe(ctx, redisTopicPattern)
	ch := sub.Channel()

	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var evt Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					log.Printf("fanout: dropping malformed event on %s: %v", msg.Channel, err)
					continue
				}
				handler(evt)
			}
		}
	}()
	return nil
}
