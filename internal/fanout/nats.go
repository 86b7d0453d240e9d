package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

const (
	natsSubjectPrefix  = "chat.fanout."
	natsSubjectPattern = natsSubjectPrefix + ">"
)

// NatsPublisher is the NATS-backed backplane, for deployments that already
// run NATS instead of redis pub/sub. Same best-effort contract.
type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(conn *nats.Conn) *NatsPublisher {
	return &NatsPublisher{conn: conn}
}

func natsSubject(channelID uint) string {
	return fmt.Sprintf("%s%d", natsSubjectPrefix, channelID)
}

func (p *NatsPublisher) Publish(ctx context.Context, channelID uint, event string, payload interface{}) error {
	evt, err := NewEvent(channelID, event, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.conn.Publish(natsSubject(channelID), data)
}

type NatsSubscriber struct {
	conn *nats.Conn
}

func NewNatsSubscriber(conn *nats.Conn) *NatsSubscriber {
	return &NatsSubscriber{conn: conn}
}

func (s *NatsSubscriber) Subscribe(ctx context.Context, handler func(Event)) error {
	sub, err := s.conn.Subscribe(natsSubjectPattern, func(msg *nats.Msg) {
		var evt Event
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			log.Printf("fanout: dropping malformed event on %s: %v", msg.Subject, err)
			return
		}
		handler(evt)
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("fanout: unsubscribe failed: %v", err)
		}
	}()
	return nil
}
