package queue

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind tags a command variant. The set is closed: decoding rejects
// anything outside it rather than silently dropping the payload.
type Kind string

const (
	KindSendMessage      Kind = "send_message"
	KindMarkSeen         Kind = "mark_seen"
	KindUserConnected    Kind = "user_connected"
	KindUserDisconnected Kind = "user_disconnected"
)

// Kinds lists every command variant, in the order the worker polls them.
var Kinds = []Kind{KindSendMessage, KindMarkSeen, KindUserConnected, KindUserDisconnected}

// Command is a validated intent handed to the ingestion worker. Commands
// are immutable once enqueued and cross the queue boundary by value.
type Command interface {
	CommandKind() Kind
}

type SendMessage struct {
	ChannelID  uint      `msgpack:"channel_id"`
	SenderID   uint      `msgpack:"sender_id"`
	Content    string    `msgpack:"content"`
	ClientID   string    `msgpack:"client_id"`
	EnqueuedAt time.Time `msgpack:"enqueued_at"`
}

func (SendMessage) CommandKind() Kind { return KindSendMessage }

type MarkSeen struct {
	ChannelID      uint      `msgpack:"channel_id"`
	UserID         uint      `msgpack:"user_id"`
	LastSeenOffset int64     `msgpack:"last_seen_offset"`
	EnqueuedAt     time.Time `msgpack:"enqueued_at"`
}

func (MarkSeen) CommandKind() Kind { return KindMarkSeen }

type UserConnected struct {
	UserID       uint      `msgpack:"user_id"`
	ConnectionID string    `msgpack:"connection_id"`
	EnqueuedAt   time.Time `msgpack:"enqueued_at"`
}

func (UserConnected) CommandKind() Kind { return KindUserConnected }

type UserDisconnected struct {
	UserID       uint      `msgpack:"user_id"`
	ConnectionID string    `msgpack:"connection_id"`
	EnqueuedAt   time.Time `msgpack:"enqueued_at"`
}

func (UserDisconnected) CommandKind() Kind { return KindUserDisconnected }

// envelope is the self-describing wire format: a type tag plus the
// msgpack-encoded command fields.
type envelope struct {
	Kind    Kind               `msgpack:"kind"`
	Payload msgpack.RawMessage `msgpack:"payload"`
}

// Encode serializes a command into its envelope form.
func Encode(cmd Command) ([]byte, error) {
	payload, err := msgpack.Marshal(cmd)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(envelope{Kind: cmd.CommandKind(), Payload: payload})
}

// Decode parses an envelope back into a concrete command. Unknown type
// tags are an error, never a silent drop.
func Decode(data []byte) (Command, error) {
	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Kind {
	case KindSendMessage:
		var cmd SendMessage
		if err := msgpack.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case KindMarkSeen:
		var cmd MarkSeen
		if err := msgpack.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case KindUserConnected:
		var cmd UserConnected
		if err := msgpack.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	case KindUserDisconnected:
		var cmd UserDisconnected
		if err := msgpack.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, err
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("unknown command kind: %s", env.Kind)
	}
}
