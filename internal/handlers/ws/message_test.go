package ws

import (
	"encoding/json"
	"testing"
)

func TestDeserializeKnownTypes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		checkFn func(t *testing.T, msg Message)
	}{
		{
			name: "chat",
			raw:  `{"type":"chat","payload":{"channel_id":7,"content":"hello","client_id":"c-1"}}`,
			checkFn: func(t *testing.T, msg Message) {
				chat, ok := msg.(*MessageChat)
				if !ok {
					t.Fatalf("type = %T, want *MessageChat", msg)
				}
				if chat.ChannelID != 7 || chat.Content != "hello" || chat.ClientID != "c-1" {
					t.Errorf("chat = %+v", chat)
				}
			},
		},
		{
			name: "read",
			raw:  `{"type":"read","payload":{"channel_id":7,"last_seen_offset":42}}`,
			checkFn: func(t *testing.T, msg Message) {
				read, ok := msg.(*MessageRead)
				if !ok {
					t.Fatalf("type = %T, want *MessageRead", msg)
				}
				if read.ChannelID != 7 || read.LastSeenOffset != 42 {
					t.Errorf("read = %+v", read)
				}
			},
		},
		{
			name: "ack",
			raw:  `{"type":"ack","payload":{"message_id":"msg-9"}}`,
			checkFn: func(t *testing.T, msg Message) {
				ack, ok := msg.(*MessageAck)
				if !ok {
					t.Fatalf("type = %T, want *MessageAck", msg)
				}
				if ack.MessageID != "msg-9" {
					t.Errorf("ack = %+v", ack)
				}
			},
		},
		{
			name: "ping",
			raw:  `{"type":"ping","payload":{}}`,
			checkFn: func(t *testing.T, msg Message) {
				if _, ok := msg.(*MessagePing); !ok {
					t.Fatalf("type = %T, want *MessagePing", msg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Deserialize([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Deserialize error: %v", err)
			}
			tt.checkFn(t, msg)
		})
	}
}

func TestDeserializeUnknownType(t *testing.T) {
	_, err := Deserialize([]byte(`{"type":"teleport","payload":{}}`))
	if err == nil {
		t.Fatal("expected error for unknown message type")
	}
}

func TestDeserializeMalformedJSON(t *testing.T) {
	if _, err := Deserialize([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	original := &MessageChat{ChannelID: 3, Content: "round trip", ClientID: "c-2"}

	data, err := Serialize(original)
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}

	var wrapper SerializedMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		t.Fatalf("unmarshal wrapper: %v", err)
	}
	if wrapper.Type != "chat" {
		t.Errorf("Type = %q, want %q", wrapper.Type, "chat")
	}

	msg, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize error: %v", err)
	}
	chat := msg.(*MessageChat)
	if chat.ChannelID != 3 || chat.Content != "round trip" {
		t.Errorf("chat = %+v", chat)
	}
}

func TestTypeRegistryCoversAllTypes(t *testing.T) {
	registry := GetTypeRegistry()
	for _, msgType := range []string{"chat", "read", "ack", "ping", "pong"} {
		if _, ok := registry[msgType]; !ok {
			t.Errorf("type %q missing from registry", msgType)
		}
	}
}
