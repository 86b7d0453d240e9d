package queue

import (
	"context"
	"testing"
)

func TestMemoryQueueFIFOPerKind(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		if err := q.Enqueue(ctx, SendMessage{ChannelID: 1, SenderID: 1, Content: c}); err != nil {
			t.Fatalf("Enqueue error: %v", err)
		}
	}

	for _, want := range contents {
		cmd, err := q.Dequeue(ctx, KindSendMessage)
		if err != nil {
			t.Fatalf("Dequeue error: %v", err)
		}
		send, ok := cmd.(SendMessage)
		if !ok {
			t.Fatalf("dequeued type = %T, want SendMessage", cmd)
		}
		if send.Content != want {
			t.Errorf("Content = %q, want %q", send.Content, want)
		}
	}

	cmd, err := q.Dequeue(ctx, KindSendMessage)
	if err != nil {
		t.Fatalf("Dequeue on empty queue error: %v", err)
	}
	if cmd != nil {
		t.Errorf("Dequeue on empty queue = %+v, want nil", cmd)
	}
}

func TestMemoryQueueKindsAreIndependent(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	if err := q.Enqueue(ctx, SendMessage{ChannelID: 1, Content: "hi"}); err != nil {
		t.Fatalf("Enqueue error: %v", err)
	}
	if err := q.Enqueue(ctx, MarkSeen{ChannelID: 1, UserID: 2, LastSeenOffset: 5}); err != nil {
		t.Fatalf("Enqueue error: %v", err)
	}

	// Draining one kind leaves the other untouched
	cmd, err := q.Dequeue(ctx, KindMarkSeen)
	if err != nil {
		t.Fatalf("Dequeue error: %v", err)
	}
	if _, ok := cmd.(MarkSeen); !ok {
		t.Fatalf("dequeued type = %T, want MarkSeen", cmd)
	}

	length, err := q.Length(ctx)
	if err != nil {
		t.Fatalf("Length error: %v", err)
	}
	if length != 1 {
		t.Errorf("Length = %d, want 1", length)
	}

	cmd, err = q.Dequeue(ctx, KindSendMessage)
	if err != nil {
		t.Fatalf("Dequeue error: %v", err)
	}
	if _, ok := cmd.(SendMessage); !ok {
		t.Fatalf("dequeued type = %T, want SendMessage", cmd)
	}
}

func TestMemoryQueueCopiesByValue(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	cmd := SendMessage{ChannelID: 1, SenderID: 2, Content: "original"}
	if err := q.Enqueue(ctx, cmd); err != nil {
		t.Fatalf("Enqueue error: %v", err)
	}

	// Mutating the caller's copy after enqueue must not affect the queue
	cmd.Content = "mutated"

	dequeued, err := q.Dequeue(ctx, KindSendMessage)
	if err != nil {
		t.Fatalf("Dequeue error: %v", err)
	}
	if dequeued.(SendMessage).Content != "original" {
		t.Errorf("Content = %q, want %q", dequeued.(SendMessage).Content, "original")
	}
}

func TestMemoryQueueLength(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	length, err := q.Length(ctx)
	if err != nil || length != 0 {
		t.Fatalf("Length = %d, %v; want 0, nil", length, err)
	}

	q.Enqueue(ctx, SendMessage{ChannelID: 1, Content: "a"})
	q.Enqueue(ctx, MarkSeen{ChannelID: 1, UserID: 1})
	q.Enqueue(ctx, UserConnected{UserID: 1, ConnectionID: "c1"})

	length, err = q.Length(ctx)
	if err != nil {
		t.Fatalf("Length error: %v", err)
	}
	if length != 3 {
		t.Errorf("Length = %d, want 3", length)
	}
}
