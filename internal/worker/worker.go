package worker

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/fanout"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/queue"
	"github.com/FatihHDR/hair-trigger-signalr-chatAPI/internal/repository"
)

// Worker is the ingestion loop: a single sequential consumer that drains
// the command queue, assigns ordering through the log store, updates the
// delivery tracker and republishes confirmed events to the fan-out
// backplane. Run one Worker per process; multiple processes may share a
// durable queue because offset assignment is atomic in the log store.
type Worker struct {
	queue        queue.Queue
	messageRepo  repository.MessageRepositoryInterface
	deliveryRepo repository.DeliveryStatusRepositoryInterface
	userRepo     repository.UserRepositoryInterface
	publisher    fanout.Publisher

	idleDelay   time.Duration
	retryDelay  time.Duration
	maxAttempts int
}

func NewWorker(
	q queue.Queue,
	messageRepo repository.MessageRepositoryInterface,
	deliveryRepo repository.DeliveryStatusRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	publisher fanout.Publisher,
) *Worker {
	return &Worker{
		queue:        q,
		messageRepo:  messageRepo,
		deliveryRepo: deliveryRepo,
		userRepo:     userRepo,
		publisher:    publisher,
		idleDelay:    idleDelayFromEnv(),
		retryDelay:   100 * time.Millisecond,
		maxAttempts:  3,
	}
}

func idleDelayFromEnv() time.Duration {
	if msStr := os.Getenv("WORKER_IDLE_MS"); msStr != "" {
		if ms, err := strconv.Atoi(msStr); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return 250 * time.Millisecond
}

// Run polls each command kind in order and idles briefly when the queue is
// empty. Cancellation is checked once per iteration: the loop exits after
// the in-flight command finishes and never picks up another one.
func (w *Worker) Run(ctx context.Context) {
	log.Println("Ingestion worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("Ingestion worker stopped")
			return
		default:
		}

		processed, err := w.processNext(ctx)
		if err != nil {
			// Queue unreachable is transient: back off and retry.
			log.Printf("Worker dequeue failed: %v", err)
			w.sleep(ctx, w.retryDelay)
			continue
		}
		if !processed {
			w.sleep(ctx, w.idleDelay)
		}
	}
}

// processNext dequeues and handles at most one command. Returns false when
// every queue is empty.
func (w *Worker) processNext(ctx context.Context) (bool, error) {
	for _, kind := range queue.Kinds {
		cmd, err := w.queue.Dequeue(ctx, kind)
		if err != nil {
			return false, err
		}
		if cmd == nil {
			continue
		}
		w.handle(ctx, cmd)
		return true, nil
	}
	return false, nil
}

// handle dispatches a command with bounded retries. A command that still
// fails after maxAttempts is dropped with an error log; the loop never
// dies on a handler failure.
func (w *Worker) handle(ctx context.Context, cmd queue.Command) {
	var err error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		if err = w.dispatch(ctx, cmd); err == nil {
			return
		}
		log.Printf("Handler for %s failed (attempt %d/%d): %v", cmd.CommandKind(), attempt, w.maxAttempts, err)
		if attempt < w.maxAttempts {
			w.sleep(ctx, w.retryDelay)
		}
	}
	log.Printf("Dropping %s command after %d failed attempts: %v", cmd.CommandKind(), w.maxAttempts, err)
}

func (w *Worker) dispatch(ctx context.Context, cmd queue.Command) error {
	switch c := cmd.(type) {
	case queue.SendMessage:
		return w.handleSendMessage(ctx, c)
	case queue.MarkSeen:
		return w.handleMarkSeen(ctx, c)
	case queue.UserConnected:
		return w.userRepo.UpdateOnlineStatus(c.UserID, true)
	case queue.UserDisconnected:
		return w.userRepo.UpdateOnlineStatus(c.UserID, false)
	default:
		log.Printf("Worker received unexpected command kind %s", cmd.CommandKind())
		return nil
	}
}

func (w *Worker) handleSendMessage(ctx context.Context, cmd queue.SendMessage) error {
	message, err := w.messageRepo.Append(cmd.ChannelID, repository.MessageDraft{
		SenderID: cmd.SenderID,
		Content:  cmd.Content,
	})
	if err != nil {
		return err
	}

	// Fan-out is a best-effort follow-up: the message is already durable.
	payload := message.ToResponse(w.displayName(cmd.SenderID))
	if err := w.publisher.Publish(ctx, cmd.ChannelID, fanout.EventMessageReceived, payload); err != nil {
		log.Printf("Fan-out of message %s failed: %v", message.ID, err)
	}
	return nil
}

func (w *Worker) handleMarkSeen(ctx context.Context, cmd queue.MarkSeen) error {
	if err := w.deliveryRepo.MarkSeenUpTo(cmd.UserID, cmd.ChannelID, cmd.LastSeenOffset); err != nil {
		return err
	}

	payload := fanout.MessageSeenPayload{
		UserID:         cmd.UserID,
		ChannelID:      cmd.ChannelID,
		LastSeenOffset: cmd.LastSeenOffset,
		SeenAt:         time.Now().UTC(),
	}
	if err := w.publisher.Publish(ctx, cmd.ChannelID, fanout.EventMessageSeen, payload); err != nil {
		log.Printf("Fan-out of read receipt for user %d failed: %v", cmd.UserID, err)
	}
	return nil
}

// displayName resolves the sender's display attributes; lookup failure
// degrades to a placeholder instead of failing the whole operation.
func (w *Worker) displayName(userID uint) string {
	user, err := w.userRepo.FindByID(userID)
	if err != nil {
		return "Unknown"
	}
	if user.DisplayName != "" {
		return user.DisplayName
	}
	if user.Username != "" {
		return user.Username
	}
	return "Unknown"
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
