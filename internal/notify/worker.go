package notify

import (
	"context"
	"sync"
	"time"

	"github.com/casavia/casavia-core/internal/infrastructure/config"
	"github.com/casavia/casavia-core/internal/infrastructure/logging"
)

// Default timeout for a single delivery attempt.
const defaultSendTimeout = 10 * time.Second

// Message is a single outbound notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Worker dispatches notifications from a buffered queue on a background
// goroutine. Dispatch never blocks the caller: when the queue is full
// the message is dropped and a warning is logged.
//
// Thread Safety: Dispatch and Close are safe for concurrent use.
type Worker struct {
	sender Sender
	from   string
	queue  chan Message
	done   chan struct{}
	wg     sync.WaitGroup
	logger *logging.Logger

	closeOnce sync.Once
}

// NewWorker creates a notification worker and starts its dispatch
// goroutine.
func NewWorker(cfg config.NotificationsConfig, sender Sender, logger *logging.Logger) *Worker {
	size := cfg.BufferSize
	if size <= 0 {
		size = 64
	}

	w := &Worker{
		sender: sender,
		from:   cfg.From,
		queue:  make(chan Message, size),
		done:   make(chan struct{}),
		logger: logger,
	}

	w.wg.Add(1)
	go w.dispatchLoop()

	return w
}

// Dispatch enqueues a message for delivery and returns immediately.
// Callers must not depend on delivery for their own success path.
func (w *Worker) Dispatch(msg Message) {
	select {
	case w.queue <- msg:
	default:
		w.logger.Warn("notification queue full, dropping message",
			"to", msg.To, "subject", msg.Subject)
	}
}

// Close stops the dispatch loop after draining queued messages.
func (w *Worker) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
	})
}

// dispatchLoop delivers queued messages until Close is called, then
// drains whatever remains in the queue.
func (w *Worker) dispatchLoop() {
	defer w.wg.Done()
	for {
		select {
		case msg := <-w.queue:
			w.deliver(msg)
		case <-w.done:
			for {
				select {
				case msg := <-w.queue:
					w.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (w *Worker) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultSendTimeout)
	defer cancel()

	if err := w.sender.Send(ctx, msg); err != nil {
		w.logger.Warn("notification delivery failed",
			"to", msg.To, "subject", msg.Subject, "error", err)
		return
	}

	w.logger.Debug("notification delivered", "to", msg.To, "subject", msg.Subject)
}
