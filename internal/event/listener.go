package event

import (
	"context"
	"log/slog"
	"sync"
)

var events = make(chan Event, 32)

type Handler func(ctx context.Context, e Event) error

type Listener struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

func NewListener(logger *slog.Logger) *Listener {
	return &Listener{logger: logger}
}

func (l *Listener) Register(h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = append(l.handlers, h)
}

// Listen dispatches every sent event to all registered handlers until ctx is done.
// Handler errors are logged and never stop the loop.
func (l *Listener) Listen(ctx context.Context) error {
	for {
		select {
		case e := <-events:
			l.mu.RLock()
			handlers := l.handlers
			l.mu.RUnlock()

			for _, h := range handlers {
				go func(h Handler) {
					if err := h(ctx, e); err != nil {
						l.logger.Error("Error sending event", slog.String("message", e.Message()), slog.Any("error", err))
					}
				}(h)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Send queues e for delivery without ever blocking the caller. Events are
// dropped when nobody is listening and the queue is full.
func Send(e Event) {
	select {
	case events <- e:
	default:
	}
}
