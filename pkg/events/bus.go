// Package events is a small in-process publish/subscribe bus used to run
// side effects after a state change has been committed.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Event struct {
	Name       string
	Payload    interface{}
	OccurredAt time.Time
}

type Handler func(ctx context.Context, event Event) error

type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
	async    bool
	log      logrus.FieldLogger
}

// NewBus returns a bus that runs each handler on its own goroutine.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		async:    true,
		log:      logrus.StandardLogger(),
	}
}

// NewSyncBus returns a bus that runs handlers inline, in subscription order.
func NewSyncBus() *Bus {
	b := NewBus()
	b.async = false
	return b
}

func (b *Bus) SetLogger(log logrus.FieldLogger) {
	b.log = log
}

func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

// Publish delivers event to every handler subscribed to its name. Handler
// errors and panics are logged and never returned to the publisher.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Name]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	// Handlers outlive the request that triggered them
	ctx = context.WithoutCancel(ctx)

	for _, handler := range handlers {
		if !b.async {
			b.dispatch(ctx, handler, event)
			continue
		}

		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			b.dispatch(ctx, h, event)
		}(handler)
	}
}

// Wait blocks until all in-flight handlers have returned.
func (b *Bus) Wait() {
	b.wg.Wait()
}

func (b *Bus) dispatch(ctx context.Context, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"event": event.Name,
				"panic": fmt.Sprint(r),
			}).Error("Event handler panicked")
		}
	}()

	if err := handler(ctx, event); err != nil {
		b.log.WithError(err).WithField("event", event.Name).Error("Event handler failed")
	}
}
