package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/layoutswitch/internal/event/topic"
)

// Handler processes one event. A returned error is reported to the publisher.
type Handler func(ctx context.Context, ev Event) error

// Subscription identifies a registered handler.
type Subscription struct {
	ID      string
	Pattern topic.Topic
}

type entry struct {
	sub     Subscription
	handler Handler
}

// Stats holds delivery counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Errors    uint64
	Panics    uint64
}

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine.
type Bus struct {
	mu      sync.RWMutex
	entries []entry

	published atomic.Uint64
	delivered atomic.Uint64
	errs      atomic.Uint64
	panics    atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for every topic matching pattern.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler) (Subscription, error) {
	if !pattern.IsValid() {
		return Subscription{}, ErrInvalidTopic
	}
	if handler == nil {
		return Subscription{}, ErrNilHandler
	}

	sub := Subscription{ID: uuid.NewString(), Pattern: pattern}

	b.mu.Lock()
	b.entries = append(b.entries, entry{sub: sub, handler: handler})
	b.mu.Unlock()

	return sub, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, e := range b.entries {
		if e.sub.ID == sub.ID {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers ev to every matching handler. All handlers run even when
// some fail; their errors are joined. A panicking handler is recovered and
// reported as a HandlerError wrapping ErrHandlerPanic.
func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if !ev.Topic.IsValid() || ev.Topic.IsWildcard() {
		return ErrInvalidTopic
	}
	b.published.Add(1)

	b.mu.RLock()
	matched := make([]entry, 0, len(b.entries))
	for _, e := range b.entries {
		if ev.Topic.Matches(e.sub.Pattern) {
			matched = append(matched, e)
		}
	}
	b.mu.RUnlock()

	var errs []error
	for _, e := range matched {
		if err := b.deliver(ctx, e, ev); err != nil {
			b.errs.Add(1)
			errs = append(errs, &HandlerError{
				SubscriptionID: e.sub.ID,
				Topic:          ev.Topic.String(),
				Err:            err,
			})
		}
	}
	return errors.Join(errs...)
}

// Emit is a shorthand for Publish(ctx, New(t, payload, source)).
func (b *Bus) Emit(ctx context.Context, t topic.Topic, payload any, source string) error {
	return b.Publish(ctx, New(t, payload, source))
}

func (b *Bus) deliver(ctx context.Context, e entry, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			err = &PanicError{Value: r}
		}
	}()
	b.delivered.Add(1)
	return e.handler(ctx, ev)
}

// Len returns the number of subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Stats returns a snapshot of the delivery counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Errors:    b.errs.Load(),
		Panics:    b.panics.Load(),
	}
}
