package switcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/event/topic"
)

// Attach subscribes the switcher to the editor lifecycle topics on bus and
// makes bus the destination of the switcher's own notifications.
func (s *Switcher) Attach(bus *event.Bus) error {
	s.bus = bus
	handlers := map[topic.Topic]func(Position){
		event.TopicInsertEntered: s.OnInsertEnter,
		event.TopicTextChanged:   s.OnTextChanged,
	}
	for t, fn := range handlers {
		sub, err := bus.Subscribe(t, positionHandler(fn))
		if err != nil {
			return errors.Join(fmt.Errorf("subscribe %s: %w", t, err), s.Detach())
		}
		s.subs = append(s.subs, sub)
	}
	return nil
}

// Detach removes the subscriptions made by Attach.
func (s *Switcher) Detach() error {
	if s.bus == nil {
		s.subs = nil
		return nil
	}
	var errs []error
	for _, sub := range s.subs {
		if err := s.bus.Unsubscribe(sub); err != nil {
			errs = append(errs, err)
		}
	}
	s.subs = nil
	return errors.Join(errs...)
}

func positionHandler(fn func(Position)) event.Handler {
	return func(_ context.Context, ev event.Event) error {
		pos, ok := ev.Payload.(event.Position)
		if !ok {
			return fmt.Errorf("unexpected payload %T", ev.Payload)
		}
		fn(Position{Row: pos.Row, Col: pos.Col})
		return nil
	}
}

func (s *Switcher) publish(t topic.Topic, payload any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(context.Background(), t, payload, "switcher"); err != nil {
		s.log.Warn("publish %s: %v", t, err)
	}
}
