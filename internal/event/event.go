// Package event provides the synchronous publish/subscribe bus that carries
// editor lifecycle notifications to the layout switcher and reports what the
// switcher did back to interested listeners.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/layoutswitch/internal/event/topic"
)

// Well-known topics.
const (
	// TopicInsertEntered is published when the editor enters insert mode.
	TopicInsertEntered topic.Topic = "editor.insert.entered"

	// TopicTextChanged is published after every text change in insert mode.
	TopicTextChanged topic.Topic = "editor.text.changed"

	// TopicLayoutToggled is published when the layout flag flips.
	TopicLayoutToggled topic.Topic = "layout.toggled"

	// TopicTransliterated is published after a span is rewritten.
	TopicTransliterated topic.Topic = "layout.transliterated"
)

// Event is one published notification.
type Event struct {
	// Topic is the event type.
	Topic topic.Topic

	// Payload contains the event-specific data.
	Payload any

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains information attached to every event.
type Metadata struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the publisher.
	Source string
}

// New creates an event with fresh metadata.
func New(t topic.Topic, payload any, source string) Event {
	return Event{
		Topic:   t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// Position is a cursor location carried by editor events. Col is an offset
// in the editor's storage encoding.
type Position struct {
	Row int
	Col int
}

// Toggled is the payload of TopicLayoutToggled.
type Toggled struct {
	// Layout is the flag after the toggle, "en" or "ru".
	Layout string
}

// Transliterated is the payload of TopicTransliterated.
type Transliterated struct {
	Op          string
	Row         int
	Direction   string
	Original    string
	Replacement string
}
