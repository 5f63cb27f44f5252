// Package tui is the terminal front end: it draws an editor on a tcell
// screen, feeds it keys and shows what the layout switcher did.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/layoutswitch/internal/editor"
	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/event/topic"
	"github.com/dshills/layoutswitch/internal/input/key"
	"github.com/dshills/layoutswitch/internal/logging"
)

// Options configures a UI.
type Options struct {
	// Screen defaults to the terminal.
	Screen tcell.Screen

	Editor *editor.Editor

	// Bus, when set, feeds switcher results into the status line.
	Bus *event.Bus

	// Quit ends Loop when pressed. Defaults to <C-q>.
	Quit key.Event

	// Title is shown in the status line until the first message.
	Title string

	Logger *logging.Logger
}

// UI runs the editor in a terminal.
type UI struct {
	screen tcell.Screen
	ed     *editor.Editor
	quit   key.Event
	title  string
	log    *logging.Logger

	bus  *event.Bus
	subs []event.Subscription

	top    int
	status string
}

// New creates a UI. The screen is not initialized until Run.
func New(opts Options) (*UI, error) {
	if opts.Editor == nil {
		return nil, errors.New("tui: nil editor")
	}
	if opts.Screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		opts.Screen = s
	}
	if opts.Quit == (key.Event{}) {
		opts.Quit = key.MustParse("<C-q>")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	u := &UI{
		screen: opts.Screen,
		ed:     opts.Editor,
		quit:   opts.Quit,
		title:  opts.Title,
		log:    opts.Logger.WithComponent("tui"),
		bus:    opts.Bus,
	}
	if err := u.subscribe(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *UI) subscribe() error {
	if u.bus == nil {
		return nil
	}
	handlers := map[topic.Topic]event.Handler{
		event.TopicTransliterated: func(_ context.Context, ev event.Event) error {
			if p, ok := ev.Payload.(event.Transliterated); ok {
				u.status = fmt.Sprintf("%s %s: %s → %s", p.Op, p.Direction, p.Original, p.Replacement)
			}
			return nil
		},
		event.TopicLayoutToggled: func(_ context.Context, ev event.Event) error {
			if p, ok := ev.Payload.(event.Toggled); ok && u.status == "" {
				u.status = "layout " + p.Layout
			}
			return nil
		},
	}
	for t, h := range handlers {
		sub, err := u.bus.Subscribe(t, h)
		if err != nil {
			return err
		}
		u.subs = append(u.subs, sub)
	}
	return nil
}

// Screen returns the screen the UI draws on.
func (u *UI) Screen() tcell.Screen {
	return u.screen
}

// SetStatus replaces the status line message. Call it from the UI goroutine
// or through Post.
func (u *UI) SetStatus(format string, args ...any) {
	u.status = fmt.Sprintf(format, args...)
}

// Post runs fn on the UI goroutine before the next redraw. It is safe to
// call from any goroutine.
func (u *UI) Post(fn func()) error {
	return u.screen.PostEvent(tcell.NewEventInterrupt(fn))
}

// Run initializes the screen, runs Loop and restores the terminal.
func (u *UI) Run(ctx context.Context) error {
	if err := u.screen.Init(); err != nil {
		return fmt.Errorf("tui: init screen: %w", err)
	}
	defer u.screen.Fini()
	return u.Loop(ctx)
}

// Loop processes events on an initialized screen until the quit key is
// pressed or ctx is done.
func (u *UI) Loop(ctx context.Context) error {
	defer u.unsubscribe()

	stop := context.AfterFunc(ctx, func() {
		_ = u.screen.PostEvent(tcell.NewEventInterrupt(errStop))
	})
	defer stop()

	u.draw()
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return nil
		}
		quit, err := u.handle(ev)
		if err != nil {
			return err
		}
		if quit {
			return ctx.Err()
		}
		u.draw()
	}
}

var errStop = errors.New("stop")

// handle processes one event and reports whether the loop should end.
func (u *UI) handle(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		k, ok := convertKey(ev)
		if !ok {
			return false, nil
		}
		if k.Equals(u.quit) {
			return true, nil
		}
		if err := u.ed.HandleKey(k); err != nil {
			if errors.Is(err, editor.ErrUnmappedKey) {
				u.log.Debug("unmapped key %s", k.VimString())
				return false, nil
			}
			u.status = err.Error()
			u.log.Warn("key %s: %v", k.VimString(), err)
		}
	case *tcell.EventResize:
		u.screen.Sync()
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case func():
			data()
		case error:
			if errors.Is(data, errStop) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (u *UI) unsubscribe() {
	for _, sub := range u.subs {
		_ = u.bus.Unsubscribe(sub)
	}
	u.subs = nil
}
