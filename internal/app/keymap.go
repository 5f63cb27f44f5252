package app

import (
	"fmt"

	"github.com/dshills/layoutswitch/internal/config"
	"github.com/dshills/layoutswitch/internal/editor"
	"github.com/dshills/layoutswitch/internal/input/key"
	"github.com/dshills/layoutswitch/internal/switcher"
)

// bindKeys installs the configured switcher bindings. Empty specs leave the
// operation unbound.
func (app *Application) bindKeys(km config.KeymapConfig) error {
	sw := app.switcher
	toggle := func() error {
		sw.ToggleLayout()
		return nil
	}

	bindings := []struct {
		name  string
		spec  string
		modes []editor.Mode
		cmd   editor.Command
	}{
		{"map_last_input", km.MapLastInput, []editor.Mode{editor.ModeInsert}, app.op(sw.MapLastInput)},
		{"map_last_input_word", km.MapLastInputWord, []editor.Mode{editor.ModeInsert}, app.op(sw.MapLastInputWord)},
		{"map_visual", km.MapVisual, []editor.Mode{editor.ModeVisual}, app.op(sw.MapVisualSelection)},
		{"toggle_layout", km.ToggleLayout, []editor.Mode{editor.ModeInsert, editor.ModeNormal}, toggle},
		{"save", km.Save, []editor.Mode{editor.ModeInsert, editor.ModeNormal}, app.Save},
	}

	for _, b := range bindings {
		if b.spec == "" {
			continue
		}
		ev, err := key.Parse(b.spec)
		if err != nil {
			return fmt.Errorf("keymap %s: %w", b.name, err)
		}
		for _, m := range b.modes {
			app.editor.Bind(m, ev, b.cmd)
		}
	}
	return nil
}

// op adapts a switcher operation to an editor command, logging its result.
func (app *Application) op(fn func() (switcher.Edit, error)) editor.Command {
	return func() error {
		e, err := fn()
		if err != nil {
			return err
		}
		if !e.Applied {
			app.log.Debug("%s: cursor outside the last input, layout now %s", e.Op, e.Layout)
		}
		return nil
	}
}
