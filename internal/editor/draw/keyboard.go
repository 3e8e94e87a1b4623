package draw

import (
	"strings"

	"hotspot-editor/internal/editor/models"
)

// ============================================================
// Keyboard commands
// ============================================================

// EditSession is the store surface the keyboard commands act on.
type EditSession interface {
	DeleteSelected()
	CaptureSelected() (models.MultiLanguageHotspot, bool)
	Paste(h models.MultiLanguageHotspot) (string, bool)
}

// Clipboard holds at most one captured hotspot per editing session. It is
// owned by the session, never shared across sessions.
type Clipboard struct {
	hotspot models.MultiLanguageHotspot
	full    bool
}

// Put stores a deep copy of the hotspot.
func (c *Clipboard) Put(h models.MultiLanguageHotspot) {
	c.hotspot = h.Clone()
	c.full = true
}

// Get returns a deep copy of the stored hotspot, if any. The clipboard
// keeps its content, so repeated pastes work.
func (c *Clipboard) Get() (models.MultiLanguageHotspot, bool) {
	if !c.full {
		return models.MultiLanguageHotspot{}, false
	}
	return c.hotspot.Clone(), true
}

// Dispatcher maps normalized key combos to commands. Combos are lowercase
// with "+"-joined modifiers, e.g. "ctrl+c", "delete".
type Dispatcher struct {
	bindings map[string]func()
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{bindings: make(map[string]func())}
}

// Bind registers the command for the combo, replacing any previous binding.
func (d *Dispatcher) Bind(combo string, fn func()) {
	d.bindings[normalize(combo)] = fn
}

// Dispatch runs the command bound to the combo. Returns false when the
// combo is unbound or a text input owns the keyboard, in which case the
// event belongs to the input, not the editor.
func (d *Dispatcher) Dispatch(combo string, textInputFocused bool) bool {
	if textInputFocused {
		return false
	}
	fn, ok := d.bindings[normalize(combo)]
	if !ok {
		return false
	}
	fn()
	return true
}

func normalize(combo string) string {
	return strings.ToLower(strings.TrimSpace(combo))
}

// NewEditorKeymap wires the standard editing commands: delete/backspace
// remove the selection, ctrl+c captures it to the session clipboard and
// ctrl+v pastes the clipboard content.
func NewEditorKeymap(session EditSession) *Dispatcher {
	clipboard := &Clipboard{}
	d := NewDispatcher()

	d.Bind("delete", session.DeleteSelected)
	d.Bind("backspace", session.DeleteSelected)
	d.Bind("ctrl+c", func() {
		if h, ok := session.CaptureSelected(); ok {
			clipboard.Put(h)
		}
	})
	d.Bind("ctrl+v", func() {
		if h, ok := clipboard.Get(); ok {
			session.Paste(h)
		}
	})
	return d
}
