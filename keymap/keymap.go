package keymap

import (
	"sort"
	"strings"
	"sync"
)

// Action is what a key press asks the editor to do.
type Action string

const (
	ActionNone           Action = ""
	ActionDeleteSelected Action = "delete_selected"
	ActionClearSelection Action = "clear_selection"
)

const (
	KeyDelete    = "Delete"
	KeyBackspace = "Backspace"
	KeyEscape    = "Escape"
)

// Event is a key press as seen by the host UI.
type Event struct {
	Key string
	// InTextInput is set when focus is inside an editable field, such as a
	// config form input.
	InTextInput bool
	// InSurface is set when the authoring surface has focus or hover.
	InSurface bool
}

// Keymap resolves key presses to editor actions. Bindings only fire for
// events inside the authoring surface and never while a text input has focus.
type Keymap struct {
	mu       sync.RWMutex
	bindings map[string]Action
	sorted   []string
	match    func(key, pressed string) bool
}

// Option configures a Keymap.
type Option func(*Keymap)

// WithBinding binds key to action, replacing any previous binding.
func WithBinding(key string, action Action) Option {
	return func(k *Keymap) {
		k.bind(key, action)
	}
}

// WithKeyMatcher replaces the case insensitive key comparison.
func WithKeyMatcher(fn func(key, pressed string) bool) Option {
	return func(k *Keymap) {
		if fn != nil {
			k.match = fn
		}
	}
}

// New returns a keymap with the default bindings: Delete and Backspace remove
// the selected node, Escape clears the selection.
func New(opts ...Option) *Keymap {
	k := &Keymap{
		bindings: make(map[string]Action),
		match:    strings.EqualFold,
	}
	k.bind(KeyDelete, ActionDeleteSelected)
	k.bind(KeyBackspace, ActionDeleteSelected)
	k.bind(KeyEscape, ActionClearSelection)

	for _, opt := range opts {
		if opt != nil {
			opt(k)
		}
	}
	return k
}

// Bind adds or replaces a binding.
func (k *Keymap) Bind(key string, action Action) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.bind(key, action)
}

// Unbind removes the binding for key.
func (k *Keymap) Unbind(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.bind(key, ActionNone)
}

func (k *Keymap) bind(key string, action Action) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	if action == ActionNone {
		delete(k.bindings, key)
	} else {
		k.bindings[key] = action
	}

	keys := make([]string, 0, len(k.bindings))
	for name := range k.bindings {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	k.sorted = keys
}

// Resolve maps an event to an action. The boolean is false when the event is
// out of scope or unbound.
func (k *Keymap) Resolve(ev Event) (Action, bool) {
	if !ev.InSurface || ev.InTextInput {
		return ActionNone, false
	}
	pressed := strings.TrimSpace(ev.Key)
	if pressed == "" {
		return ActionNone, false
	}

	k.mu.RLock()
	defer k.mu.RUnlock()

	if action, ok := k.bindings[pressed]; ok {
		return action, true
	}
	for _, key := range k.sorted {
		if k.match(key, pressed) {
			return k.bindings[key], true
		}
	}
	return ActionNone, false
}

// Bindings returns a copy of the current bindings.
func (k *Keymap) Bindings() map[string]Action {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make(map[string]Action, len(k.bindings))
	for key, action := range k.bindings {
		out[key] = action
	}
	return out
}
