package keymap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func surface(key string) Event {
	return Event{Key: key, InSurface: true}
}

func TestDefaultBindings(t *testing.T) {
	km := New()

	tests := []struct {
		key    string
		action Action
		ok     bool
	}{
		{KeyDelete, ActionDeleteSelected, true},
		{KeyBackspace, ActionDeleteSelected, true},
		{KeyEscape, ActionClearSelection, true},
		{"escape", ActionClearSelection, true},
		{"Enter", ActionNone, false},
		{"", ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			action, ok := km.Resolve(surface(tt.key))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestIgnoresTextInputAndOutsideSurface(t *testing.T) {
	km := New()

	_, ok := km.Resolve(Event{Key: KeyBackspace, InSurface: true, InTextInput: true})
	assert.False(t, ok)

	_, ok = km.Resolve(Event{Key: KeyDelete})
	assert.False(t, ok)

	_, ok = km.Resolve(Event{Key: KeyEscape, InTextInput: true})
	assert.False(t, ok)
}

func TestRebinding(t *testing.T) {
	km := New(WithBinding("x", ActionDeleteSelected))

	action, ok := km.Resolve(surface("X"))
	assert.True(t, ok)
	assert.Equal(t, ActionDeleteSelected, action)

	km.Unbind(KeyBackspace)
	_, ok = km.Resolve(surface(KeyBackspace))
	assert.False(t, ok)
	assert.NotContains(t, km.Bindings(), KeyBackspace)

	km.Bind(KeyBackspace, ActionClearSelection)
	action, _ = km.Resolve(surface(KeyBackspace))
	assert.Equal(t, ActionClearSelection, action)
}

func TestWithKeyMatcher(t *testing.T) {
	km := New(WithKeyMatcher(func(key, pressed string) bool {
		return strings.HasPrefix(pressed, key+"+")
	}))

	action, ok := km.Resolve(surface("Escape+Shift"))
	assert.True(t, ok)
	assert.Equal(t, ActionClearSelection, action)

	_, ok = km.Resolve(surface("escape"))
	assert.False(t, ok)
}
