package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_NoConflicts(t *testing.T) {
	k := DefaultKeyMap()

	// Bindings active together in normal mode must not share keys.
	normal := map[string]key.Binding{
		"up": k.Up, "down": k.Down, "left": k.Left, "right": k.Right,
		"enter": k.Enter, "new": k.New, "delete": k.Delete, "status": k.Status,
		"move": k.Move, "urgent": k.Urgent, "important": k.Important,
		"layout": k.Layout, "refresh": k.Refresh, "filter": k.Filter,
		"showAll": k.ToggleShowAll, "help": k.Help, "quit": k.Quit, "escape": k.Escape,
	}

	seen := make(map[string]string)
	for name, b := range normal {
		for _, keyStr := range b.Keys() {
			if other, dup := seen[keyStr]; dup {
				t.Errorf("key %q bound to both %s and %s", keyStr, other, name)
			}
			seen[keyStr] = name
		}
	}
}

func TestKeyMap_Help(t *testing.T) {
	k := DefaultKeyMap()

	assert.NotEmpty(t, k.ShortHelp())
	total := 0
	for _, group := range k.FullHelp() {
		total += len(group)
	}
	assert.Equal(t, 17, total)
}
