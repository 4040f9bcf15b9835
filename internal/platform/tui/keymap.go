package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Move indices for the 3x3 velocity grid (dx = move/3 - 1,
// dy = move%3 - 1) plus the first special action.
const (
	actionLeft    int32 = 1
	actionDown    int32 = 3
	actionNeutral int32 = 4
	actionUp      int32 = 5
	actionRight   int32 = 7
	actionSpecial int32 = 9
)

// KeyMapper translates Bubble Tea key messages to engine actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKeyToAction translates a key message to an engine action.
// Returns the action and whether the key mapped to one at all.
func (km *KeyMapper) MapKeyToAction(msg tea.KeyMsg) (action int32, ok bool) {
	switch msg.String() {
	case "left", "a", "h":
		return actionLeft, true
	case "right", "d", "l":
		return actionRight, true
	case "up", "w", "k":
		return actionUp, true
	case "down", "s", "j":
		return actionDown, true
	case " ":
		return actionSpecial, true
	}
	return actionNeutral, false
}

// IsQuit reports whether the key is a global quit request.
func (km *KeyMapper) IsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+c", "q":
		return true
	}
	return false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
