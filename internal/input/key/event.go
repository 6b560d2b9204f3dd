package key

import "fmt"

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// Rune returns the event for typing r.
func Rune(r rune) Event {
	return Event{Key: KeyRune, Rune: r}
}

// Special returns the event for pressing k.
func Special(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether the event types a character.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsModified reports whether any modifier is held.
func (e Event) IsModified() bool {
	return e.Modifiers != ModNone
}

// Hotkey classifies the event. ok is false for plain typing.
func (e Event) Hotkey() (h Hotkey, ok bool) {
	switch e.Key {
	case KeyRune:
		switch e.Rune {
		case ',':
			return HotkeyComma, true
		case ' ':
			return HotkeySpace, true
		}
		return HotkeyNone, false
	case KeyEnter:
		return HotkeyEnter, true
	case KeyTab:
		return HotkeyTab, true
	case KeyEscape:
		return HotkeyEscape, true
	case KeyBackspace:
		return HotkeyBackspace, true
	case KeyDelete:
		return HotkeyDelete, true
	case KeyUp:
		return HotkeyUp, true
	case KeyDown:
		return HotkeyDown, true
	case KeyLeft:
		return HotkeyLeft, true
	case KeyRight:
		return HotkeyRight, true
	}
	return HotkeyNone, false
}

// String returns the key spec of the event, as accepted by Parse.
func (e Event) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		switch e.Rune {
		case ' ':
			name = "Space"
		case ',':
			name = "Comma"
		default:
			name = string(e.Rune)
		}
	}
	if e.Modifiers == ModNone {
		return name
	}
	return fmt.Sprintf("%s+%s", e.Modifiers, name)
}

// Hotkey is a key the editor binds.
type Hotkey uint8

const (
	HotkeyNone Hotkey = iota
	HotkeyEnter
	HotkeyComma
	HotkeySpace
	HotkeyBackspace
	HotkeyDelete
	HotkeyLeft
	HotkeyRight
	HotkeyUp
	HotkeyDown
	HotkeyTab
	HotkeyEscape
)

var hotkeyNames = [...]string{
	HotkeyNone:      "none",
	HotkeyEnter:     "enter",
	HotkeyComma:     "comma",
	HotkeySpace:     "space",
	HotkeyBackspace: "backspace",
	HotkeyDelete:    "delete",
	HotkeyLeft:      "left",
	HotkeyRight:     "right",
	HotkeyUp:        "up",
	HotkeyDown:      "down",
	HotkeyTab:       "tab",
	HotkeyEscape:    "escape",
}

// String returns the hotkey name.
func (h Hotkey) String() string {
	if int(h) < len(hotkeyNames) {
		return hotkeyNames[h]
	}
	return "unknown"
}
