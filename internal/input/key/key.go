package key

import "strings"

// Key identifies a keyboard key. Character keys are KeyRune with the
// character in Event.Rune.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyEscape
	KeyBackspace
	KeyDelete
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

var keyNames = [...]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyEscape:    "Escape",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyHome:      "Home",
	KeyEnd:       "End",
}

// String returns the key name.
func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "Unknown"
}

// IsArrow reports whether k is an arrow key.
func (k Key) IsArrow() bool {
	return k >= KeyUp && k <= KeyRight
}

// aliases maps lower-case key names to keys. Runes with names are in
// runeNames.
var aliases = map[string]Key{
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"cr":        KeyEnter,
	"tab":       KeyTab,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"up":        KeyUp,
	"down":      KeyDown,
	"left":      KeyLeft,
	"right":     KeyRight,
	"home":      KeyHome,
	"end":       KeyEnd,
}

var runeNames = map[string]rune{
	"space": ' ',
	"comma": ',',
}

// FromName returns the key called name, ignoring case, or KeyNone.
func FromName(name string) Key {
	return aliases[strings.ToLower(strings.TrimSpace(name))]
}
