package key

import "strings"

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m plus mod.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// String returns a representation like "Ctrl+Alt".
func (m Modifier) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// ModifierFromName parses a single modifier name, ignoring case.
func ModifierFromName(name string) Modifier {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "shift", "s":
		return ModShift
	case "ctrl", "control", "c":
		return ModCtrl
	case "alt", "option", "opt", "a":
		return ModAlt
	case "meta", "cmd", "command", "super", "win", "m":
		return ModMeta
	default:
		return ModNone
	}
}
