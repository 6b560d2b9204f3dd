// Package key describes keyboard input as the tag editor sees it.
//
// An Event is one key press: a named key or a rune, plus modifiers.
// Hotkey classifies an event into the small set of keys the editor binds
// (enter, comma, space, backspace, delete, the arrows, tab and escape);
// everything else is plain typing.
//
// Key specifications name events in text, for tests and for replaying
// input without a terminal:
//
//	key.Parse("Ctrl+Enter")
//	key.ParseSequence("g o comma rust Enter")
//
// A token that is neither a key name nor a single rune is typed rune by
// rune.
package key
