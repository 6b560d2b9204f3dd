// Package dispatcher turns input notifications into tag and suggestion
// operations.
//
// The host (a terminal front end, a test, a replayed key sequence) reports
// what happened at the input: a key press, a paste, focus moving in or out,
// the text being replaced. The dispatcher publishes the matching input-*
// topic on the editor's bus and the handlers it registered at construction
// react to it. Nothing calls the tag collection or the suggestion engine
// directly from the host side.
//
// # Handler order
//
// Tag handlers are registered in the normal order. Autocomplete handlers are
// registered Prioritized, so for a key press they run first: when the
// suggestion panel is visible the arrow keys, escape, enter and tab are
// consumed there and the tag handlers never see them.
//
//	d := dispatcher.New(loop, bus, text, collection, engine, tagOpts, acOpts)
//	loop.Post(func() {
//		d.Type("red")
//		d.Press(key.Rune(','))
//	})
//
// A press that any handler marks as handled suppresses the default input
// behavior (inserting the typed rune, deleting the last one on backspace).
//
// # Validity
//
// The dispatcher also tracks the three count and leftover-text validity
// flags and publishes validity-change when they change. Count limits are
// advisory: they never block an add or a remove.
//
// Every method must be called from a task running on the editor's loop.
package dispatcher
