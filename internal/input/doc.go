// Package input holds the text of the tag being typed.
//
// The text is the one piece of editor state that belongs to neither the
// tag collection nor the suggestion list. Every change publishes
// input-change with the new text so both can react.
package input
