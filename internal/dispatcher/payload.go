package dispatcher

import "github.com/dshills/tagstorm/internal/input/key"

// KeyPress is the payload of input-keydown. Handlers call PreventDefault
// to suppress the default input behavior for the key.
type KeyPress struct {
	Event key.Event

	prevented bool
}

// PreventDefault marks the press as handled.
func (p *KeyPress) PreventDefault() { p.prevented = true }

// Prevented reports whether a handler marked the press as handled.
func (p *KeyPress) Prevented() bool { return p.prevented }

// Paste is the payload of input-paste.
type Paste struct {
	Text string

	prevented bool
}

// PreventDefault stops the pasted text from being inserted.
func (p *Paste) PreventDefault() { p.prevented = true }

// Prevented reports whether a handler consumed the paste.
func (p *Paste) Prevented() bool { return p.prevented }

// Validity is the payload of validity-change. Each field is true when the
// corresponding constraint holds.
type Validity struct {
	MaxTags      bool
	MinTags      bool
	LeftoverText bool
}

// Valid reports whether every constraint holds.
func (v Validity) Valid() bool {
	return v.MaxTags && v.MinTags && v.LeftoverText
}

// Stats counts dispatcher activity.
type Stats struct {
	Keys      uint64
	Prevented uint64
	Vetoed    uint64
	Pastes    uint64
}
