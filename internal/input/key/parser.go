package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses one key spec: a key name ("Enter", "esc", "comma"), a
// single rune ("a", "@") or either prefixed by modifiers ("Ctrl+Enter",
// "Alt+x"). A lone "+" is the plus rune.
func Parse(spec string) (Event, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	var mods Modifier
	// The key itself may be "+", so the separator is searched before the
	// last byte.
	if i := strings.LastIndex(spec[:len(spec)-1], "+"); i > 0 {
		for _, p := range strings.Split(spec[:i], "+") {
			m := ModifierFromName(p)
			if m == ModNone {
				return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
			}
			mods = mods.With(m)
		}
		spec = spec[i+1:]
	}

	ev, ok := parseKey(spec)
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
	}
	ev.Modifiers = mods
	return ev, nil
}

func parseKey(s string) (Event, bool) {
	if k := FromName(s); k != KeyNone {
		return Event{Key: k}, true
	}
	if r, ok := runeNames[strings.ToLower(s)]; ok {
		return Rune(r), true
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return Rune(r), true
	}
	return Event{}, false
}

// MustParse is like Parse but panics on error.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return ev
}

// ParseSequence parses whitespace-separated key specs. A token that is not
// a valid spec and has no modifier is typed as its runes.
func ParseSequence(s string) ([]Event, error) {
	var out []Event
	for _, tok := range strings.Fields(s) {
		ev, err := Parse(tok)
		if err == nil {
			out = append(out, ev)
			continue
		}
		if strings.Contains(tok, "+") {
			return nil, err
		}
		for _, r := range tok {
			out = append(out, Rune(r))
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptySpec
	}
	return out, nil
}
