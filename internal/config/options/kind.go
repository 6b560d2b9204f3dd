// Package options resolves directive options from raw attribute strings.
//
// A directive declares a Schema: for every option its Kind, a local default
// and an optional validator over the raw string. Load converts each raw
// attribute with the converter of its Kind, falling back to the directive's
// global default and then to the local default when the attribute is
// missing, empty, or rejected by the validator. Options registered for
// active interpolation are re-resolved whenever the source attribute
// changes and republished on the event bus as option-change.
package options

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the closed set of option value types.
type Kind uint8

const (
	kindInvalid Kind = iota

	// KindString passes the raw value through.
	KindString

	// KindInt parses a leading base-10 integer.
	KindInt

	// KindBool is true only for the literal "true", case-insensitively.
	KindBool

	// KindPattern compiles a regular expression.
	KindPattern
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindPattern:
		return "pattern"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Valid reports whether k belongs to the closed set.
func (k Kind) Valid() bool {
	return k >= KindString && k <= KindPattern
}

// Convert turns raw into a value of the kind: string, int, bool or
// *regexp.Regexp. It returns ErrUnknownKind for kinds outside the set and
// ErrConversion when raw cannot be converted.
func (k Kind) Convert(raw string) (any, error) {
	switch k {
	case KindString:
		return raw, nil
	case KindInt:
		n, ok := parseLeadingInt(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrConversion, raw)
		}
		return n, nil
	case KindBool:
		return strings.ToLower(raw) == "true", nil
	case KindPattern:
		re, err := regexp.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		return re, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
}

// Accepts reports whether v is a value of the kind. nil is accepted by
// every kind and stands for "no value".
func (k Kind) Accepts(v any) bool {
	if v == nil {
		return true
	}
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInt:
		_, ok := v.(int)
		return ok
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindPattern:
		_, ok := v.(*regexp.Regexp)
		return ok
	default:
		return false
	}
}

// parseLeadingInt reads an optionally signed run of digits after leading
// whitespace, ignoring whatever follows: "12px" is 12.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n, digits := 0, 0
	for ; digits < len(s); digits++ {
		c := s[digits]
		if c < '0' || c > '9' {
			break
		}
		d := int(c - '0')
		if n > (maxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

const maxInt = int(^uint(0) >> 1)
