package config

import (
	"regexp"
	"time"

	"github.com/dshills/tagstorm/internal/config/options"
)

// TagsInput reads resolved tagsInput options. Every call reads the current
// value, so actively interpolated options are picked up immediately.
type TagsInput struct {
	v *options.Values
}

// NewTagsInput wraps resolved tagsInput values.
func NewTagsInput(v *options.Values) TagsInput {
	return TagsInput{v: v}
}

// DefaultTagsInput returns the tagsInput options with every default applied.
func DefaultTagsInput() TagsInput {
	return NewTagsInput(options.NewProvider().MustLoad(DirectiveTagsInput, nil, nil, TagsInputSchema()))
}

// Values returns the underlying value set.
func (t TagsInput) Values() *options.Values { return t.v }

func (t TagsInput) Template() string        { return t.v.String(OptTemplate) }
func (t TagsInput) Type() string            { return t.v.String(OptType) }
func (t TagsInput) Placeholder() string     { return t.v.String(OptPlaceholder) }
func (t TagsInput) Tabindex() int           { return t.v.Int(OptTabindex) }
func (t TagsInput) RemoveTagSymbol() string { return t.v.String(OptRemoveTagSymbol) }
func (t TagsInput) Spellcheck() bool        { return t.v.Bool(OptSpellcheck) }

func (t TagsInput) ReplaceSpacesWithDashes() bool { return t.v.Bool(OptReplaceSpacesWithDashes) }
func (t TagsInput) MinLength() int                { return t.v.Int(OptMinLength) }
func (t TagsInput) MaxLength() int                { return t.v.Int(OptMaxLength) }
func (t TagsInput) MinTags() int                  { return t.v.Int(OptMinTags) }
func (t TagsInput) MaxTags() int                  { return t.v.Int(OptMaxTags) }

func (t TagsInput) AddOnEnter() bool { return t.v.Bool(OptAddOnEnter) }
func (t TagsInput) AddOnSpace() bool { return t.v.Bool(OptAddOnSpace) }
func (t TagsInput) AddOnComma() bool { return t.v.Bool(OptAddOnComma) }
func (t TagsInput) AddOnBlur() bool  { return t.v.Bool(OptAddOnBlur) }
func (t TagsInput) AddOnPaste() bool { return t.v.Bool(OptAddOnPaste) }

func (t TagsInput) EnableEditingLastTag() bool    { return t.v.Bool(OptEnableEditingLastTag) }
func (t TagsInput) AllowLeftoverText() bool       { return t.v.Bool(OptAllowLeftoverText) }
func (t TagsInput) AddFromAutocompleteOnly() bool { return t.v.Bool(OptAddFromAutocompleteOnly) }
func (t TagsInput) UseStrings() bool              { return t.v.Bool(OptUseStrings) }

// PasteSplitPattern is the delimiter used to split pasted text.
func (t TagsInput) PasteSplitPattern() *regexp.Regexp {
	return t.v.Pattern(OptPasteSplitPattern)
}

// AllowedTagsPattern is the pattern a candidate's display text must match.
func (t TagsInput) AllowedTagsPattern() *regexp.Regexp {
	return t.v.Pattern(OptAllowedTagsPattern)
}

// DisplayProperty is the tag field holding the text shown and edited.
func (t TagsInput) DisplayProperty() string {
	return t.v.String(OptDisplayProperty)
}

// KeyProperty is the configured identity field, possibly empty.
func (t TagsInput) KeyProperty() string {
	return t.v.String(OptKeyProperty)
}

// KeyField is the field tags are compared on: KeyProperty when set,
// DisplayProperty otherwise.
func (t TagsInput) KeyField() string {
	if k := t.KeyProperty(); k != "" {
		return k
	}
	return t.DisplayProperty()
}

// Autocomplete reads resolved autoComplete options.
type Autocomplete struct {
	v *options.Values
}

// NewAutocomplete wraps resolved autoComplete values.
func NewAutocomplete(v *options.Values) Autocomplete {
	return Autocomplete{v: v}
}

// DefaultAutocomplete returns the autoComplete options with every default
// applied.
func DefaultAutocomplete() Autocomplete {
	return NewAutocomplete(options.NewProvider().MustLoad(DirectiveAutoComplete, nil, nil, AutocompleteSchema()))
}

// Values returns the underlying value set.
func (a Autocomplete) Values() *options.Values { return a.v }

// DebounceDelay is the quiet period before a load executes.
func (a Autocomplete) DebounceDelay() time.Duration {
	return time.Duration(a.v.Int(OptDebounceDelay)) * time.Millisecond
}

func (a Autocomplete) Template() string           { return a.v.String(OptTemplate) }
func (a Autocomplete) MinLength() int             { return a.v.Int(OptMinLength) }
func (a Autocomplete) HighlightMatchedText() bool { return a.v.Bool(OptHighlightMatchedText) }
func (a Autocomplete) MaxResultsToShow() int      { return a.v.Int(OptMaxResultsToShow) }
func (a Autocomplete) LoadOnDownArrow() bool      { return a.v.Bool(OptLoadOnDownArrow) }
func (a Autocomplete) LoadOnEmpty() bool          { return a.v.Bool(OptLoadOnEmpty) }
func (a Autocomplete) LoadOnFocus() bool          { return a.v.Bool(OptLoadOnFocus) }
func (a Autocomplete) SelectFirstMatch() bool     { return a.v.Bool(OptSelectFirstMatch) }

// DisplayProperty is the suggestion field rendered in the list. Empty
// means the tagsInput display property.
func (a Autocomplete) DisplayProperty() string {
	return a.v.String(OptDisplayProperty)
}
