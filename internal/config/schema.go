package config

import (
	"regexp"

	"github.com/dshills/tagstorm/internal/config/options"
)

// Directive names.
const (
	DirectiveTagsInput    = "tagsInput"
	DirectiveAutoComplete = "autoComplete"
)

// MaxSafeInteger is the default upper bound of length and count options.
const MaxSafeInteger = 1<<53 - 1

// SupportedInputTypes lists the values accepted by the type option.
var SupportedInputTypes = []string{"text", "email", "url"}

// tagsInput option names.
const (
	OptTemplate                = "template"
	OptType                    = "type"
	OptPlaceholder             = "placeholder"
	OptTabindex                = "tabindex"
	OptRemoveTagSymbol         = "removeTagSymbol"
	OptReplaceSpacesWithDashes = "replaceSpacesWithDashes"
	OptMinLength               = "minLength"
	OptMaxLength               = "maxLength"
	OptAddOnEnter              = "addOnEnter"
	OptAddOnSpace              = "addOnSpace"
	OptAddOnComma              = "addOnComma"
	OptAddOnBlur               = "addOnBlur"
	OptAddOnPaste              = "addOnPaste"
	OptPasteSplitPattern       = "pasteSplitPattern"
	OptAllowedTagsPattern      = "allowedTagsPattern"
	OptEnableEditingLastTag    = "enableEditingLastTag"
	OptMinTags                 = "minTags"
	OptMaxTags                 = "maxTags"
	OptDisplayProperty         = "displayProperty"
	OptKeyProperty             = "keyProperty"
	OptAllowLeftoverText       = "allowLeftoverText"
	OptAddFromAutocompleteOnly = "addFromAutocompleteOnly"
	OptSpellcheck              = "spellcheck"
	OptUseStrings              = "useStrings"
)

// autoComplete option names. minLength, displayProperty and template are
// shared with tagsInput but resolved independently.
const (
	OptDebounceDelay        = "debounceDelay"
	OptHighlightMatchedText = "highlightMatchedText"
	OptMaxResultsToShow     = "maxResultsToShow"
	OptLoadOnDownArrow      = "loadOnDownArrow"
	OptLoadOnEmpty          = "loadOnEmpty"
	OptLoadOnFocus          = "loadOnFocus"
	OptSelectFirstMatch     = "selectFirstMatch"
)

func validateType(raw string) bool {
	for _, t := range SupportedInputTypes {
		if raw == t {
			return true
		}
	}
	return false
}

// TagsInputSchema returns the option schema of the tagsInput directive.
func TagsInputSchema() options.Schema {
	return options.Schema{
		OptTemplate:                {Kind: options.KindString, Default: "tag-item"},
		OptType:                    {Kind: options.KindString, Default: "text", Validate: validateType},
		OptPlaceholder:             {Kind: options.KindString, Default: "Add a tag"},
		OptTabindex:                {Kind: options.KindInt},
		OptRemoveTagSymbol:         {Kind: options.KindString, Default: "×"},
		OptReplaceSpacesWithDashes: {Kind: options.KindBool, Default: true},
		OptMinLength:               {Kind: options.KindInt, Default: 3},
		OptMaxLength:               {Kind: options.KindInt, Default: MaxSafeInteger},
		OptAddOnEnter:              {Kind: options.KindBool, Default: true},
		OptAddOnSpace:              {Kind: options.KindBool, Default: false},
		OptAddOnComma:              {Kind: options.KindBool, Default: true},
		OptAddOnBlur:               {Kind: options.KindBool, Default: true},
		OptAddOnPaste:              {Kind: options.KindBool, Default: false},
		OptPasteSplitPattern:       {Kind: options.KindPattern, Default: regexp.MustCompile(`,`)},
		OptAllowedTagsPattern:      {Kind: options.KindPattern, Default: regexp.MustCompile(`.+`)},
		OptEnableEditingLastTag:    {Kind: options.KindBool, Default: false},
		OptMinTags:                 {Kind: options.KindInt, Default: 0},
		OptMaxTags:                 {Kind: options.KindInt, Default: MaxSafeInteger},
		OptDisplayProperty:         {Kind: options.KindString, Default: "text"},
		OptKeyProperty:             {Kind: options.KindString, Default: ""},
		OptAllowLeftoverText:       {Kind: options.KindBool, Default: false},
		OptAddFromAutocompleteOnly: {Kind: options.KindBool, Default: false},
		OptSpellcheck:              {Kind: options.KindBool, Default: true},
		OptUseStrings:              {Kind: options.KindBool, Default: false},
	}
}

// AutocompleteSchema returns the option schema of the autoComplete directive.
func AutocompleteSchema() options.Schema {
	return options.Schema{
		OptTemplate:             {Kind: options.KindString, Default: "auto-complete-match"},
		OptDisplayProperty:      {Kind: options.KindString, Default: ""},
		OptDebounceDelay:        {Kind: options.KindInt, Default: 100},
		OptMinLength:            {Kind: options.KindInt, Default: 3},
		OptHighlightMatchedText: {Kind: options.KindBool, Default: true},
		OptMaxResultsToShow:     {Kind: options.KindInt, Default: 10},
		OptLoadOnDownArrow:      {Kind: options.KindBool, Default: false},
		OptLoadOnEmpty:          {Kind: options.KindBool, Default: false},
		OptLoadOnFocus:          {Kind: options.KindBool, Default: false},
		OptSelectFirstMatch:     {Kind: options.KindBool, Default: true},
	}
}
