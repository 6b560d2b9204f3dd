// Package config provides the option schemas of the two directives and the
// configuration sources an editor instance is built from.
//
// # Directives
//
// Options are grouped by directive, mirroring the two halves of an editor:
//
//   - tagsInput: the tag collection and input handling (TagsInputSchema)
//   - autoComplete: the suggestion engine (AutocompleteSchema)
//
// Resolved values are read through the TagsInput and Autocomplete
// accessors, which always reflect the latest resolution of actively
// interpolated options.
//
// # Sources
//
// Raw attribute values come, in order of precedence, from explicit
// overrides (command line flags) and from a TOML attribute file with one
// table per directive:
//
//	[tagsInput]
//	minLength = 2
//	maxTags = 5
//
//	[autoComplete]
//	debounceDelay = 250
//
// With the watcher enabled the file is reloaded on change and options
// registered with WithActive are re-resolved live.
//
// # Basic Usage
//
//	cfg := config.New(config.WithFile("tags.toml"), config.WithActive(config.DirectiveTagsInput, "maxTags"))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//
//	ti, err := cfg.LoadTagsInput(bus)
package config
