package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/tagstorm/internal/config"
)

// options holds the flags shared by every command.
type options struct {
	configPath string
	watch      bool
	sets       []string
	tags       []string

	logLevel string
	logJSON  bool
	logFile  string

	words    string
	remote   string
	jsonPath string
	param    string
	claude   bool
	model    string
	script   string

	cacheTTL  time.Duration
	cacheSize uint64
	rate      float64

	json bool
}

func (o *options) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", "", "attribute file (default $XDG_CONFIG_HOME/tagstorm/tags.toml)")
	f.BoolVar(&o.watch, "watch", false, "reload the attribute file when it changes")
	f.StringArrayVar(&o.sets, "set", nil, "override an attribute, as directive.name=value (repeatable)")
	f.StringSliceVarP(&o.tags, "tags", "t", nil, "initial tags")

	f.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.BoolVar(&o.logJSON, "log-json", false, "write logs as JSON")
	f.StringVar(&o.logFile, "log-file", "", "write logs to this file")

	f.StringVar(&o.words, "words", "", "suggest from a word list file, one word per line")
	f.StringVar(&o.remote, "remote", "", "suggest from an HTTP endpoint returning JSON")
	f.StringVar(&o.jsonPath, "json-path", "", "gjson path of the suggestion array in remote responses")
	f.StringVar(&o.param, "param", "q", "query parameter name for remote requests")
	f.BoolVar(&o.claude, "claude", false, "suggest with Claude (reads ANTHROPIC_API_KEY)")
	f.StringVar(&o.model, "model", "", "Claude model name")
	f.StringVar(&o.script, "lua", "", "Lua script with on_adding, on_removing or suggest hooks")

	f.DurationVar(&o.cacheTTL, "cache-ttl", time.Minute, "how long remote and Claude suggestions are cached (0 disables)")
	f.Uint64Var(&o.cacheSize, "cache-size", 512, "maximum cached queries")
	f.Float64Var(&o.rate, "rate", 5, "maximum remote or Claude queries per second (0 disables)")

	f.BoolVar(&o.json, "json", false, "print the final tags as JSON")

	cmd.MarkFlagsMutuallyExclusive("words", "remote", "claude")
}

// override is one --set flag.
type override struct {
	directive string
	name      string
	value     string
}

// parseOverride parses directive.name=value. The directive may be given
// in any case.
func parseOverride(s string) (override, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return override{}, fmt.Errorf("invalid --set %q: missing '='", s)
	}
	directive, name, ok := strings.Cut(strings.TrimSpace(key), ".")
	if !ok || name == "" {
		return override{}, fmt.Errorf("invalid --set %q: want directive.name=value", s)
	}

	switch strings.ToLower(directive) {
	case strings.ToLower(config.DirectiveTagsInput), "tags":
		directive = config.DirectiveTagsInput
	case strings.ToLower(config.DirectiveAutoComplete), "auto":
		directive = config.DirectiveAutoComplete
	default:
		return override{}, fmt.Errorf("invalid --set %q: %w: %s", s, config.ErrUnknownDirective, directive)
	}
	return override{directive: directive, name: name, value: value}, nil
}

// configOptions converts the flags into config options.
func (o *options) configOptions() ([]config.Option, error) {
	var out []config.Option
	if o.configPath != "" {
		out = append(out, config.WithFile(o.configPath))
	}
	if o.watch {
		out = append(out,
			config.WithWatcher(true),
			config.WithActive(config.DirectiveTagsInput, config.OptMinTags, config.OptMaxTags, config.OptAllowLeftoverText),
		)
	}
	for _, s := range o.sets {
		ov, err := parseOverride(s)
		if err != nil {
			return nil, err
		}
		out = append(out, config.WithOverride(ov.directive, ov.name, ov.value))
	}
	return out, nil
}
