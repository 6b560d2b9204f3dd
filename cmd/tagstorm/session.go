package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/dshills/tagstorm/internal/config"
	"github.com/dshills/tagstorm/internal/editor"
	"github.com/dshills/tagstorm/internal/logging"
	"github.com/dshills/tagstorm/internal/plugin/lua"
	"github.com/dshills/tagstorm/internal/suggest"
	"github.com/dshills/tagstorm/internal/suggest/source"
)

const closeTimeout = 2 * time.Second

// session is a configured editor plus everything that must be released
// with it.
type session struct {
	logger  *logging.Logger
	cfg     *config.Config
	editor  *editor.Editor
	closers []func() error
}

// newSession loads configuration, builds the suggestion source and
// starts an editor. logOut receives logs when no log file is set; nil
// discards them.
func newSession(ctx context.Context, o *options, logOut io.Writer) (*session, error) {
	s := &session{}

	logger, closeLog, err := o.logger(logOut)
	if err != nil {
		return nil, err
	}
	s.logger = logger
	s.closers = append(s.closers, closeLog)

	cfgOpts, err := o.configOptions()
	if err != nil {
		s.close()
		return nil, err
	}
	s.cfg = config.New(append(cfgOpts, config.WithLogger(logger))...)
	if err := s.cfg.Load(ctx); err != nil {
		s.close()
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	s.closers = append(s.closers, func() error { s.cfg.Close(); return nil })

	edOpts := []editor.Option{editor.WithLogger(logger)}
	if len(o.tags) > 0 {
		edOpts = append(edOpts, editor.WithItems(o.tags...))
	}

	src, err := s.source(o)
	if err != nil {
		s.close()
		return nil, err
	}
	if src != nil {
		edOpts = append(edOpts, editor.WithSource(src))
	}

	if o.script != "" {
		script, err := lua.LoadScript(ctx, o.script, lua.WithLogger(logger))
		if err != nil {
			s.close()
			return nil, fmt.Errorf("loading script: %w", err)
		}
		// The editor closes scripts it was given.
		edOpts = append(edOpts, editor.WithScript(script))
	}

	ed, err := editor.New(s.cfg, edOpts...)
	if err != nil {
		s.close()
		return nil, err
	}
	if err := ed.Start(); err != nil {
		s.close()
		return nil, err
	}
	s.editor = ed
	return s, nil
}

// source builds the suggestion source selected by the flags, or nil.
func (s *session) source(o *options) (suggest.Source, error) {
	var src suggest.Source
	switch {
	case o.words != "":
		w, err := source.LoadWords(o.words)
		if err != nil {
			return nil, fmt.Errorf("loading word list: %w", err)
		}
		s.logger.Debug("loaded %d words from %s", w.Len(), o.words)
		return w, nil

	case o.remote != "":
		opts := []source.RemoteOption{source.WithParam(o.param)}
		if o.jsonPath != "" {
			opts = append(opts, source.WithPath(o.jsonPath))
		}
		src = source.NewRemote(o.remote, opts...)

	case o.claude:
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return nil, errors.New("--claude needs ANTHROPIC_API_KEY to be set")
		}
		src = source.NewClaude(source.ClaudeConfig{Model: anthropic.Model(o.model), MaxRetries: -1})

	default:
		return nil, nil
	}

	if o.rate > 0 {
		src = source.NewThrottled(src, o.rate, 1)
	}
	if o.cacheTTL > 0 {
		cached := source.NewCached(src, o.cacheTTL, o.cacheSize)
		s.closers = append(s.closers, cached.Close)
		src = cached
	}
	return src, nil
}

// close releases the editor first, then everything else in reverse order.
func (s *session) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	var errs []error
	if s.editor != nil {
		errs = append(errs, s.editor.Close(ctx))
	}
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// logger builds the logger selected by the flags. The returned function
// closes the log file, if one was opened.
func (o *options) logger(out io.Writer) (*logging.Logger, func() error, error) {
	closeLog := func() error { return nil }
	if o.logFile != "" {
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out, closeLog = f, f.Close
	}
	if out == nil {
		return logging.Nop(), closeLog, nil
	}

	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(o.logLevel)
	cfg.JSON = o.logJSON
	cfg.Output = out
	return logging.New(cfg), closeLog, nil
}

// printResult writes the final tags, one per line or as a JSON array.
func printResult(w io.Writer, snap editor.Snapshot, asJSON bool) error {
	if asJSON {
		tags := snap.Tags
		if tags == nil {
			tags = []string{}
		}
		enc := json.NewEncoder(w)
		return enc.Encode(tags)
	}
	for _, t := range snap.Tags {
		if _, err := fmt.Fprintln(w, t); err != nil {
			return err
		}
	}
	return nil
}
