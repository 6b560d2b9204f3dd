// Package app is the terminal front end of a tag editor. It converts tcell
// events into editor input and draws editor snapshots.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tagstorm/internal/dispatcher"
	"github.com/dshills/tagstorm/internal/editor"
	"github.com/dshills/tagstorm/internal/logging"
)

const (
	// DefaultRefresh is how often the screen is redrawn without input, so
	// suggestions arriving in the background show up.
	DefaultRefresh = 50 * time.Millisecond

	finishTimeout = 2 * time.Second
)

// redrawTopics wake the event loop when the editor changes on its own.
const redrawTopics = "tag-added tag-removed invalid-tag suggestion-selected validity-change"

// App runs one editor on a tcell screen.
type App struct {
	screen tcell.Screen
	editor *editor.Editor
	logger *logging.Logger
	styles Styles

	refresh time.Duration
	onFrame func(editor.Snapshot)

	layout     layout
	buttonDown bool
	pasting    bool
	paste      strings.Builder
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithStyles sets the palette.
func WithStyles(s Styles) Option {
	return func(a *App) {
		a.styles = s
	}
}

// WithRefresh sets the idle redraw interval.
func WithRefresh(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.refresh = d
		}
	}
}

// WithFrameHook calls fn with the snapshot of every drawn frame.
func WithFrameHook(fn func(editor.Snapshot)) Option {
	return func(a *App) {
		a.onFrame = fn
	}
}

// New creates an app drawing ed on screen. The editor must be started.
func New(screen tcell.Screen, ed *editor.Editor, opts ...Option) *App {
	a := &App{
		screen:  screen,
		editor:  ed,
		logger:  logging.Nop(),
		styles:  DefaultStyles(),
		refresh: DefaultRefresh,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("app")
	return a
}

// Run initializes the screen and handles events until Ctrl-C or Ctrl-D is
// pressed or ctx ends. It then blurs the input, which may add leftover
// text, and returns the final state.
func (a *App) Run(ctx context.Context) (editor.Snapshot, error) {
	if err := a.screen.Init(); err != nil {
		return editor.Snapshot{}, fmt.Errorf("initializing screen: %w", err)
	}
	defer a.screen.Fini()

	a.screen.EnablePaste()
	a.screen.EnableMouse()
	a.screen.EnableFocus()

	wake := make(chan struct{}, 1)
	a.editor.Bus().Observe(redrawTopics, func(any) {
		select {
		case wake <- struct{}{}:
		default:
		}
	})

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go a.screen.ChannelEvents(events, quit)
	defer close(quit)

	if err := a.editor.Focus(ctx); err != nil {
		return editor.Snapshot{}, err
	}

	ticker := time.NewTicker(a.refresh)
	defer ticker.Stop()

	for {
		if err := a.redraw(ctx); err != nil {
			return editor.Snapshot{}, err
		}

		select {
		case <-ctx.Done():
			snap, err := a.finish()
			if err != nil {
				return snap, err
			}
			return snap, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return a.finish()
			}
			done, err := a.handle(ctx, ev)
			if err != nil {
				return editor.Snapshot{}, err
			}
			if done {
				return a.finish()
			}
		case <-wake:
		case <-ticker.C:
		}
	}
}

func (a *App) finish() (editor.Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
	defer cancel()

	if err := a.editor.Blur(ctx); err != nil {
		return editor.Snapshot{}, err
	}
	if err := a.editor.Settle(ctx); err != nil {
		return editor.Snapshot{}, err
	}
	return a.editor.Snapshot(ctx)
}

// handle applies one event. done is true when the user asked to finish.
func (a *App) handle(ctx context.Context, ev tcell.Event) (done bool, err error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if a.pasting {
			a.collectPaste(ev)
			return false, nil
		}
		switch ev.Key() {
		case tcell.KeyCtrlC, tcell.KeyCtrlD:
			return true, nil
		}
		k, ok := convertKey(ev)
		if !ok {
			return false, nil
		}
		_, err = a.editor.Press(ctx, k)
		return false, err

	case *tcell.EventPaste:
		if ev.Start() {
			a.pasting = true
			a.paste.Reset()
			return false, nil
		}
		a.pasting = false
		return false, a.editor.Paste(ctx, a.paste.String())

	case *tcell.EventFocus:
		if ev.Focused {
			return false, a.editor.Focus(ctx)
		}
		return false, a.editor.Blur(ctx)

	case *tcell.EventMouse:
		return false, a.click(ctx, ev)

	case *tcell.EventResize:
		a.screen.Sync()
	}
	return false, nil
}

func (a *App) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		a.paste.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		a.paste.WriteByte('\n')
	case tcell.KeyTab:
		a.paste.WriteByte('\t')
	}
}

// click acts on a primary button press over a tag, its remove symbol or a
// suggestion.
func (a *App) click(ctx context.Context, ev *tcell.EventMouse) error {
	pressed := ev.Buttons()&tcell.Button1 != 0
	wasDown := a.buttonDown
	a.buttonDown = pressed
	if !pressed || wasDown {
		return nil
	}

	x, y := ev.Position()
	r, ok := a.layout.hit(x, y)
	if !ok {
		return nil
	}
	a.logger.Debug("click on region %d index %d", r.kind, r.index)

	return a.editor.Do(ctx, func(d *dispatcher.Dispatcher) {
		switch r.kind {
		case regionTag:
			d.Click(r.index)
		case regionRemove:
			d.RemoveAt(r.index)
		case regionSuggestion:
			d.AddSuggestionByIndex(r.index)
		}
	})
}

func (a *App) redraw(ctx context.Context) error {
	snap, err := a.editor.Snapshot(ctx)
	if err != nil {
		return err
	}

	a.layout = draw(a.screen, snap, a.styles, statusLine(snap))
	if snap.Focused && !snap.Disabled {
		a.screen.ShowCursor(a.layout.cursorX, a.layout.cursorY)
	} else {
		a.screen.HideCursor()
	}
	a.screen.Show()

	if a.onFrame != nil {
		a.onFrame(snap)
	}
	return nil
}
