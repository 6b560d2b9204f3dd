package tags

import (
	"context"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/dshills/tagstorm/internal/config"
	"github.com/dshills/tagstorm/internal/event"
	"github.com/dshills/tagstorm/internal/gate"
	"github.com/dshills/tagstorm/internal/logging"
	"github.com/dshills/tagstorm/internal/runloop"
)

// DefaultGateTimeout bounds how long an add or remove waits for a pending
// gate. A gate that has not answered by then denies.
const DefaultGateTimeout = 30 * time.Second

type entry struct {
	id  uint64
	tag Tag
}

// Collection owns an ordered list of unique tags and a selection cursor.
//
// A Collection belongs to one run loop: every method must be called from
// a task running on that loop. Add and Remove return futures that resolve
// on the loop after their gates have answered.
type Collection struct {
	loop *runloop.Loop
	bus  *event.Bus
	opts config.TagsInput

	onAdding   gate.Func[Tag]
	onRemoving gate.Func[Tag]

	ctx         context.Context
	gateTimeout time.Duration
	logger      *logging.Logger

	items    []entry
	nextID   uint64
	index    int
	selected Tag

	// pending counts adds and removes whose outcome is not applied yet.
	pending int

	// Anchored form of the allowedTagsPattern option, rebuilt when the
	// option changes.
	allowedSrc *regexp.Regexp
	allowed    *regexp.Regexp
}

// Option configures a Collection.
type Option func(*Collection)

// WithAddGate sets the gate consulted before a valid tag is added.
func WithAddGate(g gate.Func[Tag]) Option {
	return func(c *Collection) {
		c.onAdding = g
	}
}

// WithRemoveGate sets the gate consulted before a tag is removed.
func WithRemoveGate(g gate.Func[Tag]) Option {
	return func(c *Collection) {
		c.onRemoving = g
	}
}

// WithContext sets the context handed to gates. Cancelling it denies any
// pending gate.
func WithContext(ctx context.Context) Option {
	return func(c *Collection) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithGateTimeout sets how long a pending gate may take to answer. Zero
// or less waits until the context set by WithContext ends.
func WithGateTimeout(d time.Duration) Option {
	return func(c *Collection) {
		c.gateTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Collection) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCollection creates an empty collection publishing on bus.
func NewCollection(loop *runloop.Loop, bus *event.Bus, opts config.TagsInput, options ...Option) *Collection {
	c := &Collection{
		loop:   loop,
		bus:    bus,
		opts:   opts,
		ctx:         context.Background(),
		gateTimeout: DefaultGateTimeout,
		logger:      logging.Nop(),
		index:       -1,
	}
	for _, opt := range options {
		opt(c)
	}
	c.logger = c.logger.WithComponent("tags")
	return c
}

// Len returns the number of tags.
func (c *Collection) Len() int {
	return len(c.items)
}

// At returns the tag at i, or nil when i is out of range.
func (c *Collection) At(i int) Tag {
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i].tag
}

// Items returns the tags in order. The slice is a copy; the tags are not.
func (c *Collection) Items() []Tag {
	out := make([]Tag, len(c.items))
	for i, e := range c.items {
		out[i] = e.tag
	}
	return out
}

// Texts returns the display text of every tag.
func (c *Collection) Texts() []string {
	return Strings(c.Items(), c.opts.DisplayProperty())
}

// Model returns the projection bound to the host: the display strings when
// useStrings is set, the tags otherwise.
func (c *Collection) Model() any {
	if c.opts.UseStrings() {
		return c.Texts()
	}
	return c.Items()
}

// SetItems replaces the whole sequence and clears the selection.
func (c *Collection) SetItems(items []Tag) {
	c.items = c.items[:0]
	for _, t := range items {
		c.items = append(c.items, c.newEntry(t.Clone()))
	}
	c.ClearSelection()
}

// SetStrings replaces the sequence with plain strings wrapped on the
// display property.
func (c *Collection) SetStrings(values []string) {
	c.SetItems(FromStrings(values, c.opts.DisplayProperty()))
}

// AddText wraps text in a tag on the display property and adds it.
func (c *Collection) AddText(text string) *runloop.Future[bool] {
	return c.Add(New(c.opts.DisplayProperty(), text))
}

// Add validates tag, consults the add gate and appends it. The future
// resolves to true once tag-added has been published, false otherwise.
// Even when nothing is asynchronous the outcome is applied in a later loop
// task, never during the call.
//
// A candidate failing validation or the gate publishes invalid-tag, unless
// its display text is empty.
func (c *Collection) Add(tag Tag) *runloop.Future[bool] {
	result := runloop.NewFuture[bool]()
	c.pending++

	field := c.opts.DisplayProperty()
	tag = tag.Clone()
	if tag == nil {
		tag = Tag{}
	}
	text := tag.Text(field)
	if c.opts.ReplaceSpacesWithDashes() {
		text = Dashify(text)
	}
	tag[field] = text

	if !c.valid(tag, text) {
		c.post(func() { c.reject(tag, text, "invalid", result) }, func() { result.Resolve(false) })
		return result
	}

	d := c.onAdding.Check(c.ctx, tag)
	if allowed, ok := d.Immediate(); ok {
		c.post(func() { c.finishAdd(tag, text, allowed, result) }, func() { result.Resolve(false) })
		return result
	}

	go func() {
		allowed := c.wait(d)
		c.post(func() { c.finishAdd(tag, text, allowed, result) }, func() { result.Resolve(false) })
	}()
	return result
}

// Remove consults the remove gate for the tag at index and removes it.
// The future resolves to the removed tag, or nil when the index is out of
// range, the gate denied, or the tag was already removed meanwhile.
func (c *Collection) Remove(index int) *runloop.Future[Tag] {
	result := runloop.NewFuture[Tag]()
	c.pending++

	if index < 0 || index >= len(c.items) {
		c.post(func() { c.resolveRemove(result, nil) }, func() { result.Resolve(nil) })
		return result
	}
	e := c.items[index]

	d := c.onRemoving.Check(c.ctx, e.tag)
	if allowed, ok := d.Immediate(); ok {
		c.post(func() { c.finishRemove(e.id, allowed, result) }, func() { result.Resolve(nil) })
		return result
	}

	go func() {
		allowed := c.wait(d)
		c.post(func() { c.finishRemove(e.id, allowed, result) }, func() { result.Resolve(nil) })
	}()
	return result
}

// wait blocks until the pending decision d answers. A gate still silent
// when the timeout passes, or when the collection context ends, denies.
func (c *Collection) wait(d gate.Decision) bool {
	ctx := c.ctx
	if c.gateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.gateTimeout)
		defer cancel()
	}
	allowed := d.Wait(ctx)
	if !allowed && ctx.Err() != nil {
		c.logger.Warn("gate did not answer: %v", ctx.Err())
	}
	return allowed
}

// RemoveSelected removes the selected tag.
func (c *Collection) RemoveSelected() *runloop.Future[Tag] {
	return c.Remove(c.index)
}

// Pending returns the number of adds and removes still waiting for their
// gate or their loop task.
func (c *Collection) Pending() int {
	return c.pending
}

// Index returns the selection index, -1 when nothing is selected.
func (c *Collection) Index() int {
	return c.index
}

// Selected returns the selected tag, nil when nothing is selected.
func (c *Collection) Selected() Tag {
	return c.selected
}

// Select moves the selection to i, wrapping around: below zero selects the
// last tag, past the end selects the first. On an empty collection the
// selection stays empty.
func (c *Collection) Select(i int) {
	n := len(c.items)
	if n == 0 {
		c.ClearSelection()
		return
	}
	if i < 0 {
		i = n - 1
	} else if i >= n {
		i = 0
	}
	c.index = i
	c.selected = c.items[i].tag
}

// SelectPrior moves the selection one tag back.
func (c *Collection) SelectPrior() {
	c.Select(c.index - 1)
}

// SelectNext moves the selection one tag forward.
func (c *Collection) SelectNext() {
	c.Select(c.index + 1)
}

// ClearSelection empties the selection.
func (c *Collection) ClearSelection() {
	c.index = -1
	c.selected = nil
}

// Click publishes tag-clicked for the tag at i.
func (c *Collection) Click(i int) {
	if t := c.At(i); t != nil {
		c.bus.Trigger(event.TopicTagClicked, Event{Tag: t, Index: i})
	}
}

// post queues task on the loop, running stopped instead when the loop no
// longer accepts work so that no future is left unresolved.
func (c *Collection) post(task, stopped func()) {
	if !c.loop.Post(task) {
		stopped()
	}
}

func (c *Collection) newEntry(t Tag) entry {
	c.nextID++
	return entry{id: c.nextID, tag: t}
}

// valid runs the structural checks in order: non-empty text, length
// bounds, allowed pattern, then uniqueness on the key field.
func (c *Collection) valid(tag Tag, text string) bool {
	if text == "" {
		return false
	}
	n := utf8.RuneCountInString(text)
	if n < c.opts.MinLength() || n > c.opts.MaxLength() {
		return false
	}
	if re := c.allowedPattern(); re != nil && !re.MatchString(text) {
		return false
	}
	return !c.contains(tag)
}

func (c *Collection) contains(tag Tag) bool {
	return Find(c.Items(), tag, c.opts.KeyField(), nil) >= 0
}

func (c *Collection) allowedPattern() *regexp.Regexp {
	src := c.opts.AllowedTagsPattern()
	if src == nil {
		return nil
	}
	if src != c.allowedSrc {
		c.allowedSrc = src
		c.allowed = regexp.MustCompile(`^(?:` + src.String() + `)$`)
	}
	return c.allowed
}

func (c *Collection) finishAdd(tag Tag, text string, allowed bool, result *runloop.Future[bool]) {
	if !allowed {
		c.reject(tag, text, "denied by gate", result)
		return
	}
	// An overlapping add of the same key may have committed while the gate
	// was pending.
	if c.contains(tag) {
		c.reject(tag, text, "duplicate", result)
		return
	}

	c.items = append(c.items, c.newEntry(tag))
	c.ClearSelection()
	c.bus.Trigger(event.TopicTagAdded, Event{Tag: tag, Index: len(c.items) - 1})
	c.resolveAdd(result, true)
}

func (c *Collection) reject(tag Tag, text, reason string, result *runloop.Future[bool]) {
	if text != "" {
		c.logger.Debug("rejected tag %q: %s", text, reason)
		c.bus.Trigger(event.TopicInvalidTag, Event{Tag: tag, Index: -1})
	}
	c.resolveAdd(result, false)
}

func (c *Collection) finishRemove(id uint64, allowed bool, result *runloop.Future[Tag]) {
	if !allowed {
		c.logger.Debug("tag removal denied by gate")
		c.resolveRemove(result, nil)
		return
	}

	for i, e := range c.items {
		if e.id != id {
			continue
		}
		c.items = append(c.items[:i], c.items[i+1:]...)
		c.ClearSelection()
		c.bus.Trigger(event.TopicTagRemoved, Event{Tag: e.tag, Index: i})
		c.resolveRemove(result, e.tag)
		return
	}
	c.resolveRemove(result, nil)
}

func (c *Collection) resolveAdd(result *runloop.Future[bool], added bool) {
	c.pending--
	result.Resolve(added)
}

func (c *Collection) resolveRemove(result *runloop.Future[Tag], removed Tag) {
	c.pending--
	result.Resolve(removed)
}
