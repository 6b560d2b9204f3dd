// Package event provides the per-editor event bus.
//
// The bus is the only coordination mechanism between the tag collection,
// the suggestion engine and the input dispatcher. Components register
// handlers for named topics and publish payloads; none of them call each
// other directly.
//
// # Ordering and veto
//
// Handlers for a topic run synchronously, in registration order. A handler
// registered with Prioritized is inserted at the front instead of the back.
// A handler returning Veto stops delivery to the remaining handlers and the
// publish reports the veto; Continue (the zero value) keeps going.
//
//	bus := event.NewBus()
//	bus.On("tag-added tag-removed", event.Watch(func(e tags.Event) {
//		render(e.Tag)
//	}))
//	bus.Trigger(event.TopicTagAdded, tags.Event{Tag: tag})
//
// Handlers are append-only: there is no unsubscribe. A bus lives exactly as
// long as the editor instance that owns it.
package event
