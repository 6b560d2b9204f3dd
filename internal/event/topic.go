package event

// Topic names an event.
type Topic string

// String returns the topic name.
func (t Topic) String() string {
	return string(t)
}

// Tag collection topics.
const (
	TopicTagAdded   Topic = "tag-added"
	TopicTagRemoved Topic = "tag-removed"
	TopicInvalidTag Topic = "invalid-tag"
	TopicTagClicked Topic = "tag-clicked"
)

// Input topics, published by the input dispatcher on behalf of the host.
const (
	TopicInputChange  Topic = "input-change"
	TopicInputKeyDown Topic = "input-keydown"
	TopicInputFocus   Topic = "input-focus"
	TopicInputBlur    Topic = "input-blur"
	TopicInputPaste   Topic = "input-paste"
)

// Configuration and autocomplete topics.
const (
	TopicOptionChange       Topic = "option-change"
	TopicSuggestionSelected Topic = "suggestion-selected"
	TopicValidityChange     Topic = "validity-change"
)
