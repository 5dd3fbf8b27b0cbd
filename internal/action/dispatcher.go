package action

import "sync"

// CollectingDispatcher records uttered messages in order.
type CollectingDispatcher struct {
	mu       sync.Mutex
	messages []Message
}

// NewCollectingDispatcher creates an empty dispatcher.
func NewCollectingDispatcher() *CollectingDispatcher {
	return &CollectingDispatcher{}
}

// UtterMessage appends a message. Nil collections are replaced with empty
// ones so the wire form always carries [] and {} rather than null.
func (d *CollectingDispatcher) UtterMessage(msg Message) {
	if msg.Buttons == nil {
		msg.Buttons = []map[string]any{}
	}
	if msg.Elements == nil {
		msg.Elements = []map[string]any{}
	}
	if msg.Custom == nil {
		msg.Custom = map[string]any{}
	}

	d.mu.Lock()
	d.messages = append(d.messages, msg)
	d.mu.Unlock()
}

// Messages returns a copy of the collected messages.
func (d *CollectingDispatcher) Messages() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Message, len(d.messages))
	copy(out, d.messages)
	return out
}
