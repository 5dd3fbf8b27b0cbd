package action

import "context"

// Event is an opaque conversation event returned to the runtime.
type Event map[string]any

// Domain is the runtime's domain description, passed through untouched.
type Domain map[string]any

// Tracker is a snapshot of conversation state sent with each call.
type Tracker struct {
	SenderID         string         `json:"sender_id"`
	Slots            map[string]any `json:"slots,omitempty"`
	LatestMessage    map[string]any `json:"latest_message,omitempty"`
	Events           []Event        `json:"events,omitempty"`
	Paused           bool           `json:"paused,omitempty"`
	FollowupAction   string         `json:"followup_action,omitempty"`
	ActiveLoop       map[string]any `json:"active_loop,omitempty"`
	LatestActionName string         `json:"latest_action_name,omitempty"`
}

// LatestText returns the text of the latest user message.
// Missing or non-string text yields "".
func (t *Tracker) LatestText() string {
	if t == nil || t.LatestMessage == nil {
		return ""
	}
	text, _ := t.LatestMessage["text"].(string)
	return text
}

// Message is a single bot utterance. JSON payloads travel in Custom.
type Message struct {
	Text       string           `json:"text,omitempty"`
	Buttons    []map[string]any `json:"buttons"`
	Elements   []map[string]any `json:"elements"`
	Custom     map[string]any   `json:"custom"`
	Response   *string          `json:"response"`
	Image      *string          `json:"image"`
	Attachment *string          `json:"attachment"`
}

// Dispatcher receives messages uttered by an action.
type Dispatcher interface {
	UtterMessage(msg Message)
}

// Action is a named custom action the runtime can invoke.
type Action interface {
	Name() string
	Run(ctx context.Context, dispatcher Dispatcher, tracker *Tracker, domain Domain) ([]Event, error)
}

// Call is the wire format of an action invocation.
type Call struct {
	NextAction string   `json:"next_action"`
	SenderID   string   `json:"sender_id"`
	Tracker    *Tracker `json:"tracker"`
	Domain     Domain   `json:"domain"`
	Version    string   `json:"version,omitempty"`
}

// Response is the wire format of a successful action run.
type Response struct {
	Events    []Event   `json:"events"`
	Responses []Message `json:"responses"`
}

// ErrorBody is the wire format of a failed action run.
type ErrorBody struct {
	Error      string `json:"error"`
	ActionName string `json:"action_name"`
}

// Info describes a registered action.
type Info struct {
	Name string `json:"name"`
}
