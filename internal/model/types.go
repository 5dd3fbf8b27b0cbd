package model

import (
	"time"

	"github.com/google/uuid"
)

// NavigationEvent records one handled navigation request.
type NavigationEvent struct {
	EventID    uuid.UUID // Primary key
	SenderID   string    // Conversation sender
	Utterance  string    // Raw user text
	Phrase     string    // Matched table phrase (empty on clarify)
	Route      string    // Resolved route (empty on clarify)
	Matched    bool      // False when the clarification prompt was sent
	ReceivedAt int64     // µs since epoch
}

// NewNavigationEvent stamps a new event with a random ID and the given time.
func NewNavigationEvent(senderID, utterance, phrase, route string, at time.Time) NavigationEvent {
	return NavigationEvent{
		EventID:    uuid.New(),
		SenderID:   senderID,
		Utterance:  utterance,
		Phrase:     phrase,
		Route:      route,
		Matched:    route != "",
		ReceivedAt: at.UnixMicro(),
	}
}

// NavigatePayload is the machine-readable instruction sent to the frontend.
type NavigatePayload struct {
	Type  string `json:"type"` // Always "navigate"
	Route string `json:"route"`
}

// PayloadTypeNavigate is the NavigatePayload type tag.
const PayloadTypeNavigate = "navigate"
