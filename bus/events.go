// Package bus routes UI events between the chat session and the suggestion
// board.
package bus

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event.
type EventType string

const (
	// EventCloudClicked carries a suggested question the user picked.
	EventCloudClicked EventType = "cloud.clicked"
	// EventMessageSent fires once per chat submission after its outcome.
	EventMessageSent EventType = "message.sent"
	// EventRefresh carries the new value of the refresh counter.
	EventRefresh EventType = "suggestions.refresh"
)

// Event represents a bus event.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewEvent creates a new event.
func NewEvent(eventType EventType, source string, data any) (*Event, error) {
	var raw json.RawMessage
	if data != nil {
		var err error
		raw, err = json.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now(),
		Data:      raw,
	}, nil
}

// ParseData unmarshals the event data into the given struct.
func (e *Event) ParseData(v any) error {
	if e.Data == nil {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// CloudClickedData is the payload of EventCloudClicked.
type CloudClickedData struct {
	Question string `json:"question"`
}

// MessageSentData is the payload of EventMessageSent.
type MessageSentData struct {
	Failed bool `json:"failed,omitempty"`
}

// RefreshData is the payload of EventRefresh.
type RefreshData struct {
	Counter uint64 `json:"counter"`
}
