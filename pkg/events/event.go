package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "article.indexed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a generic Event implementation used when reconstructing events
// from the wire.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// ArticlesIndexed is emitted after a batch of articles has been embedded and
// upserted into the vector index.
type ArticlesIndexed struct {
	Count      int
	Sources    []string
	OccurredAt time.Time
}

func NewArticlesIndexed(count int, sources []string) ArticlesIndexed {
	return ArticlesIndexed{
		Count:      count,
		Sources:    sources,
		OccurredAt: time.Now().UTC(),
	}
}

func (e ArticlesIndexed) EventType() string {
	return "article.indexed"
}

func (e ArticlesIndexed) Payload() map[string]interface{} {
	return map[string]interface{}{
		"count":      e.Count,
		"sources":    e.Sources,
		"occurredAt": e.OccurredAt,
	}
}

func (e ArticlesIndexed) Timestamp() time.Time {
	return e.OccurredAt
}
