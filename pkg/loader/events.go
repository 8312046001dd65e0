package loader

// EventType defines the type of event being broadcast.
type EventType string

const (
	EventStateChanged EventType = "state_changed"
)

// Event is sent to subscribers whenever the coordinator commits a state.
type Event struct {
	Type       EventType `json:"type"`
	Generation uint64    `json:"generation"`
	State      State     `json:"-"`
}

// Subscriber is a channel that receives events.
type Subscriber chan Event
