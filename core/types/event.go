package types

// Event represents a typed event emitted during a state transition. The
// attribute map is the wire form handed to downstream subscribers.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
