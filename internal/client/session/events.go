package session

import "github.com/cygnuslabs/cygnusone/internal/client/models"

// EventType distinguishes authentication state changes.
type EventType int

const (
	// EventLoggedIn fires after a session was durably saved.
	EventLoggedIn EventType = iota
	// EventLoggedOut fires after local session state was cleared.
	EventLoggedOut
)

func (t EventType) String() string {
	switch t {
	case EventLoggedIn:
		return "logged-in"
	case EventLoggedOut:
		return "logged-out"
	default:
		return "unknown"
	}
}

// Event is broadcast to shell observers on every authentication change.
// User is set for EventLoggedIn and nil for EventLoggedOut.
type Event struct {
	Type EventType
	User *models.User
}
