package models

const (
	// ResetEventType is the repository_dispatch event type fired by the bridge.
	ResetEventType = "slack_reset"
)

// Notification is the repository_dispatch payload sent to GitHub.
type Notification struct {
	EventType     string
	ClientPayload map[string]string
}

// DefaultNotification returns the fixed notification sent for every slash command.
func DefaultNotification() Notification {
	return Notification{
		EventType:     ResetEventType,
		ClientPayload: map[string]string{"text": "seen"},
	}
}
