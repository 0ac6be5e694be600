package events

import "time"

const NotificationDispatchTopic = "hr.notification.dispatch.v1"

// NotificationDispatchEvent asks the delivery pipeline to push one
// stored notification to its recipient's channels.
type NotificationDispatchEvent struct {
	EventType       string    `json:"event_type"`
	NotificationID  string    `json:"notification_id"`
	RecipientUserID string    `json:"recipient_user_id"`
	Type            string    `json:"type"`
	Message         string    `json:"message"`
	Link            string    `json:"link"`
	OccurredAt      time.Time `json:"occurred_at"`
}
