package notification

import "time"

type NotificationResponse struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Message      string  `json:"message"`
	Link         string  `json:"link"`
	Read         bool    `json:"read"`
	DispatchedAt *string `json:"dispatchedAt,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Message:   n.Message,
		Link:      n.Link,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.DispatchedAt != nil {
		v := n.DispatchedAt.Format(time.RFC3339)
		resp.DispatchedAt = &v
	}
	return resp
}
