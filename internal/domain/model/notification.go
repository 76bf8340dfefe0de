package model

import "time"

type NotificationType string

const (
	NotificationAlert     NotificationType = "Alert"
	NotificationUpdate    NotificationType = "Update"
	NotificationPromotion NotificationType = "Promotion"
	NotificationBroadcast NotificationType = "broadcast"
	NotificationInfo      NotificationType = "info"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationAlert, NotificationUpdate, NotificationPromotion,
		NotificationBroadcast, NotificationInfo:
		return true
	}
	return false
}

// Notification is an admin broadcast shown to every user.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	CreatedBy string           `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
}
