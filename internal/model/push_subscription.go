package model

import "time"

// PushSubscription holds the information for a browser push subscription.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	UserID    string    `gorm:"index;size:64;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// NotificationPreference records whether a user wants new-event alerts.
type NotificationPreference struct {
	UserID               string    `gorm:"primaryKey;size:64" json:"user_id"`
	NotificationsEnabled bool      `gorm:"not null;default:false" json:"notifications_enabled"`
	UpdatedAt            time.Time `json:"updated_at"`
}
