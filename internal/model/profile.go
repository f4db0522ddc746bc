package model

import "time"

// Profile mirrors an authenticated user and the food ids they currently hold.
type Profile struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	ReservedItems []string  `gorm:"type:text;serializer:json" json:"reserved_items"`
	UpdatedAt     time.Time `json:"updated_at"`
}
