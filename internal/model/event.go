package model

import "time"

// Event is a campus event that has leftover food to share.
type Event struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:256;not null" json:"name"`
	Description    string    `json:"description"`
	Organization   string    `gorm:"size:256" json:"organization"`
	Location       string    `gorm:"size:256" json:"location"`
	CampusLocation string    `gorm:"size:256" json:"campus_location"`
	Date           string    `gorm:"size:32;index" json:"date"`
	StartTime      string    `gorm:"size:16" json:"start_time"`
	EndTime        string    `gorm:"size:16" json:"end_time"`
	Food           []string  `gorm:"type:text;serializer:json" json:"food"`
	ImageURL       *string   `json:"image_url"`
	CreatedAt      time.Time `json:"created_at"`
}
