package model

// StockLevel is the coarse availability band of a food item.
type StockLevel string

const (
	StockLow    StockLevel = "low"
	StockMedium StockLevel = "medium"
	StockHigh   StockLevel = "high"
)

// Valid reports whether l is one of the known bands.
func (l StockLevel) Valid() bool {
	switch l {
	case StockLow, StockMedium, StockHigh:
		return true
	}
	return false
}

// Food is a single food item offered at an event. A nil Quantity means the
// item is tracked by StockLevel only.
type Food struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:256;not null" json:"name"`
	EventID     int64      `gorm:"index;not null" json:"event_id"`
	Quantity    *int       `json:"quantity"`
	StockLevel  StockLevel `gorm:"size:16;not null;default:medium" json:"stockLevel"`
	DietaryTags []string   `gorm:"type:text;serializer:json" json:"dietaryTags"`
	Description string     `json:"description"`
}
