package model

import "time"

const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

type Event struct {
	Model
	// UserID records the creator but event reads are not scoped to it.
	// See DESIGN.md; kept as-is pending a product decision.
	UserID      string      `gorm:"type:varchar(36);index" json:"userId"`
	Title       string      `gorm:"type:text;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	StartDate   time.Time   `gorm:"not null" json:"startDate"`
	EndDate     time.Time   `gorm:"not null" json:"endDate"`
	StartTime   string      `gorm:"type:varchar(5)" json:"startTime"` // HH:MM
	EndTime     string      `gorm:"type:varchar(5)" json:"endTime"`
	Tags        []string    `gorm:"type:json;serializer:json" json:"tags"`
	Priority    string      `gorm:"type:varchar(16);not null;default:medium" json:"priority"`
	Status      string      `gorm:"type:varchar(16);not null;default:upcoming" json:"status"`
	IsRecurring bool        `gorm:"not null;default:false" json:"isRecurring"`
	Recurrence  *Recurrence `gorm:"type:json;serializer:json" json:"recurrence,omitempty"`
	IsStarred   bool        `gorm:"not null;default:false" json:"isStarred"`
	IsLiked     bool        `gorm:"not null;default:false" json:"isLiked"`
	Comments    []Comment   `gorm:"type:json;serializer:json" json:"comments"`
}
