package model

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	Model
	UserID      string      `gorm:"type:varchar(36);not null;index" json:"userId"`
	Title       string      `gorm:"type:text;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	DueDate     *time.Time  `json:"dueDate,omitempty"`
	DueTime     string      `gorm:"type:varchar(5)" json:"dueTime"` // HH:MM
	Tags        []string    `gorm:"type:json;serializer:json" json:"tags"`
	Priority    string      `gorm:"type:varchar(16);not null;default:medium" json:"priority"`
	Status      string      `gorm:"type:varchar(16);not null;default:pending" json:"status"`
	IsRecurring bool        `gorm:"not null;default:false" json:"isRecurring"`
	Recurrence  *Recurrence `gorm:"type:json;serializer:json" json:"recurrence,omitempty"`
	IsStarred   bool        `gorm:"not null;default:false" json:"isStarred"`
	IsLiked     bool        `gorm:"not null;default:false" json:"isLiked"`
	Comments    []Comment   `gorm:"type:json;serializer:json" json:"comments"`
}
