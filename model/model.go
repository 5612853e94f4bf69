package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Task{},
		&Event{},
		&Message{},
	)
}

// Model is the base for all stored entities. IDs are UUID strings so that
// records created offline by the local store merge cleanly with the server.
type Model struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// Comment is an append-only note embedded in tasks and events.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Recurrence is the stored repeat rule. Repeated instances are never
// materialized; the rule is only carried for display.
type Recurrence struct {
	Type     string     `json:"type"` // daily, weekly, monthly, custom
	Interval int        `json:"interval"`
	EndDate  *time.Time `json:"endDate,omitempty"`
}
