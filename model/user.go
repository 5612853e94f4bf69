package model

import "time"

type Preferences struct {
	Theme              string `json:"theme"` // light or dark
	Notifications      bool   `json:"notifications"`
	EmailNotifications bool   `json:"emailNotifications"`
	Language           string `json:"language"`
	Timezone           string `json:"timezone"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:              "light",
		Notifications:      true,
		EmailNotifications: true,
		Language:           "en",
		Timezone:           "UTC",
	}
}

type User struct {
	Model
	Name            string      `gorm:"type:varchar(50);not null" json:"name"`
	Email           string      `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash    string      `gorm:"type:varchar(255);not null" json:"-"`
	Avatar          string      `gorm:"type:text" json:"avatar"`
	Bio             string      `gorm:"type:varchar(500)" json:"bio"`
	Preferences     Preferences `gorm:"type:json;serializer:json" json:"preferences"`
	IsEmailVerified bool        `gorm:"not null;default:false" json:"isEmailVerified"`
	LastLogin       *time.Time  `json:"lastLogin,omitempty"`
}
