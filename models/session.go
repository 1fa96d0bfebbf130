package models

import (
	"time"
)

// Session ist ein gespeicherter Session-Eintrag. Der Payload ist JSON.
type Session struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Payload string `json:"payload" gorm:"type:jsonb;not null"`
}
