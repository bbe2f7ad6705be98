package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username string    `gorm:"size:60;not null;uniqueIndex" json:"username"`
	Password string    `gorm:"not null" json:"-"`
	Email    *string   `gorm:"size:190" json:"email,omitempty"`
	About    *string   `gorm:"type:text" json:"about,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
