package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership records that a user belongs to a conversation. The pair
// (conversation_id, user_id) is unique: a user joins a conversation at most once.
type Membership struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"size:64;not null;uniqueIndex:idx_conversation_user" json:"conversation_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_user;index" json:"user_id"`
	JoinedAt       time.Time `gorm:"not null" json:"joined_at"`
}
