package models

import (
	"time"

	"github.com/google/uuid"
)

// ConversationSummary is the denormalized aggregate row kept alongside the
// authoritative membership and message tables: one row per conversation,
// updated on every message send and member add.
type ConversationSummary struct {
	ConversationID    string     `gorm:"size:64;primaryKey" json:"conversation_id"`
	MemberCount       int        `gorm:"not null" json:"member_count"`
	MessageCount      int        `gorm:"not null;default:0" json:"message_count"`
	LastMessage       *string    `gorm:"size:300" json:"last_message,omitempty"`
	LastMessageUserID *uuid.UUID `gorm:"type:uuid" json:"last_message_user_id,omitempty"`
	LastMessageSentOn *time.Time `json:"last_message_sent_on,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
