package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is append-only: rows are never updated or deleted. The auto-increment
// ID doubles as the per-conversation ordering sequence used by "fetch messages
// after the last one I saw".
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"size:64;not null;index" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Content        string    `gorm:"size:300;not null" json:"content"`
	SentAt         time.Time `gorm:"not null" json:"sent_at"`
}
