package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"messenger-be/apperrors"
	"messenger-be/models"
)

const (
	MinContentLength = 1
	MaxContentLength = 300
)

// MessageStore owns the append-only message log. It never touches the
// conversation summary; keeping the two in step is the facade's job.
type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append persists one message row inside tx, which may be an open transaction
// shared with the summary update.
func (s *MessageStore) Append(tx *gorm.DB, conversationID string, senderID uuid.UUID, content string, sentAt time.Time) (*models.Message, error) {
	if n := utf8.RuneCountInString(content); n < MinContentLength || n > MaxContentLength {
		return nil, fmt.Errorf("%w: content must be between %d and %d characters", apperrors.ErrValidation, MinContentLength, MaxContentLength)
	}

	var summary models.ConversationSummary
	err := tx.Select("conversation_id").First(&summary, "conversation_id = ?", conversationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: conversation %s", apperrors.ErrNotFound, conversationID)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}

	msg := models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		SentAt:         sentAt,
	}
	if err := tx.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return &msg, nil
}

// FindSince returns every message in the conversation with ID strictly greater
// than lastSeenID, oldest first. An empty slice means the caller is up to date.
func (s *MessageStore) FindSince(conversationID string, lastSeenID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.
		Where("conversation_id = ? AND id > ?", conversationID, lastSeenID).
		Order("id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return msgs, nil
}
