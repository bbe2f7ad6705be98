package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"messenger-be/apperrors"
	"messenger-be/models"
)

// SummaryStore maintains the denormalized aggregate row per conversation.
// All mutations are single UPDATE statements with arithmetic expressions, so
// concurrent writers against the same conversation serialize on the row and
// the counters never skip or double-count.
type SummaryStore struct {
	db *gorm.DB
}

func NewSummaryStore(db *gorm.DB) *SummaryStore {
	return &SummaryStore{db: db}
}

func (s *SummaryStore) Create(tx *gorm.DB, conversationID string, initialMemberCount int, createdAt time.Time) error {
	summary := models.ConversationSummary{
		ConversationID: conversationID,
		MemberCount:    initialMemberCount,
		MessageCount:   0,
		CreatedAt:      createdAt,
	}
	if err := tx.Create(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: summary for conversation %s already exists", apperrors.ErrConflict, conversationID)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return nil
}

func (s *SummaryStore) IncrementMembers(tx *gorm.DB, conversationID string) error {
	res := tx.Model(&models.ConversationSummary{}).
		Where("conversation_id = ?", conversationID).
		UpdateColumn("member_count", gorm.Expr("member_count + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: conversation %s", apperrors.ErrNotFound, conversationID)
	}
	return nil
}

// RecordMessage bumps the message counter and rewrites the last-message
// columns. It must run in the same transaction as the matching Append.
func (s *SummaryStore) RecordMessage(tx *gorm.DB, conversationID, content string, senderID uuid.UUID, sentAt time.Time) error {
	res := tx.Model(&models.ConversationSummary{}).
		Where("conversation_id = ?", conversationID).
		Updates(map[string]interface{}{
			"message_count":        gorm.Expr("message_count + ?", 1),
			"last_message":         content,
			"last_message_user_id": senderID,
			"last_message_sent_on": sentAt,
		})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: conversation %s", apperrors.ErrNotFound, conversationID)
	}
	return nil
}

func (s *SummaryStore) FindByConversationID(conversationID string) (*models.ConversationSummary, error) {
	var summary models.ConversationSummary
	err := s.db.First(&summary, "conversation_id = ?", conversationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: conversation %s", apperrors.ErrNotFound, conversationID)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return &summary, nil
}

func (s *SummaryStore) FindByConversationIDs(conversationIDs []string) ([]models.ConversationSummary, error) {
	if len(conversationIDs) == 0 {
		return []models.ConversationSummary{}, nil
	}
	var summaries []models.ConversationSummary
	err := s.db.
		Where("conversation_id IN ?", conversationIDs).
		Order("updated_at desc").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return summaries, nil
}
