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

// MembershipService decides who belongs to which conversation and keeps the
// membership table and the summary's member count in step: every mutation
// spans both inside one transaction.
type MembershipService struct {
	db        *gorm.DB
	summaries *SummaryStore
}

func NewMembershipService(db *gorm.DB, summaries *SummaryStore) *MembershipService {
	return &MembershipService{db: db, summaries: summaries}
}

// CreateConversation makes a fresh conversation with the creator as its only
// member. Membership row and summary commit together or not at all.
func (s *MembershipService) CreateConversation(creatorID uuid.UUID) (string, error) {
	conversationID := uuid.NewString()
	now := time.Now().UTC()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		membership := models.Membership{ConversationID: conversationID, UserID: creatorID, JoinedAt: now}
		if err := tx.Create(&membership).Error; err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
		}
		return s.summaries.Create(tx, conversationID, 1, now)
	})
	if err != nil {
		return "", err
	}
	return conversationID, nil
}

// CreateDirectConversation makes a conversation with both users as members,
// used when two users agree to connect.
func (s *MembershipService) CreateDirectConversation(userA, userB uuid.UUID) (string, error) {
	if userA == userB {
		return "", fmt.Errorf("%w: cannot start a conversation with yourself", apperrors.ErrValidation)
	}
	if err := s.requireUser(userB); err != nil {
		return "", err
	}

	conversationID := uuid.NewString()
	now := time.Now().UTC()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		memberships := []models.Membership{
			{ConversationID: conversationID, UserID: userA, JoinedAt: now},
			{ConversationID: conversationID, UserID: userB, JoinedAt: now},
		}
		if err := tx.Create(&memberships).Error; err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
		}
		return s.summaries.Create(tx, conversationID, 2, now)
	})
	if err != nil {
		return "", err
	}
	return conversationID, nil
}

// AddMember lets an existing member pull another user into the conversation.
func (s *MembershipService) AddMember(actorID uuid.UUID, conversationID string, targetID uuid.UUID) error {
	if err := s.requireUser(targetID); err != nil {
		return err
	}

	actorIsMember, err := s.IsMember(actorID, conversationID)
	if err != nil {
		return err
	}
	if !actorIsMember {
		return fmt.Errorf("%w: conversation does not exist or you are not a member", apperrors.ErrForbidden)
	}

	targetIsMember, err := s.IsMember(targetID, conversationID)
	if err != nil {
		return err
	}
	if targetIsMember {
		return fmt.Errorf("%w: user is already a member of the conversation", apperrors.ErrConflict)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		membership := models.Membership{ConversationID: conversationID, UserID: targetID, JoinedAt: time.Now().UTC()}
		if err := tx.Create(&membership).Error; err != nil {
			// Unique index backstop for a racing add of the same user.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: user is already a member of the conversation", apperrors.ErrConflict)
			}
			return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
		}
		return s.summaries.IncrementMembers(tx, conversationID)
	})
}

// IsMember reports whether a membership row exists for the pair.
func (s *MembershipService) IsMember(userID uuid.UUID, conversationID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Membership{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return count > 0, nil
}

// ConversationIDsFor lists the ids of every conversation the user belongs to.
func (s *MembershipService) ConversationIDsFor(userID uuid.UUID) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.Membership{}).
		Where("user_id = ?", userID).
		Pluck("conversation_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return ids, nil
}

func (s *MembershipService) requireUser(userID uuid.UUID) error {
	var user models.User
	err := s.db.Select("id").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	return nil
}
