package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"messenger-be/apperrors"
	"messenger-be/models"
)

// Notifier pushes a new-message event to interested listeners after the
// message has committed. Best-effort: implementations must never block the
// send path for long and must swallow their own delivery failures.
type Notifier interface {
	Notify(conversationID string, message *models.Message)
}

// ConversationService is the public face of the conversation core. Every
// operation takes a pre-authenticated acting user id.
type ConversationService struct {
	db          *gorm.DB
	messages    *MessageStore
	summaries   *SummaryStore
	memberships *MembershipService
	notifier    Notifier
}

func NewConversationService(db *gorm.DB, messages *MessageStore, summaries *SummaryStore, memberships *MembershipService, notifier Notifier) *ConversationService {
	return &ConversationService{
		db:          db,
		messages:    messages,
		summaries:   summaries,
		memberships: memberships,
		notifier:    notifier,
	}
}

// SendMessage appends a message and updates the conversation summary in one
// transaction: either both commit or neither does. The notifier runs only
// after commit and cannot roll the message back.
func (s *ConversationService) SendMessage(actorID uuid.UUID, conversationID, content string) (*models.Message, error) {
	member, err := s.memberships.IsMember(actorID, conversationID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: conversation does not exist or you are not a member", apperrors.ErrForbidden)
	}

	sentAt := time.Now().UTC()
	var msg *models.Message
	err = s.db.Transaction(func(tx *gorm.DB) error {
		appended, err := s.messages.Append(tx, conversationID, actorID, content, sentAt)
		if err != nil {
			return err
		}
		if err := s.summaries.RecordMessage(tx, conversationID, content, actorID, sentAt); err != nil {
			return err
		}
		msg = appended
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(conversationID, msg)
	}
	return msg, nil
}

// ListNewMessages returns the messages the caller has not seen yet, oldest
// first.
func (s *ConversationService) ListNewMessages(actorID uuid.UUID, conversationID string, lastSeenID uint) ([]models.Message, error) {
	member, err := s.memberships.IsMember(actorID, conversationID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: conversation does not exist or you are not a member", apperrors.ErrForbidden)
	}
	return s.messages.FindSince(conversationID, lastSeenID)
}

// ListMyConversations returns the summaries of every conversation the caller
// belongs to, most recently active first.
func (s *ConversationService) ListMyConversations(actorID uuid.UUID) ([]models.ConversationSummary, error) {
	ids, err := s.memberships.ConversationIDsFor(actorID)
	if err != nil {
		return nil, err
	}
	return s.summaries.FindByConversationIDs(ids)
}

func (s *ConversationService) CreateConversation(actorID uuid.UUID) (string, error) {
	return s.memberships.CreateConversation(actorID)
}

func (s *ConversationService) CreateDirectConversation(actorID, otherUserID uuid.UUID) (string, error) {
	return s.memberships.CreateDirectConversation(actorID, otherUserID)
}

func (s *ConversationService) InviteMember(actorID uuid.UUID, conversationID string, targetID uuid.UUID) error {
	return s.memberships.AddMember(actorID, conversationID, targetID)
}
