package services

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"messenger-be/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "messenger.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Membership{},
		&models.Message{},
		&models.ConversationSummary{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Username: username, Password: string(digest)}
	require.NoError(t, db.Create(user).Error)
	return user
}

// recordingNotifier captures Notify calls so tests can assert on the
// best-effort push without a live websocket.
type recordingNotifier struct {
	conversationIDs []string
	messages        []*models.Message
}

func (n *recordingNotifier) Notify(conversationID string, message *models.Message) {
	n.conversationIDs = append(n.conversationIDs, conversationID)
	n.messages = append(n.messages, message)
}

func newConversationService(db *gorm.DB, notifier Notifier) (*ConversationService, *MembershipService, *SummaryStore) {
	summaries := NewSummaryStore(db)
	memberships := NewMembershipService(db, summaries)
	messages := NewMessageStore(db)
	return NewConversationService(db, messages, summaries, memberships, notifier), memberships, summaries
}
