package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"messenger-be/apperrors"
)

func Test_Summary_Create_Rejects_Duplicate(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	store := NewSummaryStore(db)

	req.NoError(store.Create(db, "conv-1", 1, time.Now().UTC()))
	req.ErrorIs(store.Create(db, "conv-1", 1, time.Now().UTC()), apperrors.ErrConflict)
}

func Test_Summary_IncrementMembers_Requires_Existing_Row(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	store := NewSummaryStore(db)

	req.ErrorIs(store.IncrementMembers(db, "missing"), apperrors.ErrNotFound)

	req.NoError(store.Create(db, "conv-1", 1, time.Now().UTC()))
	req.NoError(store.IncrementMembers(db, "conv-1"))

	summary, err := store.FindByConversationID("conv-1")
	req.NoError(err)
	req.Equal(2, summary.MemberCount)
}

func Test_Summary_RecordMessage_Updates_Counters_And_Last_Message(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	store := NewSummaryStore(db)
	user := createTestUser(t, db, "alice")

	req.ErrorIs(store.RecordMessage(db, "missing", "hi", user.ID, time.Now().UTC()), apperrors.ErrNotFound)

	req.NoError(store.Create(db, "conv-1", 1, time.Now().UTC()))

	sentAt := time.Now().UTC()
	req.NoError(store.RecordMessage(db, "conv-1", "hi", user.ID, sentAt))
	req.NoError(store.RecordMessage(db, "conv-1", "bye", user.ID, sentAt.Add(time.Minute)))

	summary, err := store.FindByConversationID("conv-1")
	req.NoError(err)
	req.Equal(2, summary.MessageCount)
	req.NotNil(summary.LastMessage)
	req.Equal("bye", *summary.LastMessage)
	req.NotNil(summary.LastMessageUserID)
	req.Equal(user.ID, *summary.LastMessageUserID)
	req.NotNil(summary.LastMessageSentOn)
}
