package websocket

import (
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
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
	require.NoError(t, db.AutoMigrate(&models.Membership{}))
	return db
}

// fakeConn records delivered events. When block is non-nil, WriteJSON parks
// until the channel is closed, simulating a stalled client.
type fakeConn struct {
	events chan Event
	block  chan struct{}
	fail   bool
	closed atomic.Bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{events: make(chan Event, 8)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.block != nil {
		<-c.block
	}
	if c.fail {
		return errors.New("broken pipe")
	}
	if event, ok := v.(Event); ok {
		c.events <- event
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.closed.Store(true)
	return nil
}

func addMembers(t *testing.T, db *gorm.DB, conversationID string, userIDs ...uuid.UUID) {
	t.Helper()
	for _, userID := range userIDs {
		require.NoError(t, db.Create(&models.Membership{
			ConversationID: conversationID,
			UserID:         userID,
			JoinedAt:       time.Now().UTC(),
		}).Error)
	}
}

func waitForEvent(t *testing.T, conn *fakeConn) Event {
	t.Helper()
	select {
	case event := <-conn.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func Test_Notify_Delivers_To_Members_Except_The_Sender(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	alice, bob := uuid.New(), uuid.New()
	addMembers(t, db, "conv-1", alice, bob)

	hub := NewHub(db)
	go hub.Run()

	aliceConn, bobConn := newFakeConn(), newFakeConn()
	hub.Register(&Client{UserID: alice, Conn: aliceConn})
	hub.Register(&Client{UserID: bob, Conn: bobConn})

	msg := &models.Message{ID: 1, ConversationID: "conv-1", SenderID: alice, Content: "hi"}
	hub.Notify("conv-1", msg)

	event := waitForEvent(t, bobConn)
	req.Equal("newMessage", event.Type)
	req.Equal("conv-1", event.ConversationID)
	req.Equal("hi", event.Message.Content)

	select {
	case <-aliceConn.events:
		t.Fatal("sender must not receive its own message")
	case <-time.After(100 * time.Millisecond):
	}
}

func Test_Slow_Client_Does_Not_Stall_The_Hub(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	addMembers(t, db, "conv-1", alice, bob, carol)

	hub := NewHub(db)
	go hub.Run()

	stuck := &fakeConn{events: make(chan Event, 8), block: make(chan struct{})}
	defer close(stuck.block)
	carolConn := newFakeConn()
	hub.Register(&Client{UserID: bob, Conn: stuck})
	hub.Register(&Client{UserID: carol, Conn: carolConn})

	msg := &models.Message{ID: 1, ConversationID: "conv-1", SenderID: alice, Content: "hi"}
	hub.Notify("conv-1", msg)

	// Carol gets her event while bob's connection is still wedged mid-write.
	event := waitForEvent(t, carolConn)
	req.Equal("hi", event.Message.Content)

	// And the hub loop is still serving registrations.
	registered := make(chan struct{})
	go func() {
		hub.Register(&Client{UserID: uuid.New(), Conn: newFakeConn()})
		close(registered)
	}()
	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("hub loop stalled behind a slow client write")
	}
}

func Test_Failed_Write_Evicts_Only_The_Same_Connection(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	alice, bob := uuid.New(), uuid.New()
	addMembers(t, db, "conv-1", alice, bob)

	hub := NewHub(db)
	go hub.Run()

	broken := &fakeConn{events: make(chan Event, 8), fail: true}
	hub.Register(&Client{UserID: bob, Conn: broken})

	hub.Notify("conv-1", &models.Message{ID: 1, ConversationID: "conv-1", SenderID: alice, Content: "hi"})

	req.Eventually(func() bool {
		return broken.closed.Load()
	}, 2*time.Second, 10*time.Millisecond)

	req.Eventually(func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clients[bob]
		return !ok
	}, 2*time.Second, 10*time.Millisecond)

	// A reconnect under the same user id must survive a late eviction of the
	// old connection.
	fresh := newFakeConn()
	hub.Register(&Client{UserID: bob, Conn: fresh})
	hub.evict(bob, broken)

	hub.mu.RLock()
	current, ok := hub.clients[bob]
	hub.mu.RUnlock()
	req.True(ok)
	req.Equal(Conn(fresh), current)
}
