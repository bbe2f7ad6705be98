package websocket

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"messenger-be/models"
)

// Conn is the slice of the websocket connection the hub needs. The contrib
// *websocket.Conn satisfies it; tests substitute a recording connection.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Client struct {
	UserID uuid.UUID
	Conn   Conn
}

// Event is the frame pushed to connected clients when a conversation they
// belong to receives a message.
type Event struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversation_id"`
	Message        *models.Message `json:"message"`
}

type broadcast struct {
	conversationID string
	message        *models.Message
}

// Hub tracks one live connection per user and fans new-message events out to
// the members of the affected conversation. It satisfies services.Notifier.
type Hub struct {
	db *gorm.DB

	mu      sync.RWMutex
	clients map[uuid.UUID]Conn

	register   chan *Client
	unregister chan *Client
	broadcasts chan broadcast
}

func NewHub(db *gorm.DB) *Hub {
	return &Hub{
		db:         db,
		clients:    make(map[uuid.UUID]Conn),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcasts: make(chan broadcast, 64),
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Notify queues a new-message event for the conversation's members. It never
// blocks the sender: when the queue is full the event is dropped, since the
// push has no delivery guarantee anyway.
func (h *Hub) Notify(conversationID string, message *models.Message) {
	select {
	case h.broadcasts <- broadcast{conversationID: conversationID, message: message}:
	default:
		log.Printf("Notification queue full, dropping event for conversation %s", conversationID)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			log.Printf("Client registered: %s", client.UserID)
			h.mu.Lock()
			h.clients[client.UserID] = client.Conn
			h.mu.Unlock()
		case client := <-h.unregister:
			log.Printf("Client unregistered: %s", client.UserID)
			h.mu.Lock()
			if conn, ok := h.clients[client.UserID]; ok && conn == client.Conn {
				delete(h.clients, client.UserID)
			}
			h.mu.Unlock()
		case b := <-h.broadcasts:
			h.deliver(b)
		}
	}
}

type deliveryTarget struct {
	userID uuid.UUID
	conn   Conn
}

// deliver snapshots the recipients under the read lock and hands each write
// to its own goroutine. No network I/O happens while a lock is held or on the
// hub loop, so one slow client cannot stall registration or delivery to
// anyone else.
func (h *Hub) deliver(b broadcast) {
	var memberIDs []uuid.UUID
	err := h.db.Model(&models.Membership{}).
		Where("conversation_id = ?", b.conversationID).
		Pluck("user_id", &memberIDs).Error
	if err != nil {
		log.Printf("Error fetching member IDs for conversation %s: %v", b.conversationID, err)
		return
	}

	event := Event{Type: "newMessage", ConversationID: b.conversationID, Message: b.message}

	var targets []deliveryTarget
	h.mu.RLock()
	for _, memberID := range memberIDs {
		if memberID == b.message.SenderID {
			continue
		}
		if conn, ok := h.clients[memberID]; ok {
			targets = append(targets, deliveryTarget{userID: memberID, conn: conn})
		}
	}
	h.mu.RUnlock()

	for _, target := range targets {
		go func(target deliveryTarget) {
			if err := target.conn.WriteJSON(event); err != nil {
				log.Printf("Error sending event to client %s: %v", target.userID, err)
				target.conn.Close()
				h.evict(target.userID, target.conn)
			}
		}(target)
	}
}

// evict drops the client only if it still holds the same connection, so a
// client that reconnected meanwhile is left alone.
func (h *Hub) evict(userID uuid.UUID, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[userID]; ok && cur == conn {
		delete(h.clients, userID)
	}
}
