package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Notice types
const (
	NoticeSeatAvailable = "seat_available"
)

// Notice is a server-to-student push message
type Notice struct {
	Type       string    `json:"type"`
	StudentID  int64     `json:"studentId"`
	CourseID   int64     `json:"courseId"`
	CourseName string    `json:"courseName"`
	Timestamp  time.Time `json:"timestamp"`
}

type delivery struct {
	studentIDs []int64
	notice     Notice
}

// Hub tracks connected students and delivers notices to their sockets.
// A student may hold several connections (tabs); each receives every notice.
type Hub struct {
	clients map[int64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	deliver    chan delivery
	done       chan struct{}

	// guards reads of clients from outside Run
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliver:    make(chan delivery, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and deliveries until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case d := <-h.deliver:
			h.deliverNotice(d)
		}
	}
}

// attach hands a client to the hub, reporting false once the hub has stopped
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// detach removes a client; it is a no-op once the hub has stopped
func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.studentID]; !ok {
		h.clients[client.studentID] = make(map[*Client]bool)
	}
	h.clients[client.studentID][client] = true

	h.logger.Debug().Int64("studentID", client.studentID).Msg("Notification client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	conns, ok := h.clients[client.studentID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.studentID)
	}
	h.logger.Debug().Int64("studentID", client.studentID).Msg("Notification client unregistered")
}

func (h *Hub) deliverNotice(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, studentID := range d.studentIDs {
		conns, ok := h.clients[studentID]
		if !ok {
			continue
		}

		n := d.notice
		n.StudentID = studentID
		data, err := json.Marshal(n)
		if err != nil {
			h.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to marshal notice")
			continue
		}

		for client := range conns {
			select {
			case client.send <- data:
			default:
				// slow consumer
				h.removeLocked(client)
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for client := range conns {
			h.removeLocked(client)
		}
	}
}

// Notify queues a notice for every connected socket of the given students.
// Students without a connection are skipped.
func (h *Hub) Notify(studentIDs []int64, notice Notice) {
	if len(studentIDs) == 0 {
		return
	}
	if notice.Timestamp.IsZero() {
		notice.Timestamp = time.Now()
	}
	select {
	case h.deliver <- delivery{studentIDs: studentIDs, notice: notice}:
	default:
		h.logger.Warn().Int("students", len(studentIDs)).Msg("Notification queue full, dropping notice")
	}
}

// ConnectedCount returns the number of open sockets of a student
func (h *Hub) ConnectedCount(studentID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[studentID])
}
