package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// StudentIDKey is the gin context key holding the authenticated student ID
const StudentIDKey = "studentID"

// Handler upgrades student requests to notification sockets
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// HandleConnection godoc
// @Summary Subscribe to seat-availability notices
// @Description Upgrades to a WebSocket that receives {"type":"seat_available"} messages
// @Tags notifications
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/student/notifications/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	studentID := c.GetInt64(StudentIDKey)
	if studentID <= 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 16),
		studentID: studentID,
		logger:    h.logger,
	}
	if !h.hub.attach(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("studentID", studentID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Notification socket established")
}
