package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func receive(t *testing.T, ch <-chan []byte) Notice {
	t.Helper()
	select {
	case data := <-ch:
		var n Notice
		if err := json.Unmarshal(data, &n); err != nil {
			t.Fatalf("failed to decode notice: %v", err)
		}
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notice")
	}
	return Notice{}
}

func TestHubDeliversOnlyToAddressedStudents(t *testing.T) {
	hub := startHub(t)

	alice := &Client{hub: hub, send: make(chan []byte, 4), studentID: 1}
	bob := &Client{hub: hub, send: make(chan []byte, 4), studentID: 2}
	hub.register <- alice
	hub.register <- bob

	hub.Notify([]int64{1}, Notice{Type: NoticeSeatAvailable, CourseID: 9, CourseName: "Databases"})

	n := receive(t, alice.send)
	if n.Type != NoticeSeatAvailable || n.CourseID != 9 || n.StudentID != 1 {
		t.Fatalf("unexpected notice: %+v", n)
	}

	select {
	case <-bob.send:
		t.Fatal("bob should not receive alice's notice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSend(t *testing.T) {
	hub := startHub(t)

	c := &Client{hub: hub, send: make(chan []byte, 1), studentID: 3}
	hub.register <- c
	hub.unregister <- c
	hub.unregister <- c // second unregister is a no-op

	if _, ok := <-c.send; ok {
		t.Fatal("expected send channel to be closed")
	}
	if hub.ConnectedCount(3) != 0 {
		t.Fatalf("expected no connections, got %d", hub.ConnectedCount(3))
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	data, err := encodeEnvelope([]int64{4, 5}, Notice{Type: NoticeSeatAvailable, CourseID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids, notice, err := decodeEnvelope(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || notice.CourseID != 2 {
		t.Fatalf("unexpected envelope: %v %+v", ids, notice)
	}

	if _, _, err := decodeEnvelope([]byte(`{"studentIds":[1]}`)); err == nil {
		t.Fatal("expected error for notice without type")
	}
}

func TestHandlerPushesNoticeOverSocket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)
	handler := NewHandler(hub, zerolog.Nop())

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) {
		c.Set(StudentIDKey, int64(7))
		handler.HandleConnection(c)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectedCount(7) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Notify([]int64{7}, Notice{Type: NoticeSeatAvailable, CourseID: 11, CourseName: "Compilers"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var n Notice
	if err := conn.ReadJSON(&n); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if n.CourseID != 11 || n.CourseName != "Compilers" {
		t.Fatalf("unexpected notice: %+v", n)
	}
}

func TestHandlerRejectsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(startHub(t), zerolog.Nop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ws", nil)
	handler.HandleConnection(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
