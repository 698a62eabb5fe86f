package realtime

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"chundiet-web/internal/notify"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Len() != n {
		if time.Now().After(deadline) {
			t.Fatalf("clients = %d, want %d", h.Len(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return msg
}

func TestHubForwardsQueueEvents(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	q := notify.NewQueue(notify.SystemClock, time.Hour)
	stop := hub.Follow(q)
	defer stop()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	pushed := q.Success("Goals saved <b>now</b>")
	msg := readMessage(t, conn)
	if msg.Type != notify.EventPushed || msg.Notification.ID != pushed.ID {
		t.Fatalf("unexpected pushed message %+v", msg)
	}
	if !strings.Contains(msg.HTML, `data-id="`+pushed.ID+`"`) {
		t.Fatalf("html missing id: %s", msg.HTML)
	}
	if strings.Contains(msg.HTML, "<b>") {
		t.Fatalf("message not escaped: %s", msg.HTML)
	}

	q.Dismiss(pushed.ID)
	msg = readMessage(t, conn)
	if msg.Type != notify.EventDismissed || msg.Notification.ID != pushed.ID || msg.HTML != "" {
		t.Fatalf("unexpected dismissed message %+v", msg)
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)
	_ = conn.Close()
	waitForClients(t, hub, 0)
}
