package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/ashureev/dsa90/internal/domain"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishReachesSubscribers(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(NewHandler(hub, "", true))
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	waitFor(t, func() bool { return hub.Count() == 2 })

	p := domain.Problem{ID: "v1", Title: "Two Sum", Starred: true}
	hub.Publish(domain.Event{Type: domain.EventProblemUpdated, ProblemID: "v1", Problem: &p})

	for _, conn := range []*websocket.Conn{a, b} {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		typ, data, err := conn.Read(ctx)
		cancel()
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if typ != websocket.MessageText {
			t.Fatalf("message type = %v, want text", typ)
		}
		var got domain.Event
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if got.Type != domain.EventProblemUpdated || got.ProblemID != "v1" || got.Problem == nil || !got.Problem.Starred {
			t.Fatalf("unexpected event %+v", got)
		}
	}
}

func TestClientCloseUnregisters(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(NewHandler(hub, "", true))
	defer srv.Close()

	conn := dial(t, srv)
	waitFor(t, func() bool { return hub.Count() == 1 })

	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	waitFor(t, func() bool { return hub.Count() == 0 })

	// Publishing with no subscribers is a no-op.
	hub.Publish(domain.Event{Type: domain.EventProblemsLoaded, Count: 3})
}

func TestOriginRejected(t *testing.T) {
	hub := NewHub(nil)
	h := NewHandler(hub, "https://dsa.example.com", false)

	req := httptest.NewRequest(http.MethodGet, "/ws/events", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCloseAll(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(NewHandler(hub, "*", false))
	defer srv.Close()

	conn := dial(t, srv)
	waitFor(t, func() bool { return hub.Count() == 1 })

	hub.CloseAll()
	if hub.Count() != 0 {
		t.Fatalf("Count = %d after CloseAll", hub.Count())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, _, err := conn.Read(ctx); websocket.CloseStatus(err) != websocket.StatusGoingAway {
		t.Fatalf("expected going-away close, got %v", err)
	}
}

func TestEnqueueDropsOldestWhenFull(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := &subscriber{id: "slow", queue: make(chan []byte, 2), ctx: ctx, cancel: cancel}

	hub.enqueue(sub, []byte("1"))
	hub.enqueue(sub, []byte("2"))
	hub.enqueue(sub, []byte("3"))

	if got := string(<-sub.queue); got != "2" {
		t.Fatalf("oldest kept message = %q, want 2", got)
	}
	if got := string(<-sub.queue); got != "3" {
		t.Fatalf("newest message = %q, want 3", got)
	}
}
