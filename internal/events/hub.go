// Package events broadcasts tracker state changes to connected browsers over
// WebSocket.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/ashureev/dsa90/internal/domain"
)

const (
	queueSize    = 32
	writeTimeout = 5 * time.Second
)

// subscriber is one connected client with its own outbound queue so a slow
// client never blocks Publish.
type subscriber struct {
	id     string
	conn   *websocket.Conn
	queue  chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// Hub tracks subscribers and fans events out to them.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*subscriber
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[string]*subscriber),
		logger: logger,
	}
}

// Register adds conn under id and starts its writer. A previous connection
// with the same id is closed.
func (h *Hub) Register(id string, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscriber{
		id:     id,
		conn:   conn,
		queue:  make(chan []byte, queueSize),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	existing, replaced := h.subs[id]
	h.subs[id] = sub
	h.mu.Unlock()

	if replaced && existing.conn != conn {
		existing.cancel()
		_ = existing.conn.Close(websocket.StatusNormalClosure, "subscriber replaced")
	}

	go h.writeLoop(sub)
	h.logger.Info("Event subscriber registered", "subscriber_id", id)
}

// Unregister removes conn if it is still the one registered under id.
func (h *Hub) Unregister(id string, conn *websocket.Conn) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	if !ok || sub.conn != conn {
		h.mu.Unlock()
		return
	}
	delete(h.subs, id)
	h.mu.Unlock()

	sub.cancel()
	<-sub.done
	h.logger.Info("Event subscriber unregistered", "subscriber_id", id)
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish queues e for every subscriber. When a subscriber's queue is full
// its oldest message is dropped.
func (h *Hub) Publish(e domain.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("Failed to encode event", "type", e.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		h.enqueue(sub, data)
	}
}

func (h *Hub) enqueue(sub *subscriber, data []byte) {
	select {
	case sub.queue <- data:
		return
	case <-sub.ctx.Done():
		return
	default:
	}

	h.logger.Warn("Event queue full, dropping oldest", "subscriber_id", sub.id)
	select {
	case <-sub.queue:
	default:
	}
	select {
	case sub.queue <- data:
	default:
		h.logger.Warn("Failed to queue event", "subscriber_id", sub.id)
	}
}

func (h *Hub) writeLoop(sub *subscriber) {
	defer close(sub.done)
	for {
		select {
		case <-sub.ctx.Done():
			return
		case data := <-sub.queue:
			ctx, cancel := context.WithTimeout(sub.ctx, writeTimeout)
			err := sub.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				if sub.ctx.Err() == nil {
					h.logger.Debug("Event write failed", "subscriber_id", sub.id, "error", err)
				}
				return
			}
		}
	}
}

// CloseAll disconnects every subscriber.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	subs := h.subs
	h.subs = make(map[string]*subscriber)
	h.mu.Unlock()

	for id, sub := range subs {
		sub.cancel()
		_ = sub.conn.Close(websocket.StatusGoingAway, "server shutting down")
		h.logger.Info("Event subscriber closed", "subscriber_id", id)
	}
}
