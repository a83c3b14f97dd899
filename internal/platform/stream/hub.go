package stream

import (
	"context"
	"log/slog"
	"sync"

	"parliament/contexts/game-play/game-service/ports"

	"github.com/google/uuid"
)

// Hub is the in-process snapshot fan-out used by the SSE transport. Each
// subscriber owns a buffered channel; publishing never blocks, a full
// channel drops the snapshot for that subscriber only. Subscribers receive
// snapshots published after they join, there is no replay.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan ports.GameSnapshot
	buffer      int
	closed      bool
	logger      *slog.Logger
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 128
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[string]chan ports.GameSnapshot),
		buffer:      buffer,
		logger:      logger,
	}
}

// Publish multicasts the snapshot to every current subscriber, at most once
// each.
func (h *Hub) Publish(snapshot ports.GameSnapshot) {
	h.mu.RLock()
	subs := make(map[string]chan ports.GameSnapshot, len(h.subscribers))
	for id, ch := range h.subscribers {
		subs[id] = ch
	}
	h.mu.RUnlock()

	for id, ch := range subs {
		select {
		case ch <- snapshot:
		default:
			h.logger.Warn("dropping snapshot for slow subscriber",
				"event", "stream_publish_drop",
				"module", "internal/platform/stream",
				"layer", "platform",
				"subscriber_id", id,
				"game_id", snapshot.GameID,
			)
		}
	}
}

// Subscribe registers an observer. The subscription ends when ctx is
// cancelled or the returned cancel function is called, whichever happens
// first; afterwards the channel stops receiving and is eventually garbage
// collected with the subscriber entry removed.
func (h *Hub) Subscribe(ctx context.Context) (<-chan ports.GameSnapshot, func()) {
	id := uuid.NewString()
	ch := make(chan ports.GameSnapshot, h.buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subscribers[id] = ch
	h.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.removeSubscriber(id)
			close(done)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return ch, cancel
}

// SubscriberCount reports the current fan-out set size.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close drops every subscriber. Publishing after Close is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.subscribers = make(map[string]chan ports.GameSnapshot)
}

func (h *Hub) removeSubscriber(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, id)
}

var _ ports.SnapshotPublisher = (*Hub)(nil)
