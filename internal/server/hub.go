package server

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/skovsen/monipoll"
)

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans snapshots out to every connected display.
type Hub struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
	log  log.FieldLogger
}

// NewHub returns an empty hub.
func NewHub(logger log.FieldLogger) *Hub {
	return &Hub{subs: make(map[*subscriber]struct{}), log: logger}
}

func (h *Hub) subscribe(conn *websocket.Conn) *subscriber {
	sub := &subscriber{conn: conn}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	h.log.WithFields(log.Fields{"remote": conn.RemoteAddr().String(), "subscribers": n}).Info("Display connected")
	return sub
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	n := len(h.subs)
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
		h.log.WithField("subscribers", n).Info("Display disconnected")
	}
}

// Subscribers returns the number of connected displays.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast sends the snapshot to every subscriber, dropping the ones that fail.
func (h *Hub) Broadcast(snap monipoll.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal snapshot")
		return
	}

	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		if err := sub.write(data); err != nil {
			h.log.WithError(err).Debug("Dropping display")
			h.unsubscribe(sub)
		}
	}
}
