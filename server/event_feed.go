package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/logger"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// EventFeed relays every appended domain event to connected websocket
// clients. A slow client that overflows the buffer is dropped rather than
// blocking the append path.
type EventFeed struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	broadcast chan eventEnvelope
}

// NewEventFeed creates the feed and subscribes it to the whole event
// stream.
func NewEventFeed(store *eventstore.Store) *EventFeed {
	feed := &EventFeed{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan eventEnvelope, 256),
	}
	store.SubscribeAll(func(event model.Event) error {
		select {
		case feed.broadcast <- eventEnvelope{Type: event.Type(), Event: event}:
		default:
			logger.Warn("event feed buffer full, dropping event",
				logger.String("eventType", string(event.Type())),
			)
		}
		return nil
	})
	return feed
}

// Run pumps broadcast events to clients until the context is cancelled.
func (f *EventFeed) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			f.closeAll()
			return
		case envelope := <-f.broadcast:
			data, err := json.Marshal(envelope)
			if err != nil {
				logger.Error("failed to marshal event for feed", logger.ErrorField(err))
				continue
			}
			f.send(data)
		}
	}
}

func (f *EventFeed) send(data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Warn("dropping event feed client", logger.ErrorField(err))
			conn.Close()
			delete(f.clients, conn)
		}
	}
}

func (f *EventFeed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		conn.Close()
		delete(f.clients, conn)
	}
}

// Handle upgrades the request and registers the client.
func (f *EventFeed) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()
	logger.Info("event feed client connected", logger.String("remote", conn.RemoteAddr().String()))

	// Drain reads so pings and close frames are processed; unregister when
	// the client goes away.
	go func() {
		defer func() {
			f.mu.Lock()
			delete(f.clients, conn)
			f.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
