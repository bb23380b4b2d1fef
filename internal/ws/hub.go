// Package ws рассылает события изменения каталога подключённым клиентам.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/shotboard/internal/goroutine"
	"github.com/ignatzorin/shotboard/internal/logger"
)

// События, которые получают клиенты.
const (
	EventCatalogUpdated   = "catalog.updated"
	EventTagsUpdated      = "tags.updated"
	EventPlaylistsUpdated = "playlists.updated"
	EventSettingsUpdated  = "settings.updated"
	EventUsersUpdated     = "users.updated"
)

// Hub управляет всеми WebSocket клиентами.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
}

// message адресовано одному пользователю или всем, если email пуст.
type message struct {
	email   string
	payload []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
		done:       make(chan struct{}),
	}
}

// Run запускает главный цикл хаба до отмены контекста.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast отправляет событие всем клиентам.
func (h *Hub) Broadcast(event string, data any) error {
	return h.enqueue("", event, data)
}

// BroadcastToUser отправляет событие всем подключениям пользователя.
func (h *Hub) BroadcastToUser(email, event string, data any) error {
	return h.enqueue(email, event, data)
}

// Clients возвращает число активных подключений.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

func (h *Hub) enqueue(email, event string, data any) error {
	// поле "type" содержит имя события, "data" - полезную нагрузку.
	raw, err := json.Marshal(map[string]any{
		"type": event,
		"data": data,
	})
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	select {
	case h.broadcast <- message{email: email, payload: raw}:
	default:
		logger.Entry(logrus.Fields{"event": event}).Warn("ws: очередь рассылки переполнена, событие пропущено")
	}
	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.email]; !ok {
		h.clients[client.email] = make(map[*Client]struct{})
	}
	h.clients[client.email][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.email]; ok {
		if _, present := clients[client]; present {
			delete(clients, client)
			close(client.send)
		}
		if len(clients) == 0 {
			delete(h.clients, client.email)
		}
	}
}

func (h *Hub) send(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	deliver := func(set map[*Client]struct{}) {
		for client := range set {
			select {
			case client.send <- msg.payload:
			default:
				c := client
				goroutine.SafeGo("ws.close", c.Close)
			}
		}
	}

	if msg.email != "" {
		deliver(h.clients[msg.email])
		return
	}
	for _, set := range h.clients {
		deliver(set)
	}
}
