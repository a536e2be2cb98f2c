// Package sse delivers server-push messages (loadout snapshots, replay
// events, denials) to connected clients over Server-Sent Events. Each account
// holds at most one connection; targeted sends name the receiving accounts.
package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents an event sent over SSE
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client represents a connected SSE client, bound to one account.
type Client struct {
	ID           string
	Account      string
	EventChannel chan Event
}

// targeted pairs an event with the accounts that should receive it.
type targeted struct {
	accounts []string
	event    Event
}

// Hub manages SSE client connections and targeted event delivery. A single
// run loop serializes delivery, so two events queued in order reach each
// shared recipient in that order; per-client channels are FIFO. Sends into a
// full client buffer are dropped rather than allowed to stall the loop.
type Hub struct {
	clients    map[string]*Client // keyed by account
	send       chan targeted
	register   chan *Client
	unregister chan string // account
	mu         sync.RWMutex
	shutdown   chan struct{}
	wg         sync.WaitGroup
}

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		send:       make(chan targeted, SendBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start starts the hub's delivery loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	close(h.shutdown)
	h.wg.Wait()

	h.mu.Lock()
	for _, client := range h.clients {
		close(client.EventChannel)
	}
	h.clients = make(map[string]*Client)
	h.mu.Unlock()
}

// run is the main delivery loop
func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if existing, ok := h.clients[client.Account]; ok {
				// A reconnect replaces the stale connection.
				close(existing.EventChannel)
			}
			h.clients[client.Account] = client
			h.mu.Unlock()

		case account := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[account]; ok {
				close(client.EventChannel)
				delete(h.clients, account)
			}
			h.mu.Unlock()

		case msg := <-h.send:
			h.mu.RLock()
			for _, account := range msg.accounts {
				client, ok := h.clients[account]
				if !ok {
					continue
				}
				// Non-blocking send
				select {
				case client.EventChannel <- msg.event:
				default:
					slog.Warn(LogMsgSendBufferFull, "account", account, "type", msg.event.Type)
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

// Register adds a connection for an account to the hub
func (h *Hub) Register(account string) *Client {
	client := &Client{
		ID:           uuid.New().String(),
		Account:      account,
		EventChannel: make(chan Event, ClientEventBuffer),
	}
	h.register <- client
	return client
}

// Unregister removes an account's connection from the hub
func (h *Hub) Unregister(account string) {
	select {
	case h.unregister <- account:
	case <-h.shutdown:
	}
}

// Send queues an event for the named accounts. Fire-and-forget: a full hub
// buffer drops the event rather than block the caller, which may hold a
// per-account lock.
func (h *Hub) Send(accounts []string, eventType string, payload interface{}) {
	if len(accounts) == 0 {
		return
	}
	msg := targeted{
		accounts: accounts,
		event: Event{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now().Unix(),
			Payload:   payload,
		},
	}
	select {
	case h.send <- msg:
	default:
		slog.Warn(LogMsgSendBufferFull, "type", eventType)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// FormatSSEMessage renders an event in text/event-stream framing.
func FormatSSEMessage(event Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, data)), nil
}
