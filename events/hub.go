// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// Event types published by the controllers
const (
	TypeWallet = "wallet"
	TypePolls  = "polls"
	TypeHello  = "hello"
)

// Publisher receives state-change notifications.
type Publisher interface {
	Publish(eventType string, data any)
}

// Event is the JSON envelope written to websocket clients
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
	At   time.Time       `json:"at"`
}

// one client connected via websocket
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.Clients {
				close(c.Send)
				delete(h.Clients, c)
			}
			return

		case client := <-h.Register:
			h.Clients[client] = true

		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}

		case message := <-h.Broadcast:
			for c := range h.Clients {
				select {
				case c.Send <- message:

				default:
					// slow consumer
					close(c.Send)
					delete(h.Clients, c)
				}
			}
		}
	}
}

// Publish never blocks; events are dropped when the broadcast queue is full
func (h *Hub) Publish(eventType string, data any) {
	msg, err := encode(eventType, data)
	if err != nil {
		slog.Error("failed to encode event", "type", eventType, "error", err)
		return
	}

	select {
	case h.Broadcast <- msg:
	default:
		slog.Warn("event queue full, dropping event", "type", eventType)
	}
}

func encode(eventType string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Type: eventType, Data: payload, At: time.Now().UTC()})
}

// ServeWS upgrades the request and streams events until the client leaves
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}

	client := &Client{Hub: h, Conn: conn, Send: make(chan []byte, 16)}
	if hello, err := encode(TypeHello, struct{}{}); err == nil {
		client.Send <- hello
	}
	select {
	case h.Register <- client:
	case <-h.done:
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	go client.WritePump(r.Context())
	client.ReadPump(r.Context())
}

// WritePump sends messages from the hub to the WebSocket connection
func (c *Client) WritePump(ctx context.Context) {
	defer c.Conn.Close(websocket.StatusNormalClosure, "")

	for m := range c.Send {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := c.Conn.Write(writeCtx, websocket.MessageText, m)
		cancel()
		if err != nil {
			slog.Warn("error writing to client", "error", err)
			return
		}
	}
}

// ReadPump discards client messages and unregisters on disconnect
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
	}()

	for {
		_, _, err := c.Conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				slog.Debug("client disconnected normally")
			} else {
				slog.Debug("error reading from client", "error", err)
			}
			return
		}
	}
}
