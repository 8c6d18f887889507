package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/restaurant-orders/models"
	"github.com/yeremiapane/restaurant-orders/utils"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// OrderSummary is what a kitchen screen needs to show an order.
type OrderSummary struct {
	ID                  uint               `json:"id"`
	CustomerName        string             `json:"customerName"`
	SpecialInstructions string             `json:"specialInstructions,omitempty"`
	Status              string             `json:"status"`
	TotalAmount         string             `json:"totalAmount"`
	CreatedAt           string             `json:"createdAt"`
	Items               []OrderSummaryItem `json:"items"`
}

type OrderSummaryItem struct {
	MenuItemName string `json:"menuItemName"`
	Quantity     int    `json:"quantity"`
}

func SummarizeOrder(o *models.Order) OrderSummary {
	items := make([]OrderSummaryItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderSummaryItem{MenuItemName: item.MenuItemName, Quantity: item.Quantity})
	}
	return OrderSummary{
		ID:                  o.ID,
		CustomerName:        o.CustomerName,
		SpecialInstructions: o.SpecialInstructions,
		Status:              o.Status,
		TotalAmount:         o.TotalAmount.StringFixed(2),
		CreatedAt:           utils.FormatLocalDateTime(o.CreatedAt),
		Items:               items,
	}
}

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// EventCounter is notified of every broadcast event.
type EventCounter interface {
	ObserveOrderEvent(event string)
}

const sendBuffer = 32

type client struct {
	conn Conn
	role string
	send chan []byte
}

// Hub holds the connected kitchen, staff and admin screens. Each client has
// its own writer goroutine, so a stalled screen never blocks a broadcast.
type Hub struct {
	logger  *logrus.Logger
	counter EventCounter

	mu      sync.Mutex
	clients map[Conn]*client
}

func NewHub(logger *logrus.Logger, counter EventCounter) *Hub {
	return &Hub{
		logger:  logger,
		counter: counter,
		clients: make(map[Conn]*client),
	}
}

func (h *Hub) entry() *logrus.Entry {
	if h.logger == nil {
		return utils.LoggerFromContext(context.Background())
	}
	return logrus.NewEntry(h.logger)
}

func (h *Hub) Register(conn Conn, role string) {
	c := &client{conn: conn, role: role, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if old, ok := h.clients[conn]; ok {
		close(old.send)
	}
	h.clients[conn] = c
	h.mu.Unlock()
	go h.writeLoop(c)
}

// Unregister stops the client's writer, which closes the connection.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[conn]; ok {
		h.dropLocked(c)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// dropLocked must be called with h.mu held.
func (h *Hub) dropLocked(c *client) {
	if h.clients[c.conn] == c {
		delete(h.clients, c.conn)
		close(c.send)
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.entry().WithError(err).WithField("role", c.role).Warn("Dropping kds client after failed write")
			h.mu.Lock()
			h.dropLocked(c)
			h.mu.Unlock()
			return
		}
	}
}

// PublishOrderEvent broadcasts a summary of order under event.
func (h *Hub) PublishOrderEvent(ctx context.Context, event string, order *models.Order) {
	h.Broadcast(ctx, Message{Event: event, Data: SummarizeOrder(order)})
}

// Broadcast queues msg for every client. Clients whose queue is full are
// dropped.
func (h *Hub) Broadcast(ctx context.Context, msg Message) {
	log := utils.LoggerFromContext(ctx)
	data, err := json.Marshal(msg)
	if err != nil {
		log.WithError(err).Error("Error marshaling kds message")
		return
	}
	if h.counter != nil {
		h.counter.ObserveOrderEvent(msg.Event)
	}

	h.mu.Lock()
	sent := 0
	for _, c := range h.clients {
		select {
		case c.send <- data:
			sent++
		default:
			log.WithField("role", c.role).Warn("Dropping slow kds client")
			h.dropLocked(c)
		}
	}
	h.mu.Unlock()

	log.WithFields(logrus.Fields{"event": msg.Event, "clients": sent}).Debug("Broadcast kds message")
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	n := len(h.clients)
	for _, c := range h.clients {
		h.dropLocked(c)
	}
	h.mu.Unlock()
	if h.logger != nil {
		h.logger.WithField("clients", n).Info("KDS hub closed")
	}
}
