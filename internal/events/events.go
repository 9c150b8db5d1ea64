// Package events fans stock and sale notifications out to live subscribers.
package events

import (
	"context"
	"time"
)

const (
	ProductCreated = "product_created"
	ProductUpdated = "product_updated"
	ProductDeleted = "product_deleted"
	StockChanged   = "stock_changed"
	LowStock       = "low_stock"
	SaleCompleted  = "sale_completed"
)

// Event is the payload pushed to websocket clients and redis channels.
type Event struct {
	Event     string                 `json:"event"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

func New(kind string, data map[string]interface{}) Event {
	return Event{Event: kind, Data: data, Timestamp: time.Now().UTC()}
}

// Publisher delivers events best-effort. Delivery failures are logged by the
// implementation and never reach the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Multi publishes to every publisher in order.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, event)
		}
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
