package events

import "github.com/oakmere/tally/internal/catalog"

// EventType identifies the type of event
type EventType string

const (
	// Product events
	ProductCreatedEvent EventType = "product.created"
	ProductUpdatedEvent EventType = "product.updated"
	ProductDeletedEvent EventType = "product.deleted"
	ProductRestoredEvent EventType = "product.restored"

	// Inventory events
	StockAdjustedEvent EventType = "stock.adjusted"
	StockRevertedEvent EventType = "stock.reverted"

	// Sale events
	SaleRecordedEvent EventType = "sale.recorded"
	SaleFailedEvent   EventType = "sale.failed"
	SaleRefreshEvent  EventType = "sale.refresh"

	// Search events
	SearchUpdatedEvent EventType = "search.updated"

	// UI events
	StatusMessageEvent EventType = "ui.status"
	ErrorMessageEvent  EventType = "ui.error"
	PageChangeEvent    EventType = "ui.page.change"

	// App events
	DebugToggleEvent EventType = "debug.toggle"
)

// Event represents an event in the system
type Event struct {
	Type    EventType
	Payload any
}

// Event payload types

// ProductPayload carries the product a CRUD event refers to.
type ProductPayload struct {
	Product catalog.Product
}

// StockPayload carries a stock movement. Reverted marks the rollback of an
// optimistic adjustment whose operation failed.
type StockPayload struct {
	ProductID string
	Delta     int
	NewStock  int
	Absolute  bool
	Reverted  bool
}

// SalePayload carries a recorded sale.
type SalePayload struct {
	Sale catalog.Sale
}

// StatusMessagePayload carries a transient status bar message.
type StatusMessagePayload struct {
	Message string
	Type    string // "info", "warning", "error", "success"
}

// PageChangePayload asks the root model to switch pages.
type PageChangePayload struct {
	Page string
}
