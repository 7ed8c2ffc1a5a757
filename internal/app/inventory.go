package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oakmere/tally/internal/catalog"
	"github.com/oakmere/tally/internal/flow"
	"github.com/oakmere/tally/internal/store"
	"github.com/oakmere/tally/internal/tui/events"
	"go.uber.org/zap"
)

// InventoryService fronts every write to the catalog with an optimistic
// mutation coordinator. The UI sees the effect of a write immediately via
// broker events; the coordinator settles it against the store and publishes
// a revert event if the write fails.
//
// Coordinators are per product and per concern: rapid +/- presses on one
// product supersede each other, while writes to different products run
// independently. Stock writes go through store.SetStock with an absolute
// target, so whichever attempt settles last leaves the store agreeing with
// what the user saw.
type InventoryService struct {
	store   *store.Store
	broker  *events.Broker
	obs     flow.Observer
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	stock   map[string]*flow.Mutation[int]
	deletes map[string]*flow.Mutation[struct{}]
	sales   map[string]*flow.Mutation[catalog.Sale]
}

// NewInventoryService creates the service. obs may be nil.
func NewInventoryService(st *store.Store, broker *events.Broker, obs flow.Observer, logger *zap.Logger, timeout time.Duration) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		store:   st,
		broker:  broker,
		obs:     obs,
		logger:  logger,
		timeout: timeout,
		stock:   make(map[string]*flow.Mutation[int]),
		deletes: make(map[string]*flow.Mutation[struct{}]),
		sales:   make(map[string]*flow.Mutation[catalog.Sale]),
	}
}

// AdjustStock optimistically moves a product's stock by delta, settling
// against an absolute write of the target level. It blocks until the
// attempt settles; the TUI runs it inside a tea.Cmd.
//
// product carries the stock level currently presented to the user, so the
// target is computed against what they see, not against a re-read.
func (s *InventoryService) AdjustStock(ctx context.Context, product catalog.Product, delta int) (int, error) {
	target := product.Stock + delta
	if target < 0 {
		return 0, fmt.Errorf("stock for %s cannot go below zero", product.Name)
	}
	m := s.stockMutation(product.ID)
	return m.Execute(ctx, flow.Attempt[int]{
		Description: fmt.Sprintf("stock %s %+d", product.SKU, delta),
		Timeout:     s.timeout,
		Apply: func() {
			s.broker.Publish(events.Event{Type: events.StockAdjustedEvent, Payload: events.StockPayload{
				ProductID: product.ID,
				Delta:     delta,
				NewStock:  target,
			}})
		},
		Operation: func(ctx context.Context) (int, error) {
			return s.store.SetStock(ctx, product.ID, target)
		},
		OnSuccess: func(settled int) {
			// Authoritative absolute level. Heals any transient clobber from
			// an overlapping attempt's optimistic event.
			s.broker.Publish(events.Event{Type: events.StockAdjustedEvent, Payload: events.StockPayload{
				ProductID: product.ID,
				NewStock:  settled,
				Absolute:  true,
			}})
		},
		Revert: func() {
			s.broker.Publish(events.Event{Type: events.StockRevertedEvent, Payload: events.StockPayload{
				ProductID: product.ID,
				Delta:     -delta,
				NewStock:  product.Stock,
				Reverted:  true,
			}})
		},
		OnError: func(err error) {
			s.publishError(fmt.Sprintf("Stock update for %s failed: %v", product.Name, err))
		},
	})
}

// DeleteProduct optimistically removes a product from view, restoring it if
// the delete fails.
func (s *InventoryService) DeleteProduct(ctx context.Context, product catalog.Product) error {
	m := s.deleteMutation(product.ID)
	_, err := m.Execute(ctx, flow.Attempt[struct{}]{
		Description: "delete " + product.SKU,
		Timeout:     s.timeout,
		Apply: func() {
			s.broker.Publish(events.Event{Type: events.ProductDeletedEvent, Payload: events.ProductPayload{Product: product}})
		},
		Operation: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.store.DeleteProduct(ctx, product.ID)
		},
		Revert: func() {
			s.broker.Publish(events.Event{Type: events.ProductRestoredEvent, Payload: events.ProductPayload{Product: product}})
		},
		OnError: func(err error) {
			s.publishError(fmt.Sprintf("Could not delete %s: %v", product.Name, err))
		},
	})
	return err
}

// Sell optimistically records a sale of quantity units, decrementing the
// presented stock up front. The store enforces the real availability check
// inside the sale transaction.
func (s *InventoryService) Sell(ctx context.Context, product catalog.Product, quantity int) (catalog.Sale, error) {
	if quantity < 1 {
		return catalog.Sale{}, fmt.Errorf("sale quantity must be positive")
	}
	m := s.saleMutation(product.ID)
	return m.Execute(ctx, flow.Attempt[catalog.Sale]{
		Description: fmt.Sprintf("sell %dx %s", quantity, product.SKU),
		Timeout:     s.timeout,
		Apply: func() {
			s.broker.Publish(events.Event{Type: events.StockAdjustedEvent, Payload: events.StockPayload{
				ProductID: product.ID,
				Delta:     -quantity,
				NewStock:  product.Stock - quantity,
			}})
		},
		Operation: func(ctx context.Context) (catalog.Sale, error) {
			return s.store.RecordSale(ctx, catalog.Sale{ProductID: product.ID, Quantity: quantity})
		},
		OnSuccess: func(sale catalog.Sale) {
			s.broker.Publish(events.Event{Type: events.SaleRecordedEvent, Payload: events.SalePayload{Sale: sale}})
		},
		Revert: func() {
			s.broker.Publish(events.Event{Type: events.StockRevertedEvent, Payload: events.StockPayload{
				ProductID: product.ID,
				Delta:     quantity,
				NewStock:  product.Stock,
				Reverted:  true,
			}})
		},
		OnError: func(err error) {
			s.broker.Publish(events.Event{Type: events.SaleFailedEvent, Payload: events.StatusMessagePayload{
				Message: fmt.Sprintf("Sale of %s failed: %v", product.Name, err),
				Type:    "error",
			}})
		},
	})
}

// CreateProduct writes a product and announces it. Creation is not
// optimistic; there is nothing on screen to update before the row exists.
func (s *InventoryService) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	created, err := s.store.CreateProduct(ctx, p)
	if err != nil {
		return catalog.Product{}, err
	}
	s.broker.Publish(events.Event{Type: events.ProductCreatedEvent, Payload: events.ProductPayload{Product: created}})
	return created, nil
}

// CreateCustomer writes a customer record.
func (s *InventoryService) CreateCustomer(ctx context.Context, c catalog.Customer) (catalog.Customer, error) {
	return s.store.CreateCustomer(ctx, c)
}

// StockPending reports whether an optimistic stock level for the product is
// still unsettled.
func (s *InventoryService) StockPending(productID string) bool {
	s.mu.Lock()
	m := s.stock[productID]
	s.mu.Unlock()
	return m != nil && m.IsOptimistic()
}

// Stop aborts every outstanding attempt. In-flight operations revert
// themselves silently as they settle.
func (s *InventoryService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.stock {
		m.Stop()
	}
	for _, m := range s.deletes {
		m.Stop()
	}
	for _, m := range s.sales {
		m.Stop()
	}
}

func (s *InventoryService) stockMutation(productID string) *flow.Mutation[int] {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.stock[productID]
	if !ok {
		m = flow.NewMutation[int](s.obs)
		s.stock[productID] = m
	}
	return m
}

func (s *InventoryService) deleteMutation(productID string) *flow.Mutation[struct{}] {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.deletes[productID]
	if !ok {
		m = flow.NewMutation[struct{}](s.obs)
		s.deletes[productID] = m
	}
	return m
}

func (s *InventoryService) saleMutation(productID string) *flow.Mutation[catalog.Sale] {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.sales[productID]
	if !ok {
		m = flow.NewMutation[catalog.Sale](s.obs)
		s.sales[productID] = m
	}
	return m
}

func (s *InventoryService) publishError(msg string) {
	s.logger.Warn(msg)
	s.broker.Publish(events.Event{Type: events.ErrorMessageEvent, Payload: events.StatusMessagePayload{
		Message: msg,
		Type:    "error",
	}})
}
