// Package catalog defines the retail domain entities and the query
// vocabulary shared by the store and the UI.
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh entity ID.
func NewID() string {
	return uuid.NewString()
}

// Product is a sellable item. Prices are in cents.
type Product struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	MinStock  int       `json:"min_stock"`
	StoreID   string    `json:"store_id"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LowStock reports whether the product is at or below its reorder level.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

// Customer is a registered buyer.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Employee works at a store.
type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	StoreID   string    `json:"store_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a physical retail location.
type Store struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Sale records one sold line: product, quantity, price at sale time.
type Sale struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	CustomerID string    `json:"customer_id,omitempty"`
	StoreID    string    `json:"store_id,omitempty"`
	Quantity   int       `json:"quantity"`
	UnitPrice  int64     `json:"unit_price"`
	Total      int64     `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProductSortFields whitelists sortable product columns. Anything else
// falls back to name.
var ProductSortFields = map[string]bool{
	"name":       true,
	"sku":        true,
	"category":   true,
	"price":      true,
	"stock":      true,
	"created_at": true,
}

// CustomerSortFields whitelists sortable customer columns.
var CustomerSortFields = map[string]bool{
	"name":       true,
	"email":      true,
	"created_at": true,
}
