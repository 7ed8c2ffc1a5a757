package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oakmere/tally/internal/catalog"
	"go.uber.org/zap"
)

// RecordSale inserts a sale and decrements the product's stock in one
// transaction. The price is read from the product at sale time unless the
// sale carries one.
func (s *Store) RecordSale(ctx context.Context, sale catalog.Sale) (catalog.Sale, error) {
	if sale.ID == "" {
		sale.ID = catalog.NewID()
	}
	if sale.Quantity <= 0 {
		return catalog.Sale{}, fmt.Errorf("sale quantity must be positive, got %d", sale.Quantity)
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var stock int
		var price int64
		err := tx.QueryRowContext(ctx,
			`SELECT stock, price FROM products WHERE id = ?`, sale.ProductID).Scan(&stock, &price)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read product: %w", err)
		}
		if stock < sale.Quantity {
			return fmt.Errorf("insufficient stock: have %d, selling %d", stock, sale.Quantity)
		}
		if sale.UnitPrice == 0 {
			sale.UnitPrice = price
		}
		sale.Total = sale.UnitPrice * int64(sale.Quantity)

		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - ?, updated_at = ? WHERE id = ?`,
			sale.Quantity, time.Now().UTC(), sale.ProductID); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sales (id, product_id, customer_id, store_id, quantity, unit_price, total, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sale.ID, sale.ProductID, sale.CustomerID, sale.StoreID, sale.Quantity, sale.UnitPrice, sale.Total, sale.CreatedAt); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return catalog.Sale{}, err
	}
	s.logger.Info("sale recorded",
		zap.String("id", sale.ID),
		zap.String("product", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.Int64("total", sale.Total))
	return sale, nil
}

// ListSales returns the most recent sales, newest first.
func (s *Store) ListSales(ctx context.Context, limit int) ([]catalog.Sale, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, customer_id, store_id, quantity, unit_price, total, created_at
		 FROM sales ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.Sale
	for rows.Next() {
		var sale catalog.Sale
		if err := rows.Scan(&sale.ID, &sale.ProductID, &sale.CustomerID, &sale.StoreID,
			&sale.Quantity, &sale.UnitPrice, &sale.Total, &sale.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}
