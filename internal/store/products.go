package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oakmere/tally/internal/catalog"
	"github.com/oakmere/tally/internal/flow"
	"go.uber.org/zap"
)

// SearchProducts answers one generation-tagged query. It satisfies
// flow.QueryFunc[catalog.Product] and is wired straight into the products
// page's search coordinator.
func (s *Store) SearchProducts(ctx context.Context, q flow.Query) (flow.Page[catalog.Product], error) {
	var (
		where []string
		args  []any
	)
	if text := strings.TrimSpace(q.Text); text != "" {
		where = append(where, "(name LIKE ? OR sku LIKE ?)")
		pattern := "%" + text + "%"
		args = append(args, pattern, pattern)
	}
	if category := q.Filters["category"]; category != "" {
		where = append(where, "category = ?")
		args = append(args, category)
	}
	if storeID := q.Filters["store_id"]; storeID != "" {
		where = append(where, "store_id = ?")
		args = append(args, storeID)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products"+clause, args...).Scan(&total); err != nil {
		return flow.Page[catalog.Product]{}, fmt.Errorf("count products: %w", err)
	}

	sort := q.Sort.Field
	if !catalog.ProductSortFields[sort] {
		sort = "name"
	}
	dir := "ASC"
	if q.Sort.Desc {
		dir = "DESC"
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = 20
	}
	offset := (page - 1) * size

	cols := "id, sku, name, category, price, stock, min_stock, store_id, created_at, updated_at"
	if q.IncludeImages {
		cols += ", image_path"
	}
	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s %s LIMIT ? OFFSET ?", cols, clause, sort, dir)
	rows, err := s.db.QueryContext(ctx, query, append(args, size, offset)...)
	if err != nil {
		return flow.Page[catalog.Product]{}, fmt.Errorf("search products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []catalog.Product
	for rows.Next() {
		var p catalog.Product
		dest := []any{&p.ID, &p.SKU, &p.Name, &p.Category, &p.Price, &p.Stock, &p.MinStock, &p.StoreID, &p.CreatedAt, &p.UpdatedAt}
		if q.IncludeImages {
			dest = append(dest, &p.ImagePath)
		}
		if err := rows.Scan(dest...); err != nil {
			return flow.Page[catalog.Product]{}, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return flow.Page[catalog.Product]{}, fmt.Errorf("iterate products: %w", err)
	}

	return flow.Page[catalog.Product]{
		Items:      items,
		TotalCount: total,
		HasMore:    offset+len(items) < total,
	}, nil
}

// GetProduct fetches a product by ID.
func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	var p catalog.Product
	err := s.db.QueryRowContext(ctx,
		`SELECT id, sku, name, category, price, stock, min_stock, store_id, image_path, created_at, updated_at
		 FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.SKU, &p.Name, &p.Category, &p.Price, &p.Stock, &p.MinStock, &p.StoreID, &p.ImagePath, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Product{}, ErrNotFound
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// CreateProduct inserts a product, assigning an ID and timestamps if unset.
func (s *Store) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if p.ID == "" {
		p.ID = catalog.NewID()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, sku, name, category, price, stock, min_stock, store_id, image_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.SKU, p.Name, p.Category, p.Price, p.Stock, p.MinStock, p.StoreID, p.ImagePath, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.logger.Info("product created", zap.String("id", p.ID), zap.String("sku", p.SKU))
	return p, nil
}

// UpdateProduct rewrites a product's mutable fields.
func (s *Store) UpdateProduct(ctx context.Context, p catalog.Product) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET sku = ?, name = ?, category = ?, price = ?, stock = ?, min_stock = ?, store_id = ?, image_path = ?, updated_at = ?
		 WHERE id = ?`,
		p.SKU, p.Name, p.Category, p.Price, p.Stock, p.MinStock, p.StoreID, p.ImagePath, time.Now().UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return requireRow(res)
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.logger.Info("product deleted", zap.String("id", id))
	return requireRow(res)
}

// AdjustStock applies a delta to a product's stock and returns the new
// level. A delta that would drive stock negative fails without changes.
func (s *Store) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	var stock int
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = ?`, id).Scan(&stock); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("read stock: %w", err)
		}
		next := stock + delta
		if next < 0 {
			return fmt.Errorf("stock for %s would go negative (%d%+d)", id, stock, delta)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = ?, updated_at = ? WHERE id = ?`,
			next, time.Now().UTC(), id); err != nil {
			return fmt.Errorf("write stock: %w", err)
		}
		stock = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stock, nil
}

// SetStock writes an absolute stock level and returns it. Absolute writes
// are idempotent, which makes them safe under supersession: whichever
// attempt settles last wins, and re-applying the winner changes nothing.
func (s *Store) SetStock(ctx context.Context, id string, target int) (int, error) {
	if target < 0 {
		return 0, fmt.Errorf("stock for %s cannot be negative (%d)", id, target)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET stock = ?, updated_at = ? WHERE id = ?`,
		target, time.Now().UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("set stock: %w", err)
	}
	if err := requireRow(res); err != nil {
		return 0, err
	}
	return target, nil
}

// Categories lists the distinct product categories, for filter menus.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM products WHERE category != '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// requireRow converts a zero-row result into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
