package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oakmere/tally/internal/catalog"
	"github.com/oakmere/tally/internal/flow"
)

// SearchCustomers answers a generation-tagged customer query. Satisfies
// flow.QueryFunc[catalog.Customer].
func (s *Store) SearchCustomers(ctx context.Context, q flow.Query) (flow.Page[catalog.Customer], error) {
	var (
		where []string
		args  []any
	)
	if text := strings.TrimSpace(q.Text); text != "" {
		where = append(where, "(name LIKE ? OR email LIKE ? OR phone LIKE ?)")
		pattern := "%" + text + "%"
		args = append(args, pattern, pattern, pattern)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers"+clause, args...).Scan(&total); err != nil {
		return flow.Page[catalog.Customer]{}, fmt.Errorf("count customers: %w", err)
	}

	sort := q.Sort.Field
	if !catalog.CustomerSortFields[sort] {
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

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, name, email, phone, created_at FROM customers%s ORDER BY %s %s LIMIT ? OFFSET ?", clause, sort, dir),
		append(args, size, offset)...)
	if err != nil {
		return flow.Page[catalog.Customer]{}, fmt.Errorf("search customers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []catalog.Customer
	for rows.Next() {
		var c catalog.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return flow.Page[catalog.Customer]{}, fmt.Errorf("scan customer: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return flow.Page[catalog.Customer]{}, fmt.Errorf("iterate customers: %w", err)
	}

	return flow.Page[catalog.Customer]{
		Items:      items,
		TotalCount: total,
		HasMore:    offset+len(items) < total,
	}, nil
}

// CreateCustomer inserts a customer, assigning an ID if unset.
func (s *Store) CreateCustomer(ctx context.Context, c catalog.Customer) (catalog.Customer, error) {
	if c.ID == "" {
		c.ID = catalog.NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, email, phone, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, c.CreatedAt)
	if err != nil {
		return catalog.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

// DeleteCustomer removes a customer.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return requireRow(res)
}
