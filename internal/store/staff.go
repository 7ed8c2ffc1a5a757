package store

import (
	"context"
	"fmt"
	"time"

	"github.com/oakmere/tally/internal/catalog"
)

// ListEmployees returns employees, optionally filtered to one store.
func (s *Store) ListEmployees(ctx context.Context, storeID string) ([]catalog.Employee, error) {
	query := `SELECT id, name, role, store_id, created_at FROM employees`
	var args []any
	if storeID != "" {
		query += ` WHERE store_id = ?`
		args = append(args, storeID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.Employee
	for rows.Next() {
		var e catalog.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Role, &e.StoreID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateEmployee inserts an employee.
func (s *Store) CreateEmployee(ctx context.Context, e catalog.Employee) (catalog.Employee, error) {
	if e.ID == "" {
		e.ID = catalog.NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, role, store_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Role, e.StoreID, e.CreatedAt)
	if err != nil {
		return catalog.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return e, nil
}

// DeleteEmployee removes an employee.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return requireRow(res)
}

// ListStores returns all retail locations.
func (s *Store) ListStores(ctx context.Context) ([]catalog.Store, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, address, created_at FROM stores ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []catalog.Store
	for rows.Next() {
		var st catalog.Store
		if err := rows.Scan(&st.ID, &st.Name, &st.Address, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// CreateStore inserts a retail location.
func (s *Store) CreateStore(ctx context.Context, st catalog.Store) (catalog.Store, error) {
	if st.ID == "" {
		st.ID = catalog.NewID()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stores (id, name, address, created_at) VALUES (?, ?, ?, ?)`,
		st.ID, st.Name, st.Address, st.CreatedAt)
	if err != nil {
		return catalog.Store{}, fmt.Errorf("create store: %w", err)
	}
	return st, nil
}
