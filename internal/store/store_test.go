package store

import (
	"context"
	"testing"

	"github.com/oakmere/tally/internal/catalog"
	"github.com/oakmere/tally/internal/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedProducts(t *testing.T, s *Store) []catalog.Product {
	t.Helper()
	ctx := context.Background()
	seed := []catalog.Product{
		{SKU: "HAM-001", Name: "Claw Hammer", Category: "tools", Price: 1299, Stock: 12, MinStock: 3},
		{SKU: "SCR-010", Name: "Screwdriver Set", Category: "tools", Price: 2499, Stock: 5, MinStock: 2},
		{SKU: "PNT-100", Name: "Wall Paint 5L", Category: "paint", Price: 3999, Stock: 8, MinStock: 4},
		{SKU: "BRU-020", Name: "Paint Brush", Category: "paint", Price: 499, Stock: 30, MinStock: 10},
	}
	out := make([]catalog.Product, 0, len(seed))
	for _, p := range seed {
		created, err := s.CreateProduct(ctx, p)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestSearchProducts(t *testing.T) {
	s := openTestStore(t)
	seedProducts(t, s)
	ctx := context.Background()

	t.Run("text matches name and sku", func(t *testing.T) {
		page, err := s.SearchProducts(ctx, flow.Query{Text: "paint", PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalCount)

		page, err = s.SearchProducts(ctx, flow.Query{Text: "HAM-", PageSize: 10})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Claw Hammer", page.Items[0].Name)
	})

	t.Run("category filter", func(t *testing.T) {
		page, err := s.SearchProducts(ctx, flow.Query{
			Filters:  map[string]string{"category": "tools"},
			PageSize: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalCount)
		for _, p := range page.Items {
			assert.Equal(t, "tools", p.Category)
		}
	})

	t.Run("sort by price descending", func(t *testing.T) {
		page, err := s.SearchProducts(ctx, flow.Query{
			Sort:     flow.Sort{Field: "price", Desc: true},
			PageSize: 10,
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 4)
		assert.Equal(t, "Wall Paint 5L", page.Items[0].Name)
		assert.Equal(t, "Paint Brush", page.Items[3].Name)
	})

	t.Run("unknown sort field falls back to name", func(t *testing.T) {
		page, err := s.SearchProducts(ctx, flow.Query{
			Sort:     flow.Sort{Field: "price; DROP TABLE products"},
			PageSize: 10,
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 4)
		assert.Equal(t, "Claw Hammer", page.Items[0].Name)
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := s.SearchProducts(ctx, flow.Query{Page: 1, PageSize: 3})
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
		assert.Equal(t, 4, page.TotalCount)
		assert.True(t, page.HasMore)

		page, err = s.SearchProducts(ctx, flow.Query{Page: 2, PageSize: 3})
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
		assert.False(t, page.HasMore)
	})
}

func TestAdjustStock(t *testing.T) {
	s := openTestStore(t)
	products := seedProducts(t, s)
	ctx := context.Background()
	hammer := products[0]

	stock, err := s.AdjustStock(ctx, hammer.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 10, stock)

	stock, err = s.AdjustStock(ctx, hammer.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, stock)

	_, err = s.AdjustStock(ctx, hammer.ID, -100)
	assert.Error(t, err, "driving stock negative must fail")

	got, err := s.GetProduct(ctx, hammer.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Stock, "failed adjustment must not change stock")

	_, err = s.AdjustStock(ctx, "no-such-id", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStock(t *testing.T) {
	s := openTestStore(t)
	products := seedProducts(t, s)
	ctx := context.Background()

	stock, err := s.SetStock(ctx, products[0].ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	// Absolute writes are idempotent.
	stock, err = s.SetStock(ctx, products[0].ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, stock)

	_, err = s.SetStock(ctx, products[0].ID, -1)
	assert.Error(t, err)

	_, err = s.SetStock(ctx, "no-such-id", 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordSale(t *testing.T) {
	s := openTestStore(t)
	products := seedProducts(t, s)
	ctx := context.Background()
	paint := products[2]

	sale, err := s.RecordSale(ctx, catalog.Sale{ProductID: paint.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, paint.Price, sale.UnitPrice, "price captured at sale time")
	assert.Equal(t, paint.Price*3, sale.Total)

	got, err := s.GetProduct(ctx, paint.ID)
	require.NoError(t, err)
	assert.Equal(t, paint.Stock-3, got.Stock)

	_, err = s.RecordSale(ctx, catalog.Sale{ProductID: paint.ID, Quantity: 100})
	assert.Error(t, err, "overselling must fail")
	got, err = s.GetProduct(ctx, paint.ID)
	require.NoError(t, err)
	assert.Equal(t, paint.Stock-3, got.Stock, "failed sale must not change stock")

	sales, err := s.ListSales(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, sale.ID, sales[0].ID)
}

func TestDeleteProduct(t *testing.T) {
	s := openTestStore(t)
	products := seedProducts(t, s)
	ctx := context.Background()

	require.NoError(t, s.DeleteProduct(ctx, products[0].ID))
	_, err := s.GetProduct(ctx, products[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeleteProduct(ctx, products[0].ID), ErrNotFound)
}

func TestCustomers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.CreateCustomer(ctx, catalog.Customer{Name: "Ada Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = s.CreateCustomer(ctx, catalog.Customer{Name: "Alan Turing", Email: "alan@example.com"})
	require.NoError(t, err)

	page, err := s.SearchCustomers(ctx, flow.Query{Text: "ada", PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ada Lovelace", page.Items[0].Name)

	page, err = s.SearchCustomers(ctx, flow.Query{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)
}

func TestCategories(t *testing.T) {
	s := openTestStore(t)
	seedProducts(t, s)

	cats, err := s.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"paint", "tools"}, cats)
}
