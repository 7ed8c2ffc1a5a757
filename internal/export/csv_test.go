package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/oakmere/tally/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1299, "12.99"},
		{100000, "1000.00"},
		{-250, "-2.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.cents))
	}
}

func TestProductsCSV(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := Products(&buf, []catalog.Product{
		{SKU: "HAM-001", Name: "Claw Hammer, 16oz", Category: "tools", Price: 1299, Stock: 12, MinStock: 3, CreatedAt: created},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"sku", "name", "category", "price", "stock", "min_stock", "store_id", "created_at"}, records[0])
	assert.Equal(t, []string{"HAM-001", "Claw Hammer, 16oz", "tools", "12.99", "12", "3", "", "2026-03-14 09:30:00"}, records[1])
}

func TestSalesCSV(t *testing.T) {
	var buf bytes.Buffer
	err := Sales(&buf, []catalog.Sale{
		{ID: "s1", ProductID: "p1", Quantity: 2, UnitPrice: 500, Total: 1000},
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "5.00", records[1][3])
	assert.Equal(t, "10.00", records[1][4])
}
