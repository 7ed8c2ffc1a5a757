// Package export renders catalog listings as CSV for spreadsheets and
// hand-off to other tools.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/oakmere/tally/internal/catalog"
)

const timeLayout = "2006-01-02 15:04:05"

// Products writes a product listing as CSV.
func Products(w io.Writer, products []catalog.Product) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"sku", "name", "category", "price", "stock", "min_stock", "store_id", "created_at"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range products {
		record := []string{
			p.SKU,
			p.Name,
			p.Category,
			Money(p.Price),
			fmt.Sprintf("%d", p.Stock),
			fmt.Sprintf("%d", p.MinStock),
			p.StoreID,
			formatTime(p.CreatedAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write product %s: %w", p.SKU, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Customers writes a customer listing as CSV.
func Customers(w io.Writer, customers []catalog.Customer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "email", "phone", "created_at"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range customers {
		if err := cw.Write([]string{c.Name, c.Email, c.Phone, formatTime(c.CreatedAt)}); err != nil {
			return fmt.Errorf("write customer %s: %w", c.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Sales writes a sales listing as CSV.
func Sales(w io.Writer, sales []catalog.Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"product_id", "customer_id", "quantity", "unit_price", "total", "created_at"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range sales {
		record := []string{
			s.ProductID,
			s.CustomerID,
			fmt.Sprintf("%d", s.Quantity),
			Money(s.UnitPrice),
			Money(s.Total),
			formatTime(s.CreatedAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write sale %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Money renders cents as a decimal amount, e.g. 1299 -> "12.99".
func Money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
