package catalog

import "testing"

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == "" || a == b {
		t.Errorf("NewID() returned %q and %q, want distinct non-empty IDs", a, b)
	}
}

func TestProductLowStock(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		minStock int
		want     bool
	}{
		{"above reorder level", 10, 3, false},
		{"at reorder level", 3, 3, true},
		{"below reorder level", 1, 3, true},
		{"zero stock", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Stock: tt.stock, MinStock: tt.minStock}
			if p.LowStock() != tt.want {
				t.Errorf("LowStock() = %v, want %v", p.LowStock(), tt.want)
			}
		})
	}
}
