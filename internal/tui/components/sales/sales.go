// Package sales implements the sales history page: recent sales newest
// first, updated live as sales are recorded.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oakmere/tally/internal/app"
	"github.com/oakmere/tally/internal/catalog"
	"github.com/oakmere/tally/internal/export"
	"github.com/oakmere/tally/internal/flow"
	"github.com/oakmere/tally/internal/tui/events"
	"github.com/oakmere/tally/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

const (
	historyLimit = 50

	// refreshInterval rate-limits manual refreshes; holding the key reloads
	// at most this often.
	refreshInterval = 2 * time.Second
)

// Model is the sales page.
type Model struct {
	width  int
	height int

	app     *app.App
	refresh *flow.Throttler[struct{}]

	sales []catalog.Sale
	names map[string]string // product ID -> name
	err   error
}

// loadedMsg delivers the sales history.
type loadedMsg struct {
	sales []catalog.Sale
	names map[string]string
	err   error
}

// New creates the page. Refresh requests go through a throttler whose
// emissions come back to the page as SaleRefreshEvent via the broker.
func New(a *app.App, broker *events.Broker) *Model {
	m := &Model{app: a, names: make(map[string]string)}
	m.refresh = flow.NewThrottler(struct{}{}, refreshInterval, func(struct{}) {
		broker.Publish(events.Event{Type: events.SaleRefreshEvent})
	})
	return m
}

// Init loads the history.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// load fetches recent sales and resolves product names for display.
func (m *Model) load() tea.Cmd {
	st := m.app.Store
	return func() tea.Msg {
		ctx := context.Background()
		sales, err := st.ListSales(ctx, historyLimit)
		if err != nil {
			return loadedMsg{err: err}
		}
		names := make(map[string]string)
		for _, sale := range sales {
			if _, ok := names[sale.ProductID]; ok {
				continue
			}
			if p, err := st.GetProduct(ctx, sale.ProductID); err == nil {
				names[sale.ProductID] = p.Name
			}
		}
		return loadedMsg{sales: sales, names: names}
	}
}

// Update handles page messages.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.sales = msg.sales
			m.names = msg.names
		}
	case tea.KeyPressMsg:
		if msg.String() == "r" {
			m.refresh.Set(struct{}{})
		}
	}
	return nil
}

// Reload re-fetches the history. The root model calls it when a throttled
// refresh emission arrives.
func (m *Model) Reload() tea.Cmd {
	return m.load()
}

// Stop cancels any pending throttled refresh.
func (m *Model) Stop() {
	m.refresh.Stop()
}

// Record prepends a freshly recorded sale without a round trip.
func (m *Model) Record(sale catalog.Sale, productName string) {
	m.sales = append([]catalog.Sale{sale}, m.sales...)
	if len(m.sales) > historyLimit {
		m.sales = m.sales[:historyLimit]
	}
	if productName != "" {
		m.names[sale.ProductID] = productName
	}
}

// SetSize sets the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// View renders the page.
func (m *Model) View() string {
	theme := styles.CurrentTheme()
	headerStyle := lipgloss.NewStyle().Foreground(theme.FgMuted).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(theme.FgBase)
	muted := lipgloss.NewStyle().Foreground(theme.FgMuted)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-16s %-28s %5s %10s %10s", "TIME", "PRODUCT", "QTY", "UNIT", "TOTAL")))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  could not load sales: " + m.err.Error()))
		return b.String()
	}
	if len(m.sales) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.FgSubtle).Render("  no sales yet"))
		return b.String()
	}

	rows := m.sales
	if limit := m.height - 4; limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for _, sale := range rows {
		name := m.names[sale.ProductID]
		if name == "" {
			name = sale.ProductID
		}
		if len(name) > 28 {
			name = name[:27] + "…"
		}
		b.WriteString(rowStyle.Render(fmt.Sprintf("  %-16s %-28s %5d %10s %10s",
			sale.CreatedAt.Local().Format("Jan 02 15:04"),
			name, sale.Quantity, export.Money(sale.UnitPrice), export.Money(sale.Total))))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  %d sales shown   r refresh", len(rows))))
	return b.String()
}
