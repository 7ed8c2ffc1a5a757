// Package products implements the product listing page: a debounced,
// generation-tagged search over the catalog with optimistic stock and
// delete actions on the selected row.
package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oakmere/tally/internal/app"
	"github.com/oakmere/tally/internal/catalog"
	"github.com/oakmere/tally/internal/export"
	"github.com/oakmere/tally/internal/flow"
	"github.com/oakmere/tally/internal/state"
	"github.com/oakmere/tally/internal/tui/events"
	"github.com/oakmere/tally/internal/tui/styles"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/spinner"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

// sortFields are the cycling order for the sort key, matching the store's
// whitelist.
var sortFields = []string{"name", "sku", "price", "stock", "category"}

// Model is the products page.
type Model struct {
	width  int
	height int

	app      *app.App
	broker   *events.Broker
	search   *flow.Search[catalog.Product]
	prefSave *flow.Deferred[state.UIState]

	searchBar *SearchBar
	spinner   spinner.Model
	keys      KeyMap

	items  []catalog.Product
	cursor int

	categories  []string
	categoryIdx int // -1 means no filter
	sortIdx     int
	sortDesc    bool
}

// categoriesMsg delivers the filter menu entries.
type categoriesMsg struct {
	categories []string
}

// New creates the page and issues the initial query. Sort order and
// category filter are restored from the last run's UI state.
func New(a *app.App, broker *events.Broker) *Model {
	cfg := a.Config.Get()
	prefs := a.UI.Get()
	m := &Model{
		app:         a,
		broker:      broker,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		keys:        DefaultKeyMap(),
		categoryIdx: -1,
		sortDesc:    prefs.SortDesc,
	}
	for i, f := range sortFields {
		if f == prefs.SortField {
			m.sortIdx = i
			break
		}
	}
	var filters map[string]string
	if prefs.Category != "" {
		filters = map[string]string{"category": prefs.Category}
	}
	m.searchBar = NewSearchBar(func(text string) {
		m.search.SetText(text)
	})
	m.search = flow.NewSearch(flow.SearchConfig[catalog.Product]{
		Query:    a.Store.SearchProducts,
		Debounce: cfg.SearchDebounce(),
		PageSize: cfg.PageSize,
		Filters:  filters,
		Sort:     flow.Sort{Field: sortFields[m.sortIdx], Desc: m.sortDesc},
		Observer: a.Telemetry,
		OnUpdate: func() {
			// Wake the program loop; Sync happens on the UI goroutine.
			broker.Publish(events.Event{Type: events.SearchUpdatedEvent})
		},
	})
	// Cycling through sorts or filters writes the preference file once the
	// user settles, not on every keypress.
	m.prefSave = flow.NewDeferred(500*time.Millisecond, func(p state.UIState) {
		_ = a.UI.Update(func(st state.UIState) state.UIState {
			st.SortField = p.SortField
			st.SortDesc = p.SortDesc
			st.Category = p.Category
			return st
		})
	})
	return m
}

// Init starts the loading spinner and fetches the filter menu.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCategories())
}

// Sync copies the coordinator's visible state into the page. The root model
// calls it on every SearchUpdatedEvent so coordinator goroutines never touch
// UI state directly.
func (m *Model) Sync() {
	m.items = m.search.Data()
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles page input.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case categoriesMsg:
		m.categories = msg.categories
		if c := m.app.UI.Get().Category; c != "" {
			for i, cat := range m.categories {
				if cat == c {
					m.categoryIdx = i
					break
				}
			}
		}
		return nil

	case tea.KeyPressMsg:
		if m.searchBar.Focused() {
			switch msg.String() {
			case "enter", "esc":
				m.searchBar.Blur()
			default:
				m.searchBar.Update(msg)
			}
			return nil
		}
		return m.handleListKey(msg)
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *Model) handleListKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevPage):
		m.search.PrevPage()
	case key.Matches(msg, m.keys.NextPage):
		m.search.NextPage()
	case key.Matches(msg, m.keys.Search):
		m.searchBar.Focus()
	case key.Matches(msg, m.keys.Filter):
		m.cycleCategory()
	case key.Matches(msg, m.keys.ClearFilter):
		m.categoryIdx = -1
		m.search.SetFilter("category", "")
		m.savePrefs()
	case key.Matches(msg, m.keys.Sort):
		m.sortIdx = (m.sortIdx + 1) % len(sortFields)
		m.applySort()
	case key.Matches(msg, m.keys.Order):
		m.sortDesc = !m.sortDesc
		m.applySort()
	case key.Matches(msg, m.keys.Refresh):
		m.search.Refetch()
	case key.Matches(msg, m.keys.StockUp):
		return m.adjustStockCmd(1)
	case key.Matches(msg, m.keys.StockDown):
		return m.adjustStockCmd(-1)
	case key.Matches(msg, m.keys.Sell):
		return m.sellCmd()
	case key.Matches(msg, m.keys.Delete):
		return m.deleteCmd()
	}
	return nil
}

// applySort pushes the sort spec to the coordinator and remembers it for
// the next run.
func (m *Model) applySort() {
	m.search.SetSort(flow.Sort{Field: sortFields[m.sortIdx], Desc: m.sortDesc})
	m.savePrefs()
}

func (m *Model) cycleCategory() {
	if len(m.categories) == 0 {
		return
	}
	m.categoryIdx++
	if m.categoryIdx >= len(m.categories) {
		m.categoryIdx = -1
		m.search.SetFilter("category", "")
	} else {
		m.search.SetFilter("category", m.categories[m.categoryIdx])
	}
	m.savePrefs()
}

// savePrefs schedules a coalesced write of the sort and filter preferences.
func (m *Model) savePrefs() {
	category := ""
	if m.categoryIdx >= 0 && m.categoryIdx < len(m.categories) {
		category = m.categories[m.categoryIdx]
	}
	m.prefSave.Call(state.UIState{
		SortField: sortFields[m.sortIdx],
		SortDesc:  m.sortDesc,
		Category:  category,
	})
}

// Current returns the selected product, if any.
func (m *Model) Current() (catalog.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return catalog.Product{}, false
	}
	return m.items[m.cursor], true
}

// NameOf resolves a product name from the visible rows, or "".
func (m *Model) NameOf(productID string) string {
	for _, p := range m.items {
		if p.ID == productID {
			return p.Name
		}
	}
	return ""
}

// SearchFocused reports whether keystrokes belong to the search bar.
func (m *Model) SearchFocused() bool {
	return m.searchBar.Focused()
}

// ApplyStock folds a stock event into the visible rows. Absolute payloads
// are authoritative; relative ones carry the optimistic target.
func (m *Model) ApplyStock(p events.StockPayload) {
	for i := range m.items {
		if m.items[i].ID == p.ProductID {
			m.items[i].Stock = p.NewStock
			return
		}
	}
}

// Remove drops a product from the visible rows (optimistic delete).
func (m *Model) Remove(productID string) {
	for i := range m.items {
		if m.items[i].ID == productID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			if m.cursor >= len(m.items) && m.cursor > 0 {
				m.cursor--
			}
			return
		}
	}
}

// Restore puts a product back after a failed delete and re-syncs with the
// store so ordering is right again.
func (m *Model) Restore(p catalog.Product) {
	m.items = append(m.items, p)
	m.search.Refetch()
}

// Refetch re-runs the current query.
func (m *Model) Refetch() {
	m.search.Refetch()
}

// Stop tears down the search coordinator. A preference write still in its
// coalescing window is dropped.
func (m *Model) Stop() {
	m.search.Stop()
	m.prefSave.Stop()
}

// SetSize sets the page dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.searchBar.SetWidth(width)
}

// Mutation commands. Each blocks inside a tea.Cmd until the attempt
// settles; the UI already moved on thanks to the optimistic events.

func (m *Model) adjustStockCmd(delta int) tea.Cmd {
	product, ok := m.Current()
	if !ok {
		return nil
	}
	svc := m.app.Inventory
	return func() tea.Msg {
		// Failure and supersession are reported through broker events, so
		// there is nothing to surface here.
		_, _ = svc.AdjustStock(context.Background(), product, delta)
		return nil
	}
}

func (m *Model) sellCmd() tea.Cmd {
	product, ok := m.Current()
	if !ok {
		return nil
	}
	svc := m.app.Inventory
	return func() tea.Msg {
		_, _ = svc.Sell(context.Background(), product, 1)
		return nil
	}
}

func (m *Model) deleteCmd() tea.Cmd {
	product, ok := m.Current()
	if !ok {
		return nil
	}
	svc := m.app.Inventory
	return func() tea.Msg {
		_ = svc.DeleteProduct(context.Background(), product)
		return nil
	}
}

func (m *Model) loadCategories() tea.Cmd {
	st := m.app.Store
	return func() tea.Msg {
		cats, err := st.Categories(context.Background())
		if err != nil {
			return nil
		}
		return categoriesMsg{categories: cats}
	}
}

// View renders the page.
func (m *Model) View() string {
	theme := styles.CurrentTheme()
	var b strings.Builder

	b.WriteString(m.searchBar.View())
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine(theme))
	b.WriteString("\n\n")
	b.WriteString(m.renderTable(theme))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(theme))
	return b.String()
}

func (m *Model) renderFilterLine(theme *styles.Theme) string {
	muted := lipgloss.NewStyle().Foreground(theme.FgMuted)
	category := "all"
	if m.categoryIdx >= 0 && m.categoryIdx < len(m.categories) {
		category = m.categories[m.categoryIdx]
	}
	order := "asc"
	if m.sortDesc {
		order = "desc"
	}
	return muted.Render(fmt.Sprintf("category: %s   sort: %s %s", category, sortFields[m.sortIdx], order))
}

func (m *Model) renderTable(theme *styles.Theme) string {
	headerStyle := lipgloss.NewStyle().Foreground(theme.FgMuted).Bold(true)
	selectedStyle := lipgloss.NewStyle().Background(theme.BgHighlight).Foreground(theme.FgBase)
	rowStyle := lipgloss.NewStyle().Foreground(theme.FgBase)
	lowStyle := lipgloss.NewStyle().Foreground(theme.Warning)
	pendingStyle := lipgloss.NewStyle().Foreground(theme.Info)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-10s %-28s %-12s %10s %8s", "SKU", "NAME", "CATEGORY", "PRICE", "STOCK")))
	b.WriteString("\n")

	if len(m.items) == 0 {
		empty := "no products match"
		if m.search.Loading() {
			empty = m.spinner.View() + " loading"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.FgSubtle).Render("  " + empty))
		return b.String()
	}

	for i, p := range m.items {
		stock := fmt.Sprintf("%8d", p.Stock)
		if m.app.Inventory.StockPending(p.ID) {
			stock = pendingStyle.Render(fmt.Sprintf("%7d*", p.Stock))
		} else if p.LowStock() {
			stock = lowStyle.Render(stock)
		}
		line := fmt.Sprintf("%-10s %-28s %-12s %10s %s",
			truncate(p.SKU, 10), truncate(p.Name, 28), truncate(p.Category, 12), export.Money(p.Price), stock)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(rowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderFooter(theme *styles.Theme) string {
	muted := lipgloss.NewStyle().Foreground(theme.FgMuted)
	parts := []string{
		fmt.Sprintf("page %d/%d", m.search.Page(), m.search.TotalPages()),
		fmt.Sprintf("%d products", m.search.TotalCount()),
	}
	if m.search.Loading() {
		parts = append(parts, m.spinner.View()+" searching")
	}
	if err := m.search.Err(); err != nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Error).Render("search failed: "+err.Error()))
	}
	return muted.Render(strings.Join(parts, "   "))
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 1 {
		return s[:limit]
	}
	return s[:limit-1] + "…"
}
