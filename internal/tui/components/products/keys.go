package products

import "github.com/charmbracelet/bubbles/v2/key"

// KeyMap defines the key bindings for the products page.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	Search      key.Binding
	Filter      key.Binding
	ClearFilter key.Binding
	Sort        key.Binding
	Order       key.Binding
	Refresh     key.Binding
	StockUp     key.Binding
	StockDown   key.Binding
	Sell        key.Binding
	Delete      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle category"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "clear filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		Order: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "flip order"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		StockUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "stock +1"),
		),
		StockDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "stock -1"),
		),
		Sell: key.NewBinding(
			key.WithKeys("$"),
			key.WithHelp("$", "sell one"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}
