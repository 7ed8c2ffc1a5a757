// Package help renders the key reference as markdown in a scrollable view.
package help

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/bubbles/v2/viewport"
	"github.com/charmbracelet/glamour/v2"
)

const helpMarkdown = `# Tally

A till-side inventory terminal. Changes show up the moment you make them
and settle against the database in the background; if a write fails, the
screen rolls back and tells you.

## Pages

| Key | Page |
|-----|------|
| ` + "`1`" + ` | Products |
| ` + "`2`" + ` | Sales |
| ` + "`?`" + ` | Help |
| ` + "`tab`" + ` | Next page |

## Products

| Key | Action |
|-----|--------|
| ` + "`/`" + ` | Search (type, results follow as you pause) |
| ` + "`↑/k ↓/j`" + ` | Move selection |
| ` + "`←/h →/l`" + ` | Previous / next page |
| ` + "`f`" + ` / ` + "`F`" + ` | Cycle / clear category filter |
| ` + "`s`" + ` / ` + "`o`" + ` | Cycle sort field / flip order |
| ` + "`+`" + ` / ` + "`-`" + ` | Adjust stock up / down |
| ` + "`$`" + ` | Sell one unit |
| ` + "`d`" + ` | Delete product |
| ` + "`r`" + ` | Refresh |

A ` + "`*`" + ` next to a stock level means the write is still settling.
Low stock shows in yellow.

## Everywhere

| Key | Action |
|-----|--------|
| ` + "`ctrl+d`" + ` | Toggle debug logging |
| ` + "`q`" + ` / ` + "`ctrl+c`" + ` | Quit |
`

// Model is the help page.
type Model struct {
	viewport viewport.Model
	width    int
	height   int
	rendered bool
}

// New creates the page.
func New() *Model {
	return &Model{viewport: viewport.New()}
}

// Init implements the page interface.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update scrolls the viewport.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// SetSize sets dimensions and re-renders the markdown at the new width.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport = viewport.New(
		viewport.WithWidth(width),
		viewport.WithHeight(height),
	)
	m.viewport.SetContent(m.render())
	m.rendered = true
}

// View renders the page.
func (m *Model) View() string {
	if !m.rendered {
		return ""
	}
	return m.viewport.View()
}

func (m *Model) render() string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(m.width-4),
		glamour.WithPreservedNewLines(),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}
