package tui

import (
	tea "github.com/charmbracelet/bubbletea/v2"
)

// resizeComponents distributes the window between the banner (1 line), the
// active page and the status bar (1 line).
func (m *Model) resizeComponents() tea.Cmd {
	const bannerHeight = 1
	const statusHeight = 1

	bodyWidth := m.width - 2 // body padding
	bodyHeight := m.height - bannerHeight - statusHeight - 1

	m.products.SetSize(bodyWidth, bodyHeight)
	m.sales.SetSize(bodyWidth, bodyHeight)
	m.help.SetSize(bodyWidth, bodyHeight)
	m.syncStatusIdentity()
	return m.statusBar.SetSize(m.width, statusHeight)
}
