// Package status renders the one-line bar at the bottom of the screen:
// shop identity on the left, transient messages on the right.
package status

import (
	"strings"
	"time"

	"github.com/oakmere/tally/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

// MessageType classifies a status message for coloring.
type MessageType int

const (
	Info MessageType = iota
	Warning
	Error
	Success
)

const clearAfter = 5 * time.Second

// Message is one transient status bar message.
type Message struct {
	Content   string
	Type      MessageType
	Timestamp time.Time
}

// Component implements the status bar.
type Component struct {
	width       int
	leftContent string
	message     *Message
}

// New creates a status bar component.
func New() *Component {
	return &Component{}
}

// SetMessage shows a message and schedules its removal.
func (c *Component) SetMessage(content string, msgType MessageType) tea.Cmd {
	c.message = &Message{
		Content:   content,
		Type:      msgType,
		Timestamp: time.Now(),
	}
	stamp := c.message.Timestamp
	return tea.Tick(clearAfter, func(time.Time) tea.Msg {
		return clearMessageMsg{timestamp: stamp}
	})
}

// ShowInfo shows an informational message.
func (c *Component) ShowInfo(message string) tea.Cmd {
	return c.SetMessage(message, Info)
}

// ShowWarning shows a warning message.
func (c *Component) ShowWarning(message string) tea.Cmd {
	return c.SetMessage(message, Warning)
}

// ShowError shows an error message.
func (c *Component) ShowError(message string) tea.Cmd {
	return c.SetMessage(message, Error)
}

// ShowSuccess shows a success message.
func (c *Component) ShowSuccess(message string) tea.Cmd {
	return c.SetMessage(message, Success)
}

// SetLeftContent sets the persistent left segment (shop name, active page).
func (c *Component) SetLeftContent(content string) {
	c.leftContent = content
}

// SetSize sets the bar width.
func (c *Component) SetSize(width, _ int) tea.Cmd {
	c.width = width
	return nil
}

// clearMessageMsg removes an expired message.
type clearMessageMsg struct {
	timestamp time.Time
}

// Init implements tea.Model.
func (c *Component) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (c *Component) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m, ok := msg.(clearMessageMsg); ok {
		// Only clear if a newer message hasn't replaced this one.
		if c.message != nil && m.timestamp.Equal(c.message.Timestamp) {
			c.message = nil
		}
	}
	return c, nil
}

// View renders the bar.
func (c *Component) View() string {
	if c.width == 0 {
		return ""
	}
	theme := styles.CurrentTheme()

	barStyle := lipgloss.NewStyle().
		Width(c.width).
		Background(theme.BgSubtle).
		Foreground(theme.FgBase).
		Padding(0, 1)

	left := c.leftContent
	right := ""
	if c.message != nil {
		right = c.renderMessage(theme)
	}

	available := c.width - 2
	gap := available - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 && right != "" {
		// Message wins the fight for space.
		left = ""
		gap = available - lipgloss.Width(right)
	}
	if gap < 0 {
		gap = 0
	}
	return barStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (c *Component) renderMessage(theme *styles.Theme) string {
	var fg = theme.FgBase
	switch c.message.Type {
	case Success:
		fg = theme.Success
	case Warning:
		fg = theme.Warning
	case Error:
		fg = theme.Error
	case Info:
		fg = theme.Info
	}
	return lipgloss.NewStyle().
		Background(theme.BgSubtle).
		Foreground(fg).
		Render(c.message.Content)
}
