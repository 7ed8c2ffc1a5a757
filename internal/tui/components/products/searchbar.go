package products

import (
	"github.com/oakmere/tally/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

// SearchBar is a single-line text input for the free-text product query.
// Every edit reports the new value through onChange; the debounce lives in
// the search coordinator, not here.
type SearchBar struct {
	value     string
	cursorPos int
	width     int
	focused   bool
	onChange  func(string)
}

// NewSearchBar creates a search bar reporting edits to onChange.
func NewSearchBar(onChange func(string)) *SearchBar {
	return &SearchBar{onChange: onChange}
}

// Update handles key input while the bar is focused.
func (sb *SearchBar) Update(msg tea.Msg) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !sb.focused {
		return
	}

	before := sb.value
	switch keyMsg.String() {
	case "backspace":
		if sb.cursorPos > 0 {
			sb.value = sb.value[:sb.cursorPos-1] + sb.value[sb.cursorPos:]
			sb.cursorPos--
		}
	case "delete":
		if sb.cursorPos < len(sb.value) {
			sb.value = sb.value[:sb.cursorPos] + sb.value[sb.cursorPos+1:]
		}
	case "left":
		if sb.cursorPos > 0 {
			sb.cursorPos--
		}
	case "right":
		if sb.cursorPos < len(sb.value) {
			sb.cursorPos++
		}
	case "home", "ctrl+a":
		sb.cursorPos = 0
	case "end", "ctrl+e":
		sb.cursorPos = len(sb.value)
	case "ctrl+u":
		sb.value = sb.value[sb.cursorPos:]
		sb.cursorPos = 0
	case "ctrl+k":
		sb.value = sb.value[:sb.cursorPos]
	default:
		s := keyMsg.String()
		if len(s) == 1 && s[0] >= 32 && s[0] < 127 {
			sb.value = sb.value[:sb.cursorPos] + s + sb.value[sb.cursorPos:]
			sb.cursorPos++
		}
	}

	if sb.value != before && sb.onChange != nil {
		sb.onChange(sb.value)
	}
}

// View renders the bar with a block cursor when focused.
func (sb *SearchBar) View() string {
	theme := styles.CurrentTheme()
	label := lipgloss.NewStyle().Foreground(theme.FgMuted).Render("Search: ")

	if !sb.focused {
		text := sb.value
		if text == "" {
			text = lipgloss.NewStyle().Foreground(theme.FgSubtle).Render("press / to search")
		}
		return label + text
	}

	before := sb.value[:sb.cursorPos]
	cursor := " "
	after := ""
	if sb.cursorPos < len(sb.value) {
		cursor = string(sb.value[sb.cursorPos])
		after = sb.value[sb.cursorPos+1:]
	}
	cursorStyle := lipgloss.NewStyle().
		Background(theme.Primary).
		Foreground(theme.BgBase)
	return label + before + cursorStyle.Render(cursor) + after
}

// Focus puts the bar into editing mode.
func (sb *SearchBar) Focus() { sb.focused = true }

// Blur leaves editing mode; the value stays.
func (sb *SearchBar) Blur() { sb.focused = false }

// Focused reports whether the bar is capturing keys.
func (sb *SearchBar) Focused() bool { return sb.focused }

// Value returns the raw (not yet settled) text.
func (sb *SearchBar) Value() string { return sb.value }

// Reset clears the text, reporting the change.
func (sb *SearchBar) Reset() {
	if sb.value == "" {
		return
	}
	sb.value = ""
	sb.cursorPos = 0
	if sb.onChange != nil {
		sb.onChange("")
	}
}

// SetWidth sets the render width.
func (sb *SearchBar) SetWidth(width int) { sb.width = width }
