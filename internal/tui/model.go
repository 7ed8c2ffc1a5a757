// Package tui is the terminal front end: a bubbletea program with a page
// per concern (products, sales, help) over the shared event broker. All
// visible state changes happen here, on the program goroutine; services
// publish events, the root model folds them in.
package tui

import (
	"fmt"

	"github.com/oakmere/tally/internal/app"
	"github.com/oakmere/tally/internal/state"
	"github.com/oakmere/tally/internal/tui/components/help"
	"github.com/oakmere/tally/internal/tui/components/products"
	"github.com/oakmere/tally/internal/tui/components/sales"
	"github.com/oakmere/tally/internal/tui/components/status"
	"github.com/oakmere/tally/internal/tui/events"
	"github.com/oakmere/tally/internal/tui/styles"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
)

// page identifies the active screen.
type page int

const (
	pageProducts page = iota
	pageSales
	pageHelp
)

func (p page) String() string {
	switch p {
	case pageSales:
		return "sales"
	case pageHelp:
		return "help"
	default:
		return "products"
	}
}

// Model is the root TUI model.
type Model struct {
	width  int
	height int

	// Pages
	products  *products.Model
	sales     *sales.Model
	help      *help.Model
	statusBar *status.Component
	active    page

	// Event system
	eventBroker *events.Broker
	eventSub    <-chan events.Event

	// App holds all business logic
	app *app.App

	showDebug bool
}

// New creates the root model from an app instance and event broker.
func New(appInstance *app.App, eventBroker *events.Broker) *Model {
	styles.SetDefaultManager(styles.NewManager(appInstance.Config.Get().Theme))

	m := &Model{
		products:    products.New(appInstance, eventBroker),
		sales:       sales.New(appInstance, eventBroker),
		help:        help.New(),
		statusBar:   status.New(),
		eventBroker: eventBroker,
		app:         appInstance,
	}
	switch appInstance.UI.Get().ActivePage {
	case "sales":
		m.active = pageSales
	case "help":
		m.active = pageHelp
	}
	m.eventSub = eventBroker.Subscribe()
	return m
}

// Init starts the pages and the event pump.
func (m *Model) Init() tea.Cmd {
	m.eventBroker.Publish(events.Event{
		Type: events.StatusMessageEvent,
		Payload: events.StatusMessagePayload{
			Message: "Welcome to Tally. Press ? for help",
			Type:    "info",
		},
	})
	return tea.Batch(
		m.products.Init(),
		m.sales.Init(),
		m.help.Init(),
		m.statusBar.Init(),
		m.listenForEvents(),
	)
}

// Update routes messages: broker events to handleEvent, keys to the active
// page, everything else to whichever component owns the message type.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if event, ok := msg.(events.Event); ok {
		cmd := m.handleEvent(event)
		return m, tea.Batch(cmd, m.listenForEvents())
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.resizeComponents()

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	// Non-key messages (spinner ticks, page loads, status timers) go to
	// everyone who might own them.
	var cmds []tea.Cmd
	cmds = append(cmds, m.products.Update(msg))
	cmds = append(cmds, m.sales.Update(msg))
	statusModel, cmd := m.statusBar.Update(msg)
	if sb, ok := statusModel.(*status.Component); ok {
		m.statusBar = sb
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	// While the search bar is capturing, only ctrl+c stays global.
	if m.active == pageProducts && m.products.SearchFocused() {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, m.products.Update(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1":
		return m, m.switchPage(pageProducts)
	case "2":
		return m, m.switchPage(pageSales)
	case "?":
		return m, m.switchPage(pageHelp)
	case "tab":
		return m, m.switchPage((m.active + 1) % 3)
	case "ctrl+d":
		m.eventBroker.Publish(events.Event{Type: events.DebugToggleEvent})
		return m, nil
	}

	switch m.active {
	case pageProducts:
		return m, m.products.Update(msg)
	case pageSales:
		return m, m.sales.Update(msg)
	default:
		return m, m.help.Update(msg)
	}
}

func (m *Model) switchPage(p page) tea.Cmd {
	m.active = p
	m.syncStatusIdentity()
	_ = m.app.UI.Update(func(st state.UIState) state.UIState {
		st.ActivePage = p.String()
		return st
	})
	if p == pageSales {
		// Re-pull the history so optimistic gaps from other pages close.
		return m.sales.Init()
	}
	return nil
}

func (m *Model) syncStatusIdentity() {
	name := m.app.Config.Get().StoreName
	m.statusBar.SetLeftContent(fmt.Sprintf("%s · %s", name, m.active))
}

// View renders the banner, the active page and the status bar.
func (m *Model) View() tea.View {
	if m.width == 0 || m.height == 0 {
		return tea.NewView("Starting up...")
	}
	theme := styles.CurrentTheme()

	banner := m.renderBanner(theme)

	var body string
	switch m.active {
	case pageProducts:
		body = m.products.View()
	case pageSales:
		body = m.sales.View()
	default:
		body = m.help.View()
	}
	bodyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 3).
		Padding(0, 1)

	return tea.NewView(lipgloss.JoinVertical(lipgloss.Left,
		banner,
		bodyStyle.Render(body),
		m.statusBar.View(),
	))
}

func (m *Model) renderBanner(theme *styles.Theme) string {
	title := styles.TitleGradient(" Tally ")
	tabStyle := lipgloss.NewStyle().Foreground(theme.FgSubtle)
	activeStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	tabs := ""
	for _, p := range []page{pageProducts, pageSales, pageHelp} {
		label := fmt.Sprintf(" %d:%s ", int(p)+1, p)
		if p == pageHelp {
			label = " ?:help "
		}
		if p == m.active {
			tabs += activeStyle.Render(label)
		} else {
			tabs += tabStyle.Render(label)
		}
	}
	line := lipgloss.NewStyle().Width(m.width).Background(theme.BgSubtle)
	return line.Render(title + " " + tabs)
}

// Stop tears down page-owned coordinators. Called after the program
// returns, before the app closes.
func (m *Model) Stop() {
	m.products.Stop()
	m.sales.Stop()
}

// listenForEvents waits for the next broker event as a tea.Msg.
func (m *Model) listenForEvents() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.eventSub
		if !ok {
			return nil
		}
		return event
	}
}
