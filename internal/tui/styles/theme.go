// Package styles holds the Tally color themes and shared render helpers.
package styles

import (
	"image/color"
	"sync"
)

// Theme is the semantic palette every component draws from. Components never
// hardcode colors; they name what they mean and the theme decides.
type Theme struct {
	Name   string
	IsDark bool

	// Brand colors
	Primary color.Color
	Accent  color.Color

	// Background colors
	BgBase      color.Color
	BgSubtle    color.Color
	BgHighlight color.Color

	// Foreground colors
	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	// Border colors
	Border      color.Color
	BorderFocus color.Color

	// Semantic colors
	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color
}

// Manager holds the registered themes and the active selection.
type Manager struct {
	mu      sync.RWMutex
	themes  map[string]*Theme
	current *Theme
}

// NewManager creates a manager with the built-in themes registered and the
// named theme active. Unknown names fall back to slate.
func NewManager(defaultTheme string) *Manager {
	m := &Manager{themes: make(map[string]*Theme)}
	for _, t := range []*Theme{slateTheme(), paperTheme()} {
		m.themes[t.Name] = t
	}
	if !m.SetTheme(defaultTheme) {
		m.current = m.themes["slate"]
	}
	return m
}

// SetTheme activates a registered theme, reporting whether it exists.
func (m *Manager) SetTheme(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.themes[name]
	if ok {
		m.current = t
	}
	return ok
}

// Current returns the active theme.
func (m *Manager) Current() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Names lists the registered theme names.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.themes))
	for name := range m.themes {
		names = append(names, name)
	}
	return names
}

var (
	defaultManagerMu sync.RWMutex
	defaultManager   *Manager
)

// SetDefaultManager installs the process-wide theme manager. The root model
// does this once at startup.
func SetDefaultManager(m *Manager) {
	defaultManagerMu.Lock()
	defaultManager = m
	defaultManagerMu.Unlock()
}

// CurrentTheme returns the active theme of the default manager, creating a
// slate manager on first use so components can render before startup wiring.
func CurrentTheme() *Theme {
	defaultManagerMu.RLock()
	m := defaultManager
	defaultManagerMu.RUnlock()
	if m == nil {
		defaultManagerMu.Lock()
		if defaultManager == nil {
			defaultManager = NewManager("slate")
		}
		m = defaultManager
		defaultManagerMu.Unlock()
	}
	return m.Current()
}
