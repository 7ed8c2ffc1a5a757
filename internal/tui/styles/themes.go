package styles

import "github.com/charmbracelet/lipgloss/v2"

// slateTheme is the default dark theme: cool greys with a teal accent.
func slateTheme() *Theme {
	return &Theme{
		Name:   "slate",
		IsDark: true,

		Primary: lipgloss.Color("#5EEAD4"),
		Accent:  lipgloss.Color("#818CF8"),

		BgBase:      lipgloss.Color("#0F172A"),
		BgSubtle:    lipgloss.Color("#1E293B"),
		BgHighlight: lipgloss.Color("#334155"),

		FgBase:   lipgloss.Color("#E2E8F0"),
		FgMuted:  lipgloss.Color("#94A3B8"),
		FgSubtle: lipgloss.Color("#64748B"),

		Border:      lipgloss.Color("#334155"),
		BorderFocus: lipgloss.Color("#5EEAD4"),

		Success: lipgloss.Color("#4ADE80"),
		Error:   lipgloss.Color("#F87171"),
		Warning: lipgloss.Color("#FBBF24"),
		Info:    lipgloss.Color("#60A5FA"),
	}
}

// paperTheme is the light theme for bright terminals.
func paperTheme() *Theme {
	return &Theme{
		Name:   "paper",
		IsDark: false,

		Primary: lipgloss.Color("#0D9488"),
		Accent:  lipgloss.Color("#4F46E5"),

		BgBase:      lipgloss.Color("#FAFAF9"),
		BgSubtle:    lipgloss.Color("#F1F5F9"),
		BgHighlight: lipgloss.Color("#E2E8F0"),

		FgBase:   lipgloss.Color("#1E293B"),
		FgMuted:  lipgloss.Color("#475569"),
		FgSubtle: lipgloss.Color("#94A3B8"),

		Border:      lipgloss.Color("#CBD5E1"),
		BorderFocus: lipgloss.Color("#0D9488"),

		Success: lipgloss.Color("#16A34A"),
		Error:   lipgloss.Color("#DC2626"),
		Warning: lipgloss.Color("#D97706"),
		Info:    lipgloss.Color("#2563EB"),
	}
}
