package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// TitleGradient renders text with a left-to-right blend from the theme's
// primary color to its accent. Used for the application banner only.
func TitleGradient(text string) string {
	theme := CurrentTheme()
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	from := toColorful(theme.Primary)
	to := toColorful(theme.Accent)

	var b strings.Builder
	steps := len(runes) - 1
	for i, r := range runes {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		c := from.BlendLuv(to, t)
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Hex())).
			Bold(true).
			Render(string(r)))
	}
	return b.String()
}

func toColorful(c color.Color) colorful.Color {
	if c == nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	cc, _ := colorful.MakeColor(c)
	return cc
}
