package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/core"
)

// palette holds the ANSI 256 code for each core.Color, indexed by the color.
// ColorDefault has no code and is written unstyled.
var palette = [...]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
	core.ColorDarkGray:      "238",
}

var paletteStyles = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for i, code := range palette {
		styles[i] = lipgloss.NewStyle()
		if code != "" {
			styles[i] = styles[i].Foreground(lipgloss.Color(code))
		}
	}
	return styles
}()

// styleFor returns the style for c and reports whether it adds any styling.
func styleFor(c core.Color) (lipgloss.Style, bool) {
	if int(c) >= len(palette) || palette[c] == "" {
		return lipgloss.Style{}, false
	}
	return paletteStyles[c], true
}

// span is a horizontal run of cells sharing one color.
type span struct {
	color core.Color
	text  string
}

// rowSpans splits row y into runs of equal color.
func rowSpans(s *core.Screen, y int) []span {
	var spans []span
	var run strings.Builder
	for x := range s.Width() {
		cell := s.GetCell(x, y)
		if n := len(spans); n > 0 && spans[n-1].color == cell.Color {
			run.WriteRune(cell.Rune)
			continue
		}
		if n := len(spans); n > 0 {
			spans[n-1].text = run.String()
			run.Reset()
		}
		spans = append(spans, span{color: cell.Color})
		run.WriteRune(cell.Rune)
	}
	if n := len(spans); n > 0 {
		spans[n-1].text = run.String()
	}
	return spans
}

// RenderScreen converts a Screen buffer to a styled string, one escape
// sequence per color run.
func RenderScreen(s *core.Screen) string {
	rows := make([]string, s.Height())
	for y := range rows {
		var sb strings.Builder
		for _, sp := range rowSpans(s, y) {
			if style, ok := styleFor(sp.color); ok {
				sb.WriteString(style.Render(sp.text))
			} else {
				sb.WriteString(sp.text)
			}
		}
		rows[y] = sb.String()
	}
	return strings.Join(rows, "\n")
}
