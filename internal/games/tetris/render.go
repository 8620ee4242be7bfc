package tetris

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris/engine"
)

const (
	cellWidth  = 2  // Screen columns per board cell
	panelWidth = 14 // Side panel with previews and stats
	hudHeight  = 1  // Title line above the well
)

// layoutSize returns the smallest screen that fits the well and side panel.
func layoutSize(b *engine.Board) (w, h int) {
	return b.Width()*cellWidth + 2 + 1 + panelWidth, b.Height() + 2 + hudHeight
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.state == nil {
		return
	}

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	lw, _ := layoutSize(g.state.Board())
	well := core.NewRect(
		(g.screenW-lw)/2,
		hudHeight,
		g.state.Board().Width()*cellWidth+2,
		g.state.Board().Height()+2,
	)

	g.renderHUD(dst, well)
	g.renderWell(dst, well)
	g.renderPanel(dst, core.NewRect(well.Right()+1, well.Y, panelWidth, well.H))

	switch {
	case g.won:
		g.renderOverlay(dst, well, "Sprint clear!", fmt.Sprintf("%d lines", g.state.Lines()), "R to restart")
	case g.state.GameOver():
		g.renderOverlay(dst, well, "Game Over", fmt.Sprintf("Score %d", g.state.Score()), "R to restart")
	case g.paused:
		g.renderOverlay(dst, well, "Paused", "", "P to continue")
	}
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	lw, lh := layoutSize(g.state.Board())
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", lw, lh))
}

func (g *Game) renderHUD(dst *core.Screen, well core.Rect) {
	title := g.Title()
	dst.DrawTextColor(well.X+(well.W-len(title))/2, 0, title, core.ColorBrightWhite)
}

// renderWell draws the border, the locked stack, the ghost and the active
// piece, in that order.
func (g *Game) renderWell(dst *core.Screen, well core.Rect) {
	dst.DrawBox(well, core.ColorGray)
	inner := well.Inner()

	for y, row := range g.state.Board().Rows() {
		for x, c := range row {
			if c.Empty() {
				dst.SetColor(inner.X+x*cellWidth+1, inner.Y+y, '·', core.ColorDarkGray)
				continue
			}
			drawCell(dst, inner, x, y, '█', c.Color)
		}
	}

	if g.state.GameOver() {
		return
	}

	piece := g.state.Current()
	px, py := g.state.Position()
	ghostY := g.state.RestingY()
	for _, c := range piece.Cells() {
		drawCell(dst, inner, px+c.X, ghostY+c.Y, '░', piece.Color().Dim())
	}
	for _, c := range piece.Cells() {
		drawCell(dst, inner, px+c.X, py+c.Y, '█', piece.Color())
	}
}

func drawCell(dst *core.Screen, inner core.Rect, x, y int, r rune, c core.Color) {
	sx := inner.X + x*cellWidth
	sy := inner.Y + y
	if !inner.Contains(sx, sy) {
		return
	}
	for i := range cellWidth {
		dst.SetColor(sx+i, sy, r, c)
	}
}

func (g *Game) renderPanel(dst *core.Screen, panel core.Rect) {
	y := panel.Y
	dst.DrawText(panel.X, y, "NEXT")
	g.renderPreview(dst, panel.X, y+1, g.state.Next(), false)
	y += 4

	dst.DrawText(panel.X, y, "HOLD")
	if held, ok := g.state.Held(); ok {
		g.renderPreview(dst, panel.X, y+1, held, g.state.HoldUsed())
	}
	y += 4

	stats := []string{
		fmt.Sprintf("Score %d", g.state.Score()),
		fmt.Sprintf("Level %d", g.state.Level()),
		fmt.Sprintf("Lines %d", g.state.Lines()),
	}
	if g.mode == ModeSprint {
		stats = append(stats, fmt.Sprintf("Goal  %d", g.cfg.Sprint.Lines))
	}
	for _, s := range stats {
		y++
		dst.DrawText(panel.X, y, s)
	}
}

// renderPreview draws a kind in spawn orientation with empty leading rows
// trimmed. Used pieces are drawn dimmed.
func (g *Game) renderPreview(dst *core.Screen, x, y int, k engine.Kind, dim bool) {
	cells := engine.NewPiece(k).Cells()
	if len(cells) == 0 {
		return
	}

	top := cells[0].Y
	color := k.Color()
	if dim {
		color = color.Dim()
	}
	for _, c := range cells {
		for i := range cellWidth {
			dst.SetColor(x+c.X*cellWidth+i, y+c.Y-top, '█', color)
		}
	}
}

// renderOverlay draws a boxed message centered over the well.
func (g *Game) renderOverlay(dst *core.Screen, well core.Rect, lines ...string) {
	boxW := well.W - 2
	boxH := len(lines) + 2
	box := core.NewRect(well.X+1, well.Y+(well.H-boxH)/2, boxW, boxH)

	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(box, core.ColorBrightWhite)

	for i, line := range lines {
		x := box.X + (box.W-len([]rune(line)))/2
		dst.DrawTextColor(x, box.Y+1+i, line, core.ColorBrightWhite)
	}
}
