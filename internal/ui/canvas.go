package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"logicquest/internal/drag"
)

// canvas is a fixed-size cell grid; drawing outside it is clipped.
type canvas struct {
	width  int
	height int
	cells  [][]rune
}

func newCanvas(width, height int) *canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", width))
	}
	return &canvas{width: width, height: height, cells: cells}
}

func (c *canvas) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y][x] = r
}

func (c *canvas) text(x, y int, s string) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r)
	}
}

// centered writes s centered inside [x, x+w).
func (c *canvas) centered(x, y, w int, s string) {
	runes := []rune(s)
	if len(runes) > w {
		runes = runes[:max(w, 0)]
	}
	c.text(x+(w-len(runes))/2, y, string(runes))
}

// box draws r with a border and label. Boxes shorter than three rows become "[label]".
func (c *canvas) box(r drag.Rect, label string, heavy bool) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	if r.H < 3 || r.W < 3 {
		c.centered(r.X, r.Y+r.H/2, r.W, "["+label+"]")
		return
	}
	h, v, tl, tr, bl, br := '─', '│', '┌', '┐', '└', '┘'
	if heavy {
		h, v, tl, tr, bl, br = '━', '┃', '┏', '┓', '┗', '┛'
	}
	right, bottom := r.X+r.W-1, r.Y+r.H-1
	for x := r.X + 1; x < right; x++ {
		c.set(x, r.Y, h)
		c.set(x, bottom, h)
	}
	for y := r.Y + 1; y < bottom; y++ {
		c.set(r.X, y, v)
		c.set(right, y, v)
		for x := r.X + 1; x < right; x++ {
			c.set(x, y, ' ')
		}
	}
	c.set(r.X, r.Y, tl)
	c.set(right, r.Y, tr)
	c.set(r.X, bottom, bl)
	c.set(right, bottom, br)
	c.centered(r.X+1, r.Y+r.H/2, r.W-2, label)
}

func (c *canvas) String() string {
	lines := make([]string, c.height)
	for y, row := range c.cells {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
)

// panel centers a bordered block of lines on the screen.
func panel(width, height int, lines ...string) string {
	body := panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// menuLines renders items with a cursor marker on the selected one.
func menuLines(items []string, selected int) []string {
	out := make([]string, len(items))
	for i, item := range items {
		if i == selected {
			out[i] = selectedStyle.Render("> " + item)
			continue
		}
		out[i] = "  " + item
	}
	return out
}

func moveCursor(cursor, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((cursor+delta)%n + n) % n
}
