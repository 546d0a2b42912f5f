// Package terminal renders flock snapshots in a terminal with tcell.
package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/simulation"
)

// glyphs by octant, starting east and turning clockwise (terminal rows grow downward)
var glyphs = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// Glyph returns the arrow closest to the heading, in radians.
func Glyph(heading float64) rune {
	octant := int(math.Round(heading/(math.Pi/4))) % 8
	if octant < 0 {
		octant += 8
	}
	return glyphs[octant]
}

// Project maps a world position to a cell of a cols x rows grid.
func Project(p geometry.Vector2D, world flock.World, cols, rows int) (int, int) {
	x := int(p.X / world.Width * float64(cols))
	y := int(p.Y / world.Height * float64(rows))
	return clamp(x, cols), clamp(y, rows)
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// View draws snapshots on a tcell screen; the last row is a status line.
type View struct {
	screen      tcell.Screen
	agentStyle  tcell.Style
	statusStyle tcell.Style
}

func NewView(screen tcell.Screen) *View {
	return &View{
		screen:      screen,
		agentStyle:  tcell.StyleDefault.Foreground(tcell.ColorWhite),
		statusStyle: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen),
	}
}

// Draw clears the screen, plots every agent and prints status on the bottom row.
func (v *View) Draw(snap *simulation.Snapshot, status string) {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	if cols <= 0 || rows <= 1 {
		return
	}

	if snap != nil && snap.World.Width > 0 && snap.World.Height > 0 {
		for _, a := range snap.Agents {
			x, y := Project(a.Position, snap.World, cols, rows-1)
			v.screen.SetContent(x, y, Glyph(a.Heading), nil, v.agentStyle)
		}
	}

	for x := 0; x < cols; x++ {
		v.screen.SetContent(x, rows-1, ' ', nil, v.statusStyle)
	}
	x := 0
	for _, r := range status {
		if x >= cols {
			break
		}
		v.screen.SetContent(x, rows-1, r, nil, v.statusStyle)
		x++
	}
	v.screen.Show()
}
