package terminal

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/simulation"
)

func TestGlyph(t *testing.T) {
	tests := []struct {
		heading float64
		want    rune
	}{
		{0, '→'},
		{math.Pi / 2, '↓'},
		{math.Pi, '←'},
		{-math.Pi, '←'},
		{-math.Pi / 2, '↑'},
		{math.Pi / 4, '↘'},
		{-3 * math.Pi / 4, '↖'},
		{0.2, '→'},
	}
	for _, tt := range tests {
		if got := Glyph(tt.heading); got != tt.want {
			t.Errorf("Glyph(%v) = %q; want %q", tt.heading, got, tt.want)
		}
	}
}

func TestProject(t *testing.T) {
	world := flock.World{Width: 800, Height: 600}
	tests := []struct {
		name         string
		p            geometry.Vector2D
		wantX, wantY int
	}{
		{"origin", geometry.Vector2D{X: 0, Y: 0}, 0, 0},
		{"center", geometry.Vector2D{X: 400, Y: 300}, 40, 12},
		{"far corner stays on the grid", geometry.Vector2D{X: 799.99, Y: 599.99}, 79, 23},
		{"out of range is clamped", geometry.Vector2D{X: 900, Y: -5}, 79, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Project(tt.p, world, 80, 24)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Project(%s) = (%d, %d); want (%d, %d)", tt.p, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestView_Draw(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(20, 11)

	snap := &simulation.Snapshot{
		World: flock.World{Width: 200, Height: 100},
		Agents: []simulation.AgentState{
			{ID: 0, Position: geometry.Vector2D{X: 15, Y: 15}, Heading: 0},
			{ID: 1, Position: geometry.Vector2D{X: 105, Y: 55}, Heading: math.Pi / 2},
		},
	}
	NewView(screen).Draw(snap, "frame 1")

	checks := []struct {
		x, y int
		want rune
	}{
		{1, 1, '→'},
		{10, 5, '↓'},
		{0, 10, 'f'},
		{6, 10, '1'},
	}
	for _, c := range checks {
		got, _, _, _ := screen.GetContent(c.x, c.y)
		if got != c.want {
			t.Errorf("cell (%d, %d) = %q; want %q", c.x, c.y, got, c.want)
		}
	}
}
