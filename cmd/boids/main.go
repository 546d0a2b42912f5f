package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/ui"
	"github.com/tochemey/goakt/v3/log"
)

const panelWidth = 220

var whiteImage = ebiten.NewImage(3, 3)

type Game struct {
	ctx       context.Context
	sim       *simulation.Simulation
	cfg       *simulation.Config
	lastState *simulation.Snapshot

	panel            *ui.Panel
	widgetPopulation *ui.Slider
	widgetMaxForce   *ui.Slider
	widgetMaxSpeed   *ui.Slider
	widgetPerception *ui.Slider
	widgetPaused     *ui.Checkbox
	widgetCircles    *ui.Checkbox

	restart bool
}

func NewGame(ctx context.Context, sim *simulation.Simulation, cfg *simulation.Config) (*Game, error) {
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	g := &Game{
		ctx:       ctx,
		sim:       sim,
		cfg:       cfg,
		lastState: &simulation.Snapshot{}, // Avoid nil pointer
		panel:     ui.NewPanel("Flock", cfg.WorldWidth+10, 10, panelWidth-20, cfg.WorldHeight-20),
	}

	g.panel.AddSection("Steering (Restart Required)")
	g.widgetPopulation = g.panel.AddSlider("Agents", 1, 500, float64(cfg.Population))
	g.widgetPopulation.Integer = true
	g.widgetMaxForce = g.panel.AddSlider("Max Force", 0.01, 0.5, params.MaxForce)
	g.widgetMaxSpeed = g.panel.AddSlider("Max Speed", 0.5, 8, params.MaxSpeed)
	g.widgetPerception = g.panel.AddSlider("Perception Radius", 5, 200, params.PerceptionRadius)
	g.panel.AddButton("Restart", func() { g.restart = true })

	g.panel.AddSection("Visualization")
	g.widgetPaused = g.panel.AddCheckbox("Paused", false)
	g.widgetCircles = g.panel.AddCheckbox("Show Perception Radius", cfg.DisplayPerception)

	return g, nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.panel.Toggle()
	}
	g.panel.Update()

	select {
	case snap := <-g.sim.Snapshots():
		g.lastState = snap
	default:
		// Use previous state if new one isn't ready
	}

	if g.restart {
		g.restart = false
		return g.sim.Reset(g.ctx, map[string]any{
			"population":       int(g.widgetPopulation.Value),
			"maxForce":         g.widgetMaxForce.Value,
			"maxSpeed":         g.widgetMaxSpeed.Value,
			"perceptionRadius": g.widgetPerception.Value,
		})
	}
	if g.widgetPaused.Value {
		return nil
	}
	return g.sim.Advance(g.ctx, 1)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 51, G: 51, B: 51, A: 255})

	for _, a := range g.lastState.Agents {
		if g.widgetCircles.Value {
			vector.StrokeCircle(screen,
				float32(a.Position.X), float32(a.Position.Y),
				float32(g.lastState.PerceptionRadius),
				1, color.RGBA{R: 90, G: 90, B: 140, A: 80}, true)
		}
		drawAgent(screen, a)
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("Frame: %d\nAgents: %d\nTPS: %.1f\nH: toggle panel", g.lastState.Frame, len(g.lastState.Agents), ebiten.ActualTPS())
	ebitenutil.DebugPrintAt(screen, msg, 10, 10)
}

// arrow is the agent glyph pointing along +X, rotated to the heading when drawn
var arrow = [3]geometry.Vector2D{
	{X: 6, Y: 0},
	geometry.NewVectorPolar(5, 2.5),
	geometry.NewVectorPolar(5, -2.5),
}

// drawAgent draws a small arrow pointing along the agent heading
func drawAgent(screen *ebiten.Image, a simulation.AgentState) {
	vertices := make([]ebiten.Vertex, len(arrow))
	for i, corner := range arrow {
		p := a.Position.Add(corner.Rotate(a.Heading))
		vertices[i] = ebiten.Vertex{DstX: float32(p.X), DstY: float32(p.Y), SrcX: 1, SrcY: 1, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, whiteImage, &ebiten.DrawTrianglesOptions{})
}

func (g *Game) Layout(w, h int) (int, int) {
	return int(g.cfg.WorldWidth) + panelWidth, int(g.cfg.WorldHeight)
}

func init() {
	whiteImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

func main() {
	configFile := flag.String("config", "", "JSON configuration file (defaults are used when empty)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := log.InfoLevel
	if *debug {
		level = log.DebugLevel
	}
	logger := log.New(level, os.Stderr)

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			logger.Fatalf("💥 %v", err)
		}
	}

	ctx := context.Background()
	sim, err := simulation.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("💥 %v", err)
	}
	defer func() { _ = sim.Stop(ctx) }()

	game, err := NewGame(ctx, sim, cfg)
	if err != nil {
		logger.Fatalf("💥 %v", err)
	}

	ebiten.SetTPS(cfg.TicksPerSecond)
	ebiten.SetWindowSize(int(cfg.WorldWidth)+panelWidth, int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids: alignment, cohesion, separation")
	if err := ebiten.RunGame(game); err != nil {
		logger.Errorf("💥 %v", err)
	}
}
