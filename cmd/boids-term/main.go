package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/terminal"
	"github.com/tochemey/goakt/v3/log"
)

type app struct {
	ctx    context.Context
	sim    *simulation.Simulation
	screen tcell.Screen
	view   *terminal.View
	cfg    *simulation.Config

	paused    bool
	lastState *simulation.Snapshot
}

func (a *app) status() string {
	state := "running"
	if a.paused {
		state = "paused"
	}
	frame, agents := uint64(0), 0
	if a.lastState != nil {
		frame, agents = a.lastState.Frame, len(a.lastState.Agents)
	}
	return fmt.Sprintf(" frame %d | %d agents | %s | space: pause  r: reset  q: quit", frame, agents, state)
}

// handleInput returns false when the user asked to quit
func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				a.paused = !a.paused
			case 'r':
				if err := a.sim.Reset(a.ctx, map[string]any{"seed": float64(rand.Uint32())}); err != nil {
					return false
				}
			}
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) run() {
	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.TicksPerSecond))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}

		case snap := <-a.sim.Snapshots():
			a.lastState = snap

		case <-ticker.C:
			if !a.paused {
				if err := a.sim.Advance(a.ctx, 1); err != nil {
					return
				}
			}
			a.view.Draw(a.lastState, a.status())
		}
	}
}

func main() {
	configFile := flag.String("config", "", "JSON configuration file (defaults are used when empty)")
	logFile := flag.String("log", "", "write logs to this file (the terminal is busy drawing)")
	flag.Parse()

	var logger log.Logger = log.DiscardLogger
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.New(log.InfoLevel, f)
	}

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	sim, err := simulation.New(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start simulation: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = sim.Stop(ctx) }()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	a := &app{
		ctx:    ctx,
		sim:    sim,
		screen: screen,
		view:   terminal.NewView(screen),
		cfg:    cfg,
	}
	a.run()
}
