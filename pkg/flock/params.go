package flock

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownPreset = errors.New("unknown flock preset")

// Params controls the steering constants of one agent.
// They never change once the agent exists; several agents usually share one value.
type Params struct {
	MaxForce         float64 // cap on the magnitude of each steering force
	MaxSpeed         float64 // cap on the magnitude of the velocity
	PerceptionRadius float64 // neighbors strictly closer than this are perceived
}

var (
	// Classic is the gentle steering preset.
	Classic = Params{MaxForce: 0.05, MaxSpeed: 2, PerceptionRadius: 50}
	// Responsive doubles the steering cap, flocks form faster and jitter more.
	Responsive = Params{MaxForce: 0.1, MaxSpeed: 2, PerceptionRadius: 50}
)

// PresetByName returns the preset registered under name ("classic" or "responsive").
func PresetByName(name string) (Params, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "classic":
		return Classic, nil
	case "responsive":
		return Responsive, nil
	}
	return Params{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Validate checks that every constant is finite and strictly positive.
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"maxForce", p.MaxForce},
		{"maxSpeed", p.MaxSpeed},
		{"perceptionRadius", p.PerceptionRadius},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			return fmt.Errorf("invalid %s %v: must be a positive finite number", f.name, f.value)
		}
	}
	return nil
}

// World is the toroidal plane the agents live on.
type World struct {
	Width  float64
	Height float64
}
