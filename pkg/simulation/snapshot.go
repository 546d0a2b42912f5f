package simulation

import (
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/geometry"
)

// AgentState is the read-only view of one agent handed to renderers.
type AgentState struct {
	ID       int
	Position geometry.Vector2D
	Velocity geometry.Vector2D
	Heading  float64 // radians, direction of Velocity
}

// Snapshot is a copy of the whole flock after a frame.
type Snapshot struct {
	RunID            string
	Frame            uint64
	World            flock.World
	PerceptionRadius float64
	Agents           []AgentState
}

func newSnapshot(runID string, f *flock.Flock) *Snapshot {
	snap := &Snapshot{
		RunID:  runID,
		Frame:  f.Frame(),
		World:  f.World(),
		Agents: make([]AgentState, 0, f.Len()),
	}
	for _, a := range f.Agents() {
		snap.PerceptionRadius = a.PerceptionRadius
		snap.Agents = append(snap.Agents, AgentState{
			ID:       a.ID,
			Position: a.Position,
			Velocity: a.Velocity,
			Heading:  a.Heading(),
		})
	}
	return snap
}
