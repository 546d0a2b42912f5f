package flock

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

var (
	ErrNonFinite        = errors.New("non-finite agent state")
	ErrUnknownSemantics = errors.New("unknown update semantics")
)

// Semantics selects what an agent sees of the others during a frame.
type Semantics int

const (
	// Sequential updates agents in place, in list order: later agents observe the
	// already updated state of earlier ones in the same frame.
	Sequential Semantics = iota
	// Simultaneous snapshots the whole flock first and updates every agent
	// against that snapshot, so the result does not depend on list order.
	Simultaneous
)

func (s Semantics) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Simultaneous:
		return "simultaneous"
	}
	return fmt.Sprintf("Semantics(%d)", int(s))
}

// ParseSemantics maps "sequential" and "simultaneous" to their Semantics.
// An empty string means Sequential.
func ParseSemantics(s string) (Semantics, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sequential":
		return Sequential, nil
	case "simultaneous":
		return Simultaneous, nil
	}
	return Sequential, fmt.Errorf("%w: %q", ErrUnknownSemantics, s)
}

// Flock is the fixed population of agents for one simulation.
// It is owned by a single driver and is not safe for concurrent use.
type Flock struct {
	world     World
	agents    []*Agent
	semantics Semantics
	frame     uint64

	snapshot []*Agent // reused between Simultaneous frames
}

// New creates n agents with ids 0..n-1. The same rng seed always yields the same flock.
func New(n int, world World, p Params, rng *rand.Rand) *Flock {
	agents := make([]*Agent, n)
	for i := range agents {
		agents[i] = NewAgent(i, world, p, rng)
	}
	return FromAgents(world, agents)
}

// FromAgents wraps an existing population. Agent ids must be unique.
func FromAgents(world World, agents []*Agent) *Flock {
	for _, a := range agents {
		a.world = world
	}
	return &Flock{world: world, agents: agents}
}

// SetSemantics changes the update semantics for the following frames.
func (f *Flock) SetSemantics(s Semantics) {
	f.semantics = s
}

func (f *Flock) Semantics() Semantics {
	return f.semantics
}

// Agents returns the population in update order. Callers must not mutate it.
func (f *Flock) Agents() []*Agent {
	return f.agents
}

func (f *Flock) Len() int {
	return len(f.agents)
}

// Frame is the number of frames stepped so far.
func (f *Flock) Frame() uint64 {
	return f.frame
}

func (f *Flock) World() World {
	return f.world
}

// Step runs one frame: every agent is updated once, in list order.
// A non-finite position or velocity afterwards is an invariant violation and is
// reported as an error wrapping ErrNonFinite.
func (f *Flock) Step() error {
	view := f.agents
	if f.semantics == Simultaneous {
		view = f.takeSnapshot()
	}
	for _, a := range f.agents {
		a.Update(view)
	}
	f.frame++

	for _, a := range f.agents {
		if !a.finite() {
			return fmt.Errorf("frame %d, agent %d at %s moving %s: %w",
				f.frame, a.ID, a.Position, a.Velocity, ErrNonFinite)
		}
	}
	return nil
}

func (f *Flock) takeSnapshot() []*Agent {
	if len(f.snapshot) != len(f.agents) {
		f.snapshot = make([]*Agent, len(f.agents))
		for i := range f.snapshot {
			f.snapshot[i] = new(Agent)
		}
	}
	for i, a := range f.agents {
		*f.snapshot[i] = *a
	}
	return f.snapshot
}
