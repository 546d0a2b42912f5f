package flock

import (
	"math"
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/geometry"
)

// Agent is a single boid of the flock.
// Boids is the artificial life model published by Craig Reynolds in 1987: every
// bird-oid object steers with three local rules (alignment, cohesion, separation)
// computed only from the neighbors it perceives. https://en.wikipedia.org/wiki/Boids
// Fields are exported so renderers can read them; only Update mutates them.
type Agent struct {
	ID           int
	Position     geometry.Vector2D
	Velocity     geometry.Vector2D
	Acceleration geometry.Vector2D
	Params

	world World
}

// NewAgent creates an agent with a random position inside the world and a random
// velocity whose components are uniform in [-1, 1].
// A nil rng draws from the global source.
func NewAgent(id int, world World, p Params, rng *rand.Rand) *Agent {
	float := rand.Float64
	if rng != nil {
		float = rng.Float64
	}
	return &Agent{
		ID:       id,
		Position: geometry.Vector2D{X: float() * world.Width, Y: float() * world.Height},
		Velocity: geometry.Vector2D{X: float()*2 - 1, Y: float()*2 - 1},
		Params:   p,
		world:    world,
	}
}

// Update advances the agent by one frame against the rest of the flock:
// steer, move, cap the speed, then wrap around the world edges.
func (a *Agent) Update(all []*Agent) {
	a.Flock(all)
	a.Position = a.Position.Add(a.Velocity)
	a.Velocity = a.Velocity.Add(a.Acceleration).Limit(a.MaxSpeed)
	a.Edges()
}

// Flock recomputes the acceleration from scratch as the unweighted sum of the
// three steering forces.
func (a *Agent) Flock(all []*Agent) {
	a.Acceleration = geometry.Vector2D{}

	alignment := a.Alignment(all)
	cohesion := a.Cohesion(all)
	separation := a.Separation(all)

	a.Acceleration = a.Acceleration.Add(alignment).Add(cohesion).Add(separation)
}

// Edges teleports the agent to the opposite side when it leaves the world.
// Positions stay inside [0, Width) x [0, Height).
func (a *Agent) Edges() {
	a.Position.X = wrap(a.Position.X, a.world.Width)
	a.Position.Y = wrap(a.Position.Y, a.world.Height)
}

func wrap(v, size float64) float64 {
	switch {
	case v >= size:
		return 0
	case v < 0:
		// the far edge itself is outside the half-open range
		return math.Nextafter(size, 0)
	}
	return v
}

// Heading is the direction of travel in radians, measured from the X axis.
func (a *Agent) Heading() float64 {
	return a.Velocity.Angle()
}

// DrawAngle is Heading rotated by 90 degrees, for sprites drawn pointing up.
func (a *Agent) DrawAngle() float64 {
	return a.Heading() + math.Pi/2
}

// Speed returns the magnitude of the velocity.
func (a *Agent) Speed() float64 {
	return a.Velocity.Len()
}

// World returns the bounds the agent wraps around.
func (a *Agent) World() World {
	return a.world
}

func (a *Agent) finite() bool {
	return a.Position.IsFinite() && a.Velocity.IsFinite() && a.Acceleration.IsFinite()
}
