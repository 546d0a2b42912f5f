package flock

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/geometry"
)

var testWorld = World{Width: 500, Height: 400}

func newTestAgent(id int, x, y, vx, vy float64) *Agent {
	return &Agent{
		ID:       id,
		Position: geometry.Vector2D{X: x, Y: y},
		Velocity: geometry.Vector2D{X: vx, Y: vy},
		Params:   Classic,
		world:    testWorld,
	}
}

func TestNewAgent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		a := NewAgent(i, testWorld, Responsive, rng)
		if a.ID != i {
			t.Fatalf("ID = %d; want %d", a.ID, i)
		}
		if a.Position.X < 0 || a.Position.X >= testWorld.Width || a.Position.Y < 0 || a.Position.Y >= testWorld.Height {
			t.Errorf("agent %d spawned outside the world at %s", i, a.Position)
		}
		if math.Abs(a.Velocity.X) > 1 || math.Abs(a.Velocity.Y) > 1 {
			t.Errorf("agent %d velocity %s has a component outside [-1, 1]", i, a.Velocity)
		}
		if a.Acceleration != (geometry.Vector2D{}) {
			t.Errorf("agent %d starts with acceleration %s", i, a.Acceleration)
		}
		if a.Params != Responsive {
			t.Errorf("agent %d params = %+v; want %+v", i, a.Params, Responsive)
		}
	}
}

func TestAgent_Cohesion(t *testing.T) {
	left := newTestAgent(0, 0, 0, 0, 0)
	right := newTestAgent(1, 10, 0, 0, 0)
	all := []*Agent{left, right}

	got := left.Cohesion(all)
	if got.X <= 0 {
		t.Errorf("left cohesion = %s; want positive x toward the right agent", got)
	}
	if !floatNear(got.Y, 0) {
		t.Errorf("left cohesion = %s; want no y component", got)
	}
	if got.Len() > left.MaxForce+geometry.Epsilon {
		t.Errorf("cohesion magnitude %v exceeds maxForce %v", got.Len(), left.MaxForce)
	}

	if got := right.Cohesion(all); got.X >= 0 {
		t.Errorf("right cohesion = %s; want negative x toward the left agent", got)
	}
}

func TestAgent_Separation(t *testing.T) {
	left := newTestAgent(0, 0, 0, 0, 0)
	right := newTestAgent(1, 1, 0, 0, 0)
	all := []*Agent{left, right}

	got := left.Separation(all)
	if got.X >= 0 {
		t.Errorf("left separation = %s; want negative x away from the neighbor", got)
	}
	if !floatNear(got.Len(), left.MaxForce) {
		t.Errorf("separation magnitude = %v; want it clamped to maxForce %v", got.Len(), left.MaxForce)
	}
}

func TestAgent_Alignment(t *testing.T) {
	self := newTestAgent(0, 0, 0, 0, 1)
	neighbor := newTestAgent(1, 5, 0, 2, 0)
	all := []*Agent{self, neighbor}

	got := self.Alignment(all)
	if got.X <= 0 {
		t.Errorf("alignment = %s; want positive x toward the neighbor heading", got)
	}
	if got.Len() > self.MaxForce+geometry.Epsilon {
		t.Errorf("alignment magnitude %v exceeds maxForce %v", got.Len(), self.MaxForce)
	}

	target := geometry.Vector2D{X: 1, Y: 0}
	before := angleBetween(self.Velocity, target)
	after := angleBetween(self.Velocity.Add(got), target)
	if after >= before {
		t.Errorf("velocity did not turn toward (2,0): angle %v -> %v", before, after)
	}
}

func TestAgent_NoNeighborsCoasts(t *testing.T) {
	lonely := newTestAgent(0, 100, 100, 0.5, -0.25)
	far := newTestAgent(1, 400, 300, -1, 1)
	all := []*Agent{lonely, far}

	for name, force := range map[string]geometry.Vector2D{
		"alignment":  lonely.Alignment(all),
		"cohesion":   lonely.Cohesion(all),
		"separation": lonely.Separation(all),
	} {
		if force != (geometry.Vector2D{}) {
			t.Errorf("%s force = %s; want zero without neighbors", name, force)
		}
	}

	velocity := lonely.Velocity
	for frame := 1; frame <= 10; frame++ {
		lonely.Update(all)
		if lonely.Acceleration != (geometry.Vector2D{}) {
			t.Fatalf("frame %d: acceleration = %s; want zero", frame, lonely.Acceleration)
		}
		if lonely.Velocity != velocity {
			t.Fatalf("frame %d: velocity changed to %s", frame, lonely.Velocity)
		}
	}
	want := geometry.Vector2D{X: 105, Y: 97.5}
	if !lonely.Position.Eq(want) {
		t.Errorf("position after 10 frames = %s; want %s", lonely.Position, want)
	}
}

func TestAgent_PerceptionRadiusIsStrict(t *testing.T) {
	self := newTestAgent(0, 100, 100, 0, 0)
	tests := []struct {
		name string
		x    float64
		want int
	}{
		{"exactly on the radius", 100 + Classic.PerceptionRadius, 0},
		{"just inside", 100 + Classic.PerceptionRadius - 1e-6, 1},
		{"outside", 100 + Classic.PerceptionRadius + 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := newTestAgent(1, tt.x, 100, 0, 0)
			if got := len(self.Neighbors([]*Agent{self, other})); got != tt.want {
				t.Errorf("Neighbors = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestAgent_NeverItsOwnNeighbor(t *testing.T) {
	self := newTestAgent(7, 10, 10, 1, 0)
	if got := self.Neighbors([]*Agent{self}); len(got) != 0 {
		t.Errorf("agent perceives itself: %v", got)
	}
	if got := self.Separation([]*Agent{self}); got != (geometry.Vector2D{}) {
		t.Errorf("separation against itself = %s; want zero", got)
	}
}

func TestAgent_CoincidentNeighborsStayFinite(t *testing.T) {
	a := newTestAgent(0, 50, 50, 1, 0)
	b := newTestAgent(1, 50, 50, 0, 1)
	all := []*Agent{a, b}

	if got := len(a.Neighbors(all)); got != 1 {
		t.Fatalf("Neighbors = %d; want the coincident agent to be perceived", got)
	}
	if sep := a.Separation(all); !sep.IsFinite() {
		t.Fatalf("separation = %s; want finite", sep)
	}
	for frame := 0; frame < 20; frame++ {
		a.Update(all)
		b.Update(all)
		if !a.finite() || !b.finite() {
			t.Fatalf("frame %d: non-finite state a=%s/%s b=%s/%s", frame, a.Position, a.Velocity, b.Position, b.Velocity)
		}
	}
}

func TestAgent_Edges(t *testing.T) {
	w, h := testWorld.Width, testWorld.Height
	tests := []struct {
		name string
		pos  geometry.Vector2D
		want func(p geometry.Vector2D) bool
	}{
		{"past the right edge", geometry.Vector2D{X: w + 5, Y: h / 2}, func(p geometry.Vector2D) bool { return p.X == 0 && p.Y == h/2 }},
		{"on the right edge", geometry.Vector2D{X: w, Y: 10}, func(p geometry.Vector2D) bool { return p.X == 0 }},
		{"past the bottom edge", geometry.Vector2D{X: 10, Y: h + 0.1}, func(p geometry.Vector2D) bool { return p.Y == 0 && p.X == 10 }},
		{"before the left edge", geometry.Vector2D{X: -1, Y: 10}, func(p geometry.Vector2D) bool { return p.X < w && p.X > w-1e-6 }},
		{"before the top edge", geometry.Vector2D{X: 10, Y: -3}, func(p geometry.Vector2D) bool { return p.Y < h && p.Y > h-1e-6 }},
		{"inside is untouched", geometry.Vector2D{X: 12.5, Y: 300}, func(p geometry.Vector2D) bool { return p.X == 12.5 && p.Y == 300 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAgent(0, tt.pos.X, tt.pos.Y, 1, 1)
			a.Edges()
			if !tt.want(a.Position) {
				t.Errorf("Edges(%s) = %s", tt.pos, a.Position)
			}
			if a.Velocity != (geometry.Vector2D{X: 1, Y: 1}) {
				t.Errorf("Edges changed the velocity to %s", a.Velocity)
			}
		})
	}
}

func TestAgent_Heading(t *testing.T) {
	a := newTestAgent(0, 0, 0, 0, 1)
	if got := a.Heading(); !floatNear(got, math.Pi/2) {
		t.Errorf("Heading = %v; want Pi/2", got)
	}
	if got := a.DrawAngle(); !floatNear(got, math.Pi) {
		t.Errorf("DrawAngle = %v; want Pi", got)
	}
	if got := a.Speed(); got != 1 {
		t.Errorf("Speed = %v; want 1", got)
	}
}

func floatNear(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func angleBetween(a, b geometry.Vector2D) float64 {
	d := math.Abs(a.Angle() - b.Angle())
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
