package flock

import "github.com/lao-tseu-is-alive/go-flock-engine/pkg/geometry"

// accumulateFunc folds one perceived neighbor, at distance d, into the running sum.
type accumulateFunc func(neighbor *Agent, d float64, sum geometry.Vector2D) geometry.Vector2D

// finishFunc adjusts the averaged sum before it is shaped into a force.
type finishFunc func(avg geometry.Vector2D) geometry.Vector2D

// steer is the reduction shared by the three rules. It walks every agent,
// keeps those strictly inside the perception radius (self is excluded by ID, not
// by distance), averages what accumulate produced and turns the average into a
// steering force: desired velocity at MaxSpeed minus current velocity, capped at
// MaxForce. No neighbor means no force.
func (a *Agent) steer(all []*Agent, accumulate accumulateFunc, finish finishFunc) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0

	for _, other := range all {
		if other.ID == a.ID {
			continue
		}
		d := a.Position.DistanceTo(other.Position)
		if d < a.PerceptionRadius {
			sum = accumulate(other, d, sum)
			count++
		}
	}
	if count == 0 {
		return geometry.Vector2D{}
	}

	avg, err := sum.Div(float64(count))
	if err != nil {
		return geometry.Vector2D{}
	}
	if finish != nil {
		avg = finish(avg)
	}
	return avg.SetMag(a.MaxSpeed).Sub(a.Velocity).Limit(a.MaxForce)
}

// Alignment steers toward the average velocity of the perceived neighbors.
func (a *Agent) Alignment(all []*Agent) geometry.Vector2D {
	return a.steer(all, func(n *Agent, _ float64, sum geometry.Vector2D) geometry.Vector2D {
		return sum.Add(n.Velocity)
	}, nil)
}

// Cohesion steers toward the centroid of the perceived neighbors.
func (a *Agent) Cohesion(all []*Agent) geometry.Vector2D {
	return a.steer(all, func(n *Agent, _ float64, sum geometry.Vector2D) geometry.Vector2D {
		return sum.Add(n.Position)
	}, func(centroid geometry.Vector2D) geometry.Vector2D {
		return centroid.Sub(a.Position)
	})
}

// Separation steers away from crowding neighbors. Each neighbor pushes with
// (self - neighbor) / distance, so closer neighbors weigh more.
// A distinct agent sitting on the exact same point has no direction to push
// from; it still counts as a neighbor but adds nothing to the sum.
func (a *Agent) Separation(all []*Agent) geometry.Vector2D {
	return a.steer(all, func(n *Agent, d float64, sum geometry.Vector2D) geometry.Vector2D {
		push, err := a.Position.Sub(n.Position).Div(d)
		if err != nil {
			return sum
		}
		return sum.Add(push)
	}, nil)
}

// Neighbors returns the agents this agent currently perceives, in list order.
func (a *Agent) Neighbors(all []*Agent) []*Agent {
	var seen []*Agent
	a.steer(all, func(n *Agent, _ float64, sum geometry.Vector2D) geometry.Vector2D {
		seen = append(seen, n)
		return sum
	}, nil)
	return seen
}
