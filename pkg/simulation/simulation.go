package simulation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Simulation runs one WorldActor inside its own actor system.
// Drivers call Advance once per rendered frame and draw whatever arrives on Snapshots.
type Simulation struct {
	RunID uuid.UUID

	system    actor.ActorSystem
	worldPID  *actor.PID
	snapshots chan *Snapshot
	logger    log.Logger
}

// New starts the actor system and spawns the world described by cfg.
func New(ctx context.Context, cfg *Config, logger log.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = log.DiscardLogger
	}

	runID := uuid.New()
	system, err := actor.NewActorSystem("FlockEngine",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	// Buffer to avoid blocking the world on a slow renderer
	snapshots := make(chan *Snapshot, 4)
	worldPID, err := system.Spawn(ctx, "world", NewWorldActor(runID.String(), snapshots, cfg))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	logger.Infof("Simulation %s started: %vx%v world, %d agents", runID, cfg.WorldWidth, cfg.WorldHeight, cfg.Population)
	return &Simulation{
		RunID:     runID,
		system:    system,
		worldPID:  worldPID,
		snapshots: snapshots,
		logger:    logger,
	}, nil
}

// Advance asks the world to step the given number of frames.
func (s *Simulation) Advance(ctx context.Context, frames uint64) error {
	return actor.Tell(ctx, s.worldPID, wrapperspb.UInt64(frames))
}

// Reset rebuilds the flock. Recognised overrides are seed, population, maxForce,
// maxSpeed, perceptionRadius (numbers) and semantics (string); invalid ones are
// logged by the world and the current flock keeps running.
func (s *Simulation) Reset(ctx context.Context, overrides map[string]any) error {
	msg, err := structpb.NewStruct(overrides)
	if err != nil {
		return fmt.Errorf("invalid reset overrides: %w", err)
	}
	return actor.Tell(ctx, s.worldPID, msg)
}

// Snapshots delivers the state after each Advance or Reset, latest wins.
func (s *Simulation) Snapshots() <-chan *Snapshot {
	return s.snapshots
}

// Stop shuts the actor system down.
func (s *Simulation) Stop(ctx context.Context) error {
	s.logger.Infof("Simulation %s stopping", s.RunID)
	return s.system.Stop(ctx)
}
