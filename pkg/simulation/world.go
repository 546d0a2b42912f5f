package simulation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lao-tseu-is-alive/go-flock-engine/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor owns the flock and is the only one allowed to step it.
// Renderers never touch the agents: they receive Snapshots on a channel.
//
// Messages:
//   - *wrapperspb.UInt64Value: advance that many frames (0 counts as 1)
//   - *structpb.Struct: rebuild the flock with the given overrides
//     (seed, population, maxForce, maxSpeed, perceptionRadius, semantics)
type WorldActor struct {
	runID      string
	cfg        *Config
	flock      *flock.Flock
	seed       uint64
	snapshotCh chan *Snapshot
	halted     bool

	// --- Throughput Stats ---
	framesSinceLog uint64
	lastLogTime    time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit
func NewWorldActor(runID string, snapshotCh chan *Snapshot, cfg *Config) *WorldActor {
	return &WorldActor{
		runID:       runID,
		cfg:         cfg,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	if err := w.init(); err != nil {
		return err
	}
	ctx.ActorSystem().Logger().Infof("World %s spawned %d agents (seed %d, %s)",
		w.runID, w.flock.Len(), w.seed, w.flock.Semantics())
	return nil
}

func (w *WorldActor) init() error {
	f, seed, err := buildFlock(w.cfg)
	if err != nil {
		return err
	}
	w.flock, w.seed = f, seed
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Debugf("World %s ready", w.runID)

	case *wrapperspb.UInt64Value:
		w.advance(ctx.Logger(), msg.GetValue())
		w.pushSnapshot()

	case *structpb.Struct:
		w.reset(ctx.Logger(), msg)
		w.pushSnapshot()

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	if w.flock != nil {
		ctx.ActorSystem().Logger().Infof("World %s stopped at frame %s", w.runID, humanize.Comma(int64(w.flock.Frame())))
	}
	return nil
}

// advance steps the flock. Once a frame produced non-finite state the flock is
// frozen: stepping it further would only spread NaN to every neighbor.
func (w *WorldActor) advance(logger log.Logger, frames uint64) {
	if w.halted {
		return
	}
	if frames == 0 {
		frames = 1
	}
	for i := uint64(0); i < frames; i++ {
		if err := w.flock.Step(); err != nil {
			logger.Errorf("World %s halted: %v", w.runID, err)
			w.halted = true
			return
		}
		w.framesSinceLog++
	}
	w.logThroughput(logger)
}

func (w *WorldActor) logThroughput(logger log.Logger) {
	elapsed := time.Since(w.lastLogTime)
	if elapsed < time.Second {
		return
	}
	rate := float64(w.framesSinceLog) / elapsed.Seconds()
	logger.Infof("📊 %s frames/sec | frame %s | agents %s",
		humanize.FormatFloat("#,###.#", rate),
		humanize.Comma(int64(w.flock.Frame())),
		humanize.Comma(int64(w.flock.Len())))
	w.framesSinceLog = 0
	w.lastLogTime = time.Now()
}

func (w *WorldActor) reset(logger log.Logger, overrides *structpb.Struct) {
	cfg, err := applyOverrides(w.cfg, overrides)
	if err != nil {
		logger.Warnf("World %s ignored reset: %v", w.runID, err)
		return
	}
	f, seed, err := buildFlock(cfg)
	if err != nil {
		logger.Warnf("World %s ignored reset: %v", w.runID, err)
		return
	}
	w.cfg, w.flock, w.seed, w.halted = cfg, f, seed, false
	logger.Infof("World %s reset: %d agents (seed %d)", w.runID, f.Len(), seed)
}

// pushSnapshot hands the latest state to the renderer without blocking.
// When the renderer is behind, the stale snapshot is replaced.
func (w *WorldActor) pushSnapshot() {
	if w.snapshotCh == nil {
		return
	}
	snap := newSnapshot(w.runID, w.flock)
	select {
	case w.snapshotCh <- snap:
		return
	default:
	}
	select {
	case <-w.snapshotCh:
	default:
	}
	select {
	case w.snapshotCh <- snap:
	default:
		// UI busy, skip frame
	}
}

func buildFlock(cfg *Config) (*flock.Flock, uint64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, 0, err
	}
	semantics, err := flock.ParseSemantics(cfg.Semantics)
	if err != nil {
		return nil, 0, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	f := flock.New(cfg.Population, cfg.World(), params, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	f.SetSemantics(semantics)
	return f, seed, nil
}

// applyOverrides merges the reset options into a copy of base and sends the
// result through ParseConfig, so a reset obeys the same schema as the config file.
func applyOverrides(base *Config, overrides *structpb.Struct) (*Config, error) {
	merged, err := configFields(base)
	if err != nil {
		return nil, err
	}
	for key, value := range overrides.GetFields() {
		switch key {
		case "seed", "population", "maxForce", "maxSpeed", "perceptionRadius":
			if _, ok := value.GetKind().(*structpb.Value_NumberValue); !ok {
				return nil, fmt.Errorf("reset option %q must be a number", key)
			}
		case "semantics":
			if _, ok := value.GetKind().(*structpb.Value_StringValue); !ok {
				return nil, fmt.Errorf("reset option %q must be a string", key)
			}
		default:
			return nil, fmt.Errorf("unknown reset option %q", key)
		}
		merged[key] = value.AsInterface()
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reset options: %w", err)
	}
	return ParseConfig(data)
}

// configFields returns cfg as a JSON object. Numbers stay json.Number so large
// seeds survive the round trip.
func configFields(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	fields := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return fields, nil
}
