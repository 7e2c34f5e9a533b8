package motion

import (
	"context"
	"slices"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/gwillem/onyx/pkg/robot"
)

// Move is one joint's trajectory endpoints.
type Move struct {
	ID   robot.JointID
	From float64
	To   float64
}

// Stats counts the commands a Mover has issued.
type Stats struct {
	Commands int64
	Failures int64
}

// MoverConfig holds configuration for a Mover.
type MoverConfig struct {
	Handles robot.Handles
	Limits  robot.Limits
	// Clock defaults to SystemClock.
	Clock Clock
	// MinStepDelay is the floor under duration/steps.
	MinStepDelay time.Duration
	// Logger receives command failures. The zero Logger discards them.
	Logger zerolog.Logger
}

// Mover drives groups of joints along interpolated trajectories in lockstep.
// Every angle is clamped to its joint's limits before it is sent.
type Mover struct {
	handles robot.Handles
	limits  robot.Limits
	clock   Clock
	minStep time.Duration
	log     zerolog.Logger

	commands atomic.Int64
	failures atomic.Int64
}

// NewMover creates a Mover.
func NewMover(cfg MoverConfig) *Mover {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &Mover{
		handles: cfg.Handles,
		limits:  cfg.Limits,
		clock:   cfg.Clock,
		minStep: max(0, cfg.MinStepDelay),
		log:     cfg.Logger,
	}
}

// Stats returns the commands issued so far.
func (m *Mover) Stats() Stats {
	return Stats{
		Commands: m.commands.Load(),
		Failures: m.failures.Load(),
	}
}

// MovePair moves two joints, usually the hip and knee of one leg, so that
// they travel together.
func (m *Mover) MovePair(ctx context.Context, a, b Move, duration time.Duration, steps int) {
	m.MoveGroup(ctx, []Move{a, b}, duration, steps)
}

// MoveGroup moves every joint from its start to its target in steps equal
// increments spread over duration. Within a step all joints are commanded
// back to back, then the mover sleeps for max(MinStepDelay, duration/steps).
//
// With steps <= 0 or duration <= 0 each joint is commanded straight to its
// target and MoveGroup returns without sleeping.
//
// Joints without a handle are skipped. A failed command is logged and the
// trajectory continues. Cancelling ctx does not interrupt the trajectory.
func (m *Mover) MoveGroup(ctx context.Context, moves []Move, duration time.Duration, steps int) {
	ctx = context.WithoutCancel(ctx)

	clamped := make([]Move, len(moves))
	for i, mv := range moves {
		clamped[i] = Move{
			ID:   mv.ID,
			From: m.limits.Clamp(mv.ID, mv.From),
			To:   m.limits.Clamp(mv.ID, mv.To),
		}
	}

	if steps <= 0 || duration <= 0 {
		m.jump(ctx, clamped)
		return
	}

	paths := make([][]float64, len(clamped))
	for i, mv := range clamped {
		seq, err := Interpolate(mv.From, mv.To, steps)
		if err != nil {
			m.jump(ctx, clamped)
			return
		}
		paths[i] = slices.Collect(seq)
	}

	perStep := max(m.minStep, duration/time.Duration(steps))
	for step := range steps {
		for i, mv := range clamped {
			m.send(ctx, mv.ID, paths[i][step])
		}
		m.clock.Sleep(perStep)
	}
}

func (m *Mover) jump(ctx context.Context, moves []Move) {
	for _, mv := range moves {
		m.send(ctx, mv.ID, mv.To)
	}
}

func (m *Mover) send(ctx context.Context, id robot.JointID, angle float64) {
	act, ok := m.handles[id]
	if !ok {
		return
	}
	angle = m.limits.Clamp(id, angle)
	m.commands.Add(1)
	if err := act.Move(ctx, angle); err != nil {
		m.failures.Add(1)
		m.log.Warn().Err(err).Int("servo", int(id)).Float64("angle", angle).Msg("move failed")
	}
}
