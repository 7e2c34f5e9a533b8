package gait

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gwillem/onyx/pkg/motion"
	"github.com/gwillem/onyx/pkg/robot"
)

// Forever makes Run walk until its context is cancelled.
const Forever = -1

// ErrAlreadyRunning is returned by Run while another Run is in progress.
var ErrAlreadyRunning = errors.New("gait already running")

// State is a snapshot of a running gait.
type State struct {
	Cycle     int
	Diagonal  string
	Phase     Phase
	Stats     motion.Stats
	Timestamp time.Time
}

// Rig is the hardware side of a Controller.
type Rig struct {
	Handles robot.Handles
	Limits  robot.Limits
	// Baseline is the standing pose. It is copied.
	Baseline robot.Pose
	// Clock defaults to motion.SystemClock.
	Clock  motion.Clock
	Logger zerolog.Logger
}

// Controller alternates the two diagonals of the trot.
type Controller struct {
	cfg       Config
	rig       Rig
	mover     *motion.Mover
	seq       *Sequencer
	diagonals []robot.Diagonal
	log       zerolog.Logger

	mu      sync.Mutex
	running bool
	cycle   int
	stateCh chan State
}

// NewController creates a controller for the given tuning and hardware.
func NewController(cfg Config, rig Rig) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rig.Clock == nil {
		rig.Clock = motion.SystemClock{}
	}
	rig.Baseline = rig.Baseline.Clone()

	mover := motion.NewMover(motion.MoverConfig{
		Handles:      rig.Handles,
		Limits:       rig.Limits,
		Clock:        rig.Clock,
		MinStepDelay: cfg.MinStepDelay,
		Logger:       rig.Logger,
	})

	c := &Controller{
		cfg:       cfg,
		rig:       rig,
		mover:     mover,
		seq:       NewSequencer(mover, rig.Clock, cfg, rig.Baseline),
		diagonals: []robot.Diagonal{robot.DiagonalA, robot.DiagonalB},
		log:       rig.Logger,
		stateCh:   make(chan State, 1),
	}
	c.seq.OnPhase(c.phaseChanged)
	return c, nil
}

// States returns a channel that receives state updates. Only the latest
// state is kept when the reader falls behind.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Stats returns the commands issued so far.
func (c *Controller) Stats() motion.Stats {
	return c.mover.Stats()
}

// Targets returns the step targets derived from the baseline.
func (c *Controller) Targets() Targets {
	return c.seq.Targets()
}

// Run walks for the given number of cycles, each stepping diagonal A then
// diagonal B. Zero cycles does nothing; Forever walks until ctx is done.
//
// Cancellation is checked before each diagonal. A diagonal in progress is
// finished, so the legs are back at the baseline when Run returns ctx.Err().
func (c *Controller) Run(ctx context.Context, cycles int) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	c.checkRig()
	if cycles == 0 {
		return nil
	}

	c.log.Info().
		Str("profile", string(c.cfg.Profile)).
		Int("cycles", cycles).
		Float64("hip_offset", c.cfg.HipSwing()).
		Float64("knee_offset", c.cfg.KneeLift()).
		Int("steps", c.cfg.InterpolationSteps).
		Dur("move", c.cfg.MoveDuration).
		Dur("return", c.cfg.ReturnDuration).
		Dur("settle", c.cfg.Settle).
		Msg("Gait started")

	for cycle := 1; cycles < 0 || cycle <= cycles; cycle++ {
		c.setCycle(cycle)
		c.log.Debug().Int("cycle", cycle).Msg("Cycle")

		for _, d := range c.diagonals {
			if err := ctx.Err(); err != nil {
				c.log.Info().Int("cycle", cycle).Msg("Gait stopped")
				return err
			}
			c.seq.MoveDiagonalPair(ctx, d)
		}
	}

	stats := c.mover.Stats()
	c.log.Info().
		Int64("commands", stats.Commands).
		Int64("failures", stats.Failures).
		Msg("Gait finished")
	return nil
}

// checkRig warns about joints the gait cannot drive. The run goes ahead
// without them.
func (c *Controller) checkRig() {
	var required []robot.JointID
	for _, d := range c.diagonals {
		ids := d.IDs()
		required = append(required, ids[:]...)
	}

	if missing := c.rig.Baseline.Missing(required...); len(missing) > 0 {
		c.log.Warn().Ints("missing", jointInts(missing)).Msg("Baseline pose is missing servos, they will not move")
	}
	if absent := c.rig.Handles.Absent(required...); len(absent) > 0 {
		c.log.Debug().Ints("absent", jointInts(absent)).Msg("Servos without a handle will be skipped")
	}
}

func (c *Controller) setCycle(n int) {
	c.mu.Lock()
	c.cycle = n
	c.mu.Unlock()
}

func (c *Controller) phaseChanged(d robot.Diagonal, p Phase) {
	c.mu.Lock()
	cycle := c.cycle
	c.mu.Unlock()

	c.sendState(State{
		Cycle:     cycle,
		Diagonal:  d.Name,
		Phase:     p,
		Stats:     c.mover.Stats(),
		Timestamp: time.Now(),
	})
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		select {
		case c.stateCh <- s:
		default:
		}
	}
}

func jointInts(ids []robot.JointID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
