// Package stance brings the quadruped to its standing pose and reports the
// baseline angles the gait returns to.
package stance

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gwillem/onyx/pkg/motion"
	"github.com/gwillem/onyx/pkg/robot"
)

// Reader reads a joint's present angle.
type Reader interface {
	ReadAngle(ctx context.Context, id robot.JointID) (float64, error)
}

// Options tune Initialize. Zero values select the defaults.
type Options struct {
	Steps     int           // default 40
	StepDelay time.Duration // default 20ms
	Clock     motion.Clock
	Logger    zerolog.Logger
}

const (
	// DefaultSteps is the number of interpolation steps per joint.
	DefaultSteps = 40
	// DefaultStepDelay is the pause after each step.
	DefaultStepDelay = 20 * time.Millisecond
)

// Initialize glides every calibrated joint, one at a time, from its present
// angle to its calibrated mid angle and returns the angles the joints report
// afterwards. Joints whose present angle cannot be read start from the mid
// angle; joints whose final angle cannot be read report the mid angle.
// Joints without a handle, or whose every command failed, are left out of
// the returned pose.
//
// Cancellation is checked between joints; the pose gathered so far is
// returned with ctx.Err().
func Initialize(ctx context.Context, cal robot.Calibration, handles robot.Handles, reader Reader, opts Options) (robot.Pose, error) {
	if opts.Steps <= 0 {
		opts.Steps = DefaultSteps
	}
	if opts.StepDelay <= 0 {
		opts.StepDelay = DefaultStepDelay
	}
	log := opts.Logger

	limits := cal.Limits()
	mover := motion.NewMover(motion.MoverConfig{
		Handles: handles,
		Limits:  limits,
		Clock:   opts.Clock,
		Logger:  log,
	})
	mids := cal.Mids()
	pose := make(robot.Pose, len(mids))

	for _, id := range cal.JointIDs() {
		if err := ctx.Err(); err != nil {
			return pose, err
		}
		mid := mids[id]

		if _, ok := handles[id]; !ok {
			log.Warn().Int("servo", int(id)).Msg("Servo unavailable, skipping")
			continue
		}

		start, err := reader.ReadAngle(ctx, id)
		if err != nil {
			log.Warn().Err(err).Int("servo", int(id)).Msg("Cannot read angle, assuming mid")
			start = mid
		}

		if r := limits.Range(id); !r.Contains(start) {
			log.Warn().Int("servo", int(id)).Float64("angle", start).
				Float64("min", r.Min).Float64("max", r.Max).Msg("Present angle outside range, clamping")
		}

		log.Info().Int("servo", int(id)).Float64("from", start).Float64("to", mid).Msg("Initializing servo")

		before := mover.Stats()
		mover.MoveGroup(ctx, []motion.Move{{ID: id, From: start, To: mid}}, time.Duration(opts.Steps)*opts.StepDelay, opts.Steps)
		after := mover.Stats()
		if sent := after.Commands - before.Commands; sent > 0 && after.Failures-before.Failures == sent {
			log.Error().Int("servo", int(id)).Msg("Servo failed")
			continue
		}

		final, err := reader.ReadAngle(ctx, id)
		if err != nil {
			log.Warn().Err(err).Int("servo", int(id)).Msg("Cannot read final angle, using mid")
			final = mid
		}
		pose[id] = final
		log.Info().Int("servo", int(id)).Float64("angle", final).Msg("Reached final angle")
	}

	return pose, nil
}
