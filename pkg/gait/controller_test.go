package gait_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwillem/onyx/pkg/gait"
	"github.com/gwillem/onyx/pkg/robot"
	"github.com/gwillem/onyx/pkg/robot/fake"
)

var allJoints = []robot.JointID{1, 2, 3, 4, 5, 6, 7, 8}

func newController(t *testing.T, r *rig, handles robot.Handles, baseline robot.Pose, log zerolog.Logger) *gait.Controller {
	t.Helper()
	c, err := gait.NewController(smooth(t), gait.Rig{
		Handles:  handles,
		Limits:   r.limits,
		Baseline: baseline,
		Clock:    r.clock,
		Logger:   log,
	})
	require.NoError(t, err)
	return c
}

func TestRun_ZeroCycles(t *testing.T) {
	r := newRig()
	c := newController(t, r, r.rec.Handles(allJoints...), robot.DefaultCalibration().Mids(), zerolog.Nop())

	require.NoError(t, c.Run(context.Background(), 0))

	assert.Empty(t, r.rec.Commands())
	assert.Zero(t, r.clock.Sleeps())
	assert.Zero(t, c.Stats().Commands)
}

func TestRun_Cycles(t *testing.T) {
	r := newRig()
	baseline := robot.DefaultCalibration().Mids()
	c := newController(t, r, r.rec.Handles(allJoints...), baseline, zerolog.Nop())

	require.NoError(t, c.Run(context.Background(), 3))

	// 6 steps out and 6 back per diagonal, one diagonal per joint per cycle.
	for _, id := range allJoints {
		assert.Len(t, r.rec.For(id), 3*12, "servo %d", id)
		last, _ := r.rec.Last(id)
		assert.Equal(t, baseline[id], last, "servo %d", id)
	}
	r.assertWithinLimits(t)

	// Diagonal A leads every cycle.
	assert.Equal(t, robot.JointID(7), r.rec.Commands()[0].ID)

	phase := smooth(t).PhaseDuration()
	assert.InDelta(t, float64(6*phase), float64(r.clock.Elapsed()), 1e3)
}

func TestRun_MissingBaseline(t *testing.T) {
	r := newRig()
	baseline := robot.DefaultCalibration().Mids()
	delete(baseline, 4)

	var buf bytes.Buffer
	c := newController(t, r, r.rec.Handles(allJoints...), baseline, zerolog.New(&buf))

	require.NoError(t, c.Run(context.Background(), 2))

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"missing":[4]`)
	assert.Empty(t, r.rec.For(4))
	for _, id := range allJoints {
		if id == 4 {
			continue
		}
		assert.Len(t, r.rec.For(id), 2*12, "servo %d", id)
	}
}

func TestRun_AbsentAndFailingServos(t *testing.T) {
	r := newRig()
	r.rec.Fail(5)
	handles := r.rec.Handles(1, 2, 3, 4, 5, 6, 7) // 8 never came up

	var buf bytes.Buffer
	c := newController(t, r, handles, robot.DefaultCalibration().Mids(), zerolog.New(&buf))

	require.NoError(t, c.Run(context.Background(), 1))

	assert.Empty(t, r.rec.For(8))
	assert.Empty(t, r.rec.For(5))
	assert.Len(t, r.rec.For(7), 12)
	assert.Len(t, r.rec.For(6), 12)
	assert.Equal(t, int64(12), c.Stats().Failures)
	assert.Contains(t, buf.String(), "move failed")
}

func TestRun_CancelFinishesPhase(t *testing.T) {
	r := newRig()
	baseline := robot.DefaultCalibration().Mids()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handles := r.rec.Handles(allJoints...)
	hip := handles[7]
	commands := 0
	handles[7] = robot.ActuatorFunc(func(ctx context.Context, angle float64) error {
		commands++
		if commands == 3 {
			cancel()
		}
		return hip.Move(ctx, angle)
	})

	c := newController(t, r, handles, baseline, zerolog.Nop())
	err := c.Run(ctx, gait.Forever)
	require.ErrorIs(t, err, context.Canceled)

	// Diagonal A ran to completion and is home again; diagonal B never started.
	for _, id := range robot.DiagonalA.IDs() {
		last, ok := r.rec.Last(id)
		require.True(t, ok, "servo %d", id)
		assert.Equal(t, baseline[id], last, "servo %d", id)
	}
	for _, id := range robot.DiagonalB.IDs() {
		assert.Empty(t, r.rec.For(id), "servo %d", id)
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	r := newRig()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newController(t, r, r.rec.Handles(allJoints...), robot.DefaultCalibration().Mids(), zerolog.Nop())

	assert.ErrorIs(t, c.Run(ctx, 5), context.Canceled)
	assert.Empty(t, r.rec.Commands())
}

func TestRun_AlreadyRunning(t *testing.T) {
	r := newRig()
	handles := r.rec.Handles(allJoints...)

	var c *gait.Controller
	var nested error
	handles[1] = robot.ActuatorFunc(func(ctx context.Context, angle float64) error {
		if nested == nil {
			nested = c.Run(ctx, 1)
		}
		return nil
	})
	c = newController(t, r, handles, robot.DefaultCalibration().Mids(), zerolog.Nop())

	require.NoError(t, c.Run(context.Background(), 1))
	assert.ErrorIs(t, nested, gait.ErrAlreadyRunning)
}

func TestRun_States(t *testing.T) {
	r := newRig()
	c := newController(t, r, r.rec.Handles(allJoints...), robot.DefaultCalibration().Mids(), zerolog.Nop())

	require.NoError(t, c.Run(context.Background(), 2))

	select {
	case s := <-c.States():
		assert.Equal(t, 2, s.Cycle)
		assert.Equal(t, "B", s.Diagonal)
		assert.Equal(t, gait.PhaseSettle, s.Phase)
		assert.Equal(t, int64(2*8*12), s.Stats.Commands)
	default:
		t.Fatal("no state published")
	}
}

func TestNewController_InvalidConfig(t *testing.T) {
	_, err := gait.NewController(gait.Config{HipOffset: -1}, gait.Rig{})
	assert.Error(t, err)
}

func TestRun_DoesNotMutateBaseline(t *testing.T) {
	r := newRig()
	baseline := robot.DefaultCalibration().Mids()
	want := baseline.Clone()

	c := newController(t, r, fake.NewRecorder(r.clock).Handles(allJoints...), baseline, zerolog.Nop())
	require.NoError(t, c.Run(context.Background(), 1))

	assert.Equal(t, want, baseline)
}
