// Package fake provides in-memory stand-ins for the servo bus and wall clock.
package fake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gwillem/onyx/pkg/robot"
)

// ErrInjected is returned for commands to a joint marked as failing.
var ErrInjected = errors.New("fake: injected failure")

// Clock is a virtual clock. Sleep advances it without blocking.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	sleeps int
}

// Sleep advances the clock by d.
func (c *Clock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	c.sleeps++
}

// Elapsed returns the total time slept.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleeps returns the number of Sleep calls.
func (c *Clock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}

// Command is one recorded actuator command.
type Command struct {
	ID    robot.JointID
	Angle float64
	At    time.Duration
}

// Recorder records the commands sent to its handles.
type Recorder struct {
	clock *Clock

	mu       sync.Mutex
	commands []Command
	failing  map[robot.JointID]bool
	angles   robot.Pose
}

// NewRecorder creates a recorder stamping commands with clock's time. clock
// may be nil.
func NewRecorder(clock *Clock) *Recorder {
	return &Recorder{
		clock:   clock,
		failing: make(map[robot.JointID]bool),
		angles:  make(robot.Pose),
	}
}

// Handles returns an actuator for every id.
func (r *Recorder) Handles(ids ...robot.JointID) robot.Handles {
	handles := make(robot.Handles, len(ids))
	for _, id := range ids {
		handles[id] = robot.ActuatorFunc(func(ctx context.Context, angle float64) error {
			return r.move(id, angle)
		})
	}
	return handles
}

// Fail makes every later command to id return ErrInjected. Failed commands
// are not recorded.
func (r *Recorder) Fail(id robot.JointID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failing[id] = true
}

func (r *Recorder) move(id robot.JointID, angle float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing[id] {
		return ErrInjected
	}
	var at time.Duration
	if r.clock != nil {
		at = r.clock.Elapsed()
	}
	r.commands = append(r.commands, Command{ID: id, Angle: angle, At: at})
	r.angles[id] = angle
	return nil
}

// SetAngle sets the angle ReadAngle reports for id, as if the joint had been
// moved by hand.
func (r *Recorder) SetAngle(id robot.JointID, angle float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.angles[id] = angle
}

// ReadAngle returns the last commanded or set angle of id. Joints marked as
// failing, and joints never moved, return an error.
func (r *Recorder) ReadAngle(ctx context.Context, id robot.JointID) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing[id] {
		return 0, ErrInjected
	}
	angle, ok := r.angles[id]
	if !ok {
		return 0, fmt.Errorf("fake: servo %d has no position", id)
	}
	return angle, nil
}

// Commands returns every recorded command in order.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// For returns the angles commanded to id, in order.
func (r *Recorder) For(id robot.JointID) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var angles []float64
	for _, c := range r.commands {
		if c.ID == id {
			angles = append(angles, c.Angle)
		}
	}
	return angles
}

// Last returns the last angle commanded to id.
func (r *Recorder) Last(id robot.JointID) (float64, bool) {
	angles := r.For(id)
	if len(angles) == 0 {
		return 0, false
	}
	return angles[len(angles)-1], true
}
