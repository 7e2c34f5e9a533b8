package robot

import "context"

// Actuator commands one servo. Move does not wait for the servo to arrive.
type Actuator interface {
	Move(ctx context.Context, angle float64) error
}

// ActuatorFunc adapts a function to the Actuator interface.
type ActuatorFunc func(ctx context.Context, angle float64) error

// Move calls f(ctx, angle).
func (f ActuatorFunc) Move(ctx context.Context, angle float64) error {
	return f(ctx, angle)
}

// Handles maps joints to live actuators. A joint whose servo failed to come
// up has no entry.
type Handles map[JointID]Actuator

// Absent returns the ids with no handle, in the order given.
func (h Handles) Absent(ids ...JointID) []JointID {
	var absent []JointID
	for _, id := range ids {
		if _, ok := h[id]; !ok {
			absent = append(absent, id)
		}
	}
	return absent
}

// Observe wraps every handle so that fn is called after each successful
// command with the joint and the commanded angle.
func Observe(h Handles, fn func(id JointID, angle float64)) Handles {
	observed := make(Handles, len(h))
	for id, act := range h {
		observed[id] = ActuatorFunc(func(ctx context.Context, angle float64) error {
			if err := act.Move(ctx, angle); err != nil {
				return err
			}
			fn(id, angle)
			return nil
		})
	}
	return observed
}
