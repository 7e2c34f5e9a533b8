package gait

import "github.com/gwillem/onyx/pkg/robot"

// Targets are the joint angles at the top of a step. Forward holds the hips,
// Lift the knees. A joint missing from the baseline has no target.
type Targets struct {
	Forward robot.Pose
	Lift    robot.Pose
}

// NewTargets derives the step targets of legs from the baseline pose. Hips
// swing by the scaled hip offset in their forward direction; knees bend by
// the scaled knee offset, a smaller angle lifting the foot.
func NewTargets(baseline robot.Pose, legs []robot.Leg, cfg Config) Targets {
	t := Targets{
		Forward: make(robot.Pose, len(legs)),
		Lift:    make(robot.Pose, len(legs)),
	}
	for _, leg := range legs {
		if mid, ok := baseline[leg.Hip]; ok {
			t.Forward[leg.Hip] = mid + leg.HipDirection*cfg.HipSwing()
		}
		if mid, ok := baseline[leg.Knee]; ok {
			t.Lift[leg.Knee] = mid - cfg.KneeLift()
		}
	}
	return t
}

// Of returns the target of a hip or knee.
func (t Targets) Of(id robot.JointID) (float64, bool) {
	if angle, ok := t.Forward[id]; ok {
		return angle, true
	}
	angle, ok := t.Lift[id]
	return angle, ok
}
