// Package robot provides abstractions for controlling the quadruped's servos.
package robot

// JointID identifies a servo on the bus. It doubles as the servo's bus address.
type JointID int

// JointName identifies a joint in the quadruped.
type JointName string

// Joint names for the ONYX quadruped.
const (
	BackLeftHip    JointName = "back_left_hip"
	BackLeftKnee   JointName = "back_left_knee"
	FrontLeftHip   JointName = "front_left_hip"
	FrontLeftKnee  JointName = "front_left_knee"
	BackRightHip   JointName = "back_right_hip"
	BackRightKnee  JointName = "back_right_knee"
	FrontRightHip  JointName = "front_right_hip"
	FrontRightKnee JointName = "front_right_knee"
)

// AllJoints returns all joint names in order (matching servo IDs 1-8).
func AllJoints() []JointName {
	return []JointName{
		BackLeftHip,
		BackLeftKnee,
		FrontLeftHip,
		FrontLeftKnee,
		BackRightHip,
		BackRightKnee,
		FrontRightHip,
		FrontRightKnee,
	}
}

// Leg is a hip and knee pair. HipDirection is the sign applied to the hip
// offset to swing the leg forward: left hips advance by decreasing angle,
// right hips by increasing it.
type Leg struct {
	Name         string
	Hip          JointID
	Knee         JointID
	HipDirection float64
}

// Legs of the quadruped.
var (
	BackLeft   = Leg{Name: "back_left", Hip: 1, Knee: 2, HipDirection: -1}
	FrontLeft  = Leg{Name: "front_left", Hip: 3, Knee: 4, HipDirection: -1}
	BackRight  = Leg{Name: "back_right", Hip: 5, Knee: 6, HipDirection: 1}
	FrontRight = Leg{Name: "front_right", Hip: 7, Knee: 8, HipDirection: 1}
)

// Diagonal is a pair of legs that step together.
type Diagonal struct {
	Name string
	A    Leg
	B    Leg
}

// The two diagonals of the trot, stepped in this order.
var (
	DiagonalA = Diagonal{Name: "A", A: FrontRight, B: BackLeft}
	DiagonalB = Diagonal{Name: "B", A: FrontLeft, B: BackRight}
)

// IDs returns the diagonal's joints as (hip_a, knee_a, hip_b, knee_b).
func (d Diagonal) IDs() [4]JointID {
	return [4]JointID{d.A.Hip, d.A.Knee, d.B.Hip, d.B.Knee}
}

// Legs returns every leg of the quadruped, ordered by hip ID.
func Legs() []Leg {
	return []Leg{BackLeft, FrontLeft, BackRight, FrontRight}
}
