// Package onyx drives the diagonal trot of the ONYX eight-servo quadruped.
//
// Each leg has a hip and a knee servo. The gait alternates the two diagonal
// leg pairs: the hips swing forward while the knees lift, the pose is held
// briefly, and the legs return to their standing baseline.
//
// # Installation
//
//	go install github.com/gwillem/onyx/cmd/onyx@latest
//
// # Usage
//
// First, run setup to find the servo bus and write a configuration:
//
//	onyx setup
//
// Bring the legs to their standing pose:
//
//	onyx stand
//
// Then walk, optionally with a tuning file and live chart:
//
//	onyx walk --cycles 12 --profile quick --tuning gait.yaml --tui
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/onyx: CLI with setup, stand and walk commands
//   - pkg/robot: Joints, calibration, configuration and the Feetech servo bus
//   - pkg/robot/fake: In-memory servos and clock for tests and dry runs
//   - pkg/motion: Interpolation and lockstep multi-joint moves
//   - pkg/gait: Gait tuning, diagonal sequencing and the walk controller
//   - pkg/stance: Moves the legs to their calibrated standing pose
package onyx
