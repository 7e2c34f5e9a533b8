package robot

import (
	"encoding/json"
	"fmt"
	"os"
)

// JointCalibration holds calibration data for a single joint.
type JointCalibration struct {
	ID  JointID `json:"id"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Mid float64 `json:"mid"`
}

// Calibration holds calibration data for all joints, keyed by joint name.
type Calibration map[JointName]JointCalibration

// DefaultCalibration returns the hand-tuned ranges and standing angles of the
// ONYX build.
func DefaultCalibration() Calibration {
	return Calibration{
		BackLeftHip:    {ID: 1, Min: 110, Max: 190, Mid: 160},
		BackLeftKnee:   {ID: 2, Min: 110, Max: 150, Mid: 130},
		FrontLeftHip:   {ID: 3, Min: 30, Max: 100, Mid: 60},
		FrontLeftKnee:  {ID: 4, Min: 10, Max: 100, Mid: 40},
		BackRightHip:   {ID: 5, Min: 20, Max: 100, Mid: 60},
		BackRightKnee:  {ID: 6, Min: 60, Max: 160, Mid: 110},
		FrontRightHip:  {ID: 7, Min: 130, Max: 210, Mid: 160},
		FrontRightKnee: {ID: 8, Min: 50, Max: 150, Mid: 120},
	}
}

// LoadCalibration loads calibration data from a JSON file.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	// Parse into a map with string keys first
	var raw map[string]JointCalibration
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse calibration JSON: %w", err)
	}

	cal := make(Calibration, len(raw))
	for name, jc := range raw {
		cal[JointName(name)] = jc
	}

	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return cal, nil
}

// Validate checks that every range is well formed and every ID is unique.
func (c Calibration) Validate() error {
	seen := make(map[JointID]JointName, len(c))
	for name, jc := range c {
		if jc.ID <= 0 {
			return fmt.Errorf("joint %s: invalid id %d", name, jc.ID)
		}
		if jc.Min > jc.Max {
			return fmt.Errorf("joint %s: min (%.1f) exceeds max (%.1f)", name, jc.Min, jc.Max)
		}
		if other, ok := seen[jc.ID]; ok {
			return fmt.Errorf("joint %s: id %d already used by %s", name, jc.ID, other)
		}
		seen[jc.ID] = name
	}
	return nil
}

// Range returns the joint's safe range.
func (jc JointCalibration) Range() Range {
	return Range{Min: jc.Min, Max: jc.Max}
}

// Limits returns the safe range of every calibrated joint.
func (c Calibration) Limits() Limits {
	limits := make(Limits, len(c))
	for _, jc := range c {
		limits[jc.ID] = jc.Range()
	}
	return limits
}

// Mids returns the configured standing angle of every calibrated joint,
// clamped to its range.
func (c Calibration) Mids() Pose {
	pose := make(Pose, len(c))
	for _, jc := range c {
		pose[jc.ID] = jc.Range().Clamp(jc.Mid)
	}
	return pose
}

// JointIDs returns the servo IDs for all joints in the calibration.
func (c Calibration) JointIDs() []JointID {
	ids := make([]JointID, 0, len(c))
	// Use AllJoints() to ensure consistent ordering
	for _, name := range AllJoints() {
		if jc, ok := c[name]; ok {
			ids = append(ids, jc.ID)
		}
	}
	return ids
}

// ByID returns joint name and calibration for a given servo ID.
func (c Calibration) ByID(id JointID) (JointName, JointCalibration, bool) {
	for name, jc := range c {
		if jc.ID == id {
			return name, jc, true
		}
	}
	return "", JointCalibration{}, false
}
