package robot

import (
	"maps"
	"slices"
)

// Pose maps joints to angles in degrees. The standing pose the gait returns
// to between steps is called the baseline.
type Pose map[JointID]float64

// Clone returns a copy of the pose.
func (p Pose) Clone() Pose {
	return maps.Clone(p)
}

// Missing returns the ids that have no entry in the pose, in the order given.
func (p Pose) Missing(ids ...JointID) []JointID {
	var missing []JointID
	for _, id := range ids {
		if _, ok := p[id]; !ok && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// IDs returns the joints in the pose in ascending order.
func (p Pose) IDs() []JointID {
	return slices.Sorted(maps.Keys(p))
}
