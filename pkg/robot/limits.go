package robot

// Range is the safe travel of a joint in degrees. Min must not exceed Max.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultRange applies to joints without a configured range. It is the
// fallback the gait scripts used before per-joint limits existed.
var DefaultRange = Range{Min: 0, Max: 300}

// Clamp bounds angle into [r.Min, r.Max].
func (r Range) Clamp(angle float64) float64 {
	return max(r.Min, min(r.Max, angle))
}

// Contains reports whether angle lies within the range.
func (r Range) Contains(angle float64) bool {
	return angle >= r.Min && angle <= r.Max
}

// Limits holds the safe range per joint.
type Limits map[JointID]Range

// Range returns the configured range for id, or DefaultRange.
func (l Limits) Range(id JointID) Range {
	if r, ok := l[id]; ok {
		return r
	}
	return DefaultRange
}

// Clamp bounds angle into the range configured for id.
func (l Limits) Clamp(id JointID, angle float64) float64 {
	return l.Range(id).Clamp(angle)
}
