package motion

import "time"

// Clock suspends the motion flow between commands. Sleep is not cancellable:
// a trajectory, once started, runs to its end.
type Clock interface {
	Sleep(d time.Duration)
}

// SystemClock sleeps on the wall clock.
type SystemClock struct{}

// Sleep pauses the calling goroutine for d.
func (SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
