package clock

import "time"

// System reads the wall clock.
type System struct{}

// NowUnix returns current unix seconds.
func (System) NowUnix() int64 {
	return time.Now().Unix()
}

// Fixed reports the same instant on every call.
type Fixed int64

// NowUnix returns f.
func (f Fixed) NowUnix() int64 {
	return int64(f)
}
