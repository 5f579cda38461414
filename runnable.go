package softbody

import "time"

// Runnable is the interface implemented by per-frame systems.
// Run receives the time elapsed since the previous frame.
type Runnable interface {
	Run(dt time.Duration)
}

// RunnableFunc adapts a plain function to Runnable.
type RunnableFunc func(dt time.Duration)

// Run implements Runnable.
func (f RunnableFunc) Run(dt time.Duration) {
	f(dt)
}
