package softbody

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"sort"
	"time"
)

// DefaultTickRate is the frame interval used when none is configured.
const DefaultTickRate = 16 * time.Millisecond

// Scheduler runs per-frame systems in stage order and, inside a stage, in
// ascending priority. Everything runs on the caller's goroutine.
type Scheduler struct {
	loops [stageCount][]*loopState

	// seq keeps registration order stable among equal priorities
	seq int

	tickRate   time.Duration
	lastTick   time.Time
	tickNumber uint64
}

// loopState tracks the state of a single registered system.
type loopState struct {
	system   Runnable
	name     string
	priority int
	seq      int
	interval time.Duration
	lastRun  time.Time
	nextRun  time.Time
}

// ShouldRun checks if the loop should run at the given time.
func (l *loopState) ShouldRun(now time.Time) bool {
	if l.interval == 0 {
		return true
	}
	return !now.Before(l.nextRun)
}

// MarkRun updates the last run time and schedules the next run.
func (l *loopState) MarkRun(now time.Time) {
	l.lastRun = now
	if l.interval > 0 {
		// Drift-free timing
		l.nextRun = l.nextRun.Add(l.interval)
		if l.nextRun.Before(now) {
			// Catch up if we're behind
			l.nextRun = now.Add(l.interval)
		}
	}
}

// NewScheduler creates a scheduler ticking at the given rate.
// A non-positive rate falls back to DefaultTickRate.
func NewScheduler(tickRate time.Duration) *Scheduler {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Scheduler{tickRate: tickRate}
}

// TickRate returns the frame interval used by Run.
func (s *Scheduler) TickRate() time.Duration {
	return s.tickRate
}

// TickNumber returns the number of frames run so far.
func (s *Scheduler) TickNumber() uint64 {
	return s.tickNumber
}

// Add registers a system that runs every frame.
// Lower priority values run first within a stage.
func (s *Scheduler) Add(sys Runnable, stage Stage, priority int) {
	s.AddEvery(sys, 0, stage, priority)
}

// AddEvery registers a system that runs at most once per interval.
// Interval of 0 means the system runs every frame.
func (s *Scheduler) AddEvery(sys Runnable, interval time.Duration, stage Stage, priority int) {
	if sys == nil {
		return
	}
	if stage < Before || stage >= stageCount {
		stage = Default
	}

	s.seq++
	s.loops[stage] = append(s.loops[stage], &loopState{
		system:   sys,
		name:     systemName(sys),
		priority: priority,
		seq:      s.seq,
		interval: interval,
	})

	loops := s.loops[stage]
	sort.SliceStable(loops, func(i, j int) bool {
		if loops[i].priority != loops[j].priority {
			return loops[i].priority < loops[j].priority
		}
		return loops[i].seq < loops[j].seq
	})
}

// Systems returns the registered system names in execution order.
func (s *Scheduler) Systems() []string {
	var names []string
	for stage := Before; stage < stageCount; stage++ {
		for _, l := range s.loops[stage] {
			names = append(names, stage.String()+"/"+l.name)
		}
	}
	return names
}

// Tick runs one frame at the given time. The first frame sees dt = 0.
// A panicking system stops the frame and is reported as ErrSystemPanic.
func (s *Scheduler) Tick(now time.Time) error {
	var dt time.Duration
	if !s.lastTick.IsZero() {
		dt = now.Sub(s.lastTick)
	}
	s.tickNumber++
	s.lastTick = now

	for stage := Before; stage < stageCount; stage++ {
		for _, loop := range s.loops[stage] {
			if !loop.ShouldRun(now) {
				continue
			}
			if loop.nextRun.IsZero() {
				loop.nextRun = now
			}
			if err := s.run(loop, dt); err != nil {
				return err
			}
			loop.MarkRun(now)
		}
	}
	return nil
}

// run executes a single system with panic recovery.
func (s *Scheduler) run(loop *loopState, dt time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("softbody: system panicked",
				"system", loop.name,
				"tick", s.tickNumber,
				"panic", r)
			err = fmt.Errorf("%w: %s: %v\n%s", ErrSystemPanic, loop.name, r, debug.Stack())
		}
	}()
	loop.system.Run(dt)
	return nil
}

// Run ticks at the configured rate until ctx is done or a system panics.
// Returns nil when stopped through ctx.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := s.Tick(now); err != nil {
				return err
			}
		}
	}
}

// systemName returns the type name of a system for diagnostics.
func systemName(sys Runnable) string {
	t := reflect.TypeOf(sys)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
