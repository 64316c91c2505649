package core

import "time"

// FixedStep throttles simulation updates to a steady ticks-per-second rate.
// A zero rate steps on every frame.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
// tps <= 0 means unthrottled.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		f.step = 0
		return
	}
	f.step = time.Second / time.Duration(tps)
}

// TPS reports the configured rate, 0 when unthrottled.
func (f *FixedStep) TPS() int {
	if f.step <= 0 {
		return 0
	}
	return int(time.Second / f.step)
}

// ShouldStep reports whether the simulation should advance at now.
func (f *FixedStep) ShouldStep(now time.Time) bool {
	if f.step <= 0 {
		f.last = now
		return true
	}
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		// Drop backlog so a long stall does not burst-step.
		if f.accumulator > f.step {
			f.accumulator = f.step
		}
		return true
	}
	return false
}

// Restart forgets elapsed time so the next ShouldStep fires immediately.
func (f *FixedStep) Restart() {
	f.last = time.Time{}
	f.accumulator = f.step
}

// Animation is the RUNNING/STOPPED switch of a host-driven loop. The host
// calls Due once per frame; Animation never schedules anything itself, so
// starting twice cannot schedule twice.
type Animation struct {
	running bool
	clock   *FixedStep
}

// NewAnimation returns a stopped animation stepping at tps (0 = every frame).
func NewAnimation(tps int) *Animation {
	return &Animation{clock: NewFixedStep(tps)}
}

// Start switches to RUNNING. It reports whether the state changed.
func (a *Animation) Start() bool {
	if a.running {
		return false
	}
	a.running = true
	a.clock.Restart()
	return true
}

// Stop switches to STOPPED. It reports whether the state changed.
func (a *Animation) Stop() bool {
	if !a.running {
		return false
	}
	a.running = false
	return true
}

// Toggle flips the state and returns the new one.
func (a *Animation) Toggle() bool {
	if a.running {
		a.Stop()
	} else {
		a.Start()
	}
	return a.running
}

// Running reports whether the animation is RUNNING.
func (a *Animation) Running() bool { return a.running }

// Due reports whether a generation should be computed for the frame at now.
func (a *Animation) Due(now time.Time) bool {
	if !a.running {
		return false
	}
	return a.clock.ShouldStep(now)
}

// SetTPS changes the stepping rate.
func (a *Animation) SetTPS(tps int) { a.clock.SetTPS(tps) }

// TPS reports the stepping rate, 0 when stepping every frame.
func (a *Animation) TPS() int { return a.clock.TPS() }
