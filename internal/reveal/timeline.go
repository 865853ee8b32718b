package reveal

// Ease maps linear progress in [0, 1] to eased progress.
type Ease func(t float32) float32

func Linear(t float32) float32 { return t }

// Power1Out decelerates quadratically.
func Power1Out(t float32) float32 { return 1 - (1-t)*(1-t) }

type entry struct {
	start    float32
	duration float32
	call     func()
	target   *float32
	from     float32
	to       float32
	ease     Ease
	begun    bool
	finished bool
}

// Timeline schedules delayed calls and tweens against a clock advanced explicitly
// by frame time.
type Timeline struct {
	now     float32
	entries []*entry
}

func NewTimeline() *Timeline { return &Timeline{} }

// Now is the time advanced so far, in seconds.
func (tl *Timeline) Now() float32 { return tl.now }

// DelayedCall runs fn once delay seconds from now.
func (tl *Timeline) DelayedCall(delay float32, fn func()) {
	tl.entries = append(tl.entries, &entry{start: tl.now + delay, call: fn})
}

// To animates *target to the value to over duration seconds, starting delay seconds
// from now. The start value is read when the tween begins. A nil ease is Power1Out.
func (tl *Timeline) To(target *float32, to, duration, delay float32, ease Ease) {
	if ease == nil {
		ease = Power1Out
	}
	tl.entries = append(tl.entries, &entry{
		start:    tl.now + delay,
		duration: duration,
		target:   target,
		to:       to,
		ease:     ease,
	})
}

// Pending reports whether any entry has not finished.
func (tl *Timeline) Pending() bool {
	for _, e := range tl.entries {
		if !e.finished {
			return true
		}
	}
	return false
}

// Advance moves the clock by dt seconds and fires or updates every due entry in
// scheduling order. Calls may schedule more entries; those are considered on the
// same Advance if already due.
func (tl *Timeline) Advance(dt float32) {
	if dt < 0 {
		dt = 0
	}
	tl.now += dt

	for i := 0; i < len(tl.entries); i++ {
		e := tl.entries[i]
		if e.finished || tl.now < e.start {
			continue
		}
		if e.call != nil {
			e.finished = true
			e.call()
			continue
		}
		if !e.begun {
			e.begun = true
			e.from = *e.target
		}
		if e.duration <= 0 || tl.now >= e.start+e.duration {
			*e.target = e.to
			e.finished = true
			continue
		}
		p := e.ease((tl.now - e.start) / e.duration)
		*e.target = e.from + (e.to-e.from)*p
	}

	live := tl.entries[:0]
	for _, e := range tl.entries {
		if !e.finished {
			live = append(live, e)
		}
	}
	tl.entries = live
}
