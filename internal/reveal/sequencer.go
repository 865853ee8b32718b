package reveal

import (
	"RoboticArm/internal/logger"

	"go.uber.org/zap"
)

type State int

const (
	Loading State = iota
	FadingOverlay
	PanelUnlocked
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "Loading"
	case FadingOverlay:
		return "FadingOverlay"
	case PanelUnlocked:
		return "PanelUnlocked"
	case Failed:
		return "Failed"
	}
	return "State(?)"
}

// Timings are in seconds. FadeDelay and PanelDelay count from the moment the
// indicator hides, which is Delay after Start.
type Timings struct {
	Delay        float32
	FadeDelay    float32
	FadeDuration float32
	PanelDelay   float32
}

var DefaultTimings = Timings{Delay: 1, FadeDelay: 0.5, FadeDuration: 1.5, PanelDelay: 1}

// Sequencer runs the one-shot reveal once loading completes: hide the indicator,
// fade the overlay out, then unlock the debug panel.
type Sequencer struct {
	OnHideIndicator func()
	OnUnlock        func()
	OnState         func(State)

	timeline *Timeline
	alpha    *float32
	timings  Timings
	state    State
	started  bool
}

// New drives *alpha, the overlay opacity, on the given timeline.
func New(timeline *Timeline, alpha *float32, timings Timings) *Sequencer {
	return &Sequencer{timeline: timeline, alpha: alpha, timings: timings}
}

func (s *Sequencer) State() State { return s.state }

// Start triggers the reveal. Only the first call from Loading has an effect.
func (s *Sequencer) Start() {
	if s.started || s.state != Loading {
		return
	}
	s.started = true
	logger.Log.Info("Assets loaded, revealing scene", zap.Float32("delay", s.timings.Delay))

	s.timeline.DelayedCall(s.timings.Delay, func() {
		if s.OnHideIndicator != nil {
			s.OnHideIndicator()
		}
		s.setState(FadingOverlay)
		s.timeline.To(s.alpha, 0, s.timings.FadeDuration, s.timings.FadeDelay, Power1Out)
		s.timeline.DelayedCall(s.timings.PanelDelay, func() {
			s.setState(PanelUnlocked)
			if s.OnUnlock != nil {
				s.OnUnlock()
			}
		})
	})
}

// Fail halts the reveal while still loading; the overlay stays opaque.
func (s *Sequencer) Fail(err error) {
	if s.state != Loading || s.started {
		return
	}
	logger.Log.Error("Reveal halted", zap.Error(err))
	s.setState(Failed)
}

func (s *Sequencer) setState(next State) {
	if next <= s.state {
		return
	}
	logger.Log.Debug("Reveal state", zap.Stringer("from", s.state), zap.Stringer("to", next))
	s.state = next
	if s.OnState != nil {
		s.OnState(next)
	}
}
