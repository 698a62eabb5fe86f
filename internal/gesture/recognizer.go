package gesture

// TrackState is the per-session state of the swipe recognizer.
type TrackState struct {
	Tracking bool
	Start    Point
	Current  Point
}

// Step is the recognizer's transition function: Idle → Tracking on start,
// Tracking → Tracking on move (observation only), Tracking → Idle on end.
// An intent can only be produced by the end transition.
func Step(s TrackState, ev Event, threshold float64) (TrackState, Intent) {
	switch ev.Type {
	case EventStart:
		p, ok := ev.first()
		if !ok {
			return s, IntentNone
		}
		return TrackState{Tracking: true, Start: p, Current: p}, IntentNone
	case EventMove:
		if !s.Tracking {
			return s, IntentNone
		}
		if p, ok := ev.first(); ok {
			s.Current = p
		}
		return s, IntentNone
	case EventEnd:
		if !s.Tracking {
			return TrackState{}, IntentNone
		}
		return TrackState{}, Classify(s.Start, s.Current, threshold)
	default:
		return s, IntentNone
	}
}

// Recognizer turns touch sessions into swipe intents.
type Recognizer struct {
	threshold float64
	state     TrackState
}

// NewRecognizer returns an idle recognizer. A non-positive threshold uses
// DefaultThreshold.
func NewRecognizer(threshold float64) *Recognizer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Recognizer{threshold: threshold}
}

// Feed advances the recognizer by one event.
func (r *Recognizer) Feed(ev Event) Intent {
	var intent Intent
	r.state, intent = Step(r.state, ev, r.threshold)
	return intent
}

// Tracking reports whether a touch session is in progress.
func (r *Recognizer) Tracking() bool {
	return r.state.Tracking
}

// State returns a copy of the current session state.
func (r *Recognizer) State() TrackState {
	return r.state
}

// Replay feeds a recorded batch and returns the last intent emitted.
func Replay(events []Event, threshold float64) Intent {
	r := NewRecognizer(threshold)
	intent := IntentNone
	for _, ev := range events {
		if got := r.Feed(ev); got != IntentNone {
			intent = got
		}
	}
	return intent
}
