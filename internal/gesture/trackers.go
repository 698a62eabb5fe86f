package gesture

// DeleteOutcome is what a finished drag on a meal card asks for.
type DeleteOutcome int

const (
	DeletePending DeleteOutcome = iota
	DeleteSnapBack
	DeleteConfirmRequested
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteSnapBack:
		return "snap_back"
	case DeleteConfirmRequested:
		return "confirm_requested"
	default:
		return "pending"
	}
}

// DragState is the swipe-to-delete state for one card.
type DragState struct {
	Dragging bool
	StartX   float64
	CurrentX float64
	// Offset is the leftward visual translation, within [0, MaxDeleteOffset).
	Offset float64
}

// StepDrag is the swipe-to-delete transition function:
// Idle → Dragging on start, Dragging → {ConfirmRequested | Idle} on end.
func StepDrag(s DragState, ev Event) (DragState, DeleteOutcome) {
	switch ev.Type {
	case EventStart:
		p, ok := ev.first()
		if !ok {
			return s, DeletePending
		}
		return DragState{Dragging: true, StartX: p.X, CurrentX: p.X}, DeletePending
	case EventMove:
		if !s.Dragging {
			return s, DeletePending
		}
		p, ok := ev.first()
		if !ok {
			return s, DeletePending
		}
		s.CurrentX = p.X
		if travel := s.StartX - p.X; travel > 0 && travel < MaxDeleteOffset {
			s.Offset = travel
		}
		return s, DeletePending
	case EventEnd:
		if !s.Dragging {
			return DragState{}, DeletePending
		}
		if s.StartX-s.CurrentX > DeleteThreshold {
			return DragState{}, DeleteConfirmRequested
		}
		return DragState{}, DeleteSnapBack
	default:
		return s, DeletePending
	}
}

// SwipeDeleteTracker wraps StepDrag for a single card.
type SwipeDeleteTracker struct {
	state DragState
}

func (t *SwipeDeleteTracker) Feed(ev Event) DeleteOutcome {
	var out DeleteOutcome
	t.state, out = StepDrag(t.state, ev)
	return out
}

// Offset is the current visual translation of the card.
func (t *SwipeDeleteTracker) Offset() float64 {
	return t.state.Offset
}

// ReplayDelete feeds a batch to a fresh tracker. It returns the final
// outcome and the largest offset seen while dragging.
func ReplayDelete(events []Event) (DeleteOutcome, float64) {
	var t SwipeDeleteTracker
	outcome := DeletePending
	maxOffset := 0.0
	for _, ev := range events {
		if got := t.Feed(ev); got != DeletePending {
			outcome = got
		}
		if t.Offset() > maxOffset {
			maxOffset = t.Offset()
		}
	}
	return outcome, maxOffset
}

// PullState tracks a pull-to-refresh session.
type PullState struct {
	Pulling   bool
	StartY    float64
	CurrentY  float64
	Indicator bool
}

// StepPull is the pull-to-refresh transition function. A session only
// starts while the page is scrolled to the top.
func StepPull(s PullState, ev Event, atTop bool) (PullState, Intent) {
	switch ev.Type {
	case EventStart:
		p, ok := ev.first()
		if !ok || !atTop {
			return PullState{}, IntentNone
		}
		return PullState{Pulling: true, StartY: p.Y, CurrentY: p.Y}, IntentNone
	case EventMove:
		if !s.Pulling {
			return s, IntentNone
		}
		if p, ok := ev.first(); ok {
			s.CurrentY = p.Y
		}
		if s.CurrentY-s.StartY > PullThreshold {
			s.Indicator = true
		}
		return s, IntentNone
	case EventEnd:
		if s.Pulling && s.CurrentY-s.StartY > PullThreshold {
			return PullState{}, IntentRefresh
		}
		return PullState{}, IntentNone
	default:
		return s, IntentNone
	}
}

// ReplayPull feeds a batch to a fresh pull tracker.
func ReplayPull(events []Event, atTop bool) Intent {
	var s PullState
	intent := IntentNone
	for _, ev := range events {
		var got Intent
		s, got = StepPull(s, ev, atTop)
		if got != IntentNone {
			intent = got
		}
	}
	return intent
}
