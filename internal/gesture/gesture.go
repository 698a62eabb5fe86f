package gesture

import "math"

const (
	// DefaultThreshold is the horizontal travel, in CSS pixels, a swipe must exceed.
	DefaultThreshold = 50.0
	// DeleteThreshold is the leftward drag that asks for delete confirmation.
	DeleteThreshold = 50.0
	// MaxDeleteOffset bounds the visual translation of a dragged meal card.
	MaxDeleteOffset = 100.0
	// PullThreshold is the downward pull that triggers a refresh.
	PullThreshold = 100.0
)

// Point is a touch coordinate in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EventType identifies a touch lifecycle step.
type EventType string

const (
	EventStart EventType = "start"
	EventMove  EventType = "move"
	EventEnd   EventType = "end"
)

// Event is one raw touch event. Only the first touch point is used; end
// events usually carry none.
type Event struct {
	Type    EventType `json:"type"`
	Touches []Point   `json:"touches,omitempty"`
}

func (e Event) first() (Point, bool) {
	if len(e.Touches) == 0 {
		return Point{}, false
	}
	return e.Touches[0], true
}

// Start, Move and End build events for a single touch point.
func Start(x, y float64) Event { return Event{Type: EventStart, Touches: []Point{{X: x, Y: y}}} }
func Move(x, y float64) Event  { return Event{Type: EventMove, Touches: []Point{{X: x, Y: y}}} }
func End() Event               { return Event{Type: EventEnd} }

// Intent is the navigation signal derived from a finished touch session.
type Intent int

const (
	IntentNone Intent = iota
	IntentSwipeLeft
	IntentSwipeRight
	IntentRefresh
)

func (i Intent) String() string {
	switch i {
	case IntentSwipeLeft:
		return "swipe_left"
	case IntentSwipeRight:
		return "swipe_right"
	case IntentRefresh:
		return "refresh"
	default:
		return "none"
	}
}

// Classify applies the swipe decision rule to a start and end point.
// Horizontal travel must dominate vertical travel and exceed threshold.
func Classify(start, end Point, threshold float64) Intent {
	dx := start.X - end.X
	dy := start.Y - end.Y
	if math.Abs(dx) <= math.Abs(dy) || math.Abs(dx) <= threshold {
		return IntentNone
	}
	if dx > 0 {
		return IntentSwipeLeft
	}
	return IntentSwipeRight
}
