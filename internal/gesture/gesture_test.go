package gesture

import "testing"

func TestReplaySwipeDecision(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   Intent
	}{
		{
			name:   "horizontal left swipe",
			events: []Event{Start(200, 100), Move(160, 105), Move(120, 110), End()},
			want:   IntentSwipeLeft,
		},
		{
			name:   "horizontal right swipe",
			events: []Event{Start(100, 100), Move(190, 95), End()},
			want:   IntentSwipeRight,
		},
		{
			name:   "vertical scroll",
			events: []Event{Start(100, 200), Move(110, 120), End()},
			want:   IntentNone,
		},
		{
			name:   "below threshold",
			events: []Event{Start(100, 100), Move(60, 100), End()},
			want:   IntentNone,
		},
		{
			name:   "exactly at threshold",
			events: []Event{Start(100, 100), Move(50, 100), End()},
			want:   IntentNone,
		},
		{
			name:   "diagonal tie",
			events: []Event{Start(100, 100), Move(20, 20), End()},
			want:   IntentNone,
		},
		{
			name:   "tap",
			events: []Event{Start(100, 100), End()},
			want:   IntentNone,
		},
		{
			name:   "end without start",
			events: []Event{Move(10, 10), End()},
			want:   IntentNone,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Replay(tt.events, DefaultThreshold); got != tt.want {
				t.Fatalf("Replay() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifyDominantAxis(t *testing.T) {
	// dx=80, dy=10 from start to end.
	if got := Classify(Point{X: 180, Y: 110}, Point{X: 100, Y: 100}, 50); got != IntentSwipeLeft {
		t.Fatalf("expected swipe_left, got %s", got)
	}
	// dx=10, dy=80.
	if got := Classify(Point{X: 110, Y: 180}, Point{X: 100, Y: 100}, 50); got != IntentNone {
		t.Fatalf("expected none, got %s", got)
	}
}

func TestRecognizerOnlyEmitsOnEnd(t *testing.T) {
	r := NewRecognizer(0)
	if got := r.Feed(Start(300, 50)); got != IntentNone {
		t.Fatalf("start emitted %s", got)
	}
	if !r.Tracking() {
		t.Fatalf("expected tracking after start")
	}
	if got := r.Feed(Move(10, 50)); got != IntentNone {
		t.Fatalf("move emitted %s", got)
	}
	if got := r.Feed(End()); got != IntentSwipeLeft {
		t.Fatalf("end emitted %s, want swipe_left", got)
	}
	if r.Tracking() {
		t.Fatalf("expected idle after end")
	}
	if got := r.Feed(End()); got != IntentNone {
		t.Fatalf("second end emitted %s", got)
	}
}

func TestRecognizerUsesFirstTouch(t *testing.T) {
	r := NewRecognizer(DefaultThreshold)
	r.Feed(Event{Type: EventStart, Touches: []Point{{X: 200, Y: 0}, {X: 0, Y: 0}}})
	r.Feed(Event{Type: EventMove, Touches: []Point{{X: 100, Y: 0}, {X: 400, Y: 0}}})
	if got := r.Feed(End()); got != IntentSwipeLeft {
		t.Fatalf("expected swipe_left from first touch, got %s", got)
	}
}

func TestStepIsPure(t *testing.T) {
	s := TrackState{Tracking: true, Start: Point{X: 10}, Current: Point{X: 10}}
	next, _ := Step(s, Move(90, 0), DefaultThreshold)
	if s.Current.X != 10 {
		t.Fatalf("input state mutated")
	}
	if next.Current.X != 90 {
		t.Fatalf("expected current x 90, got %v", next.Current.X)
	}
}

func TestSwipeDelete(t *testing.T) {
	tests := []struct {
		name       string
		events     []Event
		want       DeleteOutcome
		wantOffset float64
	}{
		{
			name:       "past threshold",
			events:     []Event{Start(300, 0), Move(270, 0), Move(240, 0), End()},
			want:       DeleteConfirmRequested,
			wantOffset: 60,
		},
		{
			name:       "snap back",
			events:     []Event{Start(300, 0), Move(270, 0), End()},
			want:       DeleteSnapBack,
			wantOffset: 30,
		},
		{
			name:       "right drag never translates",
			events:     []Event{Start(100, 0), Move(200, 0), End()},
			want:       DeleteSnapBack,
			wantOffset: 0,
		},
		{
			name:       "offset bounded",
			events:     []Event{Start(300, 0), Move(220, 0), Move(100, 0), End()},
			want:       DeleteConfirmRequested,
			wantOffset: 80,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, offset := ReplayDelete(tt.events)
			if got != tt.want {
				t.Fatalf("outcome = %s, want %s", got, tt.want)
			}
			if offset != tt.wantOffset {
				t.Fatalf("offset = %v, want %v", offset, tt.wantOffset)
			}
		})
	}
}

func TestSwipeDeleteResetsOnEnd(t *testing.T) {
	var tr SwipeDeleteTracker
	tr.Feed(Start(300, 0))
	tr.Feed(Move(260, 0))
	if tr.Offset() != 40 {
		t.Fatalf("expected offset 40, got %v", tr.Offset())
	}
	tr.Feed(End())
	if tr.Offset() != 0 {
		t.Fatalf("expected offset reset, got %v", tr.Offset())
	}
}

func TestPullToRefresh(t *testing.T) {
	pull := []Event{Start(100, 10), Move(100, 80), Move(100, 140), End()}
	if got := ReplayPull(pull, true); got != IntentRefresh {
		t.Fatalf("expected refresh, got %s", got)
	}
	if got := ReplayPull(pull, false); got != IntentNone {
		t.Fatalf("expected none when not at top, got %s", got)
	}
	short := []Event{Start(100, 10), Move(100, 90), End()}
	if got := ReplayPull(short, true); got != IntentNone {
		t.Fatalf("expected none for short pull, got %s", got)
	}
}

func TestPullIndicatorVisibleAfterThreshold(t *testing.T) {
	s, _ := StepPull(PullState{}, Start(0, 0), true)
	s, _ = StepPull(s, Move(0, 50), true)
	if s.Indicator {
		t.Fatalf("indicator shown too early")
	}
	s, _ = StepPull(s, Move(0, 101), true)
	if !s.Indicator {
		t.Fatalf("expected indicator after threshold")
	}
}
