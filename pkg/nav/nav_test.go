package nav

import (
	"testing"
	"time"

	"github.com/matzehuels/ridgeline/pkg/errors"
)

func newTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := NewTracker(map[string]float64{
		Home:     0,
		Projects: 1000,
		Clubs:    2600,
		Research: 4200,
		Contact:  5400,
	})
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestCurrent(t *testing.T) {
	tr := newTracker(t)
	const vh = 800 // early trigger 200

	tests := []struct {
		y    float64
		want string
	}{
		{0, Home},
		{719, Home},      // projects at 920-200=720
		{720, Projects},  // boundary is inclusive
		{2319, Projects}, // clubs at 2520-200=2320
		{2320, Clubs},
		{3920, Research},
		{5120, Contact},
		{99999, Contact},
	}
	for _, tt := range tests {
		if got := tr.Current(tt.y, vh); got != tt.want {
			t.Errorf("Current(%g) = %q, want %q", tt.y, got, tt.want)
		}
	}
}

func TestCurrentFallbackOffsets(t *testing.T) {
	tr, err := NewTracker(nil)
	if err != nil {
		t.Fatal(err)
	}
	const vh = 1000 // fallbacks 1000, 3000, 5000, 7000; early 250

	tests := []struct {
		y    float64
		want string
	}{
		{749, Home},
		{750, Projects},
		{2750, Clubs},
		{4750, Research},
		{6750, Contact},
	}
	for _, tt := range tests {
		if got := tr.Current(tt.y, vh); got != tt.want {
			t.Errorf("Current(%g) = %q, want %q", tt.y, got, tt.want)
		}
	}
}

func TestCurrentOffsetOnNavbarFallsBack(t *testing.T) {
	// An offset equal to the navbar height yields position 0, which counts
	// as unknown.
	tr, _ := NewTracker(map[string]float64{Projects: NavbarHeight})
	if got := tr.Current(0, 1000); got != Home {
		t.Errorf("Current = %q, want home", got)
	}
	if got := tr.Current(750, 1000); got != Projects {
		t.Errorf("Current = %q, want projects via fallback", got)
	}
}

func TestTarget(t *testing.T) {
	tr := newTracker(t)
	tests := []struct {
		id   string
		want float64
	}{
		{Home, -80},
		{Projects, 1000 - 80 + 35},
		{Clubs, 2600 - 80 + 85},
		{Research, 4200 - 80 + 70},
		{Contact, 5400 - 80 - 10},
	}
	for _, tt := range tests {
		got, err := tr.Target(tt.id)
		if err != nil {
			t.Fatalf("Target(%s): %v", tt.id, err)
		}
		if got != tt.want {
			t.Errorf("Target(%s) = %g, want %g", tt.id, got, tt.want)
		}
	}
}

func TestTargetErrors(t *testing.T) {
	tr, _ := NewTracker(nil)
	if _, err := tr.Target("about"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown section err = %v", err)
	}
	if _, err := tr.Target(Clubs); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing offset err = %v", err)
	}
	if _, err := NewTracker(map[string]float64{"footer": 1}); err == nil {
		t.Error("NewTracker should reject unknown sections")
	}
}

func TestObserveThrottles(t *testing.T) {
	tr := newTracker(t)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if id, changed := tr.Observe(start, 1000, 800); id != Projects || !changed {
		t.Errorf("first observe = %q, %v", id, changed)
	}
	// Inside the throttle window the event is dropped.
	if id, changed := tr.Observe(start.Add(50*time.Millisecond), 3000, 800); id != Projects || changed {
		t.Errorf("throttled observe = %q, %v", id, changed)
	}
	if id, changed := tr.Observe(start.Add(ObserveInterval), 3000, 800); id != Clubs || !changed {
		t.Errorf("observe after window = %q, %v", id, changed)
	}
	if id, changed := tr.Observe(start.Add(time.Second), 3000, 800); id != Clubs || changed {
		t.Errorf("unchanged observe = %q, %v", id, changed)
	}
	if tr.Active() != Clubs {
		t.Errorf("Active = %q", tr.Active())
	}

	tr.Reset()
	if tr.Active() != Home {
		t.Errorf("after Reset Active = %q", tr.Active())
	}
}

func TestAnchor(t *testing.T) {
	if got := Anchor(Research); got != "/#research" {
		t.Errorf("Anchor = %q", got)
	}
}
