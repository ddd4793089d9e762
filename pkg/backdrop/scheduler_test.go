package backdrop

import (
	"testing"
	"time"
)

func TestManualSchedulerOrder(t *testing.T) {
	s := NewManualScheduler()
	var got []int
	for i := range 3 {
		s.RequestFrame(func(time.Time) { got = append(got, i) })
	}
	if n := s.Step(epoch); n != 3 {
		t.Fatalf("Step ran %d callbacks, want 3", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("callbacks ran in order %v, want 0 1 2", got)
		}
	}
}

func TestManualSchedulerCancel(t *testing.T) {
	s := NewManualScheduler()
	ran := false
	cancel := s.RequestFrame(func(time.Time) { ran = true })
	cancel()
	cancel()

	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after cancel, want 0", s.Pending())
	}
	s.Step(epoch)
	if ran {
		t.Error("cancelled callback ran")
	}
	if s.Requests() != 1 {
		t.Errorf("Requests() = %d, want 1", s.Requests())
	}
}

func TestManualSchedulerDefersNestedRequests(t *testing.T) {
	s := NewManualScheduler()
	runs := 0
	var fn FrameFunc
	fn = func(time.Time) {
		runs++
		s.RequestFrame(fn)
	}
	s.RequestFrame(fn)

	s.Step(epoch)
	s.Step(epoch)
	if runs != 2 {
		t.Errorf("runs = %d, want one per step (2)", runs)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
}

func TestRefreshSchedulerUsesClock(t *testing.T) {
	clock := NewManualClock(epoch)
	s := NewRefreshScheduler(60, clock)
	clock.Advance(time.Second)

	var seen time.Time
	s.RequestFrame(func(now time.Time) { seen = now })
	if n := s.Refresh(); n != 1 {
		t.Fatalf("Refresh ran %d callbacks, want 1", n)
	}
	if !seen.Equal(epoch.Add(time.Second)) {
		t.Errorf("callback saw %v, want clock time", seen)
	}
	if s.Interval() != time.Second/60 {
		t.Errorf("Interval() = %v", s.Interval())
	}
}

func TestStateDue(t *testing.T) {
	var st State
	if !st.Due(epoch, time.Hour) {
		t.Error("the first frame is always due")
	}
	st.LastFrame = epoch
	if st.Due(epoch.Add(10*time.Millisecond), DefaultFrameInterval) {
		t.Error("frame 10ms after the last should be throttled")
	}
	if !st.Due(epoch.Add(DefaultFrameInterval), DefaultFrameInterval) {
		t.Error("frame exactly one interval later should run")
	}
}

func TestAdvance(t *testing.T) {
	var st State
	Advance(&st, nil, DefaultMotion(), epoch)
	if st.Frames != 1 || st.Time != 0.01 || !st.LastFrame.Equal(epoch) {
		t.Errorf("state after one step = %+v", st)
	}
}
