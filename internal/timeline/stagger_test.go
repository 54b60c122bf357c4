package timeline

import (
	"errors"
	"testing"
)

func TestPlanPlacements_AtPlayhead(t *testing.T) {
	placements, err := PlanPlacements(4, ModeAtPlayhead, 250, 15)
	if err != nil {
		t.Fatalf("PlanPlacements() error = %v", err)
	}
	if len(placements) != 4 {
		t.Fatalf("got %d placements, want 4", len(placements))
	}
	for step, p := range placements {
		if p.Index != step {
			t.Errorf("step %d visits item %d, want %d", step, p.Index, step)
		}
		if p.TargetFrame != 250 {
			t.Errorf("item %d target = %d, want 250", p.Index, p.TargetFrame)
		}
		if p.VisitOrder != step {
			t.Errorf("step %d visit order = %d", step, p.VisitOrder)
		}
	}
}

func TestPlanPlacements_StaggerBottomFirst(t *testing.T) {
	// 3 items, 15 frames each, anchor 100: bottom item at 100, then
	// 115, then 130, end to end with no gap or overlap.
	placements, err := PlanPlacements(3, ModeStaggerBottomFirst, 100, 15)
	if err != nil {
		t.Fatalf("PlanPlacements() error = %v", err)
	}

	want := []Placement{
		{Index: 0, TargetFrame: 100, VisitOrder: 0},
		{Index: 1, TargetFrame: 115, VisitOrder: 1},
		{Index: 2, TargetFrame: 130, VisitOrder: 2},
	}
	for i, p := range placements {
		if p != want[i] {
			t.Errorf("placement %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestPlanPlacements_StaggerTopFirst(t *testing.T) {
	placements, err := PlanPlacements(3, ModeStaggerTopFirst, 100, 15)
	if err != nil {
		t.Fatalf("PlanPlacements() error = %v", err)
	}

	// The top-most item (highest index) starts at the anchor; item k
	// starts at anchor + (n-1-k)*duration.
	want := []Placement{
		{Index: 2, TargetFrame: 100, VisitOrder: 0},
		{Index: 1, TargetFrame: 115, VisitOrder: 1},
		{Index: 0, TargetFrame: 130, VisitOrder: 2},
	}
	for i, p := range placements {
		if p != want[i] {
			t.Errorf("placement %d = %+v, want %+v", i, p, want[i])
		}
	}
}

func TestPlanPlacements_NoGapsNoOverlaps(t *testing.T) {
	const n, dur = 7, 42
	for _, mode := range []Mode{ModeStaggerBottomFirst, ModeStaggerTopFirst} {
		placements, err := PlanPlacements(n, mode, 1000, dur)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		for step := 1; step < n; step++ {
			prevEnd := placements[step-1].TargetFrame + dur
			if placements[step].TargetFrame != prevEnd {
				t.Errorf("%s: step %d starts at %d, previous ends at %d",
					mode, step, placements[step].TargetFrame, prevEnd)
			}
		}
	}
}

func TestPlanPlacements_SingleItem(t *testing.T) {
	placements, err := PlanPlacements(1, ModeStaggerTopFirst, 77, 10)
	if err != nil {
		t.Fatalf("PlanPlacements() error = %v", err)
	}
	if len(placements) != 1 || placements[0].Index != 0 || placements[0].TargetFrame != 77 {
		t.Errorf("single item placements = %+v", placements)
	}
}

func TestPlanPlacements_None(t *testing.T) {
	placements, err := PlanPlacements(3, ModeNone, 100, 15)
	if err != nil {
		t.Fatalf("PlanPlacements() error = %v", err)
	}
	if placements != nil {
		t.Errorf("mode none should have no plan, got %+v", placements)
	}
}

func TestPlanPlacements_InvalidMode(t *testing.T) {
	if _, err := PlanPlacements(3, Mode(9), 0, 1); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("got %v, want ErrUnknownMode", err)
	}
}
