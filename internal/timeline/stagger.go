package timeline

import "fmt"

// Placement is one step of a reposition plan: the item at Index is
// visited VisitOrder-th and moved so its clip starts at TargetFrame.
type Placement struct {
	Index       int `json:"index"`
	TargetFrame int `json:"target_frame"`
	VisitOrder  int `json:"visit_order"`
}

// PlanPlacements computes the target start frame for each of n selected
// items, indexed 0..n-1 in stacking order with 0 the bottom-most.
// Placements are returned in visit order.
//
// AtPlayhead stacks every item at the anchor. The stagger modes lay
// items end to end from the anchor with no gap or overlap, stepping by
// itemFrames, starting from whichever physical end of the selection the
// mode names. ModeNone has no plan and returns nil.
func PlanPlacements(n int, mode Mode, anchorFrame, itemFrames int) ([]Placement, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	if mode == ModeNone {
		return nil, nil
	}

	placements := make([]Placement, 0, n)
	for step := 0; step < n; step++ {
		index := step
		if mode == ModeStaggerTopFirst {
			index = n - 1 - step
		}
		target := anchorFrame
		if mode != ModeAtPlayhead {
			target += step * itemFrames
		}
		placements = append(placements, Placement{
			Index:       index,
			TargetFrame: target,
			VisitOrder:  step,
		})
	}
	return placements, nil
}
