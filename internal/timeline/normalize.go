package timeline

import (
	"context"
	"fmt"
)

// collapseFrames is a relative move magnitude larger than any timeline
// the host can hold, so a negative move of this size always lands on
// the relevant clamp boundary.
const collapseFrames = 1 << 30

// SetClipLength makes the item's clip exactly totalFrames long,
// anchored at its current in-point. No prior state is read: the first
// move collapses the clip to one frame (the out-point clamps to
// in-point + 1 regardless of where it was), the second extends it by
// totalFrames - 1. The second move is issued even when its delta is
// zero so every item sees the same call sequence.
func SetClipLength(ctx context.Context, h Host, item, totalFrames int) error {
	if err := h.ActivateItem(ctx, item); err != nil {
		return fmt.Errorf("activate item %d: %w", item, err)
	}
	if err := h.MoveOutPoint(ctx, 0, -collapseFrames); err != nil {
		return fmt.Errorf("collapse item %d: %w", item, err)
	}
	if err := h.MoveOutPoint(ctx, 0, totalFrames-1); err != nil {
		return fmt.Errorf("extend item %d: %w", item, err)
	}
	return nil
}

// RewindToZero forces the item's in-point to absolute frame 0. The
// in-point clamp is the only way to establish a known absolute anchor,
// since the host has no read primitives. As a side effect the clip
// collapses to one frame (the out-point clamp follows the in-point),
// so callers set the duration afterwards.
func RewindToZero(ctx context.Context, h Host, item int) error {
	if err := h.ActivateItem(ctx, item); err != nil {
		return fmt.Errorf("activate item %d: %w", item, err)
	}
	if err := h.MoveInPoint(ctx, 0, -collapseFrames); err != nil {
		return fmt.Errorf("rewind item %d: %w", item, err)
	}
	return nil
}
