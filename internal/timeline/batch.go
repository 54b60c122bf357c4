package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// UndoGroupName is the label of the single history entry that wraps a
// whole batch.
const UndoGroupName = "Retime Clips"

// Runner executes one batch of duration/placement edits against a Host.
type Runner struct {
	host   Host
	logger *slog.Logger
}

func NewRunner(h Host, logger *slog.Logger) *Runner {
	return &Runner{host: h, logger: logger}
}

// Result describes what a completed batch did.
type Result struct {
	Items       []int       `json:"items"`
	FrameRate   float64     `json:"frame_rate"`
	TotalFrames int         `json:"total_frames"`
	AnchorFrame int         `json:"anchor_frame,omitempty"`
	Placements  []Placement `json:"placements,omitempty"`
}

// Run drives every selected item to the requested duration and, for
// repositioning modes, to its planned start frame. Items are the
// selection in stacking order (index 0 bottom-most) and are treated as
// valid only for this run.
//
// Validation happens before any mutation. All mutations are wrapped in
// one undo group, released exactly once on every exit path, so the user
// can revert the whole batch as a single action. The first failing host
// primitive aborts the remaining items; edits already applied are not
// rolled back here, only the undo group entry covers them. The original
// selection is restored whether the batch completes or aborts.
func (r *Runner) Run(ctx context.Context, items []int, spec DurationSpec, mode Mode) (*Result, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	if len(items) == 0 {
		return nil, ErrNoSelection
	}

	frameRate, err := r.host.FrameRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("query frame rate: %w", err)
	}
	if err := spec.Validate(frameRate); err != nil {
		return nil, err
	}
	totalFrames := spec.TotalFrames(frameRate)

	result := &Result{
		Items:       items,
		FrameRate:   frameRate,
		TotalFrames: totalFrames,
	}

	if mode.Repositions() {
		playhead, err := r.host.PlayheadFrame(ctx)
		if err != nil {
			return nil, fmt.Errorf("query playhead: %w", err)
		}
		result.AnchorFrame = int(math.Floor(playhead))
		result.Placements, err = PlanPlacements(len(items), mode, result.AnchorFrame, totalFrames)
		if err != nil {
			return nil, err
		}
	}

	if r.logger != nil {
		r.logger.Info("starting batch",
			"items", len(items),
			"mode", mode.String(),
			"total_frames", totalFrames,
			"frame_rate", frameRate,
			"anchor_frame", result.AnchorFrame,
		)
	}

	if err := r.host.BeginUndoGroup(ctx, UndoGroupName); err != nil {
		return nil, fmt.Errorf("begin undo group: %w", err)
	}

	defer func() {
		// Restore the selection after the undo group closes so the
		// reselect is not part of the history entry.
		if err := r.host.ReselectItems(ctx, items); err != nil && r.logger != nil {
			r.logger.Warn("failed to restore selection", "error", err)
		}
	}()
	defer func() {
		if err := r.host.EndUndoGroup(ctx); err != nil && r.logger != nil {
			r.logger.Warn("failed to end undo group", "error", err)
		}
	}()

	if mode == ModeNone {
		for _, item := range items {
			if err := SetClipLength(ctx, r.host, item, totalFrames); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	for _, p := range result.Placements {
		if err := r.placeItem(ctx, p, totalFrames); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// placeItem moves one item to an absolute start frame. The in-point is
// rewound to frame 0 first, which is the only known absolute anchor, so
// the final whole-item relative move of TargetFrame frames lands the
// clip exactly there.
func (r *Runner) placeItem(ctx context.Context, p Placement, totalFrames int) error {
	if err := RewindToZero(ctx, r.host, p.Index); err != nil {
		return err
	}
	if err := SetClipLength(ctx, r.host, p.Index, totalFrames); err != nil {
		return err
	}
	if err := r.host.MoveWholeItem(ctx, 0, p.TargetFrame); err != nil {
		return fmt.Errorf("place item %d at frame %d: %w", p.Index, p.TargetFrame, err)
	}
	return nil
}
