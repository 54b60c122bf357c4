package timeline

import "context"

// Host is the write-only surface the host application exposes for
// timeline edits. Items are addressed by their index in the host's
// stacking order; indices are only valid within a single batch run.
//
// The relative move primitives act on the currently activated item and
// combine their arguments as seconds*frameRate + frames. Implementations
// must honor the two clamp guarantees: MoveInPoint never takes the
// in-point below frame 0, and MoveOutPoint never takes the out-point
// below in-point + 1. Every correctness argument in this package rests
// on those two clamps.
type Host interface {
	// FrameRate returns the timeline frame rate in frames per second.
	FrameRate(ctx context.Context) (float64, error)

	// PlayheadFrame returns the current playhead position in frames.
	PlayheadFrame(ctx context.Context) (float64, error)

	// SelectedItems returns the indices of the selected items in
	// stacking order, empty if nothing is selected.
	SelectedItems(ctx context.Context, excludeBackground bool) ([]int, error)

	// ActivateItem makes the item at index the implicit target of
	// subsequent move calls.
	ActivateItem(ctx context.Context, index int) error

	MoveInPoint(ctx context.Context, seconds, frames int) error
	MoveOutPoint(ctx context.Context, seconds, frames int) error
	MoveWholeItem(ctx context.Context, seconds, frames int) error

	// ReselectItems restores the given selection.
	ReselectItems(ctx context.Context, indices []int) error

	// BeginUndoGroup opens a scope that collapses all edits until
	// EndUndoGroup into a single user-visible history entry.
	BeginUndoGroup(ctx context.Context, name string) error
	EndUndoGroup(ctx context.Context) error
}
