package timeline

import (
	"context"
	"fmt"
	"math"
)

// fakeClip models an item's clip span with an exclusive out-point, so
// duration is out-in and the minimum representable clip is one frame.
type fakeClip struct {
	in  int
	out int
}

func (c fakeClip) duration() int { return c.out - c.in }

// fakeHost is an in-memory Host honoring the two clamp guarantees. It
// records every primitive call in order and can be told to fail the
// n-th occurrence of a given op.
type fakeHost struct {
	frameRate float64
	playhead  float64
	clips     map[int]*fakeClip
	selection []int

	active    int
	activated bool

	ops        []string
	opCounts   map[string]int
	undoBegun  int
	undoEnded  int
	reselected [][]int

	failOn string
	failAt int // 1-based occurrence of failOn that fails; 0 fails every one
}

func newFakeHost(rate, playhead float64, clips map[int]*fakeClip) *fakeHost {
	return &fakeHost{
		frameRate: rate,
		playhead:  playhead,
		clips:     clips,
		opCounts:  map[string]int{},
	}
}

func (f *fakeHost) record(op string) error {
	f.ops = append(f.ops, op)
	f.opCounts[op]++
	if f.failOn == op && (f.failAt == 0 || f.opCounts[op] == f.failAt) {
		return fmt.Errorf("host rejected %s", op)
	}
	return nil
}

func (f *fakeHost) delta(seconds, frames int) int {
	return int(math.Floor(float64(seconds)*f.frameRate)) + frames
}

func (f *fakeHost) activeClip() (*fakeClip, error) {
	if !f.activated {
		return nil, fmt.Errorf("no active item")
	}
	clip, ok := f.clips[f.active]
	if !ok {
		return nil, fmt.Errorf("no clip for item %d", f.active)
	}
	return clip, nil
}

func (f *fakeHost) FrameRate(ctx context.Context) (float64, error) {
	if err := f.record("frameRate"); err != nil {
		return 0, err
	}
	return f.frameRate, nil
}

func (f *fakeHost) PlayheadFrame(ctx context.Context) (float64, error) {
	if err := f.record("playhead"); err != nil {
		return 0, err
	}
	return f.playhead, nil
}

func (f *fakeHost) SelectedItems(ctx context.Context, excludeBackground bool) ([]int, error) {
	if err := f.record("selectedItems"); err != nil {
		return nil, err
	}
	return append([]int(nil), f.selection...), nil
}

func (f *fakeHost) ActivateItem(ctx context.Context, index int) error {
	if err := f.record("activate"); err != nil {
		return err
	}
	if _, ok := f.clips[index]; !ok {
		return fmt.Errorf("no item at index %d", index)
	}
	f.active = index
	f.activated = true
	return nil
}

func (f *fakeHost) MoveInPoint(ctx context.Context, seconds, frames int) error {
	if err := f.record("moveIn"); err != nil {
		return err
	}
	clip, err := f.activeClip()
	if err != nil {
		return err
	}
	d := f.delta(seconds, frames)
	clip.in += d
	clip.out += d
	if clip.in < 0 {
		clip.in = 0
	}
	if clip.out < clip.in+1 {
		clip.out = clip.in + 1
	}
	return nil
}

func (f *fakeHost) MoveOutPoint(ctx context.Context, seconds, frames int) error {
	if err := f.record("moveOut"); err != nil {
		return err
	}
	clip, err := f.activeClip()
	if err != nil {
		return err
	}
	clip.out += f.delta(seconds, frames)
	if clip.out < clip.in+1 {
		clip.out = clip.in + 1
	}
	return nil
}

func (f *fakeHost) MoveWholeItem(ctx context.Context, seconds, frames int) error {
	if err := f.record("moveWhole"); err != nil {
		return err
	}
	clip, err := f.activeClip()
	if err != nil {
		return err
	}
	d := f.delta(seconds, frames)
	if clip.in+d < 0 {
		d = -clip.in
	}
	clip.in += d
	clip.out += d
	return nil
}

func (f *fakeHost) ReselectItems(ctx context.Context, indices []int) error {
	if err := f.record("reselect"); err != nil {
		return err
	}
	f.selection = append([]int(nil), indices...)
	f.reselected = append(f.reselected, f.selection)
	return nil
}

func (f *fakeHost) BeginUndoGroup(ctx context.Context, name string) error {
	if err := f.record("beginUndo"); err != nil {
		return err
	}
	f.undoBegun++
	return nil
}

func (f *fakeHost) EndUndoGroup(ctx context.Context) error {
	if err := f.record("endUndo"); err != nil {
		return err
	}
	f.undoEnded++
	return nil
}
