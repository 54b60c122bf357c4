// Package host provides the concrete timeline.Host implementations: a
// bridge that forwards primitives to the connected host panel, and an
// in-memory simulator used for dry runs and tests.
package host

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrNoTimeline mirrors the host error raised when the active item has
// no clip-mode timeline to edit.
var ErrNoTimeline = errors.New("no timeline exists for the active item")

// SimClip is a clip span with an exclusive out-point.
type SimClip struct {
	In  int `json:"in"`
	Out int `json:"out"`
}

func (c SimClip) Duration() int { return c.Out - c.In }

// Sim is an in-memory timeline implementing timeline.Host. It honors
// the two clamp guarantees the real host provides: the in-point never
// goes below frame 0 and the out-point never goes below in-point + 1.
type Sim struct {
	mu          sync.Mutex
	frameRate   float64
	playhead    float64
	clips       map[int]*SimClip
	selection   []int
	active      int
	activated   bool
	hasTimeline bool
}

func NewSim(frameRate, playhead float64) *Sim {
	return &Sim{
		frameRate:   frameRate,
		playhead:    playhead,
		clips:       map[int]*SimClip{},
		hasTimeline: true,
	}
}

// SeedItems creates n items with distinct prior spans and selects all
// of them, bottom-most first.
func (s *Sim) SeedItems(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = s.selection[:0]
	for i := 0; i < n; i++ {
		s.clips[i] = &SimClip{In: i * 17, Out: i*17 + 40 + i}
		s.selection = append(s.selection, i)
	}
}

// SetClip places a specific prior span at an index.
func (s *Sim) SetClip(index, in, out int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clips[index] = &SimClip{In: in, Out: out}
}

// Clip returns a copy of the clip at index.
func (s *Sim) Clip(index int) (SimClip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[index]
	if !ok {
		return SimClip{}, false
	}
	return *c, true
}

// Selection returns the current selection in stacking order.
func (s *Sim) Selection() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.selection...)
}

// DisableTimeline makes every subsequent primitive fail with
// ErrNoTimeline, the way the real host behaves outside clip mode.
func (s *Sim) DisableTimeline() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasTimeline = false
}

func (s *Sim) delta(seconds, frames int) int {
	return int(math.Floor(float64(seconds)*s.frameRate)) + frames
}

func (s *Sim) activeClip() (*SimClip, error) {
	if !s.hasTimeline {
		return nil, ErrNoTimeline
	}
	if !s.activated {
		return nil, fmt.Errorf("no item activated")
	}
	clip, ok := s.clips[s.active]
	if !ok {
		return nil, fmt.Errorf("no item at index %d", s.active)
	}
	return clip, nil
}

func (s *Sim) FrameRate(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTimeline {
		return 0, ErrNoTimeline
	}
	return s.frameRate, nil
}

func (s *Sim) PlayheadFrame(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTimeline {
		return 0, ErrNoTimeline
	}
	return s.playhead, nil
}

func (s *Sim) SelectedItems(ctx context.Context, excludeBackground bool) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.selection...), nil
}

func (s *Sim) ActivateItem(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clips[index]; !ok {
		return fmt.Errorf("no item at index %d", index)
	}
	s.active = index
	s.activated = true
	return nil
}

func (s *Sim) MoveInPoint(ctx context.Context, seconds, frames int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, err := s.activeClip()
	if err != nil {
		return err
	}
	d := s.delta(seconds, frames)
	clip.In += d
	clip.Out += d
	if clip.In < 0 {
		clip.In = 0
	}
	if clip.Out < clip.In+1 {
		clip.Out = clip.In + 1
	}
	return nil
}

func (s *Sim) MoveOutPoint(ctx context.Context, seconds, frames int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, err := s.activeClip()
	if err != nil {
		return err
	}
	clip.Out += s.delta(seconds, frames)
	if clip.Out < clip.In+1 {
		clip.Out = clip.In + 1
	}
	return nil
}

func (s *Sim) MoveWholeItem(ctx context.Context, seconds, frames int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, err := s.activeClip()
	if err != nil {
		return err
	}
	d := s.delta(seconds, frames)
	if clip.In+d < 0 {
		d = -clip.In
	}
	clip.In += d
	clip.Out += d
	return nil
}

func (s *Sim) ReselectItems(ctx context.Context, indices []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = append([]int(nil), indices...)
	return nil
}

func (s *Sim) BeginUndoGroup(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasTimeline {
		return ErrNoTimeline
	}
	return nil
}

func (s *Sim) EndUndoGroup(ctx context.Context) error {
	return nil
}
