// Package timeline plans and executes bulk clip duration and placement
// edits against a host application timeline. The host exposes no way to
// read an item's in-point, out-point, or position; the only mutation
// primitives are relative moves with two clamp guarantees (the in-point
// never goes below frame 0, the out-point is always forced to at least
// in-point + 1). Everything in this package drives items to absolute
// targets using only those guarantees.
package timeline

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrDurationTooShort = errors.New("requested duration resolves to less than one frame")
	ErrUnknownMode      = errors.New("unknown reposition mode")
	ErrNoSelection      = errors.New("no items selected")
)

// DurationSpec is a clip length expressed as whole seconds plus
// additional frames, the way the host panel collects it.
type DurationSpec struct {
	Seconds int `json:"seconds"`
	Frames  int `json:"frames"`
}

// TotalFrames converts the spec to a frame count at the given frame
// rate. The seconds portion is truncated toward zero at non-integral
// rates, matching the host's integer coercion of the seconds field.
func (d DurationSpec) TotalFrames(frameRate float64) int {
	return int(math.Floor(float64(d.Seconds)*frameRate)) + d.Frames
}

// Validate reports whether the spec describes a representable clip
// length at the given frame rate. The minimum clip length is one frame.
func (d DurationSpec) Validate(frameRate float64) error {
	if d.Seconds < 0 || d.Frames < 0 {
		return ErrDurationTooShort
	}
	if d.TotalFrames(frameRate) < 1 {
		return ErrDurationTooShort
	}
	return nil
}

// Mode selects how items are repositioned after their duration is set.
type Mode int

const (
	// ModeNone changes durations in place and never touches position.
	ModeNone Mode = iota
	// ModeAtPlayhead stacks every item at the anchor frame.
	ModeAtPlayhead
	// ModeStaggerTopFirst lays items end to end starting from the
	// top-most selected item.
	ModeStaggerTopFirst
	// ModeStaggerBottomFirst lays items end to end starting from the
	// bottom-most selected item.
	ModeStaggerBottomFirst
)

var modeNames = map[Mode]string{
	ModeNone:               "none",
	ModeAtPlayhead:         "at_playhead",
	ModeStaggerTopFirst:    "stagger_top_first",
	ModeStaggerBottomFirst: "stagger_bottom_first",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Valid reports whether m is one of the four defined modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// Repositions reports whether m moves items at all.
func (m Mode) Repositions() bool {
	return m.Valid() && m != ModeNone
}

// ParseMode maps a mode name back to its Mode. The set of names is
// closed; anything else is an error.
func ParseMode(name string) (Mode, error) {
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}
