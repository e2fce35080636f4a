// Package sequence turns high-level parametric descriptions (waypoints,
// value lists, sampling domains) into ordered sequences of fully specified
// frame configurations.
//
// Four construction strategies are provided: Standard zips per-field value
// lists, Interpolated sweeps smoothly through waypoints, Exhaustive emits the
// cartesian product of discrete domains, and Random draws independent samples
// from per-field distributions. All strategies materialize the sequence
// eagerly; iteration is restartable and index access is O(1).
package sequence

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/synthset/internal/faults"
	"github.com/banshee-data/synthset/internal/frame"
)

// DefaultBakeFrames caps how many frames a bake preview reports by default.
const DefaultBakeFrames = 100

// Sequence is an immutable ordered collection of frames.
type Sequence struct {
	frames []frame.Frame
}

// New builds a sequence from a slice of frames. The slice is copied, so the
// caller may reuse it.
func New(frames []frame.Frame) *Sequence {
	out := make([]frame.Frame, len(frames))
	copy(out, frames)
	return &Sequence{frames: out}
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	return len(s.frames)
}

// At returns the frame at index i. It panics on out-of-range indices, like a
// slice access.
func (s *Sequence) At(i int) frame.Frame {
	return s.frames[i]
}

// Frames returns a copy of the frames, so each traversal starts fresh and
// callers cannot mutate the sequence through the returned slice.
func (s *Sequence) Frames() []frame.Frame {
	out := make([]frame.Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

// Concat returns a new sequence holding this sequence's frames followed by
// other's.
func (s *Sequence) Concat(other *Sequence) *Sequence {
	out := make([]frame.Frame, 0, len(s.frames)+len(other.frames))
	out = append(out, s.frames...)
	out = append(out, other.frames...)
	return &Sequence{frames: out}
}

// Bake returns a stride-sampled preview of the sequence holding at most num
// frames: every ceil(len/num)-th frame starting from the first. It is a
// cheap low-fidelity stand-in for rendering the full sequence, useful for
// eyeballing a generation recipe before committing render time. num <= 0
// uses DefaultBakeFrames.
func (s *Sequence) Bake(num int) *Sequence {
	if num <= 0 {
		num = DefaultBakeFrames
	}
	if num > len(s.frames) {
		num = len(s.frames)
	}
	if num == 0 {
		return &Sequence{}
	}
	stride := (len(s.frames) + num - 1) / num
	out := make([]frame.Frame, 0, num)
	for i := 0; i < len(s.frames); i += stride {
		out = append(out, s.frames[i])
	}
	return &Sequence{frames: out}
}

// Validate checks every frame's invariants, reporting the first violation
// with its index.
func (s *Sequence) Validate() error {
	for i, f := range s.frames {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

// MarshalJSON encodes the sequence as a JSON array of frame objects.
func (s *Sequence) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.frames)
}

// UnmarshalJSON decodes a JSON array of frame objects.
func (s *Sequence) UnmarshalJSON(data []byte) error {
	var frames []frame.Frame
	if err := json.Unmarshal(data, &frames); err != nil {
		return err
	}
	s.frames = frames
	return nil
}

// confErrorf wraps a formatted message in faults.ErrConfiguration.
func confErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", faults.ErrConfiguration, fmt.Sprintf(format, args...))
}
