package sequence

import (
	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/geom"
)

// interp produces n frames sweeping from a (inclusive) towards b (exclusive):
// t steps through i/n. Scalar and vector fields interpolate linearly,
// rotation fields via shortest-arc slerp.
func interp(a, b frame.Frame, n int) []frame.Frame {
	frames := make([]frame.Frame, n)
	for i := range frames {
		t := float64(i) / float64(n)
		frames[i] = frame.Frame{
			Position: geom.LerpVec3(a.Position, b.Position, t),
			Distance: geom.Lerp(a.Distance, b.Distance, t),
			Pose:     geom.Slerp(a.Pose, b.Pose, t),
			Lighting: geom.Slerp(a.Lighting, b.Lighting, t),
			Offset: frame.Offset{
				V: geom.Lerp(a.Offset.V, b.Offset.V, t),
				H: geom.Lerp(a.Offset.H, b.Offset.H, t),
			},
			Background: geom.Slerp(a.Background, b.Background, t),
		}
	}
	return frames
}

// Interpolated builds a sequence that passes through every waypoint and
// interpolates smoothly in between. counts[i] frames cover the span from
// waypoint i (inclusive) to waypoint i+1 (exclusive), and the final waypoint
// is appended, so the total length is sum(counts)+1. counts must hold one
// entry per waypoint pair.
//
// A single waypoint with a single count yields a constant sequence of that
// length: a still camera is a legitimate (if dull) sequence.
func Interpolated(waypoints []frame.Frame, counts []int) (*Sequence, error) {
	if len(waypoints) == 0 {
		return nil, confErrorf("interpolated sequence needs at least one waypoint")
	}
	for i, w := range waypoints {
		if err := w.Validate(); err != nil {
			return nil, confErrorf("waypoint %d: %v", i, err)
		}
	}
	for i, n := range counts {
		if n <= 0 {
			return nil, confErrorf("segment count %d must be positive, got %d", i, n)
		}
	}

	if len(waypoints) == 1 {
		if len(counts) != 1 {
			return nil, confErrorf("a single waypoint takes exactly one count, got %d", len(counts))
		}
		frames := make([]frame.Frame, counts[0])
		for i := range frames {
			frames[i] = waypoints[0]
		}
		return &Sequence{frames: frames}, nil
	}

	if len(counts) != len(waypoints)-1 {
		return nil, confErrorf("got %d segment counts for %d waypoints, want %d", len(counts), len(waypoints), len(waypoints)-1)
	}

	total := 1
	for _, n := range counts {
		total += n
	}
	frames := make([]frame.Frame, 0, total)
	for i := 0; i < len(waypoints)-1; i++ {
		frames = append(frames, interp(waypoints[i], waypoints[i+1], counts[i])...)
	}
	frames = append(frames, waypoints[len(waypoints)-1])
	return &Sequence{frames: frames}, nil
}

// InterpolatedTotal is Interpolated with a total frame count instead of
// per-segment counts. The available frames (total minus the final waypoint)
// are split evenly across segments; when the split is uneven, the earliest
// segments take the remainder so the front of the path is never
// shortchanged.
func InterpolatedTotal(waypoints []frame.Frame, total int) (*Sequence, error) {
	if len(waypoints) == 0 {
		return nil, confErrorf("interpolated sequence needs at least one waypoint")
	}
	if len(waypoints) == 1 {
		if total <= 0 {
			return nil, confErrorf("total frame count must be positive, got %d", total)
		}
		return Interpolated(waypoints, []int{total})
	}

	segments := len(waypoints) - 1
	if total < segments+1 {
		return nil, confErrorf("total frame count %d too small for %d waypoints (need at least %d)", total, len(waypoints), segments+1)
	}
	per := (total - 1) / segments
	remainder := (total - 1) % segments
	counts := make([]int, segments)
	for i := range counts {
		counts[i] = per
		if i < remainder {
			counts[i]++
		}
	}
	return Interpolated(waypoints, counts)
}
