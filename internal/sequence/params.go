package sequence

import (
	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/geom"
)

// Params carries one value list per frame field. Standard and Exhaustive both
// consume it: Standard zips the lists together, Exhaustive crosses them.
type Params struct {
	Positions   []geom.Vec3
	Distances   []float64
	Poses       []geom.Rotation
	Lightings   []geom.Rotation
	Offsets     []frame.Offset
	Backgrounds []geom.Rotation
}

// fieldOrder is the declared outer-to-inner field order for the exhaustive
// cartesian product. Output ordering is part of the contract: it keeps
// exhaustive generation reproducible across runs.
var fieldOrder = [...]string{"position", "distance", "pose", "lighting", "offset", "background"}

func (p Params) lens() [6]int {
	return [6]int{
		len(p.Positions), len(p.Distances), len(p.Poses),
		len(p.Lightings), len(p.Offsets), len(p.Backgrounds),
	}
}

// Defaulted returns a copy of p where every empty field list is replaced by a
// single-element list holding that field's default. Callers that want
// "everything else stays stock" semantics opt in through this, keeping
// truly empty domains a loud error in Exhaustive.
func (p Params) Defaulted() Params {
	def := frame.Default()
	if len(p.Positions) == 0 {
		p.Positions = []geom.Vec3{def.Position}
	}
	if len(p.Distances) == 0 {
		p.Distances = []float64{def.Distance}
	}
	if len(p.Poses) == 0 {
		p.Poses = []geom.Rotation{def.Pose}
	}
	if len(p.Lightings) == 0 {
		p.Lightings = []geom.Rotation{def.Lighting}
	}
	if len(p.Offsets) == 0 {
		p.Offsets = []frame.Offset{def.Offset}
	}
	if len(p.Backgrounds) == 0 {
		p.Backgrounds = []geom.Rotation{def.Background}
	}
	return p
}

// Standard builds a sequence by zipping the value lists together, one frame
// per index. Every non-empty list must either share the same length or hold a
// single value, which is then broadcast across all frames. Empty lists
// broadcast the field default. With no lists at all, the result is a single
// default frame.
func Standard(p Params) (*Sequence, error) {
	length := 1
	for i, n := range p.lens() {
		if n <= 1 {
			continue
		}
		if length != 1 && n != length {
			return nil, confErrorf("parameter lists of differing lengths: %s has %d values, want %d", fieldOrder[i], n, length)
		}
		length = n
	}

	frames := make([]frame.Frame, length)
	for i := range frames {
		f := frame.Default()
		if len(p.Positions) > 0 {
			f.Position = broadcast(p.Positions, i)
		}
		if len(p.Distances) > 0 {
			f.Distance = broadcast(p.Distances, i)
		}
		if len(p.Poses) > 0 {
			f.Pose = broadcast(p.Poses, i)
		}
		if len(p.Lightings) > 0 {
			f.Lighting = broadcast(p.Lightings, i)
		}
		if len(p.Offsets) > 0 {
			f.Offset = broadcast(p.Offsets, i)
		}
		if len(p.Backgrounds) > 0 {
			f.Background = broadcast(p.Backgrounds, i)
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		frames[i] = f
	}
	return &Sequence{frames: frames}, nil
}

// broadcast returns vals[i], or the single value when the list has length 1.
func broadcast[T any](vals []T, i int) T {
	if len(vals) == 1 {
		return vals[0]
	}
	return vals[i]
}

// Exhaustive builds the full cartesian product of the value lists, fixing the
// nesting outer-to-inner as position, distance, pose, lighting, offset,
// background. The sequence length is the product of the list lengths and
// every combination appears exactly once.
//
// An empty field list would silently yield zero frames and mask a caller
// mistake, so it is rejected with a configuration error instead. Use
// Defaulted to fill unspecified fields deliberately.
func Exhaustive(p Params) (*Sequence, error) {
	for i, n := range p.lens() {
		if n == 0 {
			return nil, confErrorf("exhaustive domain for %s is empty", fieldOrder[i])
		}
	}

	total := 1
	for _, n := range p.lens() {
		total *= n
	}
	frames := make([]frame.Frame, 0, total)
	for _, pos := range p.Positions {
		for _, dist := range p.Distances {
			for _, pose := range p.Poses {
				for _, light := range p.Lightings {
					for _, off := range p.Offsets {
						for _, bg := range p.Backgrounds {
							f := frame.Frame{
								Position:   pos,
								Distance:   dist,
								Pose:       pose,
								Lighting:   light,
								Offset:     off,
								Background: bg,
							}
							if err := f.Validate(); err != nil {
								return nil, err
							}
							frames = append(frames, f)
						}
					}
				}
			}
		}
	}
	return &Sequence{frames: frames}, nil
}
