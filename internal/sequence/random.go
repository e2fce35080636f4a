package sequence

import (
	"math/rand/v2"

	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/geom"
)

// Domains assigns one producing domain to each frame field for random
// generation. Every field must be set; Defaulted fills gaps with the field's
// stock value as a fixed single-element choice.
type Domains struct {
	Position   Vec3Domain
	Distance   ScalarDomain
	Pose       RotationDomain
	Lighting   RotationDomain
	Offset     OffsetDomain
	Background RotationDomain
}

// Defaulted returns a copy of d where every nil domain is replaced by a fixed
// choice of the frame default for that field.
func (d Domains) Defaulted() Domains {
	def := frame.Default()
	if d.Position == nil {
		d.Position = Vec3Choice{def.Position}
	}
	if d.Distance == nil {
		d.Distance = ScalarChoice{def.Distance}
	}
	if d.Pose == nil {
		d.Pose = RotationChoice{def.Pose}
	}
	if d.Lighting == nil {
		d.Lighting = RotationChoice{def.Lighting}
	}
	if d.Offset == nil {
		d.Offset = OffsetChoice{def.Offset}
	}
	if d.Background == nil {
		d.Background = RotationChoice{def.Background}
	}
	return d
}

func (d Domains) validate() error {
	checks := []struct {
		field  string
		domain interface{ validate(string) error }
	}{
		{"position", d.Position},
		{"distance", d.Distance},
		{"pose", d.Pose},
		{"lighting", d.Lighting},
		{"offset", d.Offset},
		{"background", d.Background},
	}
	for _, c := range checks {
		if c.domain == nil {
			return confErrorf("no producing domain for %s", c.field)
		}
		if err := c.domain.validate(c.field); err != nil {
			return err
		}
	}
	return nil
}

// Random builds a sequence of n frames, each field drawn independently from
// its domain. With an explicit source the output is fully deterministic;
// with a nil source it is intentionally different on every run, which is the
// documented production behavior (tests pass a seeded source).
func Random(d Domains, n int, src rand.Source) (*Sequence, error) {
	if n <= 0 {
		return nil, confErrorf("random sequence length must be positive, got %d", n)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	src = geom.EnsureSource(src)

	frames := make([]frame.Frame, n)
	for i := range frames {
		f := frame.Frame{
			Position:   d.Position.sample(src),
			Distance:   d.Distance.sample(src),
			Pose:       d.Pose.sample(src),
			Lighting:   d.Lighting.sample(src),
			Offset:     d.Offset.sample(src),
			Background: d.Background.sample(src),
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		frames[i] = f
	}
	return &Sequence{frames: frames}, nil
}
