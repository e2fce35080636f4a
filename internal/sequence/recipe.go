package sequence

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/synthset/internal/faults"
	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/geom"
)

// Generation strategies accepted in a recipe.
const (
	StrategyStandard     = "standard"
	StrategyInterpolated = "interpolated"
	StrategyExhaustive   = "exhaustive"
	StrategyRandom       = "random"
)

// Recipe is the serializable description of a generation run: the strategy
// plus its inputs. It is the payload of the POST /api/sequences endpoint and
// the input format of the genseq tool, and it is stored verbatim next to
// each generated sequence for reproducibility.
//
// Vectors are [x, y, z] arrays, offsets [v, h] pairs, and rotations wxyz
// quadruples, matching the frame sidecar format.
type Recipe struct {
	Name     string `json:"name,omitempty"`
	Strategy string `json:"strategy"`

	// Interpolated inputs.
	Waypoints []frame.Frame `json:"waypoints,omitempty"`
	Counts    []int         `json:"counts,omitempty"`
	// Total is the interpolated total-frame alternative to Counts, and the
	// sample count for random generation.
	Total int `json:"total,omitempty"`

	// Standard / exhaustive value lists.
	Params *recipeParams `json:"params,omitempty"`

	// Random sampling domains.
	Domains *recipeDomains `json:"domains,omitempty"`

	// Seed makes random generation reproducible. Zero means unseeded, which
	// is documented as non-deterministic.
	Seed uint64 `json:"seed,omitempty"`
}

type vec3JSON [3]float64

func (v vec3JSON) vec() geom.Vec3 {
	return geom.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

type recipeParams struct {
	Positions   []vec3JSON      `json:"position,omitempty"`
	Distances   []float64       `json:"distance,omitempty"`
	Poses       []geom.Rotation `json:"pose,omitempty"`
	Lightings   []geom.Rotation `json:"lighting,omitempty"`
	Offsets     []frame.Offset  `json:"offset,omitempty"`
	Backgrounds []geom.Rotation `json:"background,omitempty"`
}

func (p *recipeParams) params() Params {
	out := Params{
		Distances:   p.Distances,
		Poses:       p.Poses,
		Lightings:   p.Lightings,
		Offsets:     p.Offsets,
		Backgrounds: p.Backgrounds,
	}
	for _, v := range p.Positions {
		out.Positions = append(out.Positions, v.vec())
	}
	return out
}

type recipeDomains struct {
	Position   *vec3DomainJSON     `json:"position,omitempty"`
	Distance   *scalarDomainJSON   `json:"distance,omitempty"`
	Pose       *rotationDomainJSON `json:"pose,omitempty"`
	Lighting   *rotationDomainJSON `json:"lighting,omitempty"`
	Offset     *offsetDomainJSON   `json:"offset,omitempty"`
	Background *rotationDomainJSON `json:"background,omitempty"`
}

// Each wire domain is an object with exactly one variant key set. Validation
// of the decoded domain happens in Random; decoding only rejects shapes with
// zero or multiple variants.

type scalarDomainJSON struct {
	Choice []float64    `json:"choice,omitempty"`
	Range  *ScalarRange `json:"range,omitempty"`
}

func (d *scalarDomainJSON) domain(field string) (ScalarDomain, error) {
	switch {
	case d.Choice != nil && d.Range == nil:
		return ScalarChoice(d.Choice), nil
	case d.Choice == nil && d.Range != nil:
		return *d.Range, nil
	}
	return nil, confErrorf("%s domain must set exactly one of choice, range", field)
}

type vec3DomainJSON struct {
	Choice []vec3JSON `json:"choice,omitempty"`
	Box    *struct {
		Min vec3JSON `json:"min"`
		Max vec3JSON `json:"max"`
	} `json:"box,omitempty"`
	Sphere *struct {
		Center vec3JSON `json:"center"`
		Radius float64  `json:"radius"`
	} `json:"sphere,omitempty"`
}

func (d *vec3DomainJSON) domain(field string) (Vec3Domain, error) {
	set := 0
	var out Vec3Domain
	if d.Choice != nil {
		set++
		choice := make(Vec3Choice, len(d.Choice))
		for i, v := range d.Choice {
			choice[i] = v.vec()
		}
		out = choice
	}
	if d.Box != nil {
		set++
		out = Vec3Box{Min: d.Box.Min.vec(), Max: d.Box.Max.vec()}
	}
	if d.Sphere != nil {
		set++
		out = Vec3Sphere{Center: d.Sphere.Center.vec(), Radius: d.Sphere.Radius}
	}
	if set != 1 {
		return nil, confErrorf("%s domain must set exactly one of choice, box, sphere", field)
	}
	return out, nil
}

type offsetDomainJSON struct {
	Choice []frame.Offset `json:"choice,omitempty"`
	Range  *OffsetRange   `json:"range,omitempty"`
}

func (d *offsetDomainJSON) domain(field string) (OffsetDomain, error) {
	switch {
	case d.Choice != nil && d.Range == nil:
		return OffsetChoice(d.Choice), nil
	case d.Choice == nil && d.Range != nil:
		return *d.Range, nil
	}
	return nil, confErrorf("%s domain must set exactly one of choice, range", field)
}

type rotationDomainJSON struct {
	Choice  []geom.Rotation `json:"choice,omitempty"`
	Uniform *struct{}       `json:"uniform,omitempty"`
	Sphere  *RotationSphere `json:"sphere,omitempty"`
}

func (d *rotationDomainJSON) domain(field string) (RotationDomain, error) {
	set := 0
	var out RotationDomain
	if d.Choice != nil {
		set++
		out = RotationChoice(d.Choice)
	}
	if d.Uniform != nil {
		set++
		out = RotationUniform{}
	}
	if d.Sphere != nil {
		set++
		out = *d.Sphere
	}
	if set != 1 {
		return nil, confErrorf("%s domain must set exactly one of choice, uniform, sphere", field)
	}
	return out, nil
}

func (r *recipeDomains) domains() (Domains, error) {
	var d Domains
	var err error
	if r.Position != nil {
		if d.Position, err = r.Position.domain("position"); err != nil {
			return Domains{}, err
		}
	}
	if r.Distance != nil {
		if d.Distance, err = r.Distance.domain("distance"); err != nil {
			return Domains{}, err
		}
	}
	if r.Pose != nil {
		if d.Pose, err = r.Pose.domain("pose"); err != nil {
			return Domains{}, err
		}
	}
	if r.Lighting != nil {
		if d.Lighting, err = r.Lighting.domain("lighting"); err != nil {
			return Domains{}, err
		}
	}
	if r.Offset != nil {
		if d.Offset, err = r.Offset.domain("offset"); err != nil {
			return Domains{}, err
		}
	}
	if r.Background != nil {
		if d.Background, err = r.Background.domain("background"); err != nil {
			return Domains{}, err
		}
	}
	return d, nil
}

// Build materializes the recipe into a sequence. Unspecified params/domains
// fall back to the frame defaults (the recipe is an external input; loud
// failure is reserved for contradictory or malformed recipes, matching the
// Defaulted opt-in the library API requires).
func (r *Recipe) Build() (*Sequence, error) {
	switch r.Strategy {
	case StrategyStandard:
		p := &recipeParams{}
		if r.Params != nil {
			p = r.Params
		}
		return Standard(p.params())

	case StrategyInterpolated:
		switch {
		case len(r.Counts) > 0 && r.Total > 0:
			return nil, confErrorf("interpolated recipe sets both counts and total")
		case len(r.Counts) > 0:
			return Interpolated(r.Waypoints, r.Counts)
		case r.Total > 0:
			return InterpolatedTotal(r.Waypoints, r.Total)
		}
		return nil, confErrorf("interpolated recipe needs counts or total")

	case StrategyExhaustive:
		p := &recipeParams{}
		if r.Params != nil {
			p = r.Params
		}
		return Exhaustive(p.params().Defaulted())

	case StrategyRandom:
		if r.Total <= 0 {
			return nil, confErrorf("random recipe needs a positive total")
		}
		var d Domains
		if r.Domains != nil {
			var err error
			if d, err = r.Domains.domains(); err != nil {
				return nil, err
			}
		}
		var src = geom.EnsureSource(nil)
		if r.Seed != 0 {
			src = geom.NewSource(r.Seed)
		}
		return Random(d.Defaulted(), r.Total, src)
	}
	return nil, confErrorf("unknown generation strategy %q", r.Strategy)
}

// ParseRecipe decodes and builds in one step, for callers that only care
// about the resulting sequence.
func ParseRecipe(data []byte) (*Recipe, *Sequence, error) {
	var r Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, nil, fmt.Errorf("%w: malformed recipe: %v", faults.ErrData, err)
	}
	seq, err := r.Build()
	if err != nil {
		return nil, nil, err
	}
	return &r, seq, nil
}
