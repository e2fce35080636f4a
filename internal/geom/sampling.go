package geom

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// goldenAngleScale is pi*(1+sqrt 5), the azimuthal step of the golden spiral.
var goldenAngleScale = math.Pi * (1 + math.Sqrt(5))

// EnsureSource returns src, or a freshly seeded PCG source when src is nil.
// The fallback is deliberately non-deterministic across runs; callers that
// need reproducibility must pass their own source.
func EnsureSource(src rand.Source) rand.Source {
	if src != nil {
		return src
	}
	return rand.NewPCG(rand.Uint64(), rand.Uint64())
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// UniformSphere returns n points approximately evenly distributed over the
// unit sphere using the golden spiral, expressed as Spherical rotations with
// zero roll. The lattice offsets indices by 0.5 so no point lands exactly on
// a pole. Output is fully deterministic for a given n.
func UniformSphere(n int) []Spherical {
	if n <= 0 {
		return nil
	}
	points := make([]Spherical, n)
	for i := range points {
		k := float64(i) + 0.5
		phi := math.Acos(clamp(2*k/float64(n)-1, -1, 1))
		theta := wrapAngle(goldenAngleScale * k)
		points[i] = Spherical{Theta: theta, Phi: phi}
	}
	return points
}

// RandomSpherical returns n rotations whose directions are uniformly
// distributed over the sphere. Roll is sampled uniformly in [0, 2pi) when
// randomRoll is set, and zero otherwise. A nil src makes the result
// non-deterministic.
func RandomSpherical(n int, randomRoll bool, src rand.Source) []Spherical {
	if n <= 0 {
		return nil
	}
	uni := distuv.Uniform{Min: 0, Max: 1, Src: EnsureSource(src)}
	points := make([]Spherical, n)
	for i := range points {
		theta := 2 * math.Pi * uni.Rand()
		// acos of a uniform variate gives the area-uniform polar angle.
		phi := math.Acos(clamp(1-2*uni.Rand(), -1, 1))
		var roll float64
		if randomRoll {
			roll = 2 * math.Pi * uni.Rand()
		}
		points[i] = Spherical{Theta: theta, Phi: phi, Roll: roll}
	}
	return points
}

// RandomRotations returns n rotations drawn uniformly from SO(3) by
// normalizing 4-component Gaussian samples. Euler-angle sampling is avoided
// on purpose: it concentrates density near the poles. A nil src makes the
// result non-deterministic.
func RandomRotations(n int, src rand.Source) []Rotation {
	if n <= 0 {
		return nil
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: EnsureSource(src)}
	rotations := make([]Rotation, n)
	for i := range rotations {
		for {
			r, err := NewRotation(norm.Rand(), norm.Rand(), norm.Rand(), norm.Rand())
			if err == nil {
				rotations[i] = r
				break
			}
			// All four samples landed at (near) zero; redraw.
		}
	}
	return rotations
}
