package geom

import (
	"encoding/json"
	"math"
	"testing"
)

const tol = 1e-9

func TestNewRotationNormalizes(t *testing.T) {
	r, err := NewRotation(2, 0, 0, 0)
	if err != nil {
		t.Fatalf("NewRotation: %v", err)
	}
	w, x, y, z := r.WXYZ()
	if math.Abs(w-1) > tol || x != 0 || y != 0 || z != 0 {
		t.Fatalf("expected identity after normalization, got %v", r)
	}
}

func TestNewRotationDegenerate(t *testing.T) {
	if _, err := NewRotation(0, 0, 0, 0); err == nil {
		t.Fatal("expected error for zero quaternion")
	}
	if _, err := NewRotation(math.NaN(), 0, 0, 1); err == nil {
		t.Fatal("expected error for NaN component")
	}
}

func TestAxisAngleZeroAxis(t *testing.T) {
	if _, err := AxisAngle(Vec3{}, 1.0); err == nil {
		t.Fatal("expected error for zero axis")
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	// 90 degrees about +Z sends +X to +Y.
	r, err := AxisAngle(Vec3{Z: 1}, math.Pi/2)
	if err != nil {
		t.Fatalf("AxisAngle: %v", err)
	}
	got := r.Rotate(Vec3{X: 1})
	want := Vec3{Y: 1}
	if !vecApproxEqual(got, want, tol) {
		t.Fatalf("Rotate(+X) = %v, want %v", got, want)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	r, _ := AxisAngle(Vec3{X: 1, Y: 2, Z: -0.5}, 1.3)
	v := Vec3{X: 0.2, Y: -4, Z: 7}
	got := r.Inverse().Rotate(r.Rotate(v))
	if !vecApproxEqual(got, v, 1e-12) {
		t.Fatalf("inverse round trip moved %v to %v", v, got)
	}
}

func TestMulComposes(t *testing.T) {
	a, _ := AxisAngle(Vec3{Z: 1}, math.Pi/2)
	b, _ := AxisAngle(Vec3{X: 1}, math.Pi/2)
	v := Vec3{Y: 1}
	// a.Mul(b) applies b first: +Y -> +Z under b, then unchanged under a.
	got := a.Mul(b).Rotate(v)
	want := a.Rotate(b.Rotate(v))
	if !vecApproxEqual(got, want, tol) {
		t.Fatalf("composition mismatch: %v vs %v", got, want)
	}
}

func TestApproxEqualSignInsensitive(t *testing.T) {
	r, _ := AxisAngle(Vec3{Y: 1}, 0.7)
	w, x, y, z := r.WXYZ()
	neg, err := NewRotation(-w, -x, -y, -z)
	if err != nil {
		t.Fatalf("NewRotation: %v", err)
	}
	if !r.ApproxEqual(neg, tol) {
		t.Fatal("q and -q represent the same rotation")
	}
}

func TestSlerpEndpoints(t *testing.T) {
	a, _ := AxisAngle(Vec3{Z: 1}, 0.3)
	b, _ := AxisAngle(Vec3{Z: 1}, 2.1)
	if got := Slerp(a, b, 0); !got.ApproxEqual(a, 1e-15) {
		t.Fatalf("Slerp(t=0) = %v, want %v exactly", got, a)
	}
	if got := Slerp(a, b, 1); !got.ApproxEqual(b, 1e-15) {
		t.Fatalf("Slerp(t=1) = %v, want %v exactly", got, b)
	}
}

func TestSlerpMidpointSameAxis(t *testing.T) {
	a, _ := AxisAngle(Vec3{Z: 1}, 0.2)
	b, _ := AxisAngle(Vec3{Z: 1}, 1.0)
	mid, _ := AxisAngle(Vec3{Z: 1}, 0.6)
	got := Slerp(a, b, 0.5)
	if !got.ApproxEqual(mid, 1e-9) {
		t.Fatalf("Slerp midpoint = %v, want %v", got, mid)
	}
}

func TestSlerpShortestArc(t *testing.T) {
	// Opposite-sign representations of nearby rotations must not take the
	// long way around.
	a, _ := AxisAngle(Vec3{Z: 1}, 0.1)
	b, _ := AxisAngle(Vec3{Z: 1}, 0.2)
	w, x, y, z := b.WXYZ()
	bNeg, _ := NewRotation(-w, -x, -y, -z)
	got := Slerp(a, bNeg, 0.5)
	mid, _ := AxisAngle(Vec3{Z: 1}, 0.15)
	if !got.ApproxEqual(mid, 1e-9) {
		t.Fatalf("Slerp took the long arc: got %v, want %v", got, mid)
	}
}

func TestSlerpResultUnit(t *testing.T) {
	a, _ := AxisAngle(Vec3{X: 1}, 0.4)
	b, _ := AxisAngle(Vec3{Y: 1}, 2.8)
	for _, tv := range []float64{0, 0.25, 0.5, 0.75, 1} {
		r := Slerp(a, b, tv)
		if !r.IsValid() {
			t.Fatalf("Slerp(t=%g) produced non-unit quaternion %v", tv, r)
		}
	}
}

func TestRotationJSONRoundTrip(t *testing.T) {
	r, _ := AxisAngle(Vec3{X: 1, Z: 2}, 1.1)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Rotation
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !r.ApproxEqual(back, 1e-12) {
		t.Fatalf("round trip changed rotation: %v vs %v", r, back)
	}
}

func TestRotationJSONRejectsDegenerate(t *testing.T) {
	var r Rotation
	if err := json.Unmarshal([]byte("[0,0,0,0]"), &r); err == nil {
		t.Fatal("expected error decoding zero quaternion")
	}
}

func vecApproxEqual(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
