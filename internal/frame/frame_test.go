package frame

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/banshee-data/synthset/internal/faults"
	"github.com/banshee-data/synthset/internal/geom"
)

func TestDefaultValidates(t *testing.T) {
	f := Default()
	if err := f.Validate(); err != nil {
		t.Fatalf("default frame should validate: %v", err)
	}
	if f.Distance != DefaultDistance {
		t.Errorf("default distance = %g, want %d", f.Distance, DefaultDistance)
	}
	if f.Offset != Centered {
		t.Errorf("default offset = %v, want centered", f.Offset)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Frame)
		kind   error
	}{
		{"zero distance", func(f *Frame) { f.Distance = 0 }, faults.ErrConfiguration},
		{"negative distance", func(f *Frame) { f.Distance = -3 }, faults.ErrConfiguration},
		{"NaN distance", func(f *Frame) { f.Distance = math.NaN() }, faults.ErrConfiguration},
		{"zero pose", func(f *Frame) { f.Pose = geom.Rotation{} }, faults.ErrGeometry},
		{"zero lighting", func(f *Frame) { f.Lighting = geom.Rotation{} }, faults.ErrGeometry},
		{"zero background", func(f *Frame) { f.Background = geom.Rotation{} }, faults.ErrGeometry},
		{"infinite position", func(f *Frame) { f.Position.Y = math.Inf(1) }, faults.ErrGeometry},
		{"NaN offset", func(f *Frame) { f.Offset.H = math.NaN() }, faults.ErrGeometry},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := Default()
			tc.mutate(&f)
			err := f.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, tc.kind) {
				t.Fatalf("error %v is not of the expected kind", err)
			}
		})
	}
}

func TestOffsetJSONIsPair(t *testing.T) {
	data, err := json.Marshal(Offset{V: 0.25, H: 0.75})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[0.25,0.75]" {
		t.Fatalf("offset encodes as %s, want [0.25,0.75]", data)
	}
	var o Offset
	if err := json.Unmarshal(data, &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if o.V != 0.25 || o.H != 0.75 {
		t.Fatalf("round trip gave %+v", o)
	}
}

func TestFrameJSONRoundTrip(t *testing.T) {
	pose, _ := geom.AxisAngle(geom.Vec3{Y: 1}, 0.8)
	bg, _ := geom.AxisAngle(geom.Vec3{X: 1}, 1.2)
	f := Frame{
		Position:   geom.Vec3{X: 1, Y: -2, Z: 3},
		Distance:   42,
		Pose:       pose,
		Lighting:   geom.Identity(),
		Offset:     Offset{V: 0.3, H: 0.6},
		Background: bg,
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"position":[1,-2,3]`) {
		t.Fatalf("position not encoded as array: %s", data)
	}
	var back Frame
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !f.ApproxEqual(back, 1e-12) {
		t.Fatalf("round trip changed frame:\n%+v\n%+v", f, back)
	}
}

func TestFrameJSONRejectsInvalid(t *testing.T) {
	bad := `{"position":[0,0,0],"distance":-1,"pose":[1,0,0,0],"lighting":[1,0,0,0],"offset":[0.5,0.5],"background":[1,0,0,0]}`
	var f Frame
	err := json.Unmarshal([]byte(bad), &f)
	if err == nil {
		t.Fatal("expected error decoding frame with negative distance")
	}
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("error %v is not a configuration fault", err)
	}
}
