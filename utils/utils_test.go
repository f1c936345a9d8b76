package utils

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var countTests = []struct {
	writes []string
	total  int64
}{
	{nil, 0},
	{[]string{""}, 0},
	{[]string{"abc"}, 3},
	{[]string{"Kaydara", " FBX", "\x00\x1a\x00"}, 14},
}

func TestCountingWriter(t *testing.T) {
	for _, test := range countTests {
		var w CountingWriter
		for _, s := range test.writes {
			if n, err := w.Write([]byte(s)); err != nil || n != len(s) {
				t.Errorf("Write(%q)=%d,%v", s, n, err)
			}
		}
		if w.Count() != test.total {
			t.Errorf("Count() after %q = %d; expected %d", test.writes, w.Count(), test.total)
		}
	}
}

var oneLineTests = []struct {
	in  string
	out string
}{
	{"Cube", "Cube"},
	{"Cube\x00\x01Model", "Cube\\x00\\x01Model"},
	{"", ""},
}

func TestDumpToOneLineString(t *testing.T) {
	for _, test := range oneLineTests {
		if r := DumpToOneLineString([]byte(test.in)); r != test.out {
			t.Errorf("DumpToOneLineString(%q)=%q; expected %q", test.in, r, test.out)
		}
	}
}

func TestDisplayString(t *testing.T) {
	if r := DisplayString("Joint"); r != "Joint" {
		t.Errorf("DisplayString(Joint)=%q", r)
	}
	// 0xe9 is e-acute in windows-1252
	if r := DisplayString("Caf\xe9"); r != "Café" {
		t.Errorf("DisplayString(Caf\\xe9)=%q", r)
	}
}

func TestEulerToQuat(t *testing.T) {
	v := EulerToQuat(mgl64.Vec3{0, 0, 90}, RotationOrderXYZ).Rotate(mgl64.Vec3{1, 0, 0})
	if math.Abs(v[0]) > 1e-9 || math.Abs(v[1]-1) > 1e-9 {
		t.Errorf("rotate x by z90 = %v", v)
	}

	// x first, then z: (0,1,0) -x90-> (0,0,1) -z90-> (0,0,1)
	v = EulerToQuat(mgl64.Vec3{90, 0, 90}, RotationOrderXYZ).Rotate(mgl64.Vec3{0, 1, 0})
	if math.Abs(v[2]-1) > 1e-9 {
		t.Errorf("xyz rotate = %v", v)
	}
	// z first, then x: (0,1,0) -z90-> (-1,0,0) -x90-> (-1,0,0)
	v = EulerToQuat(mgl64.Vec3{90, 0, 90}, RotationOrderZYX).Rotate(mgl64.Vec3{0, 1, 0})
	if math.Abs(v[0]+1) > 1e-9 {
		t.Errorf("zyx rotate = %v", v)
	}
}

func TestLocalTransform(t *testing.T) {
	m := LocalTransform(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{2, 2, 2}, RotationOrderXYZ)
	p := m.Mul4x1(mgl64.Vec4{1, 1, 1, 1})
	if !p.ApproxEqual(mgl64.Vec4{3, 4, 5, 1}) {
		t.Errorf("transform = %v", p)
	}
	if s := Mat4ToSlice(m); SliceToMat4(s) != m {
		t.Errorf("mat slice mismatch")
	}
}
