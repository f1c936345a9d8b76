package fbx

import "testing"

var fullNameTests = []struct {
	display string
	class   string
	full    string
}{
	{"Joint1", "LimbNode", "Joint1\x00\x01LimbNode"},
	{"", "AnimCurve", "\x00\x01AnimCurve"},
	{"Joint1\x00\x01Model", "LimbNode", "Joint1\x00\x01LimbNode"},
}

func TestMakeFullName(t *testing.T) {
	for _, test := range fullNameTests {
		if r := MakeFullName(test.display, test.class); r != test.full {
			t.Errorf("MakeFullName(%q,%q)=%q; expected %q", test.display, test.class, r, test.full)
		}
	}
}

func TestSplitFullName(t *testing.T) {
	d, c, ok := SplitFullName("Joint1\x00\x01LimbNode")
	if d != "Joint1" || c != "LimbNode" || !ok {
		t.Errorf("SplitFullName=%q,%q,%v", d, c, ok)
	}
	d, c, ok = SplitFullName("Joint1")
	if d != "Joint1" || c != "" || ok {
		t.Errorf("SplitFullName(no marker)=%q,%q,%v", d, c, ok)
	}
}

func TestASCIIName(t *testing.T) {
	full := MakeFullName("Cube", "Model")
	if r := ASCIIName(full); r != "Model::Cube" {
		t.Errorf("ASCIIName=%q", r)
	}
	if r := ParseASCIIName("Model::Cube"); r != full {
		t.Errorf("ParseASCIIName=%q", r)
	}
	if r := ParseASCIIName("Lcl Translation"); r != "Lcl Translation" {
		t.Errorf("ParseASCIIName(plain)=%q", r)
	}
}
