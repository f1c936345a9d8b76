package scene

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, d *Document, format Format) *Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, d.Write(&buf, format))

	r := NewDocument()
	require.NoError(t, r.Read(bytes.NewReader(buf.Bytes())))
	return r
}

func edgeSet(d *Document) []string {
	var r []string
	for _, o := range d.Objects() {
		for _, l := range o.ChildLinks() {
			r = append(r, fmt.Sprintf("%d>%d:%s", o.ID(), l.Object.ID(), l.Prop))
		}
	}
	sort.Strings(r)
	return r
}

type objectKey struct {
	Name     string
	Class    ObjectClass
	SubClass ObjectSubClass
}

func objectSet(d *Document) map[int64]objectKey {
	r := make(map[int64]objectKey)
	for _, o := range d.Objects() {
		r[o.ID()] = objectKey{o.FullName(), o.Class(), o.SubClass()}
	}
	return r
}

// newRig builds hips/spine skeleton, a mesh and one take animating spine
func newRig(t *testing.T) *Document {
	t.Helper()
	d := NewDocument()

	hips := d.RootModel().CreateChild(ClassModel, SubClassNull, "Hips")
	require.NotNil(t, hips)
	spine := hips.CreateChild(ClassModel, SubClassLimbNode, "Spine")
	spine.Model().Translation[1] = 10

	body := d.RootModel().CreateChild(ClassModel, SubClassMesh, "Body")
	geom := body.Mesh().GetOrCreateGeometry()
	g := geom.GeomMesh()
	g.Points = toVec3([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0})
	g.Counts = []int32{3, 3}
	g.Indices = []int32{0, 1, 2, 2, 1, 3}
	body.CreateChild(ClassMaterial, SubClassUnknown, "Skin")

	stack := d.CreateAnimationStack("Walk")
	layer := stack.AnimationStack().Layers()[0]
	cn := layer.AnimationLayer().CreateCurveNode(AnimationTranslation, spine)
	require.NotNil(t, cn)
	for i, v := range []float64{0, 5, 10} {
		cn.AnimationCurveNode().AddVec3(float64(i), [3]float64{v, 10, 0})
	}
	d.SetCurrentTake(stack)
	return d
}
