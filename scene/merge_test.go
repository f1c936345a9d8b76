package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// animatedSource builds document with models and one take animating target
func animatedSource(t *testing.T, stackName string, target string, values ...float64) *Document {
	t.Helper()
	d := NewDocument()
	m := d.RootModel().CreateChild(ClassModel, SubClassLimbNode, target)
	stack := d.CreateAnimationStack(stackName)
	layer := stack.AnimationStack().Layers()[0].AnimationLayer()
	cn := layer.CreateCurveNode(AnimationRotation, m).AnimationCurveNode()
	for i, v := range values {
		require.True(t, cn.AddVec3(float64(i), [3]float64{v, 0, 0}))
	}
	d.SetCurrentTake(stack)
	return d
}

func TestMergeDropsUnmatchedLayer(t *testing.T) {
	dst := newRig(t)
	before := objectSet(dst)
	edges := edgeSet(dst)

	src := animatedSource(t, "Kick", "Leg", 0, 90)
	assert.False(t, dst.MergeAnimations(src))

	assert.Equal(t, before, objectSet(dst))
	assert.Equal(t, edges, edgeSet(dst))
	assert.Nil(t, dst.FindAnimationStack("Kick"))
	assert.Equal(t, "Walk", dst.CurrentTake().Name())
	// nothing taken from src
	assert.NotNil(t, src.FindAnimationStack("Kick"))
}

func TestMergeAddsStack(t *testing.T) {
	dst := newRig(t)
	dst.SetCurrentTake(nil)
	src := animatedSource(t, "Nod", "Spine", 0, 45, 0)

	require.True(t, dst.MergeAnimations(src))

	stack := dst.FindAnimationStack("Nod")
	require.NotNil(t, stack)
	assert.Same(t, stack, dst.CurrentTake())
	assert.Len(t, dst.AnimationStacks(), 2)

	spine := dst.FindObjectByName("Spine")
	layers := stack.AnimationStack().Layers()
	require.Len(t, layers, 1)
	nodes := layers[0].AnimationLayer().CurveNodes()
	require.Len(t, nodes, 1)
	cn := nodes[0].AnimationCurveNode()
	assert.Same(t, spine, cn.Target())
	assert.Len(t, cn.Curves(), 3)
	prop, ok := spine.ChildProp(nodes[0])
	assert.True(t, ok)
	assert.Equal(t, "Lcl Rotation", prop)

	ids := map[int64]bool{}
	for _, o := range dst.Objects() {
		assert.False(t, ids[o.ID()], "duplicate id %d", o.ID())
		ids[o.ID()] = true
		assert.Same(t, dst, o.Document())
	}

	dst.ApplyAnimation(0.5)
	assert.InDelta(t, 22.5, spine.Model().Rotation[0], 1e-6)

	// merged take survives file
	r := roundTrip(t, dst, FormatBinary)
	assert.NotNil(t, r.FindAnimationStack("Nod"))
	assert.Equal(t, objectSet(dst), objectSet(r))
}

func TestMergeKeepsCurrentTake(t *testing.T) {
	dst := newRig(t)
	src := animatedSource(t, "Nod", "Spine", 0, 45)
	require.True(t, dst.MergeAnimations(src))
	assert.Equal(t, "Walk", dst.CurrentTake().Name())
}

func TestMergeReplacesCurveNode(t *testing.T) {
	dst := NewDocument()
	spine := dst.RootModel().CreateChild(ClassModel, SubClassLimbNode, "Spine")
	old := dst.CreateAnimationStack("Nod")
	oldCN := old.AnimationStack().Layers()[0].AnimationLayer().CreateCurveNode(AnimationRotation, spine)
	oldCN.AnimationCurveNode().AddVec3(0, [3]float64{1, 1, 1})
	oldCurves := oldCN.AnimationCurveNode().Curves()

	src := animatedSource(t, "Nod", "Spine", 0, 45)
	require.True(t, dst.MergeAnimations(src))

	require.Len(t, dst.AnimationStacks(), 1)
	layers := dst.AnimationStacks()[0].AnimationStack().Layers()
	require.Len(t, layers, 1)
	nodes := layers[0].AnimationLayer().CurveNodes()
	require.Len(t, nodes, 1)
	assert.NotSame(t, oldCN, nodes[0])
	assert.False(t, oldCN.Alive())
	for _, c := range oldCurves {
		assert.False(t, c.Alive())
	}
	assert.Len(t, dst.ObjectsOf(ClassAnimationCurve), 3)

	dst.ApplyAnimation(1)
	assert.InDelta(t, 45, spine.Model().Rotation[0], 1e-6)
}

func TestMergeSelf(t *testing.T) {
	d := newRig(t)
	assert.False(t, d.MergeAnimations(d))
	assert.False(t, d.MergeAnimations(nil))
}

func TestMergeTriesEveryParent(t *testing.T) {
	dst := newRig(t)
	src := NewDocument()
	ghost := src.RootModel().CreateChild(ClassModel, SubClassNull, "Ghost")
	spine := src.RootModel().CreateChild(ClassModel, SubClassLimbNode, "Spine")
	stack := src.CreateAnimationStack("Nod")
	layer := stack.AnimationStack().Layers()[0].AnimationLayer()
	cn := layer.CreateCurveNode(AnimationRotation, ghost)
	spine.AddChild(cn, "Lcl Rotation")
	require.True(t, cn.AnimationCurveNode().AddVec3(0, [3]float64{0, 0, 0}))
	require.True(t, cn.AnimationCurveNode().AddVec3(1, [3]float64{30, 0, 0}))

	require.True(t, dst.MergeAnimations(src))
	merged := dst.FindAnimationStack("Nod")
	require.NotNil(t, merged)
	nodes := merged.AnimationStack().Layers()[0].AnimationLayer().CurveNodes()
	require.Len(t, nodes, 1)
	assert.Same(t, dst.FindObjectByName("Spine"), nodes[0].AnimationCurveNode().Target())
	assert.Nil(t, dst.FindObjectByName("Ghost"))
}
