package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeometryRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatBinary, FormatASCII} {
		t.Run(format.String(), func(t *testing.T) {
			d := newRig(t)
			g := d.FindObjectByName("Body").Mesh().Geometry().GeomMesh()
			g.NormalLayers = []LayerElement{{Data: []float64{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1}}}
			g.UVLayers = []LayerElement{{
				Name:    "map1",
				Data:    []float64{0, 0, 1, 0, 0, 1, 1, 1},
				Indices: []int32{0, 1, 2, 2, 1, 3},
			}}

			r := roundTrip(t, d, format)
			geom := r.FindObjectByName("Body").Mesh().Geometry()
			require.NotNil(t, geom)
			rg := geom.GeomMesh()
			require.NotNil(t, rg)
			assert.Same(t, r.FindObjectByName("Body"), rg.Model())
			assert.Equal(t, g.Points, rg.Points)
			assert.Equal(t, []int32{3, 3}, rg.Counts)
			assert.Equal(t, []int32{0, 1, 2, 2, 1, 3}, rg.Indices)

			require.Len(t, rg.NormalLayers, 1)
			assert.Equal(t, g.NormalLayers[0].Data, rg.NormalLayers[0].Data)
			require.Len(t, rg.UVLayers, 1)
			assert.Equal(t, "map1", rg.UVLayers[0].Name)
			assert.Equal(t, g.UVLayers[0].Indices, rg.UVLayers[0].Indices)
			assert.Empty(t, rg.ColorLayers)

			n := geom.Node()
			assert.Equal(t, []int32{0, 1, ^2, 2, 1, ^3}, n.ChildInt32Array("PolygonVertexIndex"))
			uv := n.GetNode("LayerElementUV")
			require.NotNil(t, uv)
			assert.Equal(t, "ByPolygonVertex", uv.ChildString("MappingInformationType"))
			assert.Equal(t, "IndexToDirect", uv.ChildString("ReferenceInformationType"))
			normals := n.GetNode("LayerElementNormal")
			require.NotNil(t, normals)
			assert.Equal(t, "ByControlPoint", normals.ChildString("MappingInformationType"))
			assert.Len(t, n.GetNode("Layer").GetNodes("LayerElement"), 2)
		})
	}
}

func TestGeometryCountMismatch(t *testing.T) {
	d := NewDocument()
	body := d.RootModel().CreateChild(ClassModel, SubClassMesh, "Broken")
	g := body.Mesh().GetOrCreateGeometry().GeomMesh()
	g.Points = toVec3([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0})
	g.Counts = []int32{4}
	g.Indices = []int32{0, 1, 2}

	d.Export()
	assert.Nil(t, g.obj.Node().GetNode("PolygonVertexIndex"))
}

func TestSkinRoundTrip(t *testing.T) {
	d := newRig(t)
	hips := d.FindObjectByName("Hips")
	spine := d.FindObjectByName("Spine")
	geom := d.FindObjectByName("Body").Mesh().Geometry()

	skin := geom.GeomMesh().CreateSkin()
	require.NotNil(t, skin)
	ch := skin.Skin().CreateCluster(hips)
	ch.Cluster().Indices = []int32{0, 1, 2}
	ch.Cluster().Weights = []float64{1, 0.25, 0.5}
	cs := skin.Skin().CreateCluster(spine)
	cs.Cluster().Indices = []int32{1, 3}
	cs.Cluster().Weights = []float64{0.75, 1}
	cs.Cluster().SetBindMatrix(spine.Model().GlobalMatrix())

	r := roundTrip(t, d, FormatBinary)
	rgeom := r.FindObjectByName("Body").Mesh().Geometry().GeomMesh()
	rskin := rgeom.Skin()
	require.NotNil(t, rskin)
	assert.Same(t, rgeom.obj, rskin.Skin().Mesh())
	assert.Len(t, rgeom.Deformers(), 1)

	clusters := rskin.Skin().Clusters()
	require.Len(t, clusters, 2)
	assert.Equal(t, "Hips", clusters[0].Cluster().Joint().Name())
	assert.Equal(t, "Spine", clusters[1].Cluster().Joint().Name())
	assert.Equal(t, mgl64.Ident4(), clusters[0].Cluster().Transform)
	link := clusters[1].Cluster().TransformLink
	assert.InDelta(t, 10, link.At(1, 3), 1e-9)
	assert.True(t, link.Mul4(clusters[1].Cluster().Transform).ApproxEqual(mgl64.Ident4()))

	w := rskin.Skin().JointWeights()
	require.Len(t, w, 4)
	assert.Equal(t, []JointWeight{{Joint: 0, Weight: 1}}, w[0])
	assert.Equal(t, []JointWeight{{Joint: 1, Weight: 0.75}, {Joint: 0, Weight: 0.25}}, w[1])
	assert.Equal(t, []JointWeight{{Joint: 1, Weight: 1}}, w[3])
}

func TestBlendShapeRoundTrip(t *testing.T) {
	d := newRig(t)
	geom := d.FindObjectByName("Body").Mesh().Geometry()
	bs := geom.GeomMesh().CreateBlendShape()
	require.NotNil(t, bs)

	smile := d.CreateObject(ClassGeometry, SubClassShape, "Smile")
	smile.Shape().Indices = []int32{1, 3}
	smile.Shape().DeltaPoints = []mgl64.Vec3{{0, 1, 0}, {0, 2, 0}}
	ch := bs.BlendShape().CreateChannel(smile)
	require.NotNil(t, ch)
	ch.BlendShapeChannel().DeformPercent = 30
	ch.BlendShapeChannel().Shapes[0].Weight = 0.5

	r := roundTrip(t, d, FormatBinary)
	rbs := r.FindObjectByName("Body").Mesh().Geometry().GeomMesh().Deformers()
	require.Len(t, rbs, 1)
	channels := rbs[0].BlendShape().Channels()
	require.Len(t, channels, 1)
	rch := channels[0].BlendShapeChannel()
	assert.Equal(t, "Smile", channels[0].Name())
	assert.Equal(t, "Smile\x00\x01SubDeformer", channels[0].FullName())
	assert.Equal(t, 30.0, rch.DeformPercent)
	require.Len(t, rch.Shapes, 1)
	assert.Equal(t, 0.5, rch.Shapes[0].Weight)
	shape := rch.Shapes[0].Shape.Shape()
	require.NotNil(t, shape)
	assert.Equal(t, []int32{1, 3}, shape.Indices)
	assert.Equal(t, []mgl64.Vec3{{0, 1, 0}, {0, 2, 0}}, shape.DeltaPoints)
	assert.Empty(t, shape.DeltaNormals)
}

func TestBlendShapeAnimation(t *testing.T) {
	d := NewDocument()
	bs := d.CreateObject(ClassDeformer, SubClassBlendShape, "Face")
	shape := d.CreateObject(ClassGeometry, SubClassShape, "Blink")
	ch := bs.BlendShape().CreateChannel(shape)

	stack := d.CreateAnimationStack("Blink")
	layer := stack.AnimationStack().Layers()[0].AnimationLayer()
	cn := layer.CreateCurveNode(AnimationDeformWeight, ch).AnimationCurveNode()
	cn.AddValue(0, 0)
	cn.AddValue(1, 100)
	d.SetCurrentTake(stack)

	r := roundTrip(t, d, FormatBinary)
	r.ApplyAnimation(0.5)
	rch := r.FindObjectByName("Blink\x00\x01SubDeformer")
	require.NotNil(t, rch)
	assert.InDelta(t, 50, rch.BlendShapeChannel().DeformPercent, 1e-6)
}

func TestBindPoseRoundTrip(t *testing.T) {
	d := newRig(t)
	hips := d.FindObjectByName("Hips")
	spine := d.FindObjectByName("Spine")
	pose := d.CreateObject(ClassPose, SubClassBindPose, "BindPose")
	pose.BindPose().Add(hips, hips.Model().GlobalMatrix())
	pose.BindPose().Add(spine, spine.Model().GlobalMatrix())

	gone := d.RootModel().CreateChild(ClassModel, SubClassNull, "Gone")
	pose.BindPose().Add(gone, mgl64.Ident4())
	d.EraseObject(gone)

	r := roundTrip(t, d, FormatBinary)
	poses := r.ObjectsOf(ClassPose)
	require.Len(t, poses, 1)
	assert.Equal(t, SubClassBindPose, poses[0].SubClass())
	assert.Equal(t, int32(2), poses[0].Node().ChildInt32("NbPoseNodes"))

	entries := poses[0].BindPose().Entries
	require.Len(t, entries, 2)
	assert.Same(t, r.FindObjectByName("Hips"), entries[0].Model)
	assert.Same(t, r.FindObjectByName("Spine"), entries[1].Model)
	assert.InDelta(t, 10, entries[1].Matrix.At(1, 3), 1e-9)
}

func TestTextureVideo(t *testing.T) {
	for _, format := range []Format{FormatBinary, FormatASCII} {
		t.Run(format.String(), func(t *testing.T) {
			d := newRig(t)
			mat := d.FindObjectByName("Skin")
			tex := mat.CreateChild(ClassTexture, SubClassUnknown, "SkinTex")
			tex.Texture().FileName = "/tmp/skin.png"
			tex.Texture().RelativeFileName = "skin.png"
			video := tex.CreateChild(ClassVideo, SubClassUnknown, "SkinVideo")
			video.Video().FileName = "/tmp/skin.png"
			video.Video().Content = []byte{0x89, 'P', 'N', 'G', 0, 1, 2}

			r := roundTrip(t, d, format)
			textures := r.FindObjectByName("Skin").Material().Textures()
			require.Len(t, textures, 1)
			assert.Equal(t, "skin.png", textures[0].Texture().RelativeFileName)
			v := textures[0].Texture().Video()
			require.NotNil(t, v)
			assert.Equal(t, "/tmp/skin.png", v.Video().FileName)
			assert.Equal(t, video.Video().Content, v.Video().Content)
		})
	}
}
