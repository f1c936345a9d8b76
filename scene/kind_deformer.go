package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mogaika/fbxdoc/fbx"
	"github.com/mogaika/fbxdoc/utils"
)

const (
	skinVersion              = 101
	clusterVersion           = 100
	blendShapeVersion        = 100
	blendShapeChannelVersion = 100
)

type Skin struct {
	obj *Object
}

func (s *Skin) importFBX(o *Object) {}

func (s *Skin) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("Version", int32(skinVersion))
	n.CreateChild("Link_DeformAcuracy", float64(50))
}

// Mesh is geometry the skin deforms
func (s *Skin) Mesh() *Object {
	return s.obj.firstParentOf(ClassGeometry)
}

func (s *Skin) Clusters() []*Object {
	var r []*Object
	for _, c := range s.obj.Children() {
		if c.class == ClassDeformer && c.subClass == SubClassCluster {
			r = append(r, c)
		}
	}
	return r
}

// CreateCluster adds cluster bound to joint model
func (s *Skin) CreateCluster(joint *Object) *Object {
	if joint == nil {
		return nil
	}
	c := s.obj.CreateChild(ClassDeformer, SubClassCluster, joint.Name())
	if c != nil {
		c.AddChild(joint, "")
	}
	return c
}

type JointWeight struct {
	Joint  int
	Weight float64
}

// JointWeights returns per point influences sorted by weight, heaviest first.
// Joint is index into Clusters().
func (s *Skin) JointWeights() [][]JointWeight {
	mesh := s.Mesh()
	if mesh == nil || mesh.GeomMesh() == nil {
		return nil
	}
	r := make([][]JointWeight, len(mesh.GeomMesh().Points))
	for ci, c := range s.Clusters() {
		cl := c.Cluster()
		for i, vi := range cl.Indices {
			if i >= len(cl.Weights) || int(vi) >= len(r) || vi < 0 {
				continue
			}
			r[vi] = append(r[vi], JointWeight{Joint: ci, Weight: cl.Weights[i]})
		}
	}
	for _, w := range r {
		sort.SliceStable(w, func(i, j int) bool { return w[i].Weight > w[j].Weight })
	}
	return r
}

type Cluster struct {
	obj *Object

	Indices       []int32
	Weights       []float64
	Transform     mgl64.Mat4
	TransformLink mgl64.Mat4
}

func (c *Cluster) importFBX(o *Object) {
	n := o.node
	c.Indices = n.ChildInt32Array("Indexes")
	c.Weights = n.ChildFloat64Array("Weights")
	if v := n.ChildFloat64Array("Transform"); v != nil {
		c.Transform = utils.SliceToMat4(v)
	}
	if v := n.ChildFloat64Array("TransformLink"); v != nil {
		c.TransformLink = utils.SliceToMat4(v)
	}
}

func (c *Cluster) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("Version", int32(clusterVersion))
	n.CreateChild("Mode", "Total1")
	n.CreateChild("UserData", "", "")
	if len(c.Indices) != 0 {
		n.CreateChild("Indexes", c.Indices)
	}
	if len(c.Weights) != 0 {
		n.CreateChild("Weights", c.Weights)
	}
	if c.Transform != mgl64.Ident4() {
		n.CreateChild("Transform", utils.Mat4ToSlice(c.Transform))
	}
	if c.TransformLink != mgl64.Ident4() {
		n.CreateChild("TransformLink", utils.Mat4ToSlice(c.TransformLink))
	}
}

// Joint is model the cluster is bound to
func (c *Cluster) Joint() *Object {
	return c.obj.firstChildOf(ClassModel, SubClassUnknown)
}

// SetBindMatrix stores joint global matrix at bind time and its inverse
func (c *Cluster) SetBindMatrix(m mgl64.Mat4) {
	c.TransformLink = m
	c.Transform = m.Inv()
}

type BlendShape struct {
	obj *Object
}

func (b *BlendShape) importFBX(o *Object) {}

func (b *BlendShape) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("Version", int32(blendShapeVersion))
}

func (b *BlendShape) Channels() []*Object {
	var r []*Object
	for _, c := range b.obj.Children() {
		if c.class == ClassDeformer && c.subClass == SubClassBlendShapeChannel {
			r = append(r, c)
		}
	}
	return r
}

// CreateChannel adds channel named after shape with full weight
func (b *BlendShape) CreateChannel(shape *Object) *Object {
	if shape == nil {
		return nil
	}
	ch := b.obj.CreateChild(ClassDeformer, SubClassBlendShapeChannel, shape.Name())
	if ch != nil {
		ch.BlendShapeChannel().AddShape(shape, 1)
	}
	return ch
}

type ShapeWeight struct {
	Shape  *Object
	Weight float64
}

type BlendShapeChannel struct {
	obj *Object

	// DeformPercent is current channel weight in percents
	DeformPercent float64
	Shapes        []ShapeWeight
}

func (b *BlendShapeChannel) importFBX(o *Object) {
	b.Shapes = b.Shapes[:0]
	for _, c := range o.Children() {
		if c.Shape() != nil {
			b.Shapes = append(b.Shapes, ShapeWeight{Shape: c, Weight: 1})
		}
	}
	b.DeformPercent = o.node.ChildFloat64("DeformPercent")
	if w := o.node.ChildFloat64Array("FullWeights"); len(w) == len(b.Shapes) {
		for i := range w {
			b.Shapes[i].Weight = w[i] / 100
		}
	}
}

func (b *BlendShapeChannel) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("Version", int32(blendShapeChannelVersion))
	n.CreateChild("DeformPercent", b.DeformPercent)
	if len(b.Shapes) != 0 {
		w := make([]float64, len(b.Shapes))
		for i, s := range b.Shapes {
			w[i] = s.Weight * 100
		}
		n.CreateChild("FullWeights", w)
	}
}

func (b *BlendShapeChannel) AddShape(shape *Object, weight float64) {
	if shape == nil {
		return
	}
	b.obj.AddChild(shape, "")
	b.Shapes = append(b.Shapes, ShapeWeight{Shape: shape, Weight: weight})
}

func (o *Object) Skin() *Skin {
	s, _ := o.kind.(*Skin)
	return s
}

func (o *Object) Cluster() *Cluster {
	c, _ := o.kind.(*Cluster)
	return c
}

func (o *Object) BlendShape() *BlendShape {
	b, _ := o.kind.(*BlendShape)
	return b
}

func (o *Object) BlendShapeChannel() *BlendShapeChannel {
	b, _ := o.kind.(*BlendShapeChannel)
	return b
}

func init() {
	registerKind(ClassDeformer, SubClassSkin, func(o *Object) kind { return &Skin{obj: o} })
	registerKind(ClassDeformer, SubClassCluster, func(o *Object) kind {
		return &Cluster{obj: o, Transform: mgl64.Ident4(), TransformLink: mgl64.Ident4()}
	})
	registerKind(ClassDeformer, SubClassBlendShape, func(o *Object) kind { return &BlendShape{obj: o} })
	registerKind(ClassDeformer, SubClassBlendShapeChannel, func(o *Object) kind { return &BlendShapeChannel{obj: o} })
	registerKind(ClassDeformer, SubClassUnknown, func(o *Object) kind { return &Opaque{} })
}
