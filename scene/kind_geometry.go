package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mogaika/fbxdoc/fbx"
)

const (
	geometryVersion           = 124
	layerElementNormalVersion = 101
	layerElementUVVersion     = 101
	layerElementColorVersion  = 101
	layerVersion              = 100
	shapeVersion              = 100
)

// LayerElement is one named per vertex channel. Indices is empty for direct mapping.
type LayerElement struct {
	Name    string
	Data    []float64
	Indices []int32
}

type GeomMesh struct {
	obj *Object

	Points  []mgl64.Vec3
	Counts  []int32
	Indices []int32

	NormalLayers []LayerElement
	UVLayers     []LayerElement
	ColorLayers  []LayerElement
}

func toVec3(v []float64) []mgl64.Vec3 {
	r := make([]mgl64.Vec3, len(v)/3)
	for i := range r {
		r[i] = mgl64.Vec3{v[i*3], v[i*3+1], v[i*3+2]}
	}
	return r
}

func fromVec3(v []mgl64.Vec3) []float64 {
	r := make([]float64, 0, len(v)*3)
	for _, e := range v {
		r = append(r, e[0], e[1], e[2])
	}
	return r
}

func readLayer(n *fbx.Node, dataName, indexName string) LayerElement {
	return LayerElement{
		Name:    n.ChildString("Name"),
		Data:    n.ChildFloat64Array(dataName),
		Indices: n.ChildInt32Array(indexName),
	}
}

func (g *GeomMesh) importFBX(o *Object) {
	for _, n := range o.node.Nodes {
		switch n.Name {
		case "Vertices":
			g.Points = toVec3(o.node.ChildFloat64Array("Vertices"))
		case "PolygonVertexIndex":
			g.Indices = o.node.ChildInt32Array("PolygonVertexIndex")
			g.Counts = g.Counts[:0]
			points := int32(0)
			for i, idx := range g.Indices {
				points++
				// negative index closes the face
				if idx < 0 {
					g.Indices[i] = ^idx
					g.Counts = append(g.Counts, points)
					points = 0
				}
			}
		case "LayerElementNormal":
			g.NormalLayers = append(g.NormalLayers, readLayer(n, "Normals", "NormalsIndex"))
		case "LayerElementUV":
			g.UVLayers = append(g.UVLayers, readLayer(n, "UV", "UVIndex"))
		case "LayerElementColor":
			g.ColorLayers = append(g.ColorLayers, readLayer(n, "Colors", "ColorIndex"))
		}
	}
}

func (g *GeomMesh) mappingInfo(n *fbx.Node, l *LayerElement, stride int) {
	switch {
	case len(l.Data)/stride == len(g.Indices) || len(l.Indices) == len(g.Indices):
		n.CreateChild("MappingInformationType", "ByPolygonVertex")
	case len(l.Data)/stride == len(g.Points) && len(l.Indices) == 0:
		n.CreateChild("MappingInformationType", "ByControlPoint")
	}
	if len(l.Indices) != 0 {
		n.CreateChild("ReferenceInformationType", "IndexToDirect")
	} else {
		n.CreateChild("ReferenceInformationType", "Direct")
	}
}

func (g *GeomMesh) exportLayers(n *fbx.Node, layers []LayerElement, element, dataName, indexName string, version int32, stride int) bool {
	written := false
	for i := range layers {
		l := &layers[i]
		if len(l.Data) == 0 {
			continue
		}
		written = true
		le := n.CreateChild(element, int32(i))
		le.CreateChild("Version", version)
		le.CreateChild("Name", l.Name)
		g.mappingInfo(le, l, stride)
		le.CreateChild(dataName, l.Data)
		if len(l.Indices) != 0 {
			le.CreateChild(indexName, l.Indices)
		}
	}
	return written
}

func (g *GeomMesh) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("GeometryVersion", int32(geometryVersion))
	n.CreateChild("Vertices", fromVec3(g.Points))

	total := 0
	for _, c := range g.Counts {
		total += int(c)
	}
	if total != len(g.Indices) {
		log.Warnf("Mesh %q: indices mismatch with counts (%d != %d)", o.Name(), total, len(g.Indices))
	} else {
		out := make([]int32, len(g.Indices))
		face, points := 0, int32(0)
		for i, idx := range g.Indices {
			points++
			if points == g.Counts[face] {
				idx = ^idx
				points = 0
				face++
			}
			out[i] = idx
		}
		n.CreateChild("PolygonVertexIndex", out)
	}

	hasNormals := g.exportLayers(n, g.NormalLayers, "LayerElementNormal", "Normals", "NormalsIndex", layerElementNormalVersion, 3)
	hasUVs := g.exportLayers(n, g.UVLayers, "LayerElementUV", "UV", "UVIndex", layerElementUVVersion, 2)
	hasColors := g.exportLayers(n, g.ColorLayers, "LayerElementColor", "Colors", "ColorIndex", layerElementColorVersion, 4)

	if hasNormals || hasUVs || hasColors {
		layer := n.CreateChild("Layer", int32(0))
		layer.CreateChild("Version", int32(layerVersion))
		for _, le := range []struct {
			ok  bool
			typ string
		}{
			{hasNormals, "LayerElementNormal"},
			{hasUVs, "LayerElementUV"},
			{hasColors, "LayerElementColor"},
		} {
			if le.ok {
				e := layer.CreateChild("LayerElement")
				e.CreateChild("Type", le.typ)
				e.CreateChild("TypedIndex", int32(0))
			}
		}
	}
}

// Model is first Model parent
func (g *GeomMesh) Model() *Object {
	return g.obj.firstParentOf(ClassModel)
}

func (g *GeomMesh) Deformers() []*Object {
	return g.obj.childrenOf(ClassDeformer)
}

func (g *GeomMesh) Skin() *Object {
	return g.obj.firstChildOf(ClassDeformer, SubClassSkin)
}

// CreateSkin adds Skin deformer, it is left unnamed like other tools do
func (g *GeomMesh) CreateSkin() *Object {
	return g.obj.CreateChild(ClassDeformer, SubClassSkin, "")
}

func (g *GeomMesh) CreateBlendShape() *Object {
	return g.obj.CreateChild(ClassDeformer, SubClassBlendShape, g.obj.Name())
}

// Shape holds blend shape target deltas for subset of points
type Shape struct {
	Indices      []int32
	DeltaPoints  []mgl64.Vec3
	DeltaNormals []mgl64.Vec3
}

func (s *Shape) importFBX(o *Object) {
	s.Indices = o.node.ChildInt32Array("Indexes")
	s.DeltaPoints = toVec3(o.node.ChildFloat64Array("Vertices"))
	s.DeltaNormals = toVec3(o.node.ChildFloat64Array("Normals"))
}

func (s *Shape) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("Version", int32(shapeVersion))
	if len(s.Indices) != 0 {
		n.CreateChild("Indexes", s.Indices)
	}
	if len(s.DeltaPoints) != 0 {
		n.CreateChild("Vertices", fromVec3(s.DeltaPoints))
	}
	if len(s.DeltaNormals) != 0 {
		n.CreateChild("Normals", fromVec3(s.DeltaNormals))
	}
}

func (o *Object) GeomMesh() *GeomMesh {
	g, _ := o.kind.(*GeomMesh)
	return g
}

func (o *Object) Shape() *Shape {
	s, _ := o.kind.(*Shape)
	return s
}

func init() {
	registerKind(ClassGeometry, SubClassMesh, func(o *Object) kind { return &GeomMesh{obj: o} })
	registerKind(ClassGeometry, SubClassShape, func(o *Object) kind { return &Shape{} })
	registerKind(ClassGeometry, SubClassUnknown, func(o *Object) kind { return &Opaque{} })
}
