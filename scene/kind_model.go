package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mogaika/fbxdoc/fbx"
	"github.com/mogaika/fbxdoc/utils"
)

const modelVersion = 232

type Model struct {
	obj *Object

	Visibility    bool
	RotationOrder int
	Translation   mgl64.Vec3
	PreRotation   mgl64.Vec3
	Rotation      mgl64.Vec3
	PostRotation  mgl64.Vec3
	Scale         mgl64.Vec3
}

type modelKind interface {
	model() *Model
}

func newModel(o *Object) *Model {
	return &Model{
		obj:        o,
		Visibility: true,
		Scale:      mgl64.Vec3{1, 1, 1},
	}
}

func (m *Model) model() *Model { return m }

func (m *Model) importFBX(o *Object) {
	eachProperty(o.node, func(name string, p *fbx.Node, vi int) {
		switch name {
		case "Visibility":
			m.Visibility = p.PropBool(vi)
		case "Lcl Translation":
			m.Translation = propVec3(p, vi)
		case "RotationOrder":
			m.RotationOrder = int(p.PropInt32(vi))
		case "PreRotation":
			m.PreRotation = propVec3(p, vi)
		case "PostRotation":
			m.PostRotation = propVec3(p, vi)
		case "Lcl Rotation":
			m.Rotation = propVec3(p, vi)
		case "Lcl Scaling":
			m.Scale = propVec3(p, vi)
		}
	})
}

func (m *Model) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("Version", int32(modelVersion))
	props := propertiesNode(n)
	addP(props, "DefaultAttributeIndex", "int", "Integer", "", int32(0))
	if !m.Visibility {
		addP(props, "Visibility", "Visibility", "", "A", float64(0))
	}
	if m.Translation != (mgl64.Vec3{}) {
		addPVec3(props, "Lcl Translation", "Lcl Translation", "", "A", m.Translation)
	}
	if m.PreRotation != (mgl64.Vec3{}) || m.PostRotation != (mgl64.Vec3{}) || m.Rotation != (mgl64.Vec3{}) {
		addP(props, "RotationActive", "bool", "", "", int32(1))
		if m.RotationOrder != utils.RotationOrderXYZ {
			addP(props, "RotationOrder", "RotationOrder", "", "A", int32(m.RotationOrder))
		}
		if m.PreRotation != (mgl64.Vec3{}) {
			addPVec3(props, "PreRotation", "Vector3D", "Vector", "", m.PreRotation)
		}
		if m.PostRotation != (mgl64.Vec3{}) {
			addPVec3(props, "PostRotation", "Vector3D", "Vector", "", m.PostRotation)
		}
		if m.Rotation != (mgl64.Vec3{}) {
			addPVec3(props, "Lcl Rotation", "Lcl Rotation", "", "A", m.Rotation)
		}
	}
	if m.Scale != (mgl64.Vec3{1, 1, 1}) {
		addPVec3(props, "Lcl Scaling", "Lcl Scaling", "", "A", m.Scale)
	}
}

// ParentModel is first Model parent, root model included
func (m *Model) ParentModel() *Object {
	return m.obj.firstParentOf(ClassModel)
}

func (m *Model) ChildModels() []*Object {
	return m.obj.childrenOf(ClassModel)
}

func (m *Model) LocalMatrix() mgl64.Mat4 {
	return utils.LocalTransform(m.Translation, m.PreRotation, m.Rotation, m.PostRotation, m.Scale, m.RotationOrder)
}

// GlobalMatrix multiplies local matrices up the Model parent chain.
// Chain stops at first model seen twice.
func (m *Model) GlobalMatrix() mgl64.Mat4 {
	r := mgl64.Ident4()
	for _, a := range ancestorModels(m.obj) {
		r = a.Model().LocalMatrix().Mul4(r)
	}
	return r
}

// Attribute is NodeAttribute child holding type specific data
func (m *Model) Attribute() *Object {
	return m.obj.firstChildOf(ClassNodeAttribute, SubClassUnknown)
}

func (m *Model) ensureAttribute(s ObjectSubClass) {
	if m.obj.firstChildOf(ClassNodeAttribute, s) == nil {
		m.obj.CreateChild(ClassNodeAttribute, s, "")
	}
}

// Null, Root and LimbNode models need attribute record to be recognized by other tools
type attributedModel struct {
	*Model
	attr ObjectSubClass
}

func (m *attributedModel) exportFBX(o *Object, n *fbx.Node) {
	m.ensureAttribute(m.attr)
	m.Model.exportFBX(o, n)
}

// Mesh model links Geometry and Material children
type Mesh struct {
	*Model
}

func (m *Mesh) Geometry() *Object {
	return m.obj.firstChildOf(ClassGeometry, SubClassMesh)
}

// GetOrCreateGeometry returns geometry child, creating empty one named after model
func (m *Mesh) GetOrCreateGeometry() *Object {
	if g := m.Geometry(); g != nil {
		return g
	}
	return m.obj.CreateChild(ClassGeometry, SubClassMesh, m.obj.Name())
}

func (m *Mesh) Materials() []*Object {
	return m.obj.childrenOf(ClassMaterial)
}

func (m *Mesh) importFBX(o *Object) {
	m.Model.importFBX(o)
	// before 7000 geometry data lives right in the model record
	if o.node.GetNode("Vertices") != nil && m.Geometry() == nil {
		g := m.GetOrCreateGeometry()
		g.node = o.node
	}
}

type LightType int32

const (
	LightPoint LightType = iota
	LightDirectional
	LightSpot
	LightArea
	LightVolume
)

type Light struct {
	*Model
	LightType  LightType
	Color      mgl64.Vec3
	Intensity  float64
	InnerAngle float64
	OuterAngle float64
}

func (l *Light) exportFBX(o *Object, n *fbx.Node) {
	l.ensureAttribute(SubClassLight)
	l.Model.exportFBX(o, n)
}

type CameraType int32

const (
	CameraPerspective CameraType = iota
	CameraOrthographic
)

const (
	inchToMillimeter = 25.4
	millimeterToInch = 1 / inchToMillimeter
)

type Camera struct {
	*Model
	CameraType  CameraType
	FocalLength float64
	// Aperture and LensShift are in millimeters, files keep inches
	Aperture  mgl64.Vec2
	LensShift mgl64.Vec2
	NearPlane float64
	FarPlane  float64
}

func (c *Camera) exportFBX(o *Object, n *fbx.Node) {
	c.ensureAttribute(SubClassCamera)
	c.Model.exportFBX(o, n)
}

func (o *Object) Model() *Model {
	if m, ok := o.kind.(modelKind); ok {
		return m.model()
	}
	return nil
}

func (o *Object) Mesh() *Mesh {
	m, _ := o.kind.(*Mesh)
	return m
}

func (o *Object) Light() *Light {
	l, _ := o.kind.(*Light)
	return l
}

func (o *Object) Camera() *Camera {
	c, _ := o.kind.(*Camera)
	return c
}

// NodeAttribute writes TypeFlags, Light and Camera attributes carry
// their parent model settings.
type NodeAttribute struct {
	obj *Object
}

var attributeTypeFlags = map[ObjectSubClass][]interface{}{
	SubClassNull:     {"Null"},
	SubClassRoot:     {"Null", "Skeleton", "Root"},
	SubClassLimbNode: {"Skeleton"},
}

func (a *NodeAttribute) parentModel() *Object {
	return a.obj.firstParentOf(ClassModel)
}

func (a *NodeAttribute) importFBX(o *Object) {
	p := a.parentModel()
	if p == nil {
		return
	}
	switch o.subClass {
	case SubClassLight:
		if l := p.Light(); l != nil {
			importLight(l, o.node)
		}
	case SubClassCamera:
		if c := p.Camera(); c != nil {
			importCamera(c, o.node)
		}
	}
}

func (a *NodeAttribute) exportFBX(o *Object, n *fbx.Node) {
	if flags, ok := attributeTypeFlags[o.subClass]; ok {
		n.CreateChild("TypeFlags", flags...)
		return
	}
	p := a.parentModel()
	if p == nil {
		return
	}
	switch o.subClass {
	case SubClassLight:
		if l := p.Light(); l != nil {
			exportLight(l, n)
		}
	case SubClassCamera:
		if c := p.Camera(); c != nil {
			exportCamera(c, n)
		}
	}
}

func importLight(l *Light, n *fbx.Node) {
	eachProperty(n, func(name string, p *fbx.Node, vi int) {
		switch name {
		case "LightType":
			l.LightType = LightType(p.PropInt32(vi))
		case "Color":
			l.Color = propVec3(p, vi)
		case "Intensity":
			l.Intensity = p.PropFloat64(vi)
		case "InnerAngle":
			l.InnerAngle = p.PropFloat64(vi)
		case "OuterAngle":
			l.OuterAngle = p.PropFloat64(vi)
		}
	})
}

func exportLight(l *Light, n *fbx.Node) {
	props := propertiesNode(n)
	addP(props, "LightType", "enum", "", "", int32(l.LightType))
	addPVec3(props, "Color", "Color", "", "A", l.Color)
	addP(props, "Intensity", "Number", "", "A", l.Intensity)
	if l.LightType == LightSpot {
		addP(props, "InnerAngle", "Number", "", "A", l.InnerAngle)
		addP(props, "OuterAngle", "Number", "", "A", l.OuterAngle)
	}
}

func importCamera(c *Camera, n *fbx.Node) {
	eachProperty(n, func(name string, p *fbx.Node, vi int) {
		switch name {
		case "CameraProjectionType":
			c.CameraType = CameraType(p.PropInt32(vi))
		case "FocalLength":
			c.FocalLength = p.PropFloat64(vi)
		case "FilmWidth":
			c.Aperture[0] = p.PropFloat64(vi) * inchToMillimeter
		case "FilmHeight":
			c.Aperture[1] = p.PropFloat64(vi) * inchToMillimeter
		case "FilmOffsetX":
			c.LensShift[0] = p.PropFloat64(vi) * inchToMillimeter
		case "FilmOffsetY":
			c.LensShift[1] = p.PropFloat64(vi) * inchToMillimeter
		case "NearPlane":
			c.NearPlane = p.PropFloat64(vi)
		case "FarPlane":
			c.FarPlane = p.PropFloat64(vi)
		}
	})
}

func exportCamera(c *Camera, n *fbx.Node) {
	props := propertiesNode(n)
	addP(props, "CameraProjectionType", "enum", "", "", int32(c.CameraType))
	addP(props, "FocalLength", "Number", "", "A", c.FocalLength)
	addP(props, "FilmWidth", "Number", "", "A", c.Aperture[0]*millimeterToInch)
	addP(props, "FilmHeight", "Number", "", "A", c.Aperture[1]*millimeterToInch)
	if c.LensShift[0] != 0 {
		addP(props, "FilmOffsetX", "Number", "", "A", c.LensShift[0]*millimeterToInch)
	}
	if c.LensShift[1] != 0 {
		addP(props, "FilmOffsetY", "Number", "", "A", c.LensShift[1]*millimeterToInch)
	}
	addP(props, "NearPlane", "Number", "", "A", c.NearPlane)
	addP(props, "FarPlane", "Number", "", "A", c.FarPlane)
}

func init() {
	registerKind(ClassModel, SubClassUnknown, func(o *Object) kind { return newModel(o) })
	for _, s := range []ObjectSubClass{SubClassNull, SubClassRoot, SubClassLimbNode} {
		s := s
		registerKind(ClassModel, s, func(o *Object) kind {
			return &attributedModel{Model: newModel(o), attr: s}
		})
	}
	registerKind(ClassModel, SubClassMesh, func(o *Object) kind {
		return &Mesh{Model: newModel(o)}
	})
	registerKind(ClassModel, SubClassLight, func(o *Object) kind {
		return &Light{Model: newModel(o), Color: mgl64.Vec3{1, 1, 1}, Intensity: 100}
	})
	registerKind(ClassModel, SubClassCamera, func(o *Object) kind {
		return &Camera{Model: newModel(o), FocalLength: 50, NearPlane: 0.01, FarPlane: 1000}
	})
	registerKind(ClassNodeAttribute, SubClassUnknown, func(o *Object) kind {
		return &NodeAttribute{obj: o}
	})
}
