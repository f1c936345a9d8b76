package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mogaika/fbxdoc/fbx"
)

const materialVersion = 102

type Material struct {
	obj *Object

	ShadingModel string
	DiffuseColor mgl64.Vec3
	Opacity      float64
}

func (m *Material) importFBX(o *Object) {
	if s := o.node.ChildString("ShadingModel"); s != "" {
		m.ShadingModel = s
	}
	eachProperty(o.node, func(name string, p *fbx.Node, vi int) {
		switch name {
		case "DiffuseColor", "Diffuse":
			m.DiffuseColor = propVec3(p, vi)
		case "Opacity":
			m.Opacity = p.PropFloat64(vi)
		}
	})
}

func (m *Material) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("Version", int32(materialVersion))
	n.CreateChild("ShadingModel", m.ShadingModel)
	n.CreateChild("MultiLayer", int32(0))
	props := propertiesNode(n)
	addPVec3(props, "DiffuseColor", "Color", "", "A", m.DiffuseColor)
	addP(props, "Opacity", "double", "Number", "", m.Opacity)
}

func (m *Material) Textures() []*Object {
	return m.obj.childrenOf(ClassTexture)
}

type Texture struct {
	obj *Object

	FileName         string
	RelativeFileName string
}

func (t *Texture) importFBX(o *Object) {
	t.FileName = o.node.ChildString("FileName")
	t.RelativeFileName = o.node.ChildString("RelativeFilename")
}

func (t *Texture) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("Type", "TextureVideoClip")
	n.CreateChild("Version", int32(202))
	n.CreateChild("TextureName", o.name)
	n.CreateChild("FileName", t.FileName)
	n.CreateChild("RelativeFilename", t.RelativeFileName)
}

func (t *Texture) Video() *Object {
	return t.obj.firstChildOf(ClassVideo, SubClassUnknown)
}

// Video is image source of texture, Content holds embedded file when present
type Video struct {
	FileName         string
	RelativeFileName string
	Content          []byte
}

func (v *Video) importFBX(o *Object) {
	v.FileName = o.node.ChildString("Filename")
	v.RelativeFileName = o.node.ChildString("RelativeFilename")
	if c := o.node.GetNode("Content"); c != nil && len(c.Properties) != 0 {
		p := c.Properties[0]
		// text files keep blobs as base64 strings
		if p.Type() == fbx.PropertyString {
			fbx.DecodeBase64Blob(p)
		}
		v.Content = p.Blob()
	}
}

func (v *Video) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("Type", "Clip")
	props := propertiesNode(n)
	addP(props, "Path", "KString", "XRefUrl", "", v.FileName)
	n.CreateChild("UseMipMap", int32(0))
	n.CreateChild("Filename", v.FileName)
	n.CreateChild("RelativeFilename", v.RelativeFileName)
	if len(v.Content) != 0 {
		n.CreateChild("Content", v.Content)
	}
}

// Opaque keeps child records of objects nothing here understands
// and writes them back as they were read.
type Opaque struct {
	Nodes []*fbx.Node
}

func (p *Opaque) importFBX(o *Object) {
	p.Nodes = p.Nodes[:0]
	for _, c := range o.node.Nodes {
		p.Nodes = append(p.Nodes, c.Clone())
	}
}

func (p *Opaque) exportFBX(o *Object, n *fbx.Node) {
	for _, c := range p.Nodes {
		n.AddNodes(c.Clone())
	}
}

func (o *Object) Material() *Material {
	m, _ := o.kind.(*Material)
	return m
}

func (o *Object) Texture() *Texture {
	t, _ := o.kind.(*Texture)
	return t
}

func (o *Object) Video() *Video {
	v, _ := o.kind.(*Video)
	return v
}

func (o *Object) Opaque() *Opaque {
	p, _ := o.kind.(*Opaque)
	return p
}

func init() {
	registerKind(ClassMaterial, SubClassUnknown, func(o *Object) kind {
		return &Material{obj: o, ShadingModel: "phong", DiffuseColor: mgl64.Vec3{1, 1, 1}, Opacity: 1}
	})
	registerKind(ClassTexture, SubClassUnknown, func(o *Object) kind { return &Texture{obj: o} })
	registerKind(ClassVideo, SubClassUnknown, func(o *Object) kind { return &Video{} })
	registerKind(ClassImplementation, SubClassUnknown, func(o *Object) kind { return &Opaque{} })
	registerKind(ClassBindingTable, SubClassUnknown, func(o *Object) kind { return &Opaque{} })
}
