package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mogaika/fbxdoc/fbx"
)

// Properties70 entries are "P" records: name, type, label, flags, values...
// Files before 7000 keep them in Properties60 as "Property": name, type, flags, values...

func valueIndex(p *fbx.Node) int {
	if p.Name == "Property" {
		return 3
	}
	return 4
}

func eachProperty(n *fbx.Node, f func(name string, p *fbx.Node, vi int)) {
	if n == nil {
		return
	}
	for _, props := range n.Nodes {
		if props.Name != "Properties70" && props.Name != "Properties60" {
			continue
		}
		for _, p := range props.Nodes {
			if p.Name == "P" || p.Name == "Property" {
				f(p.PropString(0), p, valueIndex(p))
			}
		}
	}
}

func propVec3(p *fbx.Node, vi int) mgl64.Vec3 {
	return mgl64.Vec3{p.PropFloat64(vi), p.PropFloat64(vi + 1), p.PropFloat64(vi + 2)}
}

func propertiesNode(n *fbx.Node) *fbx.Node {
	return n.CreateChild("Properties70")
}

func addP(props *fbx.Node, values ...interface{}) *fbx.Node {
	return props.CreateChild("P", values...)
}

func addPVec3(props *fbx.Node, name, typ, label, flags string, v mgl64.Vec3) *fbx.Node {
	return addP(props, name, typ, label, flags, v[0], v[1], v[2])
}
