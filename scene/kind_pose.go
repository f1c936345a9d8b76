package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mogaika/fbxdoc/fbx"
	"github.com/mogaika/fbxdoc/utils"
)

const bindPoseVersion = 100

type PoseEntry struct {
	Model  *Object
	Matrix mgl64.Mat4
}

// BindPose keeps global matrices of joints at bind time. Joints are
// referenced by id inside the record, not by connections.
type BindPose struct {
	Entries []PoseEntry
}

func (b *BindPose) importFBX(o *Object) {
	for _, pn := range o.node.GetNodes("PoseNode") {
		id := pn.ChildInt64("Node")
		model := o.doc.FindObject(id)
		if model == nil || model.Model() == nil {
			log.Warnf("Pose %q references non-model object %d", o.Name(), id)
			continue
		}
		b.Entries = append(b.Entries, PoseEntry{
			Model:  model,
			Matrix: utils.SliceToMat4(pn.ChildFloat64Array("Matrix")),
		})
	}
}

func (b *BindPose) exportFBX(o *Object, n *fbx.Node) {
	n.CreateChild("Type", "BindPose")
	n.CreateChild("Version", int32(bindPoseVersion))

	live := 0
	for _, e := range b.Entries {
		if e.Model.Alive() {
			live++
		}
	}
	n.CreateChild("NbPoseNodes", int32(live))
	for _, e := range b.Entries {
		if !e.Model.Alive() {
			continue
		}
		pn := n.CreateChild("PoseNode")
		pn.CreateChild("Node", e.Model.id)
		pn.CreateChild("Matrix", utils.Mat4ToSlice(e.Matrix))
	}
}

func (b *BindPose) Add(model *Object, m mgl64.Mat4) {
	b.Entries = append(b.Entries, PoseEntry{Model: model, Matrix: m})
}

func (o *Object) BindPose() *BindPose {
	b, _ := o.kind.(*BindPose)
	return b
}

func init() {
	registerKind(ClassPose, SubClassBindPose, func(o *Object) kind { return &BindPose{} })
	registerKind(ClassPose, SubClassUnknown, func(o *Object) kind { return &Opaque{} })
}
