package scene

import (
	"github.com/mogaika/fbxdoc/config"
	"github.com/mogaika/fbxdoc/fbx"
	"github.com/mogaika/fbxdoc/utils"
)

var log = utils.Log("scene")

// First id handed out to created objects. Ids below are left for files
// written by other tools, id 0 belongs to root model.
const firstObjectID = 1000000

// Document owns object arena and node tree of one fbx file
type Document struct {
	version uint32
	nodes   []*fbx.Node

	objects []*Object
	links   []edges

	rootModel *Object
	current   Handle
	nextID    int64
}

func NewDocument() *Document {
	d := &Document{}
	d.Reset()
	return d
}

// Reset drops everything and recreates root model "Scene" with id 0
func (d *Document) Reset() {
	d.version = uint32(config.GetFBXVersion())
	d.nodes = nil
	d.objects = nil
	d.links = nil
	d.current = InvalidHandle
	d.nextID = firstObjectID

	d.rootModel = d.CreateObject(ClassModel, SubClassUnknown, "Scene")
	d.rootModel.id = 0
}

func (d *Document) Version() uint32     { return d.version }
func (d *Document) SetVersion(v uint32) { d.version = v }

func (d *Document) RootModel() *Object { return d.rootModel }

func (d *Document) allocID() int64 {
	id := d.nextID
	d.nextID++
	return id
}

func (d *Document) reserveID(id int64) {
	if id >= d.nextID {
		d.nextID = id + 1
	}
}

// CreateObject makes object of class and subclass. Classes without
// registered behaviour are logged and nil is returned.
func (d *Document) CreateObject(c ObjectClass, s ObjectSubClass, name string) *Object {
	o := &Object{
		handle:   InvalidHandle,
		class:    c,
		subClass: s,
		id:       d.allocID(),
	}
	o.kind = newKind(o)
	if o.kind == nil {
		log.Warnf("Unrecognized object type %v/%v", c, s)
		return nil
	}
	o.SetName(name)
	d.AddObject(o)
	return o
}

// AddObject places o into arena. Objects coming from another document
// keep their id unless it is taken here, then new one is allocated.
func (d *Document) AddObject(o *Object) {
	if o == nil || (o.doc == d && o.Alive()) {
		return
	}
	if o.doc != nil && o.doc != d && o.id != 0 && d.FindObject(o.id) != nil {
		o.id = d.allocID()
	}
	if o.id != 0 {
		d.reserveID(o.id)
	}
	o.doc = d
	o.handle = Handle(len(d.objects))
	d.objects = append(d.objects, o)
	d.links = append(d.links, edges{})
}

// EraseObject unlinks o and removes it from arena
func (d *Document) EraseObject(o *Object) {
	if o == nil || o.doc != d || !o.Alive() {
		return
	}
	o.Unlink()
	if d.current == o.handle {
		d.current = InvalidHandle
	}
	if d.rootModel == o {
		d.rootModel = nil
	}
	d.objects[o.handle] = nil
	o.handle = InvalidHandle
}

func (d *Document) Object(h Handle) *Object {
	if h < 0 || int(h) >= len(d.objects) {
		return nil
	}
	return d.objects[h]
}

// ObjectCount is arena size including erased slots, usable as handle bound
func (d *Document) ObjectCount() int { return len(d.objects) }

func (d *Document) Objects() []*Object {
	r := make([]*Object, 0, len(d.objects))
	for _, o := range d.objects {
		if o != nil {
			r = append(r, o)
		}
	}
	return r
}

// RootObjects returns objects without parents, root model included
func (d *Document) RootObjects() []*Object {
	var r []*Object
	for _, o := range d.objects {
		if o != nil && len(d.links[o.handle].parents) == 0 {
			r = append(r, o)
		}
	}
	return r
}

func (d *Document) FindObject(id int64) *Object {
	for _, o := range d.objects {
		if o != nil && o.id == id {
			return o
		}
	}
	return nil
}

// FindObjectByName accepts full name or display name
func (d *Document) FindObjectByName(name string) *Object {
	for _, o := range d.objects {
		if o != nil && (o.name == name || o.Name() == name) {
			return o
		}
	}
	return nil
}

func (d *Document) ObjectsOf(c ObjectClass) []*Object {
	var r []*Object
	for _, o := range d.objects {
		if o != nil && o.class == c {
			r = append(r, o)
		}
	}
	return r
}

func (d *Document) countObjects(c ObjectClass) int {
	n := 0
	for _, o := range d.objects {
		if o != nil && o.class == c && o.id != 0 {
			n++
		}
	}
	return n
}

func (d *Document) AnimationStacks() []*Object {
	return d.ObjectsOf(ClassAnimationStack)
}

func (d *Document) FindAnimationStack(name string) *Object {
	for _, s := range d.AnimationStacks() {
		if s.Name() == name || s.name == name {
			return s
		}
	}
	return nil
}

func (d *Document) CurrentTake() *Object {
	return d.Object(d.current)
}

func (d *Document) SetCurrentTake(stack *Object) {
	if stack == nil || stack.doc != d || stack.class != ClassAnimationStack {
		d.current = InvalidHandle
		return
	}
	d.current = stack.handle
}

// Nodes returns top level records
func (d *Document) Nodes() []*fbx.Node { return d.nodes }

// CreateNode appends new top level record
func (d *Document) CreateNode(name string, values ...interface{}) *fbx.Node {
	n := fbx.NewNode(name, values...)
	d.nodes = append(d.nodes, n)
	return n
}

// CreateChildNode creates record under parent, or top level record when parent is nil
func (d *Document) CreateChildNode(parent *fbx.Node, name string, values ...interface{}) *fbx.Node {
	if parent == nil {
		return d.CreateNode(name, values...)
	}
	return parent.CreateChild(name, values...)
}

func (d *Document) EraseNode(n *fbx.Node) bool {
	if n.Parent() != nil {
		return n.Parent().EraseChild(n)
	}
	for i, rn := range d.nodes {
		if rn == n {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			return true
		}
	}
	return false
}

func (d *Document) FindNode(name string) *fbx.Node {
	for _, n := range d.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// File wraps current records into container, it shares nodes with document
func (d *Document) File() *fbx.File {
	return &fbx.File{Version: d.version, Nodes: d.nodes}
}
