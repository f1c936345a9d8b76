package scene

import (
	"github.com/mogaika/fbxdoc/fbx"
)

// Handle addresses object inside its document arena. Handles stay valid until
// object is erased and are never reused within one document.
type Handle int32

const InvalidHandle Handle = -1

// Link is one side of parent-child edge. Prop is the target property name of
// "OP" connections, empty for plain "OO" ones.
type Link struct {
	Object *Object
	Prop   string
}

type edge struct {
	h    Handle
	prop string
}

type edges struct {
	parents  []edge
	children []edge
}

// kind is per class behaviour of object: what it reads from and writes to its node
type kind interface {
	importFBX(o *Object)
	exportFBX(o *Object, n *fbx.Node)
}

type kindFactory func(o *Object) kind

type kindKey struct {
	class    ObjectClass
	subClass ObjectSubClass
}

var kinds = make(map[kindKey]kindFactory)

func registerKind(c ObjectClass, s ObjectSubClass, f kindFactory) {
	kinds[kindKey{c, s}] = f
}

func newKind(o *Object) kind {
	if f, ok := kinds[kindKey{o.class, o.subClass}]; ok {
		return f(o)
	}
	if f, ok := kinds[kindKey{o.class, SubClassUnknown}]; ok {
		return f(o)
	}
	return nil
}

type Object struct {
	doc      *Document
	handle   Handle
	id       int64
	name     string
	class    ObjectClass
	subClass ObjectSubClass
	node     *fbx.Node
	kind     kind
}

func (o *Object) Document() *Document       { return o.doc }
func (o *Object) Handle() Handle            { return o.handle }
func (o *Object) ID() int64                 { return o.id }
func (o *Object) Class() ObjectClass        { return o.class }
func (o *Object) SubClass() ObjectSubClass  { return o.subClass }
func (o *Object) Node() *fbx.Node           { return o.node }
func (o *Object) FullName() string          { return o.name }
func (o *Object) Name() string              { return fbx.DisplayName(o.name) }
func (o *Object) InternalClassName() string { return InternalClassName(o.class, o.subClass) }

func (o *Object) SetID(id int64) { o.id = id }

// SetName stores display name with class suffix
func (o *Object) SetName(name string) {
	o.name = fbx.MakeFullName(name, o.InternalClassName())
}

// Alive reports whether object is still owned by its document
func (o *Object) Alive() bool {
	return o.doc != nil && o.handle != InvalidHandle
}

// bind takes identity from source node. Three properties: id, full name, subclass.
// Legacy two properties: full name and subclass, id stays as allocated.
func (o *Object) bind(n *fbx.Node) {
	o.node = n
	switch len(n.Properties) {
	case 3:
		o.id = n.PropInt64(0)
		o.name = n.PropString(1)
	case 2:
		o.name = n.PropString(0)
	}
}

func (o *Object) importFBX() {
	if o.node != nil {
		o.kind.importFBX(o)
	}
}

func (o *Object) exportFBX(objects *fbx.Node) {
	if o.id == 0 {
		return
	}
	o.node = objects.CreateChild(o.class.String(), o.id, o.name, o.subClass.String())
	o.kind.exportFBX(o, o.node)
}

func (o *Object) exportConnections(connections *fbx.Node) {
	for _, p := range o.doc.links[o.handle].parents {
		parent := o.doc.objects[p.h]
		if p.prop == "" {
			connections.CreateChild("C", "OO", o.id, parent.id)
		} else {
			connections.CreateChild("C", "OP", o.id, parent.id, p.prop)
		}
	}
}

func (o *Object) resolve(list []edge) []Link {
	r := make([]Link, 0, len(list))
	for _, e := range list {
		r = append(r, Link{Object: o.doc.objects[e.h], Prop: e.prop})
	}
	return r
}

func (o *Object) ParentLinks() []Link { return o.resolve(o.doc.links[o.handle].parents) }
func (o *Object) ChildLinks() []Link  { return o.resolve(o.doc.links[o.handle].children) }

func (o *Object) Parents() []*Object {
	list := o.doc.links[o.handle].parents
	r := make([]*Object, 0, len(list))
	for _, e := range list {
		r = append(r, o.doc.objects[e.h])
	}
	return r
}

func (o *Object) Children() []*Object {
	list := o.doc.links[o.handle].children
	r := make([]*Object, 0, len(list))
	for _, e := range list {
		r = append(r, o.doc.objects[e.h])
	}
	return r
}

func (o *Object) ParentCount() int { return len(o.doc.links[o.handle].parents) }
func (o *Object) ChildCount() int  { return len(o.doc.links[o.handle].children) }

// Parent returns i-th parent or nil
func (o *Object) Parent(i int) *Object {
	list := o.doc.links[o.handle].parents
	if i < 0 || i >= len(list) {
		return nil
	}
	return o.doc.objects[list[i].h]
}

func (o *Object) Child(i int) *Object {
	list := o.doc.links[o.handle].children
	if i < 0 || i >= len(list) {
		return nil
	}
	return o.doc.objects[list[i].h]
}

// FindChild looks up direct child by full or display name
func (o *Object) FindChild(name string) *Object {
	for _, c := range o.Children() {
		if c.name == name || c.Name() == name {
			return c
		}
	}
	return nil
}

func (o *Object) FindParent(name string) *Object {
	for _, p := range o.Parents() {
		if p.name == name || p.Name() == name {
			return p
		}
	}
	return nil
}

// ChildProp returns target property of edge to child, ok is false when not linked
func (o *Object) ChildProp(child *Object) (prop string, ok bool) {
	for _, e := range o.doc.links[o.handle].children {
		if e.h == child.handle {
			return e.prop, true
		}
	}
	return "", false
}

func (o *Object) childrenOf(c ObjectClass) []*Object {
	var r []*Object
	for _, child := range o.Children() {
		if child.class == c {
			r = append(r, child)
		}
	}
	return r
}

func (o *Object) firstChildOf(c ObjectClass, s ObjectSubClass) *Object {
	for _, child := range o.Children() {
		if child.class == c && (s == SubClassUnknown || child.subClass == s) {
			return child
		}
	}
	return nil
}

func (o *Object) firstParentOf(c ObjectClass) *Object {
	for _, p := range o.Parents() {
		if p.class == c {
			return p
		}
	}
	return nil
}

// AddChild links child under o. Same edge is never stored twice.
func (o *Object) AddChild(child *Object, prop string) {
	if child == nil || child.doc != o.doc || !child.Alive() || !o.Alive() {
		return
	}
	l := &o.doc.links[o.handle]
	for _, e := range l.children {
		if e.h == child.handle && e.prop == prop {
			return
		}
	}
	l.children = append(l.children, edge{child.handle, prop})
	cl := &o.doc.links[child.handle]
	cl.parents = append(cl.parents, edge{o.handle, prop})
}

// RemoveChild drops every edge between o and child
func (o *Object) RemoveChild(child *Object) bool {
	if child == nil || child.doc != o.doc || !child.Alive() || !o.Alive() {
		return false
	}
	removed := false
	l := &o.doc.links[o.handle]
	l.children, removed = dropEdges(l.children, child.handle)
	cl := &o.doc.links[child.handle]
	cl.parents, _ = dropEdges(cl.parents, o.handle)
	return removed
}

func dropEdges(list []edge, h Handle) ([]edge, bool) {
	out := list[:0]
	found := false
	for _, e := range list {
		if e.h == h {
			found = true
			continue
		}
		out = append(out, e)
	}
	return out, found
}

// CreateChild creates object in the same document and links it under o
func (o *Object) CreateChild(c ObjectClass, s ObjectSubClass, name string) *Object {
	child := o.doc.CreateObject(c, s, name)
	if child != nil {
		o.AddChild(child, "")
	}
	return child
}

// Unlink detaches o from all parents and children, keeping it in the document
func (o *Object) Unlink() {
	for len(o.doc.links[o.handle].parents) != 0 {
		list := o.doc.links[o.handle].parents
		o.doc.objects[list[len(list)-1].h].RemoveChild(o)
	}
	for len(o.doc.links[o.handle].children) != 0 {
		list := o.doc.links[o.handle].children
		o.RemoveChild(o.doc.objects[list[len(list)-1].h])
	}
}
