package scene

import (
	"github.com/RoaringBitmap/roaring"
)

// Walk visits o and its descendants depth first. Each object is visited once
// even if graph has cycles or shared children. Returning false from f skips
// children of that object.
func (o *Object) Walk(f func(o *Object, depth int) bool) {
	visited := roaring.New()
	o.walk(f, 0, visited)
}

func (o *Object) walk(f func(o *Object, depth int) bool, depth int, visited *roaring.Bitmap) {
	if !visited.CheckedAdd(uint32(o.handle)) {
		return
	}
	if !f(o, depth) {
		return
	}
	for _, c := range o.Children() {
		c.walk(f, depth+1, visited)
	}
}

// Walk visits every object reachable from root objects, then objects
// that are only reachable through cycles.
func (d *Document) Walk(f func(o *Object, depth int) bool) {
	visited := roaring.New()
	for _, r := range d.RootObjects() {
		r.walk(f, 0, visited)
	}
	for _, o := range d.objects {
		if o != nil && !visited.Contains(uint32(o.handle)) {
			o.walk(f, 0, visited)
		}
	}
}

// WalkModels is Walk limited to Model objects, non models are not descended
func (d *Document) WalkModels(f func(o *Object, depth int)) {
	d.Walk(func(o *Object, depth int) bool {
		if o.class != ClassModel {
			return false
		}
		f(o, depth)
		return true
	})
}

// ancestorModels returns o and its Model parents up to the top, nearest first
func ancestorModels(o *Object) []*Object {
	visited := roaring.New()
	var r []*Object
	for cur := o; cur != nil && cur.Model() != nil; cur = cur.firstParentOf(ClassModel) {
		if !visited.CheckedAdd(uint32(cur.handle)) {
			log.Warnf("Model parent cycle at %q", cur.Name())
			break
		}
		r = append(r, cur)
	}
	return r
}
