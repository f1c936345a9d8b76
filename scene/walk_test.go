package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkModels(t *testing.T) {
	d := newRig(t)
	var names []string
	var depths []int
	d.WalkModels(func(o *Object, depth int) {
		names = append(names, o.Name())
		depths = append(depths, depth)
	})
	assert.Equal(t, []string{"Scene", "Hips", "Spine", "Body"}, names)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestWalkSurvivesCycles(t *testing.T) {
	d := NewDocument()
	a := d.CreateObject(ClassModel, SubClassNull, "A")
	b := a.CreateChild(ClassModel, SubClassNull, "B")
	c := b.CreateChild(ClassModel, SubClassNull, "C")
	c.AddChild(a, "")
	// shared child is visited once
	a.AddChild(c, "")

	seen := map[string]int{}
	d.Walk(func(o *Object, depth int) bool {
		seen[o.Name()]++
		return true
	})
	assert.Equal(t, map[string]int{"Scene": 1, "A": 1, "B": 1, "C": 1}, seen)

	var fromB []string
	b.Walk(func(o *Object, depth int) bool {
		fromB = append(fromB, o.Name())
		return true
	})
	assert.Equal(t, []string{"B", "C", "A"}, fromB)
}

func TestWalkSkipsSubtree(t *testing.T) {
	d := newRig(t)
	var names []string
	d.RootModel().Walk(func(o *Object, depth int) bool {
		names = append(names, o.Name())
		return o.Name() != "Hips"
	})
	assert.Contains(t, names, "Hips")
	assert.NotContains(t, names, "Spine")
	assert.Contains(t, names, "Body")
}
