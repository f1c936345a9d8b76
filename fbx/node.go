package fbx

// Node is one record of fbx tree: name, properties and child records.
// Record with empty name and without properties and children is the null record
// that closes child lists in binary files, it is never stored in a tree.
type Node struct {
	Name       string
	Properties []*Property
	Nodes      []*Node

	parent             *Node
	forceNullTerminate bool
}

// NewNode creates node with properties built from values, see Property.Assign
func NewNode(name string, values ...interface{}) *Node {
	n := &Node{Name: name}
	n.AddProperties(values...)
	return n
}

func (n *Node) Parent() *Node { return n.parent }
func (n *Node) IsRoot() bool  { return n.parent == nil }

func (n *Node) IsNull() bool {
	return n.Name == "" && len(n.Properties) == 0 && len(n.Nodes) == 0
}

// SetForceNullTerminate makes binary writer close this record with null record
// even when it has properties and no children
func (n *Node) SetForceNullTerminate(v bool) { n.forceNullTerminate = v }

// AddProperties appends values, unsupported values are logged and skipped
func (n *Node) AddProperties(values ...interface{}) *Node {
	for _, v := range values {
		if p := NewProperty(v); p != nil {
			n.Properties = append(n.Properties, p)
		}
	}
	return n
}

func (n *Node) AddProperty(p *Property) *Node {
	n.Properties = append(n.Properties, p)
	return n
}

// AddNodes attaches children, detaching them from previous parents first
func (n *Node) AddNodes(nodes ...*Node) *Node {
	for _, c := range nodes {
		if c == nil {
			continue
		}
		if c.parent != nil {
			c.parent.EraseChild(c)
		}
		c.parent = n
		n.Nodes = append(n.Nodes, c)
	}
	return n
}

func (n *Node) CreateChild(name string, values ...interface{}) *Node {
	c := NewNode(name, values...)
	n.AddNodes(c)
	return c
}

func (n *Node) EraseChild(c *Node) bool {
	for i, nc := range n.Nodes {
		if nc == c {
			n.Nodes = append(n.Nodes[:i], n.Nodes[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

func (n *Node) GetNode(name string) *Node {
	for _, c := range n.Nodes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) GetNodes(name string) []*Node {
	var r []*Node
	for _, c := range n.Nodes {
		if c.Name == name {
			r = append(r, c)
		}
	}
	return r
}

func (n *Node) GetOrAddNode(name string) *Node {
	if c := n.GetNode(name); c != nil {
		return c
	}
	return n.CreateChild(name)
}

// FindChild walks path of names, like FindChild("Takes", "Current")
func (n *Node) FindChild(path ...string) *Node {
	cur := n
	for _, name := range path {
		if cur = cur.GetNode(name); cur == nil {
			return nil
		}
	}
	return cur
}

// Walk calls f for n and all descendants depth first, stops descending when f returns false
func (n *Node) Walk(f func(n *Node, depth int) bool) {
	n.walk(f, 0)
}

func (n *Node) walk(f func(n *Node, depth int) bool, depth int) {
	if !f(n, depth) {
		return
	}
	for _, c := range n.Nodes {
		c.walk(f, depth+1)
	}
}

func (n *Node) Clone() *Node {
	c := &Node{Name: n.Name, forceNullTerminate: n.forceNullTerminate}
	for _, p := range n.Properties {
		c.Properties = append(c.Properties, p.Clone())
	}
	for _, child := range n.Nodes {
		c.AddNodes(child.Clone())
	}
	return c
}

func (n *Node) Property(i int) *Property {
	if i < 0 || i >= len(n.Properties) {
		return nil
	}
	return n.Properties[i]
}

func (n *Node) PropBool(i int) bool {
	if p := n.Property(i); p != nil {
		return p.Bool()
	}
	return false
}

func (n *Node) PropInt32(i int) int32 {
	if p := n.Property(i); p != nil {
		return p.Int32()
	}
	return 0
}

func (n *Node) PropInt64(i int) int64 {
	if p := n.Property(i); p != nil {
		return p.Int64()
	}
	return 0
}

func (n *Node) PropFloat64(i int) float64 {
	if p := n.Property(i); p != nil {
		return p.Float64()
	}
	return 0
}

func (n *Node) PropString(i int) string {
	if p := n.Property(i); p != nil && p.typ == PropertyString {
		return p.StringValue()
	}
	return ""
}

// Child value accessors read first property of named child

func (n *Node) ChildInt32(name string) int32 {
	if c := n.GetNode(name); c != nil {
		return c.PropInt32(0)
	}
	return 0
}

func (n *Node) ChildInt64(name string) int64 {
	if c := n.GetNode(name); c != nil {
		return c.PropInt64(0)
	}
	return 0
}

func (n *Node) ChildFloat64(name string) float64 {
	if c := n.GetNode(name); c != nil {
		return c.PropFloat64(0)
	}
	return 0
}

func (n *Node) ChildString(name string) string {
	if c := n.GetNode(name); c != nil {
		return c.PropString(0)
	}
	return ""
}

func (n *Node) ChildBlob(name string) []byte {
	if c := n.GetNode(name); c != nil && len(c.Properties) != 0 {
		return c.Properties[0].Blob()
	}
	return nil
}

// ChildArray returns array property of named child.
// Legacy files keep arrays as list of scalars, such list is packed into t.
func (n *Node) ChildArray(name string, t PropertyType) *Property {
	c := n.GetNode(name)
	if c == nil || len(c.Properties) == 0 {
		return nil
	}
	if len(c.Properties) == 1 && c.Properties[0].IsArray() {
		return c.Properties[0]
	}
	return PackArray(c.Properties, t)
}

func (n *Node) ChildFloat64Array(name string) []float64 {
	if p := n.ChildArray(name, PropertyFloat64Array); p != nil {
		return p.Float64Array()
	}
	return nil
}

func (n *Node) ChildFloat32Array(name string) []float32 {
	if p := n.ChildArray(name, PropertyFloat32Array); p != nil {
		return p.Float32Array()
	}
	return nil
}

func (n *Node) ChildInt32Array(name string) []int32 {
	if p := n.ChildArray(name, PropertyInt32Array); p != nil {
		return p.Int32Array()
	}
	return nil
}

func (n *Node) ChildInt64Array(name string) []int64 {
	if p := n.ChildArray(name, PropertyInt64Array); p != nil {
		return p.Int64Array()
	}
	return nil
}

// PropertiesFloat64 gathers numeric properties starting at index from
func (n *Node) PropertiesFloat64(from int) []float64 {
	var r []float64
	for i := from; i < len(n.Properties); i++ {
		p := n.Properties[i]
		if p.IsArray() {
			r = append(r, p.Float64Array()...)
		} else if p.typ.isNumeric() {
			r = append(r, p.Float64())
		}
	}
	return r
}
