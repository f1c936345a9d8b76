package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mogaika/fbxdoc/fbx"
)

// TicksPerSecond is fbx time unit
const TicksPerSecond = 46186158000

const curveKeyVersion = 4008

func ToTicks(seconds float64) int64 {
	return int64(math.Round(seconds * TicksPerSecond))
}

func FromTicks(ticks int64) float64 {
	return float64(ticks) / TicksPerSecond
}

type AnimationKind int

const (
	AnimationUnknown AnimationKind = iota
	AnimationTranslation
	AnimationRotation
	AnimationScale
	AnimationColor
	AnimationIntensity
	AnimationFocalLength
	AnimationDeformWeight
	AnimationFilmboxTypeID
	AnimationLockInfluenceWeights
)

type animationKindInfo struct {
	kind       AnimationKind
	objectName string
	linkName   string
	curveNames []string
}

var xyzCurves = []string{"d|X", "d|Y", "d|Z"}

var animationKinds = []animationKindInfo{
	{AnimationTranslation, "T", "Lcl Translation", xyzCurves},
	{AnimationRotation, "R", "Lcl Rotation", xyzCurves},
	{AnimationScale, "S", "Lcl Scaling", xyzCurves},
	{AnimationColor, "Color", "Color", xyzCurves},
	{AnimationIntensity, "Intensity", "Intensity", []string{"d|Intensity"}},
	{AnimationFocalLength, "FocalLength", "FocalLength", []string{"d|FocalLength"}},
	{AnimationDeformWeight, "DeformPercent", "DeformPercent", []string{"d|DeformPercent"}},
	{AnimationFilmboxTypeID, "filmboxTypeID", "filmboxTypeID", []string{"d|filmboxTypeID"}},
	{AnimationLockInfluenceWeights, "lockInfluenceWeights", "lockInfluenceWeights", []string{"d|lockInfluenceWeights"}},
}

func findAnimationKind(k AnimationKind) *animationKindInfo {
	for i := range animationKinds {
		if animationKinds[i].kind == k {
			return &animationKinds[i]
		}
	}
	return nil
}

func findAnimationKindByName(name string) *animationKindInfo {
	for i := range animationKinds {
		if animationKinds[i].objectName == name {
			return &animationKinds[i]
		}
	}
	return nil
}

func (k AnimationKind) String() string {
	if info := findAnimationKind(k); info != nil {
		return info.linkName
	}
	return "Unknown"
}

type curveInfo struct {
	linkName string
	typeName string
	typ      fbx.PropertyType
	element  int
}

var curveInfos = []curveInfo{
	{"d|X", "Number", fbx.PropertyFloat64, 0},
	{"d|Y", "Number", fbx.PropertyFloat64, 1},
	{"d|Z", "Number", fbx.PropertyFloat64, 2},
	{"d|Intensity", "Number", fbx.PropertyFloat64, 0},
	{"d|FocalLength", "Number", fbx.PropertyFloat64, 0},
	{"d|DeformPercent", "Number", fbx.PropertyFloat64, 0},
	{"d|filmboxTypeID", "Short", fbx.PropertyInt16, 0},
	{"d|lockInfluenceWeights", "Bool", fbx.PropertyInt32, 0},
}

func findCurveInfo(link string) *curveInfo {
	for i := range curveInfos {
		if curveInfos[i].linkName == link {
			return &curveInfos[i]
		}
	}
	return nil
}

func (ci *curveInfo) readDefault(p *fbx.Node, vi int) float64 {
	switch ci.typ {
	case fbx.PropertyInt16:
		if pr := p.Property(vi); pr != nil {
			return float64(pr.Int16())
		}
		return 0
	case fbx.PropertyInt32:
		return float64(p.PropInt32(vi))
	}
	return p.PropFloat64(vi)
}

func (ci *curveInfo) writeDefault(props *fbx.Node, v float64) {
	switch ci.typ {
	case fbx.PropertyInt16:
		addP(props, ci.linkName, ci.typeName, "", "A", int16(v))
	case fbx.PropertyInt32:
		addP(props, ci.linkName, ci.typeName, "", "A", int32(v))
	default:
		addP(props, ci.linkName, ci.typeName, "", "A", v)
	}
}

// AnimationStack is a take: set of layers with time range in seconds
type AnimationStack struct {
	obj *Object

	LocalStart     float64
	LocalStop      float64
	ReferenceStart float64
	ReferenceStop  float64
}

func (s *AnimationStack) importFBX(o *Object) {
	eachProperty(o.node, func(name string, p *fbx.Node, vi int) {
		switch name {
		case "LocalStart":
			s.LocalStart = FromTicks(p.PropInt64(vi))
		case "LocalStop":
			s.LocalStop = FromTicks(p.PropInt64(vi))
		case "ReferenceStart":
			s.ReferenceStart = FromTicks(p.PropInt64(vi))
		case "ReferenceStop":
			s.ReferenceStop = FromTicks(p.PropInt64(vi))
		}
	})
}

func (s *AnimationStack) exportFBX(o *Object, n *fbx.Node) {
	start, stop := s.TimeRange()
	s.LocalStart, s.ReferenceStart = start, start
	s.LocalStop, s.ReferenceStop = stop, stop

	props := propertiesNode(n)
	for _, e := range []struct {
		name string
		v    float64
	}{
		{"LocalStart", s.LocalStart},
		{"LocalStop", s.LocalStop},
		{"ReferenceStart", s.ReferenceStart},
		{"ReferenceStop", s.ReferenceStop},
	} {
		if e.v != 0 {
			addP(props, e.name, "KTime", "Time", "", ToTicks(e.v))
		}
	}
}

// TimeRange spans all curve nodes of all layers
func (s *AnimationStack) TimeRange() (start, stop float64) {
	first := true
	for _, l := range s.Layers() {
		for _, cn := range l.AnimationLayer().CurveNodes() {
			a, b := cn.AnimationCurveNode().TimeRange()
			if first {
				start, stop = a, b
				first = false
			} else {
				start = math.Min(start, a)
				stop = math.Max(stop, b)
			}
		}
	}
	return start, stop
}

func (s *AnimationStack) Layers() []*Object {
	return s.obj.childrenOf(ClassAnimationLayer)
}

func (s *AnimationStack) CreateLayer(name string) *Object {
	return s.obj.CreateChild(ClassAnimationLayer, SubClassUnknown, name)
}

func (s *AnimationStack) Apply(t float64) {
	for _, l := range s.Layers() {
		l.AnimationLayer().Apply(t)
	}
}

type AnimationLayer struct {
	obj *Object
}

func (l *AnimationLayer) importFBX(o *Object)               {}
func (l *AnimationLayer) exportFBX(o *Object, n *fbx.Node) {}

func (l *AnimationLayer) CurveNodes() []*Object {
	return l.obj.childrenOf(ClassAnimationCurveNode)
}

// CreateCurveNode makes curve node of kind animating target with one curve per component
func (l *AnimationLayer) CreateCurveNode(k AnimationKind, target *Object) *Object {
	info := findAnimationKind(k)
	if info == nil {
		log.Warnf("Unknown animation kind %d", k)
		return nil
	}
	cn := l.obj.CreateChild(ClassAnimationCurveNode, SubClassUnknown, info.objectName)
	cn.AnimationCurveNode().Kind = k
	if target != nil {
		target.AddChild(cn, info.linkName)
	}
	for _, link := range info.curveNames {
		c := l.obj.doc.CreateObject(ClassAnimationCurve, SubClassUnknown, "")
		cn.AddChild(c, link)
	}
	return cn
}

func (l *AnimationLayer) Apply(t float64) {
	for _, cn := range l.CurveNodes() {
		cn.AnimationCurveNode().Apply(t)
	}
}

type AnimationCurveNode struct {
	obj *Object

	Kind    AnimationKind
	Default [3]float64
}

func (cn *AnimationCurveNode) importFBX(o *Object) {
	info := findAnimationKindByName(o.Name())
	if info == nil {
		log.Warnf("Unrecognized animation target %q", o.Name())
		return
	}
	cn.Kind = info.kind
	eachProperty(o.node, func(name string, p *fbx.Node, vi int) {
		if ci := findCurveInfo(name); ci != nil {
			cn.Default[ci.element] = ci.readDefault(p, vi)
		}
	})
}

func (cn *AnimationCurveNode) exportFBX(o *Object, n *fbx.Node) {
	props := propertiesNode(n)
	info := findAnimationKind(cn.Kind)
	if info == nil {
		return
	}
	curves := cn.obj.ChildLinks()
	written := 0
	for _, l := range curves {
		c := l.Object.AnimationCurve()
		if c == nil {
			continue
		}
		if ci := findCurveInfo(l.Prop); ci != nil {
			start, _ := c.TimeRange()
			ci.writeDefault(props, c.Evaluate(start))
			written++
		}
	}
	if written == 0 {
		for _, link := range info.curveNames {
			ci := findCurveInfo(link)
			ci.writeDefault(props, cn.Default[ci.element])
		}
	}
}

// Target is first parent that is not a layer
func (cn *AnimationCurveNode) Target() *Object {
	for _, p := range cn.obj.Parents() {
		if p.class != ClassAnimationLayer {
			return p
		}
	}
	return nil
}

func (cn *AnimationCurveNode) Layer() *Object {
	return cn.obj.firstParentOf(ClassAnimationLayer)
}

func (cn *AnimationCurveNode) Curves() []*Object {
	return cn.obj.childrenOf(ClassAnimationCurve)
}

// Curve returns curve linked as given component, like "d|Y"
func (cn *AnimationCurveNode) Curve(link string) *Object {
	for _, l := range cn.obj.ChildLinks() {
		if l.Prop == link && l.Object.class == ClassAnimationCurve {
			return l.Object
		}
	}
	return nil
}

func (cn *AnimationCurveNode) TimeRange() (start, stop float64) {
	first := true
	for _, c := range cn.Curves() {
		a, b := c.AnimationCurve().TimeRange()
		if first {
			start, stop = a, b
			first = false
		} else {
			start = math.Min(start, a)
			stop = math.Max(stop, b)
		}
	}
	return start, stop
}

func (cn *AnimationCurveNode) EvaluateF1(t float64) float64 {
	curves := cn.Curves()
	if len(curves) == 0 {
		return cn.Default[0]
	}
	return curves[0].AnimationCurve().Evaluate(t)
}

func (cn *AnimationCurveNode) EvaluateF3(t float64) mgl64.Vec3 {
	r := mgl64.Vec3(cn.Default)
	for _, l := range cn.obj.ChildLinks() {
		c := l.Object.AnimationCurve()
		if c == nil {
			continue
		}
		if ci := findCurveInfo(l.Prop); ci != nil {
			r[ci.element] = c.Evaluate(t)
		}
	}
	return r
}

// AddValue appends key to single component curve node
func (cn *AnimationCurveNode) AddValue(t, v float64) bool {
	curves := cn.Curves()
	if len(curves) != 1 {
		log.Warnf("AddValue: curve node %q has %d curves", cn.obj.Name(), len(curves))
		return false
	}
	curves[0].AnimationCurve().AddKey(t, float32(v))
	return true
}

func (cn *AnimationCurveNode) AddVec3(t float64, v mgl64.Vec3) bool {
	x, y, z := cn.Curve("d|X"), cn.Curve("d|Y"), cn.Curve("d|Z")
	if x == nil || y == nil || z == nil {
		log.Warnf("AddVec3: curve node %q has no xyz curves", cn.obj.Name())
		return false
	}
	x.AnimationCurve().AddKey(t, float32(v[0]))
	y.AnimationCurve().AddKey(t, float32(v[1]))
	z.AnimationCurve().AddKey(t, float32(v[2]))
	return true
}

// Apply writes evaluated value into target
func (cn *AnimationCurveNode) Apply(t float64) {
	if cn.Kind == AnimationUnknown || len(cn.Curves()) == 0 {
		return
	}
	target := cn.Target()
	if target == nil {
		return
	}
	switch cn.Kind {
	case AnimationTranslation:
		if m := target.Model(); m != nil {
			m.Translation = cn.EvaluateF3(t)
		}
	case AnimationRotation:
		if m := target.Model(); m != nil {
			m.Rotation = cn.EvaluateF3(t)
		}
	case AnimationScale:
		if m := target.Model(); m != nil {
			m.Scale = cn.EvaluateF3(t)
		}
	case AnimationColor:
		if l := target.Light(); l != nil {
			l.Color = cn.EvaluateF3(t)
		}
	case AnimationIntensity:
		if l := target.Light(); l != nil {
			l.Intensity = cn.EvaluateF1(t)
		}
	case AnimationFocalLength:
		if c := target.Camera(); c != nil {
			c.FocalLength = cn.EvaluateF1(t)
		}
	case AnimationDeformWeight:
		if b := target.BlendShapeChannel(); b != nil {
			b.DeformPercent = cn.EvaluateF1(t)
		}
	}
}

// unlinkAll erases curve node together with its curves
func (cn *AnimationCurveNode) unlinkAll() {
	d := cn.obj.doc
	for _, c := range cn.Curves() {
		d.EraseObject(c)
	}
	d.EraseObject(cn.obj)
}

// AnimationCurve keys are in seconds, sorted by time
type AnimationCurve struct {
	Default float64
	Times   []float64
	Values  []float32
}

func (c *AnimationCurve) importFBX(o *Object) {
	n := o.node
	c.Default = n.ChildFloat64("Default")
	ticks := n.ChildInt64Array("KeyTime")
	c.Times = make([]float64, len(ticks))
	for i, t := range ticks {
		c.Times[i] = FromTicks(t)
	}
	c.Values = n.ChildFloat32Array("KeyValueFloat")
	if len(c.Values) != len(c.Times) {
		log.Warnf("Curve %q has %d times and %d values", o.Name(), len(c.Times), len(c.Values))
		if len(c.Values) < len(c.Times) {
			c.Times = c.Times[:len(c.Values)]
		} else {
			c.Values = c.Values[:len(c.Times)]
		}
	}
}

func (c *AnimationCurve) exportFBX(o *Object, n *fbx.Node) {
	ticks := make([]int64, len(c.Times))
	for i, t := range c.Times {
		ticks[i] = ToTicks(t)
	}
	values := c.Values
	if values == nil {
		values = []float32{}
	}
	n.CreateChild("Default", c.Default)
	n.CreateChild("KeyVer", int32(curveKeyVersion))
	n.CreateChild("KeyTime", ticks)
	n.CreateChild("KeyValueFloat", values)
	n.CreateChild("KeyAttrFlags", []int32{24836})
	n.CreateChild("KeyAttrDataFloat", []float32{0, 0, 0, 0})
	n.CreateChild("KeyAttrRefCount", []int32{int32(len(c.Times))})
}

func (c *AnimationCurve) TimeRange() (start, stop float64) {
	if len(c.Times) == 0 {
		return 0, 0
	}
	return c.Times[0], c.Times[len(c.Times)-1]
}

// AddKey inserts key keeping times sorted, key at existing time is replaced
func (c *AnimationCurve) AddKey(t float64, v float32) {
	i := sort.SearchFloat64s(c.Times, t)
	if i < len(c.Times) && c.Times[i] == t {
		c.Values[i] = v
		return
	}
	c.Times = append(c.Times, 0)
	c.Values = append(c.Values, 0)
	copy(c.Times[i+1:], c.Times[i:])
	copy(c.Values[i+1:], c.Values[i:])
	c.Times[i], c.Values[i] = t, v
}

// Evaluate interpolates linearly and clamps outside of key range
func (c *AnimationCurve) Evaluate(t float64) float64 {
	switch {
	case len(c.Times) == 0:
		return c.Default
	case t <= c.Times[0]:
		return float64(c.Values[0])
	case t >= c.Times[len(c.Times)-1]:
		return float64(c.Values[len(c.Values)-1])
	}
	i := sort.SearchFloat64s(c.Times, t)
	t2, v2 := c.Times[i], float64(c.Values[i])
	if t == t2 {
		return v2
	}
	t1, v1 := c.Times[i-1], float64(c.Values[i-1])
	return v1 + (v2-v1)*(t-t1)/(t2-t1)
}

func (o *Object) AnimationStack() *AnimationStack {
	s, _ := o.kind.(*AnimationStack)
	return s
}

func (o *Object) AnimationLayer() *AnimationLayer {
	l, _ := o.kind.(*AnimationLayer)
	return l
}

func (o *Object) AnimationCurveNode() *AnimationCurveNode {
	cn, _ := o.kind.(*AnimationCurveNode)
	return cn
}

func (o *Object) AnimationCurve() *AnimationCurve {
	c, _ := o.kind.(*AnimationCurve)
	return c
}

// CreateAnimationStack adds take with one empty layer named after it
func (d *Document) CreateAnimationStack(name string) *Object {
	s := d.CreateObject(ClassAnimationStack, SubClassUnknown, name)
	s.AnimationStack().CreateLayer(name)
	return s
}

// ApplyAnimation evaluates current take at t seconds into targets
func (d *Document) ApplyAnimation(t float64) {
	if take := d.CurrentTake(); take != nil {
		take.AnimationStack().Apply(t)
	}
}

func init() {
	registerKind(ClassAnimationStack, SubClassUnknown, func(o *Object) kind { return &AnimationStack{obj: o} })
	registerKind(ClassAnimationLayer, SubClassUnknown, func(o *Object) kind { return &AnimationLayer{obj: o} })
	registerKind(ClassAnimationCurveNode, SubClassUnknown, func(o *Object) kind { return &AnimationCurveNode{obj: o} })
	registerKind(ClassAnimationCurve, SubClassUnknown, func(o *Object) kind { return &AnimationCurve{} })
}
