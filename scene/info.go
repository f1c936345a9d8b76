package scene

type TakeInfo struct {
	Name   string  `json:"name"`
	Start  float64 `json:"start"`
	Stop   float64 `json:"stop"`
	Layers int     `json:"layers"`
	Nodes  int     `json:"curve_nodes"`
}

// Summary is short description of document used by tools
type Summary struct {
	Version uint32         `json:"version"`
	Objects int            `json:"objects"`
	Classes map[string]int `json:"classes"`
	Takes   []TakeInfo     `json:"takes"`
	Current string         `json:"current_take"`
}

func (d *Document) Summary() Summary {
	s := Summary{
		Version: d.version,
		Classes: make(map[string]int),
		Current: d.currentTakeName(),
	}
	for _, o := range d.objects {
		if o == nil || o.id == 0 {
			continue
		}
		s.Objects++
		s.Classes[o.class.String()]++
	}
	for _, stack := range d.AnimationStacks() {
		as := stack.AnimationStack()
		ti := TakeInfo{Name: stack.Name()}
		ti.Start, ti.Stop = as.TimeRange()
		for _, l := range as.Layers() {
			ti.Layers++
			ti.Nodes += len(l.AnimationLayer().CurveNodes())
		}
		s.Takes = append(s.Takes, ti)
	}
	return s
}

// ObjectInfo describes one object and its direct links
type ObjectInfo struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Class    string     `json:"class"`
	SubClass string     `json:"subclass"`
	Parents  []LinkInfo `json:"parents"`
	Children []LinkInfo `json:"children"`
}

type LinkInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Class string `json:"class"`
	Prop  string `json:"prop,omitempty"`
}

func linkInfos(links []Link) []LinkInfo {
	r := make([]LinkInfo, 0, len(links))
	for _, l := range links {
		r = append(r, LinkInfo{
			ID:    l.Object.id,
			Name:  l.Object.Name(),
			Class: l.Object.class.String(),
			Prop:  l.Prop,
		})
	}
	return r
}

func (o *Object) Info() ObjectInfo {
	return ObjectInfo{
		ID:       o.id,
		Name:     o.Name(),
		Class:    o.class.String(),
		SubClass: o.subClass.String(),
		Parents:  linkInfos(o.ParentLinks()),
		Children: linkInfos(o.ChildLinks()),
	}
}
