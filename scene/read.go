package scene

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/mogaika/fbxdoc/fbx"
)

// Read replaces document content with parsed stream, binary or text.
// On failure document is left empty, holding only root model.
func (d *Document) Read(r io.Reader) error {
	d.Reset()
	f, err := fbx.ReadFrom(r)
	if err != nil {
		return err
	}
	d.load(f)
	return nil
}

func (d *Document) ReadFile(path string) error {
	fl, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to open %q", path)
	}
	defer fl.Close()
	return d.Read(fl)
}

// Load builds document from already parsed container
func (d *Document) Load(f *fbx.File) {
	d.Reset()
	d.load(f)
}

func (d *Document) load(f *fbx.File) {
	d.version = f.Version
	d.nodes = f.Nodes

	if objects := d.FindNode("Objects"); objects != nil {
		for _, n := range objects.Nodes {
			d.createFromNode(n)
		}
	}

	if connections := d.FindNode("Connections"); connections != nil {
		for _, n := range connections.Nodes {
			d.connect(n)
		}
	}

	// import hooks may create objects, they are visited too
	for i := 0; i < len(d.objects); i++ {
		if o := d.objects[i]; o != nil {
			o.importFBX()
		}
	}

	if takes := d.FindNode("Takes"); takes != nil {
		if current := takes.ChildString("Current"); current != "" {
			d.SetCurrentTake(d.FindAnimationStack(current))
		}
	}
}

func (d *Document) createFromNode(n *fbx.Node) {
	c := GetObjectClass(n.Name)
	if c == ClassUnknown {
		return
	}
	var s ObjectSubClass
	switch len(n.Properties) {
	case 3:
		s = GetObjectSubClass(n.PropString(2))
	case 2:
		s = GetObjectSubClass(n.PropString(1))
	}

	o := d.CreateObject(c, s, "")
	if o == nil {
		return
	}
	o.bind(n)
	if len(n.Properties) == 3 {
		d.reserveID(o.id)
	}
}

func (d *Document) connect(n *fbx.Node) {
	switch n.Name {
	case "C":
		ctype := n.PropString(0)
		child := d.FindObject(n.PropInt64(1))
		parent := d.FindObject(n.PropInt64(2))
		switch ctype {
		case "OO":
			if child != nil && parent != nil {
				parent.AddChild(child, "")
			}
		case "OP":
			if child != nil && parent != nil {
				parent.AddChild(child, n.PropString(3))
			}
		default:
			log.Warnf("Unrecognized connection type %q", ctype)
		}
	case "Connect":
		ctype := n.PropString(0)
		if ctype != "OO" {
			log.Warnf("Unrecognized legacy connection type %q", ctype)
			return
		}
		child := d.FindObjectByName(n.PropString(1))
		parent := d.findLegacyParent(n.PropString(2))
		if child != nil && parent != nil {
			parent.AddChild(child, "")
		}
	}
}

// Legacy files link top level models to "Model::Scene"
func (d *Document) findLegacyParent(name string) *Object {
	if fbx.DisplayName(name) == "Scene" && d.rootModel != nil {
		return d.rootModel
	}
	return d.FindObjectByName(name)
}
