package scene

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/fbxdoc/config"
	"github.com/mogaika/fbxdoc/fbx"
)

const (
	applicationVendor  = "fbxdoc"
	applicationName    = "fbxdoc"
	applicationVersion = "1.0"
	dateTimeGMT        = "01/01/1970 00:00:00.000"

	// id of the single Documents/Document record
	documentRecordID = 999999
)

type Format int

const (
	FormatBinary Format = iota
	FormatASCII
)

func (f Format) String() string {
	if f == FormatASCII {
		return "ascii"
	}
	return "binary"
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "binary", "bin":
		return FormatBinary, nil
	case "ascii", "text":
		return FormatASCII, nil
	}
	return FormatBinary, errors.Errorf("Unknown format %q", s)
}

func (d *Document) createHeaders() {
	ext := d.CreateNode("FBXHeaderExtension")
	ext.CreateChild("FBXHeaderVersion", int32(1003))
	ext.CreateChild("FBXVersion", int32(d.version))
	ext.CreateChild("EncryptionType", int32(0))
	ts := ext.CreateChild("CreationTimeStamp")
	ts.AddNodes(
		fbx.NewNode("Version", int32(1000)),
		fbx.NewNode("Year", int32(1970)),
		fbx.NewNode("Month", int32(1)),
		fbx.NewNode("Day", int32(1)),
		fbx.NewNode("Hour", int32(10)),
		fbx.NewNode("Minute", int32(0)),
		fbx.NewNode("Second", int32(0)),
		fbx.NewNode("Millisecond", int32(0)),
	)
	ext.CreateChild("Creator", config.GetCreator())
	ext.CreateChild("OtherFlags").CreateChild("TCDefinition", int32(127))

	info := ext.CreateChild("SceneInfo", fbx.MakeFullName("GlobalInfo", "SceneInfo"), "UserData")
	info.CreateChild("Type", "UserData")
	info.CreateChild("Version", int32(100))
	meta := info.CreateChild("MetaData")
	meta.CreateChild("Version", int32(100))
	for _, name := range []string{"Title", "Subject", "Author", "Keywords", "Revision", "Comment"} {
		meta.CreateChild(name, "")
	}
	props := propertiesNode(info)
	addP(props, "DocumentUrl", "KString", "Url", "", "a.fbx")
	addP(props, "SrcDocumentUrl", "KString", "Url", "", "a.fbx")
	for _, prefix := range []string{"Original", "LastSaved"} {
		addP(props, prefix, "Compound", "", "")
		addP(props, prefix+"|ApplicationVendor", "KString", "", "", applicationVendor)
		addP(props, prefix+"|ApplicationName", "KString", "", "", applicationName)
		addP(props, prefix+"|ApplicationVersion", "KString", "", "", applicationVersion)
		addP(props, prefix+"|DateTime_GMT", "DateTime", "", "", dateTimeGMT)
	}

	d.CreateNode("FileId", fbx.FileId)
	d.CreateNode("CreationTime", fbx.CreationTime)
	d.CreateNode("Creator", config.GetCreator())

	gs := d.CreateNode("GlobalSettings")
	gs.CreateChild("Version", int32(1000))
	props = propertiesNode(gs)
	addP(props, "UpAxis", "int", "Integer", "", int32(1))
	addP(props, "UpAxisSign", "int", "Integer", "", int32(1))
	addP(props, "FrontAxis", "int", "Integer", "", int32(2))
	addP(props, "FrontAxisSign", "int", "Integer", "", int32(1))
	addP(props, "CoordAxis", "int", "Integer", "", int32(0))
	addP(props, "CoordAxisSign", "int", "Integer", "", int32(1))
	addP(props, "OriginalUpAxis", "int", "Integer", "", int32(-1))
	addP(props, "OriginalUpAxisSign", "int", "Integer", "", int32(1))
	addP(props, "UnitScaleFactor", "double", "Number", "", float64(1))
	addP(props, "OriginalUnitScaleFactor", "double", "Number", "", float64(1))
	addP(props, "AmbientColor", "ColorRGB", "Color", "", float64(0), float64(0), float64(0))
	addP(props, "DefaultCamera", "KString", "", "", "Producer Perspective")
	addP(props, "TimeMode", "enum", "", "", int32(0))
	addP(props, "TimeProtocol", "enum", "", "", int32(2))
	addP(props, "SnapOnFrameMode", "enum", "", "", int32(0))
	addP(props, "TimeSpanStart", "KTime", "Time", "", int64(0))
	addP(props, "TimeSpanStop", "KTime", "Time", "", int64(TicksPerSecond))
	addP(props, "CustomFrameRate", "double", "Number", "", float64(-1))
	addP(props, "TimeMarker", "Compound", "", "")
	addP(props, "CurrentTimeMarker", "int", "Integer", "", int32(-1))

	docs := d.CreateNode("Documents")
	docs.CreateChild("Count", int32(1))
	doc := docs.CreateChild("Document", int64(documentRecordID), "Scene", "Scene")
	props = propertiesNode(doc)
	addP(props, "SourceObject", "object", "", "")
	addP(props, "ActiveAnimStackName", "KString", "", "", d.currentTakeName())
	doc.CreateChild("RootNode", int64(0))

	d.CreateNode("References")
}

func (d *Document) currentTakeName() string {
	if take := d.CurrentTake(); take != nil {
		return take.Name()
	}
	return ""
}

func (d *Document) fillDefinitions(defs *fbx.Node) {
	defs.CreateChild("Version", int32(100))
	count := defs.CreateChild("Count", int32(1))
	total := int32(1) // GlobalSettings

	defs.CreateChild("ObjectType", "GlobalSettings").CreateChild("Count", int32(1))
	for c := ClassNodeAttribute; c <= ClassBindingTable; c++ {
		n := int32(d.countObjects(c))
		if n == 0 {
			continue
		}
		defs.CreateChild("ObjectType", c.String()).CreateChild("Count", n)
		total += n
	}
	count.Properties[0].SetInt32(total)
}

func (d *Document) createTakes() {
	takes := d.CreateNode("Takes")
	takes.CreateChild("Current", d.currentTakeName())
	for _, s := range d.AnimationStacks() {
		stack := s.AnimationStack()
		take := takes.CreateChild("Take", s.Name())
		take.CreateChild("FileName", s.Name()+".tak")
		if stack.LocalStart != 0 || stack.LocalStop != 0 {
			take.CreateChild("LocalTime", ToTicks(stack.LocalStart), ToTicks(stack.LocalStop))
		}
		if stack.ReferenceStart != 0 || stack.ReferenceStop != 0 {
			take.CreateChild("ReferenceTime", ToTicks(stack.ReferenceStart), ToTicks(stack.ReferenceStop))
		}
	}
}

// Export rebuilds node tree from objects. Hooks may create objects
// (like missing node attributes), they are exported in the same pass.
func (d *Document) Export() {
	d.nodes = nil
	d.createHeaders()
	defs := d.CreateNode("Definitions")
	objects := d.CreateNode("Objects")
	connections := d.CreateNode("Connections")

	for i := 0; i < len(d.objects); i++ {
		if o := d.objects[i]; o != nil {
			o.exportFBX(objects)
		}
	}
	for i := 0; i < len(d.objects); i++ {
		if o := d.objects[i]; o != nil {
			o.exportConnections(connections)
		}
	}

	d.fillDefinitions(defs)
	d.createTakes()
}

func (d *Document) Write(w io.Writer, format Format) error {
	d.Export()
	if format == FormatASCII {
		return d.File().WriteASCII(w)
	}
	return d.File().WriteBinary(w)
}

func (d *Document) WriteBinary(w io.Writer) error { return d.Write(w, FormatBinary) }
func (d *Document) WriteASCII(w io.Writer) error  { return d.Write(w, FormatASCII) }

func (d *Document) WriteFile(path string, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "Failed to create dir for %q", path)
	}
	fl, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create %q", path)
	}
	defer fl.Close()

	bw := bufio.NewWriter(fl)
	if err := d.Write(bw, format); err != nil {
		return errors.Wrapf(err, "Failed to write %q", path)
	}
	return bw.Flush()
}
