package fbx

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Root records that only make sense in binary files
var asciiSkipNodes = map[string]bool{
	"FileId":       true,
	"CreationTime": true,
	"Creator":      true,
}

var asciiEscaper = strings.NewReplacer("\"", "&quot;", "\n", "&lf;", "\r", "&cr;")
var asciiUnescaper = strings.NewReplacer("&quot;", "\"", "&lf;", "\n", "&cr;", "\r")

type asciiWriter struct {
	tabs int
	w    *bufio.Writer
}

func (e *asciiWriter) fillTabs(diff int) {
	for i := 0; i < e.tabs+diff; i++ {
		e.w.WriteByte('\t')
	}
}

func (e *asciiWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(e.w, format, args...)
}

func (e *asciiWriter) print(s string) {
	e.w.WriteString(s)
}

func formatFloat(v float64, bits int) string {
	return strconv.FormatFloat(v, 'g', -1, bits)
}

func (p *Property) asciiElement(i int) string {
	switch p.typ {
	case PropertyFloat32Array:
		return formatFloat(p.elemFloat(i), 32)
	case PropertyFloat64Array:
		return formatFloat(p.elemFloat(i), 64)
	default:
		return strconv.FormatInt(p.elemInt(i), 10)
	}
}

// ASCIIString renders scalar property, arrays are written by asciiWriter
func (p *Property) ASCIIString() string {
	switch p.typ {
	case PropertyBool:
		if p.Bool() {
			return "Y"
		}
		return "T"
	case PropertyInt16, PropertyInt32, PropertyInt64:
		return strconv.FormatInt(p.scalarInt(), 10)
	case PropertyFloat32:
		return formatFloat(p.scalarFloat(), 32)
	case PropertyFloat64:
		return formatFloat(p.scalarFloat(), 64)
	case PropertyString:
		return "\"" + asciiEscaper.Replace(ASCIIName(string(p.data))) + "\""
	case PropertyBlob:
		return "\"" + base64.StdEncoding.EncodeToString(p.data) + "\""
	}
	if p.typ.IsArray() {
		var sb strings.Builder
		fmt.Fprintf(&sb, "*%d {a: ", p.ArraySize())
		for i := 0; i < p.ArraySize(); i++ {
			if i != 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(p.asciiElement(i))
		}
		sb.WriteString("}")
		return sb.String()
	}
	return ""
}

func (e *asciiWriter) writeArray(p *Property) {
	e.printf("*%d {\n", p.ArraySize())
	e.fillTabs(1)
	e.print("a: ")
	for i := 0; i < p.ArraySize(); i++ {
		if i != 0 {
			e.print(",")
		}
		e.print(p.asciiElement(i))
	}
	e.print("\n")
	e.fillTabs(0)
	e.print("}")
}

func (e *asciiWriter) writeNode(n *Node) {
	e.fillTabs(0)
	e.printf("%s:", n.Name)

	written := 0
	for _, p := range n.Properties {
		if !p.typ.Valid() {
			log.Warnf("Skipping property of unknown type %q in %q", byte(p.typ), n.Name)
			continue
		}
		if written != 0 {
			e.print(",")
		}
		written++
		e.print(" ")
		if p.IsArray() {
			e.writeArray(p)
		} else {
			e.print(p.ASCIIString())
		}
	}

	if len(n.Nodes) != 0 || len(n.Properties) == 0 {
		e.print(" {\n")
		e.tabs++
		for _, c := range n.Nodes {
			e.writeNode(c)
		}
		e.tabs--
		e.fillTabs(0)
		e.print("}")
	}
	e.print("\n")
}

// WriteASCII writes single record with its children in text form
func (n *Node) WriteASCII(w io.Writer) error {
	bw := bufio.NewWriter(w)
	e := asciiWriter{w: bw}
	e.writeNode(n)
	return bw.Flush()
}

func (f *File) WriteASCII(w io.Writer) error {
	bw := bufio.NewWriter(w)
	e := asciiWriter{w: bw}

	e.printf("; FBX %d.%d.0 project file\n", f.Version/1000%10, f.Version/100%10)
	e.print("; ----------------------------------------------------\n\n")

	for _, n := range f.Nodes {
		if asciiSkipNodes[n.Name] {
			continue
		}
		e.writeNode(n)
		e.print("\n")
	}
	return bw.Flush()
}
