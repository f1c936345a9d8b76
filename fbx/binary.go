package fbx

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/mogaika/fbxdoc/readat"
	"github.com/mogaika/fbxdoc/utils"
)

// Record name length is stored in one byte
const MaxNameLength = 255

// Arrays with raw payload of this size or more are stored deflated
const CompressionThreshold = 128

const (
	arrayEncodingRaw  = 0
	arrayEncodingZlib = 1
)

// inflated arrays cannot be bigger than this relative to stored size
const maxInflateRatio = 1032

type binReader struct {
	r       *readat.Reader
	size    int64
	version uint32
}

func (d *binReader) need(off, n int64) {
	if n < 0 || off+n > d.size {
		panic(newError(ErrTruncated, nil, "need %d bytes at 0x%x, data size 0x%x", n, off, d.size))
	}
}

func (d *binReader) readProperty(p *Property, off int64) int64 {
	pos := off
	d.need(pos, 1)
	p.typ = PropertyType(d.r.ReadU8(pos))
	pos++

	switch {
	case p.typ == PropertyString || p.typ == PropertyBlob:
		d.need(pos, 4)
		size := int64(d.r.ReadU32LE(pos))
		pos += 4
		d.need(pos, size)
		p.data, _ = d.r.ReadAtBP(size, pos)
		pos += size
	case !p.typ.Valid():
		log.Warnf("Unknown property type %q at 0x%x", byte(p.typ), off)
		p.typ = PropertyUnknown
	case !p.typ.IsArray():
		size := int64(p.typ.ElementSize())
		d.need(pos, size)
		switch size {
		case 1:
			p.scalar = uint64(d.r.ReadU8(pos))
		case 2:
			p.scalar = uint64(d.r.ReadU16LE(pos))
		case 4:
			p.scalar = uint64(d.r.ReadU32LE(pos))
		case 8:
			p.scalar = d.r.ReadU64LE(pos)
		}
		pos += size
	default:
		d.need(pos, 12)
		count := int64(d.r.ReadU32LE(pos))
		encoding := d.r.ReadU32LE(pos + 4)
		stored := int64(d.r.ReadU32LE(pos + 8))
		pos += 12

		d.need(pos, stored)
		raw, _ := d.r.ReadAtBP(stored, pos)
		pos += stored

		size := count * int64(p.typ.ElementSize())
		switch encoding {
		case arrayEncodingRaw:
			if int64(len(raw)) != size {
				panic(newError(ErrTruncated, nil, "array at 0x%x: %d elements in %d bytes", off, count, stored))
			}
			p.data = raw
		case arrayEncodingZlib:
			if size > (stored+1)*maxInflateRatio {
				panic(newError(ErrCompression, nil, "array at 0x%x: %d bytes cannot inflate from %d", off, size, stored))
			}
			p.data = inflate(raw, size, off)
		default:
			panic(newError(ErrCompression, nil, "array at 0x%x: unknown encoding %d", off, encoding))
		}
	}
	return pos - off
}

func inflate(raw []byte, size int64, off int64) []byte {
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		panic(newError(ErrCompression, err, "array at 0x%x", off))
	}
	defer zr.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(zr, out); err != nil {
		panic(newError(ErrCompression, err, "array at 0x%x", off))
	}
	return out
}

// headerSize is size of fixed record header including name length byte
func headerSize(version uint32) int64 {
	if version >= Version64BitHeaders {
		return 25
	}
	return 13
}

func (d *binReader) readHeaderField(off int64) (uint64, int64) {
	if d.version >= Version64BitHeaders {
		d.need(off, 8)
		return d.r.ReadU64LE(off), 8
	}
	d.need(off, 4)
	return uint64(d.r.ReadU32LE(off)), 4
}

// readNode parses record at off and returns number of consumed bytes
func (d *binReader) readNode(n *Node, off int64) int64 {
	pos := off
	endOffset, sz := d.readHeaderField(pos)
	pos += sz
	propCount, sz := d.readHeaderField(pos)
	pos += sz
	_, sz = d.readHeaderField(pos)
	pos += sz

	d.need(pos, 1)
	nameLen := int64(d.r.ReadU8(pos))
	pos++
	d.need(pos, nameLen)
	name, _ := d.r.ReadAtBP(nameLen, pos)
	n.Name = string(name)
	pos += nameLen

	if endOffset == 0 {
		// null record
		return pos - off
	}
	if int64(endOffset) > d.size || int64(endOffset) < pos {
		panic(newError(ErrTruncated, nil, "node %q at 0x%x ends at 0x%x", utils.DumpToOneLineString(name), off, endOffset))
	}

	// every property takes at least its tag byte
	if limit := uint64(int64(endOffset) - pos); propCount > limit {
		panic(newError(ErrTruncated, nil, "node %q at 0x%x: %d properties do not fit in %d bytes", utils.DumpToOneLineString(name), off, propCount, limit))
	}
	n.Properties = make([]*Property, 0, propCount)
	for i := uint64(0); i < propCount; i++ {
		p := &Property{}
		pos += d.readProperty(p, pos)
		if p.typ != PropertyUnknown {
			n.Properties = append(n.Properties, p)
		}
	}

	for pos < int64(endOffset) {
		child := &Node{}
		pos += d.readNode(child, pos)
		if !child.IsNull() {
			n.AddNodes(child)
		}
	}
	return pos - off
}

// binWriter keeps first error and running position.
// Compressed arrays are cached so counting pass and real pass deflate once.
type binWriter struct {
	w     io.Writer
	pos   int64
	err   error
	cache map[*Property][]byte
	buf   [8]byte
}

func newBinWriter(w io.Writer) *binWriter {
	return &binWriter{w: w, cache: make(map[*Property][]byte)}
}

// counter returns sink writer sharing compression cache
func (w *binWriter) counter() *binWriter {
	return &binWriter{w: &utils.CountingWriter{}, cache: w.cache}
}

func (w *binWriter) write(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(b)
	w.pos += int64(n)
	w.err = err
}

func (w *binWriter) u8(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

func (w *binWriter) u16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:], v)
	w.write(w.buf[:2])
}

func (w *binWriter) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:], v)
	w.write(w.buf[:4])
}

func (w *binWriter) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:], v)
	w.write(w.buf[:8])
}

func (w *binWriter) zeros(n int64) {
	var z [32]byte
	for n > 0 {
		c := n
		if c > int64(len(z)) {
			c = int64(len(z))
		}
		w.write(z[:c])
		n -= c
	}
}

func (w *binWriter) headerField(v uint64, version uint32) {
	if version >= Version64BitHeaders {
		w.u64(v)
	} else {
		w.u32(uint32(v))
	}
}

func (w *binWriter) deflate(p *Property) []byte {
	if c, ok := w.cache[p]; ok {
		return c
	}
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(p.data); err != nil && w.err == nil {
		w.err = err
	}
	if err := zw.Close(); err != nil && w.err == nil {
		w.err = err
	}
	w.cache[p] = buf.Bytes()
	return buf.Bytes()
}

func (w *binWriter) writeProperty(p *Property) {
	switch {
	case p.typ == PropertyString || p.typ == PropertyBlob:
		w.u8(byte(p.typ))
		w.u32(uint32(len(p.data)))
		w.write(p.data)
	case !p.typ.Valid():
		log.Warnf("Skipping property of unknown type %q", byte(p.typ))
	case !p.typ.IsArray():
		w.u8(byte(p.typ))
		switch p.typ.ElementSize() {
		case 1:
			w.u8(uint8(p.scalar))
		case 2:
			w.u16(uint16(p.scalar))
		case 4:
			w.u32(uint32(p.scalar))
		case 8:
			w.u64(p.scalar)
		}
	default:
		w.u8(byte(p.typ))
		w.u32(uint32(p.ArraySize()))
		if len(p.data) >= CompressionThreshold {
			c := w.deflate(p)
			w.u32(arrayEncodingZlib)
			w.u32(uint32(len(c)))
			w.write(c)
		} else {
			w.u32(arrayEncodingRaw)
			w.u32(uint32(len(p.data)))
			w.write(p.data)
		}
	}
}

// needsNullRecord tells if child list of n is closed with null record
func (n *Node) needsNullRecord() bool {
	return len(n.Nodes) != 0 || len(n.Properties) == 0 || n.forceNullTerminate
}

func (w *binWriter) writeNode(n *Node, version uint32) {
	hsize := headerSize(version)
	if n.IsNull() {
		w.zeros(hsize)
		return
	}
	if len(n.Name) > MaxNameLength {
		if w.err == nil {
			w.err = errors.Errorf("node name %q is %d bytes, limit is %d", utils.DumpToOneLineString([]byte(n.Name)), len(n.Name), MaxNameLength)
		}
		return
	}

	props := w.counter()
	for _, p := range n.Properties {
		props.writeProperty(p)
	}

	children := w.counter()
	for _, c := range n.Nodes {
		children.writeNode(c, version)
	}
	if n.needsNullRecord() {
		children.zeros(hsize)
	}

	propCount := 0
	for _, p := range n.Properties {
		if p.typ.Valid() {
			propCount++
		}
	}

	end := w.pos + hsize + int64(len(n.Name)) + props.pos + children.pos
	w.headerField(uint64(end), version)
	w.headerField(uint64(propCount), version)
	w.headerField(uint64(props.pos), version)
	w.u8(uint8(len(n.Name)))
	w.write([]byte(n.Name))

	for _, p := range n.Properties {
		w.writeProperty(p)
	}
	for _, c := range n.Nodes {
		w.writeNode(c, version)
	}
	if n.needsNullRecord() {
		w.zeros(hsize)
	}
}
