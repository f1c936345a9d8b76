package fbx

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeBytes(t *testing.T, n *Node, version uint32) []byte {
	var buf bytes.Buffer
	w := newBinWriter(&buf)
	w.writeNode(n, version)
	require.NoError(t, w.err)
	return buf.Bytes()
}

func TestNodeWithPropertiesOnlyHasNoNullRecord(t *testing.T) {
	n := NewNode("Version", int32(232))
	data := nodeBytes(t, n, Version2014)

	// 13 header + 7 name + 5 property
	require.Len(t, data, 25)
	assert.Equal(t, uint32(25), binary.LittleEndian.Uint32(data[0:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[4:]))
	assert.Equal(t, uint32(5), binary.LittleEndian.Uint32(data[8:]))
	assert.Equal(t, byte(7), data[12])
	assert.Equal(t, "Version", string(data[13:20]))
}

func TestNullRecordRules(t *testing.T) {
	empty := NewNode("References")
	assert.Len(t, nodeBytes(t, empty, Version2014), 13+10+13)

	parent := NewNode("Objects")
	parent.CreateChild("Version", int32(1))
	// child 13+7+5, null record 13
	assert.Len(t, nodeBytes(t, parent, Version2014), 13+7+25+13)

	forced := NewNode("Count", int32(1))
	forced.SetForceNullTerminate(true)
	assert.Len(t, nodeBytes(t, forced, Version2014), 13+5+5+13)

	assert.Equal(t, make([]byte, 25), nodeBytes(t, &Node{}, Version2016))
	assert.Equal(t, make([]byte, 13), nodeBytes(t, &Node{}, Version2014))
}

func TestHeaderWidthByVersion(t *testing.T) {
	n := NewNode("Objects")
	n.CreateChild("Model", int64(1), MakeFullName("Cube", "Model"), "Mesh")

	old := nodeBytes(t, n, Version2014)
	wide := nodeBytes(t, n, Version2016)
	// two headers and one null record grow by 12 bytes each
	assert.Equal(t, len(old)+36, len(wide))
	assert.Equal(t, uint64(len(wide)), binary.LittleEndian.Uint64(wide[0:]))
}

func TestNodeRoundTrip(t *testing.T) {
	for _, version := range []uint32{Version2014, Version2016, Version2019} {
		root := NewNode("Objects")
		m := root.CreateChild("Model", int64(100), MakeFullName("Cube", "Model"), "Mesh")
		m.CreateChild("Version", int32(232))
		p70 := m.CreateChild("Properties70")
		p70.CreateChild("P", "Lcl Translation", "Lcl Translation", "", "A", 1.0, 2.0, 3.0)
		root.CreateChild("Geometry", int64(101), MakeFullName("Cube", "Geometry"), "Mesh").
			CreateChild("Vertices", make([]float64, 300))
		root.CreateChild("Empty")

		data := nodeBytes(t, root, version)
		d := &binReader{r: newTestReader(data), size: int64(len(data)), version: version}
		r := &Node{}
		assert.Equal(t, int64(len(data)), d.readNode(r, 0))
		assertNodesEqual(t, root, r)
		assert.Same(t, r, r.Nodes[0].Parent())
	}
}

func TestContainerFooter(t *testing.T) {
	for _, test := range []struct {
		version uint32
		size    int
		pad     int
	}{
		// 27 + 13 + 16 = 56, padded by 8
		{Version2014, 208, 8},
		// 27 + 25 + 16 = 68, padded by 12
		{Version2019, 224, 12},
	} {
		var buf bytes.Buffer
		require.NoError(t, NewFile(test.version).WriteBinary(&buf))
		data := buf.Bytes()
		require.Len(t, data, test.size)

		assert.Equal(t, headerMagic, data[:23])
		assert.Equal(t, test.version, binary.LittleEndian.Uint32(data[23:]))
		footer := len(data) - 16 - 120 - 8 - test.pad - 16
		assert.Equal(t, footerMagic1, data[footer:footer+16])
		assert.Equal(t, make([]byte, test.pad), data[footer+16:footer+16+test.pad])
		tail := data[footer+16+test.pad:]
		assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(tail[0:]))
		assert.Equal(t, test.version, binary.LittleEndian.Uint32(tail[4:]))
		assert.Equal(t, make([]byte, 120), tail[8:128])
		assert.Equal(t, footerMagic2, tail[128:])

		f, err := ReadBinary(data)
		require.NoError(t, err)
		assert.Equal(t, test.version, f.Version)
		assert.Empty(t, f.Nodes)
	}
}

func TestAlignedFooterGetsFullPadding(t *testing.T) {
	n := NewNode("ABCDEFGHIJKLMNOPQ", int32(1))
	f := &File{Version: Version2014, Nodes: []*Node{n}}
	var buf bytes.Buffer
	require.NoError(t, f.WriteBinary(&buf))
	// 27 + 35 + 13 + 16 = 91 -> padding 5
	assert.Equal(t, 91+5+4+4+120+16, buf.Len())

	n.Name = "ABCDEFGHIJKLMNOPQRSTU"
	buf.Reset()
	require.NoError(t, f.WriteBinary(&buf))
	// 27 + 39 + 13 + 16 = 95 -> padding 1
	assert.Equal(t, 95+1+4+4+120+16, buf.Len())

	n.Name = "ABCDEFGHIJKLMNOPQRSTUV"
	buf.Reset()
	require.NoError(t, f.WriteBinary(&buf))
	// 27 + 40 + 13 + 16 = 96 is aligned, padding is 16
	assert.Equal(t, 96+16+4+4+120+16, buf.Len())
}

func TestReadBinaryErrors(t *testing.T) {
	_, err := ReadBinary([]byte("Kaydara FBX Ascii"))
	assert.Equal(t, ErrBadMagic, ErrorKindOf(err))

	f := NewFile(Version2019)
	f.Nodes = append(f.Nodes, NewNode("Objects").AddNodes(NewNode("Model", int64(1), "a", "b")))
	var buf bytes.Buffer
	require.NoError(t, f.WriteBinary(&buf))

	_, err = ReadBinary(buf.Bytes()[:60])
	assert.Equal(t, ErrTruncated, ErrorKindOf(err))

	data := append([]byte(nil), buf.Bytes()...)
	r, err := Read(data)
	require.NoError(t, err)
	require.Len(t, r.Nodes, 1)
	assertNodesEqual(t, f.Nodes[0], r.Nodes[0])
}

func TestCorruptDeflatedArray(t *testing.T) {
	p := NewProperty(make([]int64, 64))
	data := writeProperty(t, p)
	data[13] ^= 0xff

	defer func() {
		e := recoverError(recover())
		require.NotNil(t, e)
		assert.Equal(t, ErrCompression, e.Kind)
	}()
	readProperty(t, data)
}

func TestHugePropertyCount(t *testing.T) {
	for _, test := range []struct {
		version uint32
		count   uint64
	}{
		{Version2019, 1 << 62},
		{Version2019, 0xffffffff},
		{Version2014, 0xffffffff},
	} {
		f := NewFile(test.version)
		f.Nodes = append(f.Nodes, NewNode("Creator", "test"))
		var buf bytes.Buffer
		require.NoError(t, f.WriteBinary(&buf))

		data := buf.Bytes()
		// prop_count follows end_offset of first record
		off := len(headerMagic) + 4
		if test.version >= Version64BitHeaders {
			binary.LittleEndian.PutUint64(data[off+8:], test.count)
		} else {
			binary.LittleEndian.PutUint32(data[off+4:], uint32(test.count))
		}

		_, err := ReadBinary(data)
		require.Error(t, err, "version %d count %d", test.version, test.count)
		assert.Equal(t, ErrTruncated, ErrorKindOf(err))
	}
}

func TestLongNameIsRejected(t *testing.T) {
	f := NewFile(Version2019)
	f.Nodes = append(f.Nodes,
		NewNode(string(bytes.Repeat([]byte("n"), MaxNameLength+45)), int32(1)),
		NewNode("Creator", "test"),
	)
	var buf bytes.Buffer
	assert.Error(t, f.WriteBinary(&buf))

	f.Nodes[0].Name = string(bytes.Repeat([]byte("n"), MaxNameLength))
	buf.Reset()
	require.NoError(t, f.WriteBinary(&buf))
	r, err := ReadBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, r.Nodes, 2)
	assert.Equal(t, f.Nodes[0].Name, r.Nodes[0].Name)

	// nested record fails whole file too
	f.Nodes[1].CreateChild(string(bytes.Repeat([]byte("c"), 300)))
	buf.Reset()
	assert.Error(t, f.WriteBinary(&buf))
}
