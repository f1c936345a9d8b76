package fbx

import (
	"bytes"
	"io"

	"github.com/mogaika/fbxdoc/readat"
)

const (
	Version2014 = 7400
	Version2016 = 7500
	Version2019 = 7700

	// Starting with this version record headers use 64 bit fields
	Version64BitHeaders = Version2016
)

// Constants below are checked by other readers, they must stay byte exact
var (
	headerMagic = []byte("Kaydara FBX Binary  \x00\x1a\x00")

	footerMagic1 = []byte{
		0xfa, 0xbc, 0xab, 0x09, 0xd0, 0xc8, 0xd4, 0x66,
		0xb1, 0x76, 0xfb, 0x83, 0x1c, 0xf7, 0x26, 0x7e}
	footerMagic2 = []byte{
		0xf8, 0x5a, 0x8c, 0x6a, 0xde, 0xf5, 0xd9, 0x7e,
		0xec, 0xe9, 0x0c, 0xe3, 0x75, 0x8f, 0x29, 0x0b}

	FileId = []byte{
		0x28, 0xb3, 0x2a, 0xeb, 0xb6, 0x24, 0xcc, 0xc2,
		0xbf, 0xc8, 0xb0, 0x2a, 0xa9, 0x2b, 0xfc, 0xf1}
)

const CreationTime = "1970-01-01 10:00:00:000"

const footerReservedSize = 120

// File is the raw container: version and top level records
type File struct {
	Version uint32
	Nodes   []*Node
}

func NewFile(version uint32) *File {
	return &File{Version: version}
}

func (f *File) GetNode(name string) *Node {
	for _, n := range f.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// IsASCII reports whether data starts with comment after optional whitespace
func IsASCII(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) != 0 && trimmed[0] == ';'
}

// Read detects encoding and parses container
func Read(data []byte) (*File, error) {
	if IsASCII(data) {
		return ReadASCII(data)
	}
	return ReadBinary(data)
}

func ReadFrom(r io.Reader) (*File, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, newError(ErrIO, err, "failed to read stream")
	}
	return Read(buf.Bytes())
}

func ReadBinary(data []byte) (f *File, err error) {
	if len(data) < len(headerMagic)+4 || !bytes.Equal(data[:len(headerMagic)], headerMagic) {
		log.Warnf("Not a binary fbx file")
		return nil, newError(ErrBadMagic, nil, "not a binary fbx file")
	}

	defer func() {
		if e := recoverError(recover()); e != nil {
			f, err = nil, e
		}
	}()

	d := &binReader{
		r:    readat.NewReader(bytes.NewReader(data), 0),
		size: int64(len(data)),
	}
	pos := int64(len(headerMagic))
	d.version = d.r.ReadU32LE(pos)
	pos += 4

	f = NewFile(d.version)
	for pos < d.size {
		n := &Node{}
		pos += d.readNode(n, pos)
		if n.IsNull() {
			break
		}
		f.Nodes = append(f.Nodes, n)
	}
	return f, nil
}

func (f *File) WriteBinary(w io.Writer) error {
	bw := newBinWriter(w)
	bw.write(headerMagic)
	bw.u32(f.Version)

	for _, n := range f.Nodes {
		bw.writeNode(n, f.Version)
	}
	bw.writeNode(&Node{}, f.Version)

	bw.write(footerMagic1)
	// full 16 bytes of padding when already aligned
	bw.zeros(16 - bw.pos%16)
	bw.u32(0)
	bw.u32(f.Version)
	bw.zeros(footerReservedSize)
	bw.write(footerMagic2)
	return bw.err
}
