package readat

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Error is the panic value raised by *P readers on short or failed reads
type Error struct {
	Offset int64
	Size   int
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("read of %d bytes at 0x%x failed: %v", e.Size, e.Offset, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Reader struct {
	source io.ReaderAt
	offset int64
}

func NewReader(source io.ReaderAt, offset int64) *Reader {
	return &Reader{
		source: source,
		offset: offset,
	}
}

func (r *Reader) Offset() int64 {
	return r.offset
}

func (r *Reader) SubReader(offset int64) *Reader {
	return &Reader{
		source: r.source,
		offset: r.offset + offset,
	}
}

func (r *Reader) ReadAt(p []byte, off int64) (n int, err error) {
	return r.source.ReadAt(p, r.offset+off)
}

// ReadAtP panics with *Error when p cannot be filled completely
func (r *Reader) ReadAtP(p []byte, off int64) int {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return n
	}
	if err == nil || err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	panic(&Error{Offset: r.offset + off, Size: len(p), Err: err})
}

func (r *Reader) ReadAtBP(size int64, off int64) ([]byte, int) {
	if size < 0 {
		panic(&Error{Offset: r.offset + off, Size: int(size), Err: io.ErrUnexpectedEOF})
	}
	buffer := make([]byte, size)
	return buffer, r.ReadAtP(buffer, off)
}

func (r *Reader) ReadU64LE(off int64) uint64 {
	var b [8]byte
	r.ReadAtP(b[:], off)
	return binary.LittleEndian.Uint64(b[:])
}
func (r *Reader) ReadI64LE(off int64) int64 { return int64(r.ReadU64LE(off)) }

func (r *Reader) ReadU32LE(off int64) uint32 {
	var b [4]byte
	r.ReadAtP(b[:], off)
	return binary.LittleEndian.Uint32(b[:])
}
func (r *Reader) ReadI32LE(off int64) int32 { return int32(r.ReadU32LE(off)) }

func (r *Reader) ReadU16LE(off int64) uint16 {
	var b [2]byte
	r.ReadAtP(b[:], off)
	return binary.LittleEndian.Uint16(b[:])
}
func (r *Reader) ReadI16LE(off int64) int16 { return int16(r.ReadU16LE(off)) }

func (r *Reader) ReadU8(off int64) uint8 {
	var b [1]byte
	r.ReadAtP(b[:], off)
	return b[0]
}

func (r *Reader) ReadF32LE(off int64) float32 { return math.Float32frombits(r.ReadU32LE(off)) }
func (r *Reader) ReadF64LE(off int64) float64 { return math.Float64frombits(r.ReadU64LE(off)) }
