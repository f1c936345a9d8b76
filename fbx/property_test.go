package fbx

import (
	"bytes"
	"encoding/binary"
	"io/ioutil"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/fbxdoc/readat"
)

func writeProperty(t *testing.T, p *Property) []byte {
	var buf bytes.Buffer
	w := newBinWriter(&buf)
	w.writeProperty(p)
	require.NoError(t, w.err)
	return buf.Bytes()
}

func readProperty(t *testing.T, data []byte) *Property {
	d := &binReader{r: readat.NewReader(bytes.NewReader(data), 0), size: int64(len(data))}
	p := &Property{}
	assert.Equal(t, int64(len(data)), d.readProperty(p, 0))
	return p
}

func TestPropertyTypeTags(t *testing.T) {
	for _, typ := range []PropertyType{PropertyBoolArray, PropertyInt16Array, PropertyInt32Array,
		PropertyInt64Array, PropertyFloat32Array, PropertyFloat64Array} {
		assert.True(t, typ.IsArray(), typ.String())
		assert.Equal(t, typ, typ.ElementType().ArrayType())
	}
	for _, typ := range []PropertyType{PropertyBool, PropertyInt16, PropertyInt32, PropertyInt64,
		PropertyFloat32, PropertyFloat64, PropertyString, PropertyBlob} {
		assert.False(t, typ.IsArray(), typ.String())
	}
	assert.Equal(t, 8, PropertyFloat64Array.ElementSize())
	assert.Equal(t, 2, PropertyInt16.ElementSize())
	assert.Equal(t, "int32[]", PropertyInt32Array.String())
}

func TestArrayBelowThresholdIsRaw(t *testing.T) {
	src := make([]int32, 31)
	for i := range src {
		src[i] = int32(i * 3)
	}
	p := NewProperty(src)
	require.Equal(t, 124, len(p.Data()))

	data := writeProperty(t, p)
	assert.Equal(t, byte('i'), data[0])
	assert.Equal(t, uint32(31), binary.LittleEndian.Uint32(data[1:]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[5:]))
	assert.Equal(t, uint32(124), binary.LittleEndian.Uint32(data[9:]))
	assert.Equal(t, p.Data(), data[13:])

	assert.Equal(t, src, readProperty(t, data).Int32Array())
}

func TestArrayAtThresholdIsDeflated(t *testing.T) {
	src := make([]float64, 16)
	for i := range src {
		src[i] = float64(i) * 0.5
	}
	p := NewProperty(src)
	require.Equal(t, CompressionThreshold, len(p.Data()))

	data := writeProperty(t, p)
	assert.Equal(t, byte('d'), data[0])
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(data[1:]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[5:]))
	stored := binary.LittleEndian.Uint32(data[9:])
	assert.Equal(t, int(stored), len(data)-13)

	zr, err := zlib.NewReader(bytes.NewReader(data[13:]))
	require.NoError(t, err)
	inflated, err := ioutil.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, p.Data(), inflated)

	assert.Equal(t, src, readProperty(t, data).Float64Array())
}

func TestScalarRoundTrip(t *testing.T) {
	values := []interface{}{
		true, false, int16(-7), int32(-100000), int64(1) << 40,
		float32(1.5), float64(-2.25), "Model", []byte{1, 2, 3},
		[]bool{true, false}, []int16{1, -1}, []int64{46186158000},
	}
	for _, v := range values {
		p := NewProperty(v)
		require.NotNil(t, p)
		r := readProperty(t, writeProperty(t, p))
		assert.True(t, p.Equal(r), "%T %v", v, v)
		assert.Equal(t, v, r.Value())
	}
}

func TestUnsupportedValue(t *testing.T) {
	assert.Nil(t, NewProperty(struct{}{}))
	n := NewNode("P", "a", struct{}{}, int32(1))
	assert.Len(t, n.Properties, 2)
}

func TestBoolStorage(t *testing.T) {
	p := NewProperty(true)
	assert.Equal(t, []byte{'C', 'Y'}, writeProperty(t, p))
	p.SetBool(false)
	assert.Equal(t, []byte{'C', 'T'}, writeProperty(t, p))
	assert.False(t, p.Bool())

	// some writers store plain 1
	assert.True(t, readProperty(t, []byte{'C', 1}).Bool())
}

func TestUnknownTagConsumesTagByte(t *testing.T) {
	d := &binReader{r: readat.NewReader(bytes.NewReader([]byte{'Z', 0, 0}), 0), size: 3}
	p := &Property{}
	assert.Equal(t, int64(1), d.readProperty(p, 0))
	assert.Equal(t, PropertyUnknown, p.Type())
}

func TestLazyNarrowing(t *testing.T) {
	p := NewProperty(float64(42.75))
	assert.Equal(t, int32(42), p.Int32())
	assert.Equal(t, PropertyInt32, p.Type())

	a := NewProperty([]float64{1.5, 2.5})
	assert.Equal(t, []float32{1.5, 2.5}, a.Float32Array())
	assert.Equal(t, PropertyFloat32Array, a.Type())
	// widening reads do not touch stored type
	assert.Equal(t, []float64{1.5, 2.5}, a.Float64Array())
	assert.Equal(t, PropertyFloat32Array, a.Type())
}

func TestConvertUnsupported(t *testing.T) {
	p := NewProperty(int32(5))
	assert.False(t, p.Convert(PropertyFloat64))
	assert.Equal(t, PropertyInt32, p.Type())

	s := NewProperty("x")
	assert.False(t, s.Convert(PropertyInt32))
	assert.Equal(t, "x", s.StringValue())

	d := NewProperty(float64(3))
	assert.False(t, d.Convert(PropertyFloat32Array))
	assert.True(t, d.Convert(PropertyInt64))
	assert.Equal(t, int64(3), d.Value())
}

func TestPackUnpack(t *testing.T) {
	n := NewNode("Vertices", float64(1), float64(2), float64(3))
	packed := PackArray(n.Properties, PropertyFloat64)
	require.NotNil(t, packed)
	assert.Equal(t, PropertyFloat64Array, packed.Type())
	assert.Equal(t, []float64{1, 2, 3}, packed.Float64Array())

	parts := packed.Unpack()
	require.Len(t, parts, 3)
	for i, p := range parts {
		assert.True(t, n.Properties[i].Equal(p))
	}

	assert.Nil(t, PackArray(n.Properties, PropertyString))
}

func TestASCIIString(t *testing.T) {
	assert.Equal(t, `"a&quot;b&lf;c&cr;"`, NewProperty("a\"b\nc\r").ASCIIString())
	assert.Equal(t, `"Model::Cube"`, NewProperty(MakeFullName("Cube", "Model")).ASCIIString())
	assert.Equal(t, "0.1", NewProperty(float32(0.1)).ASCIIString())
	assert.Equal(t, "-5", NewProperty(int64(-5)).ASCIIString())
	assert.Equal(t, "Y", NewProperty(true).ASCIIString())
	assert.Equal(t, `"AQID"`, NewProperty([]byte{1, 2, 3}).ASCIIString())
	assert.Equal(t, "*2 {a: 1,2}", NewProperty([]int32{1, 2}).ASCIIString())
}
