package fbx

import (
	"encoding/binary"
	"math"

	"github.com/mogaika/fbxdoc/utils"
)

var log = utils.Log("fbx")

type PropertyType byte

const (
	PropertyUnknown      PropertyType = 0
	PropertyBool         PropertyType = 'C'
	PropertyInt16        PropertyType = 'Y'
	PropertyInt32        PropertyType = 'I'
	PropertyInt64        PropertyType = 'L'
	PropertyFloat32      PropertyType = 'F'
	PropertyFloat64      PropertyType = 'D'
	PropertyString       PropertyType = 'S'
	PropertyBlob         PropertyType = 'R'
	PropertyBoolArray    PropertyType = 'b'
	PropertyInt16Array   PropertyType = 'y'
	PropertyInt32Array   PropertyType = 'i'
	PropertyInt64Array   PropertyType = 'l'
	PropertyFloat32Array PropertyType = 'f'
	PropertyFloat64Array PropertyType = 'd'
)

// Array tags are lower case letters
func (t PropertyType) IsArray() bool { return t > 'Z' }

func (t PropertyType) ElementSize() int {
	switch t {
	case PropertyBool, PropertyBoolArray, PropertyString, PropertyBlob:
		return 1
	case PropertyInt16, PropertyInt16Array:
		return 2
	case PropertyInt32, PropertyInt32Array, PropertyFloat32, PropertyFloat32Array:
		return 4
	case PropertyInt64, PropertyInt64Array, PropertyFloat64, PropertyFloat64Array:
		return 8
	default:
		return 0
	}
}

func (t PropertyType) Valid() bool { return t.ElementSize() != 0 }

var arrayTypes = map[PropertyType]PropertyType{
	PropertyBool:    PropertyBoolArray,
	PropertyInt16:   PropertyInt16Array,
	PropertyInt32:   PropertyInt32Array,
	PropertyInt64:   PropertyInt64Array,
	PropertyFloat32: PropertyFloat32Array,
	PropertyFloat64: PropertyFloat64Array,
}

// ArrayType maps scalar numeric type to its array type
func (t PropertyType) ArrayType() PropertyType {
	if t.IsArray() {
		return t
	}
	return arrayTypes[t]
}

// ElementType maps array type to scalar type of its elements
func (t PropertyType) ElementType() PropertyType {
	if !t.IsArray() {
		return t
	}
	for s, a := range arrayTypes {
		if a == t {
			return s
		}
	}
	return PropertyUnknown
}

func (t PropertyType) isFloat() bool {
	switch t.ElementType() {
	case PropertyFloat32, PropertyFloat64:
		return true
	}
	return false
}

func (t PropertyType) isNumeric() bool {
	return t.Valid() && t != PropertyString && t != PropertyBlob
}

func (t PropertyType) String() string {
	switch t {
	case PropertyBool:
		return "bool"
	case PropertyInt16:
		return "int16"
	case PropertyInt32:
		return "int32"
	case PropertyInt64:
		return "int64"
	case PropertyFloat32:
		return "float32"
	case PropertyFloat64:
		return "float64"
	case PropertyString:
		return "string"
	case PropertyBlob:
		return "blob"
	}
	if t.IsArray() && t.ElementType() != PropertyUnknown {
		return t.ElementType().String() + "[]"
	}
	return "unknown"
}

// Property is one typed value of a node.
// Scalars live in the inline slot, strings, blobs and arrays in data
// as raw little endian elements.
type Property struct {
	typ    PropertyType
	scalar uint64
	data   []byte
}

// NewProperty builds property from go value, nil for unsupported types
func NewProperty(v interface{}) *Property {
	p := &Property{}
	if !p.Assign(v) {
		return nil
	}
	return p
}

func (p *Property) Type() PropertyType { return p.typ }
func (p *Property) IsArray() bool      { return p.typ.IsArray() }

// Data returns raw payload of string, blob or array
func (p *Property) Data() []byte { return p.data }

func (p *Property) ArraySize() int {
	es := p.typ.ElementSize()
	if !p.typ.IsArray() || es == 0 {
		return 0
	}
	return len(p.data) / es
}

func (p *Property) Clone() *Property {
	c := *p
	if p.data != nil {
		c.data = append([]byte(nil), p.data...)
	}
	return &c
}

func (p *Property) Equal(o *Property) bool {
	if p.typ != o.typ || p.scalar != o.scalar || len(p.data) != len(o.data) {
		return false
	}
	for i := range p.data {
		if p.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

func (p *Property) setScalar(t PropertyType, bits uint64) {
	p.typ = t
	p.scalar = bits
	p.data = nil
}

func (p *Property) SetBool(v bool) {
	if v {
		p.setScalar(PropertyBool, 'Y')
	} else {
		p.setScalar(PropertyBool, 'T')
	}
}

func (p *Property) SetInt16(v int16)     { p.setScalar(PropertyInt16, uint64(uint16(v))) }
func (p *Property) SetInt32(v int32)     { p.setScalar(PropertyInt32, uint64(uint32(v))) }
func (p *Property) SetInt64(v int64)     { p.setScalar(PropertyInt64, uint64(v)) }
func (p *Property) SetFloat32(v float32) { p.setScalar(PropertyFloat32, uint64(math.Float32bits(v))) }
func (p *Property) SetFloat64(v float64) { p.setScalar(PropertyFloat64, math.Float64bits(v)) }

func (p *Property) SetString(v string) {
	p.typ = PropertyString
	p.scalar = 0
	p.data = []byte(v)
}

func (p *Property) SetBlob(v []byte) {
	p.typ = PropertyBlob
	p.scalar = 0
	p.data = append(make([]byte, 0, len(v)), v...)
}

func (p *Property) setArray(t PropertyType, count int) []byte {
	p.typ = t
	p.scalar = 0
	p.data = make([]byte, count*t.ElementSize())
	return p.data
}

func (p *Property) SetBoolArray(v []bool) {
	buf := p.setArray(PropertyBoolArray, len(v))
	for i, b := range v {
		if b {
			buf[i] = 1
		}
	}
}

func (p *Property) SetInt16Array(v []int16) {
	buf := p.setArray(PropertyInt16Array, len(v))
	for i, e := range v {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(e))
	}
}

func (p *Property) SetInt32Array(v []int32) {
	buf := p.setArray(PropertyInt32Array, len(v))
	for i, e := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(e))
	}
}

func (p *Property) SetInt64Array(v []int64) {
	buf := p.setArray(PropertyInt64Array, len(v))
	for i, e := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], uint64(e))
	}
}

func (p *Property) SetFloat32Array(v []float32) {
	buf := p.setArray(PropertyFloat32Array, len(v))
	for i, e := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(e))
	}
}

func (p *Property) SetFloat64Array(v []float64) {
	buf := p.setArray(PropertyFloat64Array, len(v))
	for i, e := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(e))
	}
}

// Assign replaces value with v. Returns false and keeps old value for unsupported types
func (p *Property) Assign(v interface{}) bool {
	switch v := v.(type) {
	case bool:
		p.SetBool(v)
	case int16:
		p.SetInt16(v)
	case int32:
		p.SetInt32(v)
	case int64:
		p.SetInt64(v)
	case int:
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			p.SetInt32(int32(v))
		} else {
			p.SetInt64(int64(v))
		}
	case float32:
		p.SetFloat32(v)
	case float64:
		p.SetFloat64(v)
	case string:
		p.SetString(v)
	case []byte:
		p.SetBlob(v)
	case []bool:
		p.SetBoolArray(v)
	case []int16:
		p.SetInt16Array(v)
	case []int32:
		p.SetInt32Array(v)
	case []int64:
		p.SetInt64Array(v)
	case []float32:
		p.SetFloat32Array(v)
	case []float64:
		p.SetFloat64Array(v)
	case *Property:
		*p = *v.Clone()
	default:
		log.Warnf("Unsupported property value type %T", v)
		return false
	}
	return true
}

func (p *Property) scalarInt() int64 {
	switch p.typ {
	case PropertyBool:
		if p.Bool() {
			return 1
		}
		return 0
	case PropertyInt16:
		return int64(int16(p.scalar))
	case PropertyInt32:
		return int64(int32(p.scalar))
	case PropertyInt64:
		return int64(p.scalar)
	case PropertyFloat32:
		return int64(math.Float32frombits(uint32(p.scalar)))
	case PropertyFloat64:
		return int64(math.Float64frombits(p.scalar))
	}
	log.Warnf("Requested number from %v property", p.typ)
	return 0
}

func (p *Property) scalarFloat() float64 {
	switch p.typ {
	case PropertyFloat32:
		return float64(math.Float32frombits(uint32(p.scalar)))
	case PropertyFloat64:
		return math.Float64frombits(p.scalar)
	}
	return float64(p.scalarInt())
}

// Bool accepts both 'Y' and 1 as true
func (p *Property) Bool() bool {
	if p.typ == PropertyBool {
		return p.scalar == 'Y' || p.scalar == 1
	}
	return p.scalarInt() != 0
}

// Numeric getters convert stored float64 in place,
// other numeric types are casted without touching stored value.

func (p *Property) Int16() int16 {
	p.narrowScalar(PropertyInt16)
	return int16(p.scalarInt())
}

func (p *Property) Int32() int32 {
	p.narrowScalar(PropertyInt32)
	return int32(p.scalarInt())
}

func (p *Property) Int64() int64 {
	p.narrowScalar(PropertyInt64)
	return p.scalarInt()
}

func (p *Property) Float32() float32 {
	p.narrowScalar(PropertyFloat32)
	return float32(p.scalarFloat())
}

func (p *Property) Float64() float64 {
	return p.scalarFloat()
}

func (p *Property) narrowScalar(t PropertyType) {
	if p.typ == PropertyFloat64 {
		p.Convert(t)
	}
}

func (p *Property) StringValue() string {
	if p.typ != PropertyString && p.typ != PropertyBlob {
		log.Warnf("Requested string from %v property", p.typ)
		return ""
	}
	return string(p.data)
}

func (p *Property) Blob() []byte {
	if p.typ != PropertyString && p.typ != PropertyBlob {
		log.Warnf("Requested blob from %v property", p.typ)
		return nil
	}
	return p.data
}

func (p *Property) elemInt(i int) int64 {
	switch p.typ {
	case PropertyBoolArray:
		if b := p.data[i]; b == 1 || b == 'Y' {
			return 1
		}
		return 0
	case PropertyInt16Array:
		return int64(int16(binary.LittleEndian.Uint16(p.data[i*2:])))
	case PropertyInt32Array:
		return int64(int32(binary.LittleEndian.Uint32(p.data[i*4:])))
	case PropertyInt64Array:
		return int64(binary.LittleEndian.Uint64(p.data[i*8:]))
	}
	return int64(p.elemFloat(i))
}

func (p *Property) elemFloat(i int) float64 {
	switch p.typ {
	case PropertyFloat32Array:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(p.data[i*4:])))
	case PropertyFloat64Array:
		return math.Float64frombits(binary.LittleEndian.Uint64(p.data[i*8:]))
	}
	return float64(p.elemInt(i))
}

// arrayOk reports whether array getter can serve this property,
// converting stored float64 array in place when t is narrower.
func (p *Property) arrayOk(t PropertyType) bool {
	if !p.typ.IsArray() {
		log.Warnf("Requested %v from %v property", t, p.typ)
		return false
	}
	if p.typ == PropertyFloat64Array && t != PropertyFloat64Array && t != PropertyBoolArray {
		p.Convert(t)
	}
	return true
}

func (p *Property) BoolArray() []bool {
	if !p.arrayOk(PropertyBoolArray) {
		return nil
	}
	out := make([]bool, p.ArraySize())
	for i := range out {
		out[i] = p.elemInt(i) != 0
	}
	return out
}

func (p *Property) Int16Array() []int16 {
	if !p.arrayOk(PropertyInt16Array) {
		return nil
	}
	out := make([]int16, p.ArraySize())
	for i := range out {
		out[i] = int16(p.elemInt(i))
	}
	return out
}

func (p *Property) Int32Array() []int32 {
	if !p.arrayOk(PropertyInt32Array) {
		return nil
	}
	out := make([]int32, p.ArraySize())
	for i := range out {
		out[i] = int32(p.elemInt(i))
	}
	return out
}

func (p *Property) Int64Array() []int64 {
	if !p.arrayOk(PropertyInt64Array) {
		return nil
	}
	out := make([]int64, p.ArraySize())
	for i := range out {
		out[i] = p.elemInt(i)
	}
	return out
}

func (p *Property) Float32Array() []float32 {
	if !p.arrayOk(PropertyFloat32Array) {
		return nil
	}
	out := make([]float32, p.ArraySize())
	for i := range out {
		out[i] = float32(p.elemFloat(i))
	}
	return out
}

func (p *Property) Float64Array() []float64 {
	if !p.arrayOk(PropertyFloat64Array) {
		return nil
	}
	out := make([]float64, p.ArraySize())
	for i := range out {
		out[i] = p.elemFloat(i)
	}
	return out
}

// Convert narrows stored float64 value or array into t in place.
// Only float64 -> int16/int32/int64/float32 is supported,
// anything else is logged and leaves property untouched.
func (p *Property) Convert(t PropertyType) bool {
	if p.typ == t {
		return true
	}
	switch {
	case p.typ == PropertyFloat64 && !t.IsArray():
		v := math.Float64frombits(p.scalar)
		switch t {
		case PropertyInt16:
			p.SetInt16(int16(v))
			return true
		case PropertyInt32:
			p.SetInt32(int32(v))
			return true
		case PropertyInt64:
			p.SetInt64(int64(v))
			return true
		case PropertyFloat32:
			p.SetFloat32(float32(v))
			return true
		}
	case p.typ == PropertyFloat64Array && t.IsArray():
		src := make([]float64, p.ArraySize())
		for i := range src {
			src[i] = p.elemFloat(i)
		}
		switch t {
		case PropertyInt16Array:
			dst := make([]int16, len(src))
			for i, v := range src {
				dst[i] = int16(v)
			}
			p.SetInt16Array(dst)
			return true
		case PropertyInt32Array:
			dst := make([]int32, len(src))
			for i, v := range src {
				dst[i] = int32(v)
			}
			p.SetInt32Array(dst)
			return true
		case PropertyInt64Array:
			dst := make([]int64, len(src))
			for i, v := range src {
				dst[i] = int64(v)
			}
			p.SetInt64Array(dst)
			return true
		case PropertyFloat32Array:
			p.SetFloat32Array(utils.Float64to32(src))
			return true
		}
	}
	log.Warnf("Cannot convert %v property to %v", p.typ, t)
	return false
}

// Value returns stored value as matching go type
func (p *Property) Value() interface{} {
	switch p.typ {
	case PropertyBool:
		return p.Bool()
	case PropertyInt16:
		return int16(p.scalar)
	case PropertyInt32:
		return int32(p.scalar)
	case PropertyInt64:
		return int64(p.scalar)
	case PropertyFloat32:
		return math.Float32frombits(uint32(p.scalar))
	case PropertyFloat64:
		return math.Float64frombits(p.scalar)
	case PropertyString:
		return string(p.data)
	case PropertyBlob:
		return p.data
	case PropertyBoolArray:
		return p.BoolArray()
	case PropertyInt16Array:
		return p.Int16Array()
	case PropertyInt32Array:
		return p.Int32Array()
	case PropertyInt64Array:
		return p.Int64Array()
	case PropertyFloat32Array:
		return p.Float32Array()
	case PropertyFloat64Array:
		return p.Float64Array()
	}
	return nil
}

// PackArray joins scalar properties into single array property of type t.
// Legacy files store arrays as long lists of scalar properties.
func PackArray(props []*Property, t PropertyType) *Property {
	t = t.ArrayType()
	p := &Property{}
	switch t {
	case PropertyBoolArray:
		v := make([]bool, 0, len(props))
		for _, s := range props {
			v = append(v, s.Bool())
		}
		p.SetBoolArray(v)
	case PropertyInt16Array:
		v := make([]int16, 0, len(props))
		for _, s := range props {
			v = append(v, int16(s.scalarInt()))
		}
		p.SetInt16Array(v)
	case PropertyInt32Array:
		v := make([]int32, 0, len(props))
		for _, s := range props {
			v = append(v, int32(s.scalarInt()))
		}
		p.SetInt32Array(v)
	case PropertyInt64Array:
		v := make([]int64, 0, len(props))
		for _, s := range props {
			v = append(v, s.scalarInt())
		}
		p.SetInt64Array(v)
	case PropertyFloat32Array:
		v := make([]float32, 0, len(props))
		for _, s := range props {
			v = append(v, float32(s.scalarFloat()))
		}
		p.SetFloat32Array(v)
	case PropertyFloat64Array:
		v := make([]float64, 0, len(props))
		for _, s := range props {
			v = append(v, s.scalarFloat())
		}
		p.SetFloat64Array(v)
	default:
		log.Warnf("Cannot pack properties into %v", t)
		return nil
	}
	return p
}

// Unpack splits array property into scalar properties
func (p *Property) Unpack() []*Property {
	if !p.typ.IsArray() {
		return []*Property{p.Clone()}
	}
	out := make([]*Property, p.ArraySize())
	for i := range out {
		e := &Property{}
		switch p.typ {
		case PropertyBoolArray:
			e.SetBool(p.elemInt(i) != 0)
		case PropertyInt16Array:
			e.SetInt16(int16(p.elemInt(i)))
		case PropertyInt32Array:
			e.SetInt32(int32(p.elemInt(i)))
		case PropertyInt64Array:
			e.SetInt64(p.elemInt(i))
		case PropertyFloat32Array:
			e.SetFloat32(float32(p.elemFloat(i)))
		case PropertyFloat64Array:
			e.SetFloat64(p.elemFloat(i))
		}
		out[i] = e
	}
	return out
}
