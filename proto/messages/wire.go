package messages

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

type marshaler interface {
	marshal() []byte
}

type unmarshaler interface {
	unmarshal(b []byte) error
}

// encoder appends proto3 fields, default values are omitted.
// Embedded messages are always written so presence survives a round trip.
type encoder struct {
	b []byte
}

func (e *encoder) string(num protowire.Number, v string) {
	if v == "" {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendString(e.b, v)
}

func (e *encoder) bytes(num protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, v)
}

func (e *encoder) uint64(num protowire.Number, v uint64) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, v)
}

func (e *encoder) int64(num protowire.Number, v int64) {
	e.uint64(num, uint64(v))
}

func (e *encoder) int32(num protowire.Number, v int32) {
	e.uint64(num, uint64(int64(v)))
}

func (e *encoder) bool(num protowire.Number, v bool) {
	if !v {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.VarintType)
	e.b = protowire.AppendVarint(e.b, protowire.EncodeBool(v))
}

func (e *encoder) float(num protowire.Number, v float32) {
	if v == 0 {
		return
	}
	e.b = protowire.AppendTag(e.b, num, protowire.Fixed32Type)
	e.b = protowire.AppendFixed32(e.b, math.Float32bits(v))
}

func (e *encoder) message(num protowire.Number, m marshaler) {
	e.b = protowire.AppendTag(e.b, num, protowire.BytesType)
	e.b = protowire.AppendBytes(e.b, m.marshal())
}

func (e *encoder) raw(b []byte) {
	e.b = append(e.b, b...)
}

// decoder walks the fields of one message.
// Typed accessors record the first error and return zero values afterwards.
type decoder struct {
	b     []byte
	num   protowire.Number
	typ   protowire.Type
	field []byte
	err   error
}

func newDecoder(b []byte) *decoder {
	return &decoder{b: b}
}

func (d *decoder) next() bool {
	if d.err != nil || len(d.b) == 0 {
		return false
	}
	start := d.b
	num, typ, n := protowire.ConsumeTag(d.b)
	if n < 0 {
		d.err = protowire.ParseError(n)
		return false
	}
	d.b = d.b[n:]
	d.num, d.typ = num, typ
	m := protowire.ConsumeFieldValue(num, typ, d.b)
	if m < 0 {
		d.err = protowire.ParseError(m)
		return false
	}
	d.field = start[:n+m]
	d.b = d.b[m:]
	return true
}

// value returns the payload of the current field without its tag.
func (d *decoder) value() []byte {
	_, _, n := protowire.ConsumeTag(d.field)
	return d.field[n:]
}

func (d *decoder) expect(typ protowire.Type) bool {
	if d.err != nil {
		return false
	}
	if d.typ != typ {
		d.err = fmt.Errorf("field %d: unexpected wire type %d", d.num, d.typ)
		return false
	}
	return true
}

func (d *decoder) string() string {
	if !d.expect(protowire.BytesType) {
		return ""
	}
	v, _ := protowire.ConsumeString(d.value())
	return v
}

func (d *decoder) bytes() []byte {
	if !d.expect(protowire.BytesType) {
		return nil
	}
	v, _ := protowire.ConsumeBytes(d.value())
	return append([]byte(nil), v...)
}

func (d *decoder) uint64() uint64 {
	if !d.expect(protowire.VarintType) {
		return 0
	}
	v, _ := protowire.ConsumeVarint(d.value())
	return v
}

func (d *decoder) int64() int64 {
	return int64(d.uint64())
}

func (d *decoder) int32() int32 {
	return int32(d.uint64())
}

func (d *decoder) bool() bool {
	return protowire.DecodeBool(d.uint64())
}

func (d *decoder) float() float32 {
	if !d.expect(protowire.Fixed32Type) {
		return 0
	}
	v, _ := protowire.ConsumeFixed32(d.value())
	return math.Float32frombits(v)
}

// message merges the current field into m.
func (d *decoder) message(m unmarshaler) {
	if !d.expect(protowire.BytesType) {
		return
	}
	v, _ := protowire.ConsumeBytes(d.value())
	if err := m.unmarshal(v); err != nil {
		d.err = fmt.Errorf("field %d: %w", d.num, err)
	}
}

// unknown keeps the raw field so it is written back untouched.
func (d *decoder) unknown(dst *[]byte) {
	*dst = append(*dst, d.field...)
}
