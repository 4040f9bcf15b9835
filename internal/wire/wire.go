// Package wire implements the fixed-order little-endian binary encoding
// used by engine snapshots. Fields are written and read in exactly the
// same order on both sides; there is no tagging or schema on the wire.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer accumulates primitive fields into a byte buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteInt writes a little-endian int32.
func (w *Writer) WriteInt(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

// WriteBool writes a boolean as an int32 (0 or 1).
// The on-wire width matches the historical integer encoding.
func (w *Writer) WriteBool(v bool) {
	var i int32
	if v {
		i = 1
	}
	w.WriteInt(i)
}

// WriteUint64 writes a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteFloat writes a little-endian IEEE 754 float32.
func (w *Writer) WriteFloat(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

// WriteString writes an int32 length prefix followed by the raw bytes.
func (w *Writer) WriteString(s string) {
	w.WriteInt(int32(len(s)))
	w.buf = append(w.buf, s...)
}

// Reader consumes primitive fields from a byte buffer in write order.
// Reading past the end or mismatching the write order corrupts the
// decoded state; snapshot version and title checks guard against that.
type Reader struct {
	buf []byte
	off int
}

// NewReader creates a reader over an encoded buffer.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) take(n int) []byte {
	if r.off+n > len(r.buf) {
		panic(fmt.Sprintf("wire: read of %d bytes past end of %d-byte snapshot", n, len(r.buf)))
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// ReadInt reads a little-endian int32.
func (r *Reader) ReadInt() int32 {
	return int32(binary.LittleEndian.Uint32(r.take(4)))
}

// ReadBool reads an int32-width boolean.
func (r *Reader) ReadBool() bool {
	return r.ReadInt() != 0
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() uint64 {
	return binary.LittleEndian.Uint64(r.take(8))
}

// ReadFloat reads a little-endian float32.
func (r *Reader) ReadFloat() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(r.take(4)))
}

// ReadString reads a length-prefixed string.
func (r *Reader) ReadString() string {
	n := r.ReadInt()
	if n < 0 {
		panic(fmt.Sprintf("wire: negative string length %d", n))
	}
	return string(r.take(int(n)))
}
