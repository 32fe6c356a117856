// Package parcel implements the flat binary container format used to move
// telemetry records between processes. A Writer appends primitives to a
// linear buffer; a Reader consumes them back in exactly the order they were
// written. All multi-byte values are little-endian.
package parcel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Stream errors. Decoders wrap these with positional context; callers match
// them with errors.Is.
var (
	ErrTruncated = errors.New("parcel: truncated stream")
	ErrMalformed = errors.New("parcel: malformed stream")
)

// Parcelable is implemented by objects carried through the nullable
// nested-object convention: a presence flag, a type tag identifying the
// concrete decoder, then the object's own payload.
type Parcelable interface {
	ParcelType() string
	EncodeParcel(w *Writer)
}

// DecodeFunc reconstructs one Parcelable payload from the cursor. The type
// tag has already been consumed when it is invoked.
type DecodeFunc func(r *Reader) (Parcelable, error)

// Registry maps type tags to their decoders.
type Registry map[string]DecodeFunc

// Writer accumulates a parcel in memory. Writes cannot fail.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated parcel. The slice aliases the internal
// buffer and is only valid until the next write.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) WriteInt32(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

func (w *Writer) WriteInt64(v int64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

func (w *Writer) WriteFloat64(v float64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, math.Float64bits(v))
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteByteArray writes an int32 length prefix followed by the raw bytes.
func (w *Writer) WriteByteArray(b []byte) {
	w.WriteInt32(int32(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteString(s string) {
	w.WriteByteArray([]byte(s))
}

// WriteParcelable writes a present nested object: presence flag, type tag,
// then the object's payload.
func (w *Writer) WriteParcelable(p Parcelable) {
	w.WriteBool(true)
	w.WriteString(p.ParcelType())
	p.EncodeParcel(w)
}

// WriteNilParcelable writes the null marker for an absent nested object.
func (w *Writer) WriteNilParcelable() {
	w.WriteBool(false)
}

// Reader consumes a parcel produced by Writer. The first failure sticks:
// every subsequent read returns a zero value and Err reports the failure.
type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Err returns the first error encountered, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Len returns the number of unconsumed bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > len(r.buf)-r.off {
		r.fail(fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncated, n, r.off, len(r.buf)-r.off))
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) ReadInt32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *Reader) ReadInt64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func (r *Reader) ReadFloat64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (r *Reader) ReadBool() bool {
	b := r.take(1)
	if b == nil {
		return false
	}
	switch b[0] {
	case 0:
		return false
	case 1:
		return true
	default:
		r.fail(fmt.Errorf("%w: invalid bool byte 0x%02x at offset %d",
			ErrMalformed, b[0], r.off-1))
		return false
	}
}

// ReadByteArray reads a length-prefixed byte array. The returned slice is a
// copy and never aliases the parcel buffer.
func (r *Reader) ReadByteArray() []byte {
	n := r.ReadInt32()
	if r.err != nil {
		return nil
	}
	if n < 0 {
		r.fail(fmt.Errorf("%w: negative byte array length %d", ErrMalformed, n))
		return nil
	}
	b := r.take(int(n))
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

func (r *Reader) ReadString() string {
	return string(r.ReadByteArray())
}

// ReadParcelable reads a nullable nested object written by WriteParcelable.
// It returns (nil, nil) for the null marker. The type tag is resolved
// through the registry; an unknown tag makes the stream undecodable.
func (r *Reader) ReadParcelable(reg Registry) (Parcelable, error) {
	if !r.ReadBool() {
		return nil, r.err
	}
	tag := r.ReadString()
	if r.err != nil {
		return nil, r.err
	}
	dec, ok := reg[tag]
	if !ok {
		r.fail(fmt.Errorf("%w: unknown parcelable type %q", ErrMalformed, tag))
		return nil, r.err
	}
	p, err := dec(r)
	if err != nil {
		r.fail(err)
		return nil, r.err
	}
	return p, r.err
}
