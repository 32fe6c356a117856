package parcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitivesRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(-42)
	w.WriteInt64(1 << 40)
	w.WriteFloat64(40.4168)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteByteArray([]byte{0xde, 0xad, 0xbe, 0xef})
	w.WriteByteArray(nil)
	w.WriteString("wlan0")

	r := NewReader(w.Bytes())
	assert.Equal(t, int32(-42), r.ReadInt32())
	assert.Equal(t, int64(1<<40), r.ReadInt64())
	assert.Equal(t, 40.4168, r.ReadFloat64())
	assert.True(t, r.ReadBool())
	assert.False(t, r.ReadBool())
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, r.ReadByteArray())
	assert.Empty(t, r.ReadByteArray())
	assert.Equal(t, "wlan0", r.ReadString())
	assert.NoError(t, r.Err())
	assert.Equal(t, 0, r.Len())
}

func TestReadTruncated(t *testing.T) {
	w := NewWriter()
	w.WriteInt64(99)

	r := NewReader(w.Bytes()[:5])
	r.ReadInt64()
	assert.ErrorIs(t, r.Err(), ErrTruncated)
}

func TestReadBoolRejectsInvalidByte(t *testing.T) {
	r := NewReader([]byte{0x02})
	assert.False(t, r.ReadBool())
	assert.ErrorIs(t, r.Err(), ErrMalformed)
}

func TestReadByteArrayNegativeLength(t *testing.T) {
	w := NewWriter()
	w.WriteInt32(-7)

	r := NewReader(w.Bytes())
	assert.Nil(t, r.ReadByteArray())
	assert.ErrorIs(t, r.Err(), ErrMalformed)
}

func TestStickyError(t *testing.T) {
	r := NewReader([]byte{0x01})
	r.ReadInt32()
	first := r.Err()
	require.ErrorIs(t, first, ErrTruncated)

	// Every read after the first failure is a zero-valued no-op and the
	// original error is preserved.
	assert.Equal(t, int64(0), r.ReadInt64())
	assert.False(t, r.ReadBool())
	assert.Equal(t, "", r.ReadString())
	assert.Equal(t, first, r.Err())
}

func TestReadByteArrayCopies(t *testing.T) {
	w := NewWriter()
	w.WriteByteArray([]byte{1, 2, 3})

	r := NewReader(w.Bytes())
	got := r.ReadByteArray()
	require.NoError(t, r.Err())
	got[0] = 99

	r2 := NewReader(w.Bytes())
	assert.Equal(t, []byte{1, 2, 3}, r2.ReadByteArray())
}

type testTag struct {
	Value int32
}

func (p *testTag) ParcelType() string { return "testTag" }

func (p *testTag) EncodeParcel(w *Writer) {
	w.WriteInt32(p.Value)
}

func decodeTestTag(r *Reader) (Parcelable, error) {
	p := &testTag{Value: r.ReadInt32()}
	return p, r.Err()
}

func TestNullableParcelable(t *testing.T) {
	reg := Registry{"testTag": decodeTestTag}

	w := NewWriter()
	w.WriteParcelable(&testTag{Value: 7})
	w.WriteNilParcelable()

	r := NewReader(w.Bytes())
	p, err := r.ReadParcelable(reg)
	require.NoError(t, err)
	require.IsType(t, &testTag{}, p)
	assert.Equal(t, int32(7), p.(*testTag).Value)

	p, err = r.ReadParcelable(reg)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, 0, r.Len())
}

func TestNullableParcelableUnknownTag(t *testing.T) {
	w := NewWriter()
	w.WriteParcelable(&testTag{Value: 7})

	r := NewReader(w.Bytes())
	_, err := r.ReadParcelable(Registry{})
	assert.ErrorIs(t, err, ErrMalformed)
}
