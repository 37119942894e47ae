package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderSequentialReads(t *testing.T) {
	t.Parallel()

	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
	r := New(buf)

	v8, err := r.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), v8)

	v16, err := r.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0302), v16)

	v32, err := r.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x07060504), v32)

	assert.Equal(t, 0, r.Size())
}

func TestReaderSkipAndSeek(t *testing.T) {
	t.Parallel()

	r := New([]byte{1, 2, 3, 4, 5})
	require.NoError(t, r.Skip(2))
	assert.Equal(t, 2, r.Index())

	b, err := r.Bytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 4}, b)
	assert.Equal(t, 2, r.Index(), "Bytes must not advance the cursor")

	require.NoError(t, r.Seek(0))
	assert.Equal(t, 5, r.Size())

	err = r.Seek(100)
	assert.ErrorIs(t, err, ErrInvalidSeek)
}

func TestReaderOverrun(t *testing.T) {
	t.Parallel()

	r := New([]byte{1, 2})
	_, err := r.U32()
	assert.ErrorIs(t, err, ErrInvalidRead)

	var dest [4]byte
	err = r.Read(dest[:], 4)
	assert.ErrorIs(t, err, ErrInvalidRead)
}

func TestReaderEndOfData(t *testing.T) {
	t.Parallel()

	r := New([]byte{})
	_, err := r.U8()
	assert.ErrorIs(t, err, ErrEndOfData)

	err = r.Skip(1)
	assert.ErrorIs(t, err, ErrEndOfData)
}

func TestReaderSubIsIndependent(t *testing.T) {
	t.Parallel()

	r := New([]byte{1, 2, 3, 4, 5, 6})
	require.NoError(t, r.Skip(1))

	sub, err := r.Sub(3)
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Size())
	assert.Equal(t, 4, r.Index(), "parent cursor must advance past the sub-span")

	require.NoError(t, sub.Skip(3))
	assert.Equal(t, 0, sub.Size())
	assert.Equal(t, 2, r.Size(), "advancing the sub reader must not affect the parent")
}

type fixedRecord struct {
	A uint16
	B uint16
}

func TestReadAs(t *testing.T) {
	t.Parallel()

	r := New([]byte{0x01, 0x00, 0x02, 0x00, 0xFF})
	rec, err := ReadAs(r, 4, func(raw []byte) (fixedRecord, error) {
		return fixedRecord{
			A: uint16(raw[0]) | uint16(raw[1])<<8,
			B: uint16(raw[2]) | uint16(raw[3])<<8,
		}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, fixedRecord{A: 1, B: 2}, rec)
	assert.Equal(t, 1, r.Size())
}

func TestReadAsPropagatesDecodeError(t *testing.T) {
	t.Parallel()

	boom := assert.AnError
	r := New([]byte{0, 0})
	_, err := ReadAs(r, 2, func(raw []byte) (fixedRecord, error) {
		return fixedRecord{}, boom
	})
	assert.ErrorIs(t, err, boom)
}
