package reader

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Sentinel errors for the Reader's bounds-checking failure modes.
// All three are recoverable: the outer decoder catches them, discards the
// remainder of the enclosing frame, and continues with the next record.
var (
	ErrEndOfData   = errors.New("reader: end of data")
	ErrInvalidRead = errors.New("reader: read exceeds remaining bytes")
	ErrInvalidSeek = errors.New("reader: seek exceeds buffer length")
)

// Reader is a bounded cursor over a borrowed byte buffer. It never copies
// the buffer it was constructed with; callers must keep that buffer alive
// for the lifetime of the Reader (and of any Sub spans derived from it).
type Reader struct {
	buf    []byte
	cursor int
}

// New wraps buf in a Reader positioned at offset 0.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Index returns the current cursor position.
func (r *Reader) Index() int {
	return r.cursor
}

// Len returns the total buffer length.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Size returns the number of unread bytes remaining.
func (r *Reader) Size() int {
	return len(r.buf) - r.cursor
}

// Seek sets the cursor to an absolute offset n.
func (r *Reader) Seek(n int) error {
	if n < 0 || n > len(r.buf) {
		opsf("seek to %d rejected, buffer length %d", n, len(r.buf))
		return fmt.Errorf("%w: offset %d, buffer length %d", ErrInvalidSeek, n, len(r.buf))
	}
	r.cursor = n
	return nil
}

// Skip advances the cursor by n bytes without copying them.
func (r *Reader) Skip(n int) error {
	if r.Size() == 0 && n > 0 {
		return ErrEndOfData
	}
	if n < 0 || n > r.Size() {
		opsf("skip of %d rejected, %d bytes remaining", n, r.Size())
		return fmt.Errorf("%w: requested %d, remaining %d", ErrInvalidRead, n, r.Size())
	}
	r.cursor += n
	tracef("skip %d, cursor now %d", n, r.cursor)
	return nil
}

// Read copies exactly n bytes into dest and advances the cursor.
// dest must have length >= n.
func (r *Reader) Read(dest []byte, n int) error {
	if r.Size() == 0 && n > 0 {
		return ErrEndOfData
	}
	if n < 0 || n > r.Size() {
		opsf("read of %d rejected, %d bytes remaining", n, r.Size())
		return fmt.Errorf("%w: requested %d, remaining %d", ErrInvalidRead, n, r.Size())
	}
	if len(dest) < n {
		return fmt.Errorf("%w: destination too small (%d < %d)", ErrInvalidRead, len(dest), n)
	}
	copy(dest[:n], r.buf[r.cursor:r.cursor+n])
	r.cursor += n
	return nil
}

// Bytes returns a borrowed view of the next n bytes without advancing the
// cursor. The returned slice aliases the underlying buffer.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if r.Size() == 0 && n > 0 {
		return nil, ErrEndOfData
	}
	if n < 0 || n > r.Size() {
		return nil, fmt.Errorf("%w: requested %d, remaining %d", ErrInvalidRead, n, r.Size())
	}
	return r.buf[r.cursor : r.cursor+n], nil
}

// Sub returns an independent Reader over the next n bytes and advances the
// parent cursor past them. The child Reader aliases the same backing array.
func (r *Reader) Sub(n int) (*Reader, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return nil, err
	}
	r.cursor += n
	return New(b), nil
}

// U8 reads a single little-endian byte.
func (r *Reader) U8() (uint8, error) {
	var b [1]byte
	if err := r.Read(b[:], 1); err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads a little-endian uint16.
func (r *Reader) U16() (uint16, error) {
	var b [2]byte
	if err := r.Read(b[:], 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// U32 reads a little-endian uint32.
func (r *Reader) U32() (uint32, error) {
	var b [4]byte
	if err := r.Read(b[:], 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadAs decodes a packed record of type T out of exactly T's wire size,
// using fn to map raw field bytes into T. Callers supply fn because Go has
// no portable way to reinterpret a byte slice as an arbitrary struct without
// risking host-endianness or padding assumptions; ReadAs exists so every
// packed-record decoder in this module shares the same bounds-checked
// byte-copy-then-parse shape instead of reimplementing it.
func ReadAs[T any](r *Reader, size int, fn func([]byte) (T, error)) (T, error) {
	var zero T
	raw, err := r.Bytes(size)
	if err != nil {
		return zero, err
	}
	v, err := fn(raw)
	if err != nil {
		return zero, err
	}
	if err := r.Skip(size); err != nil {
		return zero, err
	}
	return v, nil
}
