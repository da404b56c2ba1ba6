// Package binary provides bounds-checked binary reading primitives
// for the mixed-endianness fields of the SONG container format.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// TruncatedInputError is returned when a read would extend past the end
// of the source, or the source delivers fewer bytes than a field needs.
type TruncatedInputError struct {
	Path   string
	What   string // field being read
	Offset int64
	Want   int
	Got    int
	Size   int64
}

func (e *TruncatedInputError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: truncated input while reading %s at offset %d: got %d of %d bytes (file size: %d)",
		e.Path, e.What, e.Offset, e.Got, e.Want, e.Size)
}

// SafeReader wraps io.ReaderAt with bounds checking and field context
// for error messages. All reads are at absolute offsets; SafeReader
// keeps no cursor, so it is safe for concurrent use.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the total size of the underlying source in bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads len(b) bytes at the given offset. The what argument
// names the field being read and is carried into any error.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size {
		return &TruncatedInputError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Want:   len(b),
			Size:   sr.size,
		}
	}

	if off+int64(len(b)) > sr.size {
		return &TruncatedInputError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Want:   len(b),
			Got:    int(sr.size - off),
			Size:   sr.size,
		}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}
	if n < len(b) {
		return &TruncatedInputError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Want:   len(b),
			Got:    n,
			Size:   sr.size,
		}
	}

	return nil
}

// ReadTag reads a 4-byte chunk tag at the given offset.
func (sr *SafeReader) ReadTag(off int64, what string) (string, error) {
	var buf [4]byte
	if err := sr.ReadAt(buf[:], off, what); err != nil {
		return "", err
	}
	return string(buf[:]), nil
}

// ReadLE reads a numeric value of type T at the given offset using
// little-endian byte order. Used for the track count, descriptor
// records, and sample rate.
func ReadLE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return read[T](sr, off, what, binary.LittleEndian)
}

// ReadBE reads a numeric value of type T at the given offset using
// big-endian byte order. Used for the header-block length and all
// chunk-size fields.
func ReadBE[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return read[T](sr, off, what, binary.BigEndian)
}

func read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string, order binary.ByteOrder) (T, error) {
	var zero T
	var size int

	switch any(zero).(type) {
	case uint8:
		size = 1
	case uint16:
		size = 2
	case uint32:
		size = 4
	case uint64:
		size = 8
	}

	buf := make([]byte, size)
	if err := sr.ReadAt(buf, off, what); err != nil {
		return zero, err
	}

	var val T
	switch any(zero).(type) {
	case uint8:
		val = T(buf[0])
	case uint16:
		val = T(order.Uint16(buf))
	case uint32:
		val = T(order.Uint32(buf))
	case uint64:
		val = T(order.Uint64(buf))
	}

	return val, nil
}
