package hemusic

import (
	"errors"
	"fmt"

	"github.com/scummtools/hemusic/internal/binary"
)

// TruncatedInputError is returned when the source holds fewer bytes
// than a declared-length field requires. It carries the field name and
// offset of the failed read. Truncation is fatal: it is never converted
// into a per-track skip.
type TruncatedInputError = binary.TruncatedInputError

// NotAContainerError is returned when the outer SONG magic is missing:
// the input is not a recognized music container.
type NotAContainerError struct {
	Path string
	Tag  string // the 4 bytes found instead of "SONG"
}

func (e *NotAContainerError) Error() string {
	return fmt.Sprintf("%s: not a music container (got %q, want %q)", e.Path, e.Tag, tagContainer)
}

// MalformedHeaderError is returned when the SGHD sub-header magic is
// missing from an otherwise recognized container.
type MalformedHeaderError struct {
	Path string
	Tag  string // the 4 bytes found instead of "SGHD"
}

func (e *MalformedHeaderError) Error() string {
	return fmt.Sprintf("%s: malformed header (got %q, want %q)", e.Path, e.Tag, tagSubHeader)
}

// UnsupportedFormatError is a per-track skip reason: the track's chunk
// sequence does not begin with a DIGI digital-audio tag. Other tags
// exist in real game data but are not decoded.
type UnsupportedFormatError struct {
	ID     uint32
	Offset int64
	Tag    string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("track %d at offset %d: unsupported sound format %q", e.ID, e.Offset, e.Tag)
}

// MissingPayloadChunkError is a per-track skip reason: the chunk
// sequence does not conform to the expected shape, so no SDAT payload
// chunk could be located.
type MissingPayloadChunkError struct {
	ID     uint32
	Offset int64
	Tag    string // the tag found where SDAT was expected
}

func (e *MissingPayloadChunkError) Error() string {
	return fmt.Sprintf("track %d at offset %d: missing payload chunk (got %q, want %q)", e.ID, e.Offset, e.Tag, tagPayload)
}

// IsSkip reports whether err is a recoverable per-track failure.
// Skipped tracks never prevent extraction of the remaining tracks;
// any other error aborts the batch.
func IsSkip(err error) bool {
	var unsupported *UnsupportedFormatError
	var missing *MissingPayloadChunkError
	return errors.As(err, &unsupported) || errors.As(err, &missing)
}
