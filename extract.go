package hemusic

import (
	"context"

	binutil "github.com/scummtools/hemusic/internal/binary"
	"golang.org/x/sync/errgroup"
)

// Per-track chunk layout, relative to the descriptor's offset. The
// sample rate sits inside the fixed-width HSHD block; the next chunk
// tag follows the 8-byte DIGI header and the 24-byte HSHD block.
const (
	sampleRateOffset = 22
	firstChunkOffset = 32
	inlineCodeOffset = 40 // where SBNG code bytes start, when present
	chunkHeaderLen   = 8  // tag + big-endian size, size counts both
)

// Track is a successfully extracted music track.
type Track struct {
	// Descriptor is the table entry this track was extracted from.
	Descriptor TrackDescriptor

	// Rate is the sample rate in Hz.
	Rate uint32

	// Payload holds the raw unsigned 8-bit PCM samples. The buffer is
	// owned by the Track.
	Payload []byte

	// CodeOffset is the offset, relative to the track's chunk sequence
	// start, of an inline SBNG code block, or -1 when the track has
	// none. The code bytes themselves are not decoded.
	CodeOffset int64
}

// HasInlineCode reports whether the track carried an inline SBNG code
// block before its payload chunk.
func (t *Track) HasInlineCode() bool {
	return t.CodeOffset >= 0
}

// TrackResult is the outcome of extracting one track. Exactly one of
// Track and Skip is set: Track on success, Skip when the track was
// passed over with a recoverable reason.
type TrackResult struct {
	Descriptor TrackDescriptor

	// Track is the extracted track, nil when skipped.
	Track *Track

	// Skip is the reason the track was skipped: either an
	// *UnsupportedFormatError or a *MissingPayloadChunkError.
	Skip error
}

// Skipped reports whether this track was skipped.
func (r TrackResult) Skipped() bool {
	return r.Skip != nil
}

// Extract extracts a single track's sample rate and payload.
//
// The returned error is a per-track skip reason when IsSkip reports
// true; anything else (truncated input, I/O failure) is fatal for the
// source. Extract may be called for any descriptor in any order, and
// concurrently from multiple goroutines.
func (f *SongFile) Extract(desc TrackDescriptor) (*Track, error) {
	start := int64(desc.Offset)

	tag, err := f.sr.ReadTag(start, "track format tag")
	if err != nil {
		return nil, err
	}
	if tag != tagAudio {
		return nil, &UnsupportedFormatError{ID: desc.ID, Offset: start, Tag: tag}
	}

	rate, err := binutil.ReadLE[uint32](f.sr, start+sampleRateOffset, "sample rate")
	if err != nil {
		return nil, err
	}
	f.log.Debug("read field", "field", "sample rate", "offset", start+sampleRateOffset, "value", rate)

	chunk := start + firstChunkOffset
	tag, err = f.sr.ReadTag(chunk, "chunk tag")
	if err != nil {
		return nil, err
	}

	codeOffset := int64(-1)
	if tag == tagCode {
		// Inline code block. Record its location, skip past it, and
		// re-read the tag; the payload chunk must follow.
		codeOffset = inlineCodeOffset
		codeLen, err := binutil.ReadBE[uint32](f.sr, chunk+4, "code block length")
		if err != nil {
			return nil, err
		}
		f.log.Debug("read field", "field", "code block length", "offset", chunk+4, "value", codeLen)
		if codeLen < chunkHeaderLen {
			return nil, &MissingPayloadChunkError{ID: desc.ID, Offset: start, Tag: tag}
		}

		chunk += int64(codeLen)
		tag, err = f.sr.ReadTag(chunk, "chunk tag")
		if err != nil {
			return nil, err
		}
	}

	if tag != tagPayload {
		return nil, &MissingPayloadChunkError{ID: desc.ID, Offset: start, Tag: tag}
	}

	chunkSize, err := binutil.ReadBE[uint32](f.sr, chunk+4, "payload chunk size")
	if err != nil {
		return nil, err
	}
	if chunkSize < chunkHeaderLen {
		return nil, &MissingPayloadChunkError{ID: desc.ID, Offset: start, Tag: tag}
	}
	payloadLen := int64(chunkSize) - chunkHeaderLen
	f.log.Debug("read field", "field", "payload chunk size", "offset", chunk+4, "value", chunkSize)

	payload := make([]byte, payloadLen)
	if err := f.sr.ReadAt(payload, chunk+chunkHeaderLen, "payload data"); err != nil {
		return nil, err
	}

	return &Track{
		Descriptor: desc,
		Rate:       rate,
		Payload:    payload,
		CodeOffset: codeOffset,
	}, nil
}

// ExtractAll extracts every track in descriptor order.
//
// The result list always has one entry per descriptor: tracks that
// fail a per-track check are recorded as skips (with the reason) and
// never prevent extraction of the others. Truncated input and I/O
// failures abort the batch.
//
// Tracks are extracted in parallel when the file was opened with
// WithParallelism; the result order is table order either way.
func (f *SongFile) ExtractAll(ctx context.Context) ([]TrackResult, error) {
	results := make([]TrackResult, len(f.descriptors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.parallelism)

	for i, desc := range f.descriptors {
		i, desc := i, desc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			track, err := f.Extract(desc)
			if err != nil {
				if !IsSkip(err) {
					return err
				}
				f.log.Warn("skipping track", "id", desc.ID, "offset", desc.Offset, "reason", err)
				results[i] = TrackResult{Descriptor: desc, Skip: err}
				return nil
			}

			results[i] = TrackResult{Descriptor: desc, Track: track}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
