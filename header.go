package hemusic

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	binutil "github.com/scummtools/hemusic/internal/binary"
)

// Chunk tags used by the container format.
const (
	tagContainer = "SONG" // outer container magic
	tagSubHeader = "SGHD" // sub-header marker
	tagAudio     = "DIGI" // digital-audio track chunk
	tagCode      = "SBNG" // inline non-audio code block
	tagPayload   = "SDAT" // raw sample payload chunk
)

// Fixed header layout. The header-block length field is the single
// version signal: a value of v2HeaderLen selects SchemaV2, anything
// else downgrades to SchemaV1.
const (
	subHeaderOffset  = 8
	headerLenOffset  = 12
	trackCountOffset = 16
	v2HeaderLen      = 40
)

// parseHeader validates the container envelope, detects the schema
// variant, and walks the descriptor table.
func parseHeader(sr *binutil.SafeReader, log *slog.Logger) (Schema, []TrackDescriptor, error) {
	tag, err := sr.ReadTag(0, "container magic")
	if err != nil {
		return 0, nil, err
	}
	if tag != tagContainer {
		return 0, nil, &NotAContainerError{Path: sr.Path(), Tag: tag}
	}

	// Offset 4 holds a total-size field, unused by extraction.

	tag, err = sr.ReadTag(subHeaderOffset, "sub-header magic")
	if err != nil {
		return 0, nil, err
	}
	if tag != tagSubHeader {
		return 0, nil, &MalformedHeaderError{Path: sr.Path(), Tag: tag}
	}

	headerLen, err := binutil.ReadBE[uint32](sr, headerLenOffset, "header block length")
	if err != nil {
		return 0, nil, err
	}
	schema := SchemaV2
	if headerLen != v2HeaderLen {
		schema = SchemaV1
	}
	log.Debug("read field", "field", "header block length", "offset", int64(headerLenOffset), "value", headerLen, "schema", schema.String())

	count, err := binutil.ReadLE[uint32](sr, trackCountOffset, "track count")
	if err != nil {
		return 0, nil, err
	}
	log.Debug("read field", "field", "track count", "offset", int64(trackCountOffset), "value", count)

	descriptors, err := readDescriptors(sr, schema, count, log)
	if err != nil {
		return 0, nil, err
	}

	return schema, descriptors, nil
}

// readDescriptors reads count descriptor records starting at the
// schema's table offset. Each record is 12 little-endian bytes
// (id, offset, size) followed by a schema-specific trailing field.
func readDescriptors(sr *binutil.SafeReader, schema Schema, count uint32, log *slog.Logger) ([]TrackDescriptor, error) {
	descriptors := make([]TrackDescriptor, 0, count)

	offset := schema.tableOffset()
	stride := descriptorRecordLen + schema.descriptorPad()

	for i := uint32(0); i < count; i++ {
		desc, err := readDescriptor(sr, offset, i)
		if err != nil {
			return nil, err
		}
		log.Debug("read descriptor", "index", i, "id", desc.ID, "offset", desc.Offset, "size", desc.Size)
		descriptors = append(descriptors, desc)
		offset += stride
	}

	return descriptors, nil
}

// descriptorRecordLen is the packed id/offset/size portion of a
// descriptor record.
const descriptorRecordLen = 12

func readDescriptor(sr *binutil.SafeReader, offset int64, index uint32) (TrackDescriptor, error) {
	var buf [descriptorRecordLen]byte
	if err := sr.ReadAt(buf[:], offset, fmt.Sprintf("descriptor record %d", index)); err != nil {
		return TrackDescriptor{}, err
	}

	return TrackDescriptor{
		ID:     binary.LittleEndian.Uint32(buf[0:4]),
		Offset: binary.LittleEndian.Uint32(buf[4:8]),
		Size:   binary.LittleEndian.Uint32(buf[8:12]),
	}, nil
}
