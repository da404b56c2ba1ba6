package hemusic

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/scummtools/hemusic/internal/binary"
)

// Schema identifies one of the two recognized on-disk container
// layouts. The variant is detected from the header-block length and
// determines where the descriptor table starts and how wide each
// descriptor record is.
type Schema int

const (
	// SchemaV1 is the older layout (engine versions before 80).
	SchemaV1 Schema = iota + 1
	// SchemaV2 is the newer layout, assumed by default.
	SchemaV2
)

func (s Schema) String() string {
	switch s {
	case SchemaV1:
		return "V1"
	case SchemaV2:
		return "V2"
	default:
		return fmt.Sprintf("Schema(%d)", int(s))
	}
}

// tableOffset returns the absolute offset of the descriptor table.
func (s Schema) tableOffset() int64 {
	if s == SchemaV2 {
		return 56
	}
	return 20
}

// descriptorPad returns the width of the trailing field after each
// 12-byte descriptor record. Total record stride is 21 bytes for V2
// and 25 for V1.
func (s Schema) descriptorPad() int64 {
	if s == SchemaV2 {
		return 9
	}
	return 13
}

// TrackDescriptor names one track inside the container. Descriptors
// are immutable and ordered by table position, which is not
// necessarily offset or id order.
type TrackDescriptor struct {
	// ID is the track's integer identifier. Malformed files may repeat
	// ids, but they are treated as track-distinguishing.
	ID uint32

	// Offset is the absolute byte offset of the track's chunk sequence.
	Offset uint32

	// Size is the declared byte size of the chunk sequence. It is
	// advisory only; the actual payload length comes from the SDAT
	// chunk's own size field.
	Size uint32
}

// SongFile represents an opened music container with its descriptor
// table already parsed.
//
// All reads happen at absolute offsets through io.ReaderAt, so a
// SongFile is safe for concurrent track extraction.
//
// Always call Close when done if the file was opened with Open:
//
//	song, err := hemusic.Open("PUTTZOO.HE4")
//	if err != nil {
//		return err
//	}
//	defer song.Close()
type SongFile struct {
	// Path to the container file.
	Path string

	// Size of the container in bytes.
	Size int64

	// Schema is the detected layout variant.
	Schema Schema

	sr          *binary.SafeReader
	reader      io.ReaderAt
	descriptors []TrackDescriptor
	log         *slog.Logger
	parallelism int
}

// Option configures behavior when opening a container.
type Option func(*openOptions)

type openOptions struct {
	logger      *slog.Logger
	parallelism int
}

func defaultOptions() *openOptions {
	return &openOptions{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		parallelism: 1,
	}
}

// WithLogger sets a logger for structured parse traces. Every
// significant field read is logged at debug level with its name,
// offset, and value; skipped tracks are logged at warn level.
//
// The default logger discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithParallelism sets how many tracks ExtractAll processes at once.
//
// The default is 1 (sequential). Values above 1 are safe because every
// read addresses an absolute offset; there is no shared cursor.
func WithParallelism(n int) Option {
	return func(o *openOptions) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// Open opens a game data file and parses its descriptor table.
//
// Container-level failures (missing magic, truncated header) abort
// with an error; no partial descriptor list is returned. Per-track
// problems surface later, during extraction.
func Open(path string, opts ...Option) (*SongFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	song, err := OpenReader(f, stat.Size(), path, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}

	return song, nil
}

// OpenReader parses a container from an io.ReaderAt. The path is used
// only for error context. The reader must remain valid for the life of
// the SongFile.
func OpenReader(r io.ReaderAt, size int64, path string, opts ...Option) (*SongFile, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	sr := binary.NewSafeReader(r, size, path)

	schema, descriptors, err := parseHeader(sr, options.logger)
	if err != nil {
		return nil, err
	}

	return &SongFile{
		Path:        path,
		Size:        size,
		Schema:      schema,
		sr:          sr,
		reader:      r,
		descriptors: descriptors,
		log:         options.logger,
		parallelism: options.parallelism,
	}, nil
}

// Descriptors returns the track descriptors in table order. The
// returned slice is shared; callers must not modify it.
func (f *SongFile) Descriptors() []TrackDescriptor {
	return f.descriptors
}

// Close releases the underlying file handle, if any.
//
// After Close is called, the SongFile should not be used.
func (f *SongFile) Close() error {
	if closer, ok := f.reader.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
