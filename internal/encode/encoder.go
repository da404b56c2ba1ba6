// Package encode materializes extracted tracks as audio files.
//
// WAV output is written natively; every other format is produced by
// piping the raw samples through an external ffmpeg process.
package encode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Metadata holds the textual tags attached to encoded output. Empty
// fields are omitted. Tagging is only applied to MP3 output.
type Metadata struct {
	Title   string
	Artist  string
	Album   string
	Date    string
	Genre   string
	Comment string
	Track   int // track number in album, 0 to omit
}

// Options controls how a track is encoded.
type Options struct {
	// Format is the output audio format ("wav", "mp3", "flac", ...).
	// Defaults to "wav".
	Format string

	// Quality is the MP3 VBR quality preset, used when Bitrate is
	// empty.
	Quality int

	// Bitrate selects MP3 CBR encoding when non-empty (e.g. "320k").
	Bitrate string

	// Metadata to embed in MP3 output.
	Metadata Metadata

	// FFmpegPath overrides the ffmpeg binary looked up on PATH.
	FFmpegPath string
}

func (o Options) format() string {
	if o.Format == "" {
		return "wav"
	}
	return o.Format
}

func (o Options) ffmpegPath() string {
	if o.FFmpegPath == "" {
		return "ffmpeg"
	}
	return o.FFmpegPath
}

// WriteTrack writes raw unsigned 8-bit PCM samples to path in the
// configured format.
func WriteTrack(ctx context.Context, path string, payload []byte, rate uint32, opts Options) error {
	if opts.format() == "wav" {
		return writeWAV(path, payload, rate)
	}
	return runFFmpeg(ctx, path, payload, rate, opts)
}

// ffmpegArgs builds the ffmpeg argument list for encoding u8 PCM from
// stdin into path.
func ffmpegArgs(path string, rate uint32, opts Options) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "u8", "-ar", strconv.FormatUint(uint64(rate), 10), "-i", "pipe:",
	}

	if opts.format() == "mp3" {
		args = append(args, "-c:a", "libmp3lame")
		if opts.Bitrate != "" {
			args = append(args, "-b:a", opts.Bitrate)
		} else {
			args = append(args, "-q:a", strconv.Itoa(opts.Quality))
		}
		args = append(args, metadataArgs(opts.Metadata)...)
	}

	return append(args, path)
}

func metadataArgs(m Metadata) []string {
	var args []string

	add := func(key, value string) {
		if value != "" {
			args = append(args, "-metadata", key+"="+value)
		}
	}
	add("title", m.Title)
	add("artist", m.Artist)
	add("album", m.Album)
	add("date", m.Date)
	add("genre", m.Genre)
	add("comment", m.Comment)
	if m.Track > 0 {
		args = append(args, "-metadata", "track="+strconv.Itoa(m.Track))
	}

	return args
}

func runFFmpeg(ctx context.Context, path string, payload []byte, rate uint32, opts Options) error {
	cmd := exec.CommandContext(ctx, opts.ffmpegPath(), ffmpegArgs(path, rate, opts)...)
	cmd.Stdin = bytes.NewReader(payload)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}

	return nil
}
