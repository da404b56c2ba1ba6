package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Useful test file to confirm what the container actually holds: raw
// header fields, the descriptor table, and each track's chunk tags.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: song-dump <file.HE4>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	dumpSong(f)
}

func dumpSong(r io.ReaderAt) {
	header := make([]byte, 20)
	if _, err := r.ReadAt(header, 0); err != nil {
		fmt.Printf("short file: %v\n", err)
		return
	}

	fmt.Printf("magic:        %q\n", header[0:4])
	fmt.Printf("total size:   %d\n", binary.BigEndian.Uint32(header[4:8]))
	fmt.Printf("sub-header:   %q\n", header[8:12])

	headerLen := binary.BigEndian.Uint32(header[12:16])
	count := binary.LittleEndian.Uint32(header[16:20])

	tableStart := int64(56)
	pad := int64(9)
	schema := "V2"
	if headerLen != 40 {
		tableStart = 20
		pad = 13
		schema = "V1"
	}
	fmt.Printf("header len:   %d (schema %s)\n", headerLen, schema)
	fmt.Printf("track count:  %d\n\n", count)

	offset := tableStart
	record := make([]byte, 12)
	for i := uint32(0); i < count; i++ {
		if _, err := r.ReadAt(record, offset); err != nil {
			fmt.Printf("descriptor %d: truncated at %d\n", i, offset)
			return
		}
		id := binary.LittleEndian.Uint32(record[0:4])
		trackOff := binary.LittleEndian.Uint32(record[4:8])
		size := binary.LittleEndian.Uint32(record[8:12])

		fmt.Printf("track %d (id=%d, offset=%d, size=%d)\n", i, id, trackOff, size)
		dumpChunks(r, int64(trackOff))

		offset += 12 + pad
	}
}

func dumpChunks(r io.ReaderAt, offset int64) {
	tag := make([]byte, 4)
	if _, err := r.ReadAt(tag, offset); err != nil {
		fmt.Printf("  (unreadable at %d)\n", offset)
		return
	}
	fmt.Printf("  %s (offset: %d)\n", tag, offset)
	if string(tag) != "DIGI" {
		return
	}

	rate := make([]byte, 4)
	if _, err := r.ReadAt(rate, offset+22); err == nil {
		fmt.Printf("  rate: %d\n", binary.LittleEndian.Uint32(rate))
	}

	// Chunks after the DIGI and HSHD blocks: optional SBNG, then SDAT.
	chunk := offset + 32
	for {
		head := make([]byte, 8)
		if _, err := r.ReadAt(head, chunk); err != nil {
			fmt.Printf("  (unreadable at %d)\n", chunk)
			return
		}
		size := binary.BigEndian.Uint32(head[4:8])
		fmt.Printf("  %s (size: %d, offset: %d)\n", head[0:4], size, chunk)

		if string(head[0:4]) != "SBNG" || size < 8 {
			return
		}
		chunk += int64(size)
	}
}
