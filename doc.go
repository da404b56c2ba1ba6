// Package hemusic extracts embedded music tracks from the SONG/SGHD
// container format used by Humongous Entertainment adventure games.
//
// The container (found in a game's .HE4 data file) holds a table of
// track descriptors followed by per-track chunk sequences carrying raw
// unsigned 8-bit PCM samples. hemusic parses both recognized on-disk
// layouts, enumerates the tracks, and extracts each track's sample
// rate and payload.
//
// # Quick Start
//
// Extracting every track from a game data file:
//
//	song, err := hemusic.Open("PUTTZOO.HE4")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer song.Close()
//
//	results, err := song.ExtractAll(context.Background())
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, res := range results {
//		if res.Skipped() {
//			continue
//		}
//		fmt.Printf("track %d: %d Hz, %d samples\n",
//			res.Descriptor.ID, res.Track.Rate, len(res.Track.Payload))
//	}
//
// # Format
//
// The container mixes endianness by field: the header-block length and
// chunk-size fields are big-endian, while the track count, descriptor
// records, and sample rate are little-endian. Two schema variants
// exist, distinguished by the header-block length; they differ only in
// where the descriptor table starts and how wide each record is. Each
// track's chunk sequence is DIGI, an optional inline SBNG code block,
// then the SDAT payload chunk.
//
// # Error Handling
//
// hemusic distinguishes between container-level and track-level
// failures:
//
//   - Container-level errors (NotAContainerError, MalformedHeaderError,
//     TruncatedInputError) abort parsing entirely.
//   - Track-level issues (UnsupportedFormatError,
//     MissingPayloadChunkError) skip that track; ExtractAll records the
//     reason and continues with the remaining descriptors.
//
// Use IsSkip to tell the two classes apart when calling Extract
// directly.
package hemusic
