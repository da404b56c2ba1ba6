package encode

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV writes u8 mono PCM samples as an 8-bit WAV file. WAV stores
// 8-bit audio unsigned, so the samples pass through unchanged.
func writeWAV(path string, payload []byte, rate uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	enc := wav.NewEncoder(f, int(rate), 8, 1, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  int(rate),
		},
		Data:           make([]int, len(payload)),
		SourceBitDepth: 8,
	}
	for i, sample := range payload {
		buf.Data[i] = int(sample)
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write samples: %w", err)
	}

	if err := enc.Close(); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("finalize wav: %w", err)
	}

	return f.Close()
}
