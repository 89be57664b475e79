package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"

	"voice-coding/internal/capture"
)

// Archive keeps a 16-bit PCM copy of each accepted recording, half the size
// of the float payload sent for transcription.
type Archive struct {
	dir string
	now func() time.Time
}

func NewArchive(dir string) *Archive {
	return &Archive{dir: dir, now: time.Now}
}

// Save decodes a capture payload and writes it under the archive directory,
// returning the file path.
func (a *Archive) Save(payload []byte) (string, error) {
	samples, sampleRate, channels, err := capture.DecodeWAV(payload)
	if err != nil {
		return "", fmt.Errorf("decoding payload: %w", err)
	}

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return "", fmt.Errorf("creating archive dir: %w", err)
	}

	id := uuid.NewString()[:8]
	name := fmt.Sprintf("recording-%s-%s.wav", a.now().Format("20060102-150405"), id)
	path := filepath.Join(a.dir, name)

	if err := writePCM16(path, samples, sampleRate, channels); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

func writePCM16(path string, samples []float32, sampleRate, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = floatToPCM16(s)
	}

	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("writing samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing wav: %w", err)
	}
	return nil
}

func floatToPCM16(s float32) int {
	v := math.Max(-1, math.Min(1, float64(s)))
	return int(math.Round(v * math.MaxInt16))
}
