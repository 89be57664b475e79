package capture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

const (
	wavFormatIEEEFloat = 3
	wavHeaderSize      = 58
	bytesPerSample     = 4
)

// wavHeader is a RIFF/WAVE header for non-PCM data: an 18-byte fmt chunk
// (with cbSize) and a fact chunk ahead of the data chunk.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8
	Format        [4]byte // "WAVE"
	FmtID         [4]byte // "fmt "
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	ExtraSize     uint16
	FactID        [4]byte // "fact"
	FactSize      uint32
	SampleFrames  uint32
	DataID        [4]byte // "data"
	DataSize      uint32
}

// wavFormat is the fmt chunk body common to every WAVE file.
type wavFormat struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// EncodeWAV encodes interleaved float32 samples as a 32-bit IEEE float WAV.
func EncodeWAV(samples []float32, sampleRate, channels int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio samples")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("channel count must be positive, got %d", channels)
	}

	dataSize := uint32(len(samples) * bytesPerSample)
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     wavHeaderSize - 8 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		FmtID:         [4]byte{'f', 'm', 't', ' '},
		FmtSize:       18,
		AudioFormat:   wavFormatIEEEFloat,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * bytesPerSample),
		BlockAlign:    uint16(channels * bytesPerSample),
		BitsPerSample: 8 * bytesPerSample,
		FactID:        [4]byte{'f', 'a', 'c', 't'},
		FactSize:      4,
		SampleFrames:  uint32(len(samples) / channels),
		DataID:        [4]byte{'d', 'a', 't', 'a'},
		DataSize:      dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+int(dataSize)))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("writing WAV header: %w", err)
	}

	var b [bytesPerSample]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(s))
		buf.Write(b[:])
	}

	return buf.Bytes(), nil
}

// DecodeWAV reads a 32-bit float WAV back into samples. Chunks other than
// fmt and data are skipped.
func DecodeWAV(data []byte) (samples []float32, sampleRate, channels int, err error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" {
		return nil, 0, 0, fmt.Errorf("invalid WAV file: missing RIFF header")
	}
	if string(data[8:12]) != "WAVE" {
		return nil, 0, 0, fmt.Errorf("invalid WAV file: missing WAVE format")
	}

	var format *wavFormat
	for off := 12; ; {
		if off+8 > len(data) {
			return nil, 0, 0, fmt.Errorf("invalid WAV file: missing data chunk")
		}
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := data[off+8:]

		switch id {
		case "fmt ":
			if size < 16 || len(body) < 16 {
				return nil, 0, 0, fmt.Errorf("invalid WAV file: short fmt chunk")
			}
			format = &wavFormat{}
			if err := binary.Read(bytes.NewReader(body[:16]), binary.LittleEndian, format); err != nil {
				return nil, 0, 0, fmt.Errorf("reading fmt chunk: %w", err)
			}
		case "data":
			if format == nil {
				return nil, 0, 0, fmt.Errorf("invalid WAV file: missing fmt chunk")
			}
			if format.AudioFormat != wavFormatIEEEFloat || format.BitsPerSample != 8*bytesPerSample {
				return nil, 0, 0, fmt.Errorf("unsupported audio format %d/%d-bit (only 32-bit float)", format.AudioFormat, format.BitsPerSample)
			}
			if len(body) < size {
				return nil, 0, 0, fmt.Errorf("truncated WAV data: header says %d bytes, got %d", size, len(body))
			}

			samples = make([]float32, size/bytesPerSample)
			for i := range samples {
				samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*bytesPerSample:]))
			}
			return samples, int(format.SampleRate), int(format.NumChannels), nil
		}

		// Chunks are word aligned.
		off += 8 + size + size%2
	}
}
