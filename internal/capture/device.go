package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrDevice matches any *DeviceError via errors.Is.
	ErrDevice = errors.New("audio device error")

	ErrNotRecording     = errors.New("capture session is not recording")
	ErrAlreadyRecording = errors.New("capture session is already recording")
)

// Format describes the sample layout requested from the input device.
type Format struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

// DefaultFormat is mono 16 kHz, the rate speech-to-text backends expect.
func DefaultFormat() Format {
	return Format{
		SampleRate:      16000,
		Channels:        1,
		FramesPerBuffer: 1024,
	}
}

// Status carries the glitch flags the audio subsystem reports with a block.
type Status struct {
	InputOverflow  bool
	InputUnderflow bool
}

func (s Status) Glitch() bool {
	return s.InputOverflow || s.InputUnderflow
}

// FrameFunc receives one block of interleaved float32 samples. The slice is
// only valid for the duration of the call.
type FrameFunc func(block []float32, status Status)

// Stream is an open input stream. Stop halts delivery; Close releases it.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// Device opens input streams that deliver blocks to fn on a goroutine or
// thread owned by the audio subsystem.
type Device interface {
	Open(format Format, fn FrameFunc) (Stream, error)
}

type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("audio device: %s", e.Op)
	}
	return fmt.Sprintf("audio device: %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

func (e *DeviceError) Is(target error) bool { return target == ErrDevice }
