//go:build !portaudio
// +build !portaudio

package audio

import (
	"errors"
	"log/slog"

	"voice-coding/internal/capture"
)

var errNoPortAudio = errors.New("microphone support not built: rebuild with -tags portaudio")

// Microphone stub when portaudio is not available
type Microphone struct {
	logger *slog.Logger
}

func NewMicrophone(logger *slog.Logger) *Microphone {
	return &Microphone{logger: logger}
}

func (m *Microphone) Open(_ capture.Format, _ capture.FrameFunc) (capture.Stream, error) {
	return nil, &capture.DeviceError{Op: "opening microphone", Err: errNoPortAudio}
}

func ListInputDevices() ([]InputDevice, error) {
	return nil, &capture.DeviceError{Op: "listing devices", Err: errNoPortAudio}
}
