//go:build portaudio
// +build portaudio

package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"

	"voice-coding/internal/capture"
)

// Microphone opens the default PortAudio input device.
type Microphone struct {
	logger *slog.Logger
}

func NewMicrophone(logger *slog.Logger) *Microphone {
	return &Microphone{logger: logger}
}

func (m *Microphone) Open(format capture.Format, fn capture.FrameFunc) (capture.Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &capture.DeviceError{Op: "initializing portaudio", Err: err}
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, &capture.DeviceError{Op: "finding default input device", Err: err}
	}

	stream, err := portaudio.OpenDefaultStream(
		format.Channels,
		0,
		float64(format.SampleRate),
		format.FramesPerBuffer,
		func(in []float32, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
			fn(in, capture.Status{
				InputOverflow:  flags&portaudio.InputOverflow != 0,
				InputUnderflow: flags&portaudio.InputUnderflow != 0,
			})
		},
	)
	if err != nil {
		portaudio.Terminate()
		return nil, &capture.DeviceError{Op: "opening stream", Err: err}
	}

	m.logger.Debug("microphone opened",
		"device", device.Name,
		"sample_rate", format.SampleRate,
	)
	return &paStream{stream: stream}, nil
}

type paStream struct {
	stream    *portaudio.Stream
	closeOnce sync.Once
	closeErr  error
}

func (s *paStream) Start() error {
	return s.stream.Start()
}

func (s *paStream) Stop() error {
	return s.stream.Stop()
}

func (s *paStream) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = errors.Join(s.stream.Close(), portaudio.Terminate())
	})
	return s.closeErr
}

func ListInputDevices() ([]InputDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, &capture.DeviceError{Op: "initializing portaudio", Err: err}
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}

	var defaultName string
	if d, err := portaudio.DefaultInputDevice(); err == nil {
		defaultName = d.Name
	}

	var out []InputDevice
	for _, d := range devices {
		if d.MaxInputChannels == 0 {
			continue
		}
		var host string
		if d.HostApi != nil {
			host = d.HostApi.Name
		}
		out = append(out, InputDevice{
			Name:       d.Name,
			HostAPI:    host,
			Channels:   d.MaxInputChannels,
			SampleRate: d.DefaultSampleRate,
			Default:    d.Name == defaultName,
		})
	}
	return out, nil
}
