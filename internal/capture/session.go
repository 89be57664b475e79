package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// MinDuration is the shortest recording Stop will encode. Anything shorter is
// treated as an accidental tap on the push-to-talk trigger.
const MinDuration = 500 * time.Millisecond

type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
)

// Session owns one microphone stream at a time and buffers the blocks it
// delivers until Stop.
type Session struct {
	device      Device
	format      Format
	minDuration time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu       sync.Mutex
	stream   Stream
	frames   [][]float32
	start    time.Time
	gen      uint64
	glitches int
}

type SessionOption func(*Session)

func WithFormat(f Format) SessionOption {
	return func(s *Session) { s.format = f }
}

func WithMinDuration(d time.Duration) SessionOption {
	return func(s *Session) { s.minDuration = d }
}

// WithClock replaces time.Now. The returned times must carry a monotonic
// reading or be otherwise monotonic.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

func NewSession(device Device, logger *slog.Logger, opts ...SessionOption) *Session {
	s := &Session{
		device:      device,
		format:      DefaultFormat(),
		minDuration: MinDuration,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream != nil {
		return StateRecording
	}
	return StateIdle
}

// Start opens the input stream and begins buffering. Open failures are
// returned as *DeviceError and are not retried.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream != nil {
		return ErrAlreadyRecording
	}

	s.gen++
	gen := s.gen
	s.frames = nil
	s.glitches = 0

	stream, err := s.device.Open(s.format, func(block []float32, status Status) {
		s.onFrames(gen, block, status)
	})
	if err != nil {
		return asDeviceError("opening stream", err)
	}

	s.stream = stream
	s.start = s.now()

	// The callback takes s.mu, so it cannot observe the session before
	// Start returns even if the device delivers immediately.
	if err := stream.Start(); err != nil {
		s.stream = nil
		s.gen++
		if cerr := stream.Close(); cerr != nil {
			s.logger.Warn("closing stream after failed start", "error", cerr)
		}
		return asDeviceError("starting stream", err)
	}

	s.logger.Debug("recording started",
		"sample_rate", s.format.SampleRate,
		"channels", s.format.Channels,
	)
	return nil
}

// Stop ends the recording and returns a WAV payload. A recording with no
// blocks or shorter than the minimum duration yields an empty payload and a
// nil error.
func (s *Session) Stop() ([]byte, error) {
	s.mu.Lock()
	if s.stream == nil {
		s.mu.Unlock()
		return nil, ErrNotRecording
	}

	duration := s.now().Sub(s.start)
	stream := s.stream
	frames := s.frames
	glitches := s.glitches

	// Detach before releasing the stream: late callbacks see a stale
	// generation and drop their block instead of touching frames.
	s.stream = nil
	s.frames = nil
	s.glitches = 0
	s.gen++
	s.mu.Unlock()

	// Stream teardown may wait for an in-flight callback, which in turn
	// may be waiting on s.mu, so it runs unlocked.
	if err := errors.Join(stream.Stop(), stream.Close()); err != nil {
		s.logger.Warn("releasing audio stream", "error", err)
	}

	if len(frames) == 0 || duration < s.minDuration {
		s.logger.Debug("recording discarded",
			"duration", duration,
			"chunks", len(frames),
		)
		return []byte{}, nil
	}

	samples := concat(frames)
	payload, err := EncodeWAV(samples, s.format.SampleRate, s.format.Channels)
	if err != nil {
		return nil, fmt.Errorf("encoding recording: %w", err)
	}

	s.logger.Info("recorded",
		"duration", duration.Round(100*time.Millisecond),
		"chunks", len(frames),
		"samples", len(samples),
		"bytes", len(payload),
		"glitches", glitches,
	)
	return payload, nil
}

func (s *Session) onFrames(gen uint64, block []float32, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.stream == nil {
		return
	}
	if status.Glitch() {
		s.glitches++
	}
	if len(block) == 0 {
		return
	}
	s.frames = append(s.frames, append([]float32(nil), block...))
}

func concat(frames [][]float32) []float32 {
	n := 0
	for _, f := range frames {
		n += len(f)
	}
	out := make([]float32, 0, n)
	for _, f := range frames {
		out = append(out, f...)
	}
	return out
}

func asDeviceError(op string, err error) error {
	var de *DeviceError
	if errors.As(err, &de) {
		return err
	}
	return &DeviceError{Op: op, Err: err}
}
