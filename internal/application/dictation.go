package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"voice-coding/internal/domain"
)

// Dictation drives one push-to-talk gesture at a time: capture, transcribe,
// normalize, deliver.
type Dictation struct {
	recorder    Recorder
	stt         SpeechToText
	output      Output
	notifier    Notifier
	archiver    Archiver
	normalize   func(string) string
	transcriber *Transcriber
	logger      *slog.Logger

	mu        sync.Mutex
	recording bool
}

type DictationOption func(*Dictation)

func WithArchiver(a Archiver) DictationOption {
	return func(d *Dictation) { d.archiver = a }
}

func WithNormalizer(fn func(string) string) DictationOption {
	return func(d *Dictation) { d.normalize = fn }
}

func NewDictation(
	recorder Recorder,
	stt SpeechToText,
	output Output,
	notifier Notifier,
	logger *slog.Logger,
	opts ...DictationOption,
) *Dictation {
	d := &Dictation{
		recorder: recorder,
		stt:      stt,
		output:   output,
		notifier: notifier,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.transcriber = NewTranscriber(d.stt, d.normalize, logger)
	return d
}

func (d *Dictation) Recording() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.recording
}

// Begin opens the microphone.
func (d *Dictation) Begin(ctx context.Context) error {
	d.mu.Lock()
	err := d.recorder.Start()
	if err == nil {
		d.recording = true
	}
	d.mu.Unlock()

	// Notifiers may block on the network, so they run outside d.mu.
	if err != nil {
		d.notify(ctx, "Microphone unavailable")
		return fmt.Errorf("starting recording: %w", err)
	}
	d.logger.Info("recording")
	return nil
}

// Finish closes the microphone and delivers what was said. Gestures too short
// to be speech and blank transcripts are skipped without calling the output.
func (d *Dictation) Finish(ctx context.Context) (domain.Dictation, error) {
	d.mu.Lock()
	audio, err := d.recorder.Stop()
	d.recording = false
	d.mu.Unlock()
	if err != nil {
		return domain.Dictation{}, fmt.Errorf("stopping recording: %w", err)
	}

	if len(audio) == 0 {
		d.logger.Info("recording too short, skipping")
		return domain.Dictation{Skipped: domain.SkipTooShort}, nil
	}

	if d.archiver != nil {
		if path, err := d.archiver.Save(audio); err != nil {
			d.logger.Warn("archiving recording", "error", err)
		} else {
			d.logger.Debug("archived recording", "path", path)
		}
	}

	result, err := d.Transcribe(ctx, audio)
	if err != nil {
		d.notify(ctx, "Transcription failed: "+err.Error())
		return domain.Dictation{}, err
	}
	if !result.Delivered() {
		return result, nil
	}

	if err := d.output.Deliver(ctx, result.Text); err != nil {
		d.notify(ctx, "Could not paste text: "+err.Error())
		return result, fmt.Errorf("delivering text: %w", err)
	}

	d.logger.Info("delivered", "chars", len(result.Text))
	return result, nil
}

// Transcribe turns an encoded recording into normalized text without
// delivering it.
func (d *Dictation) Transcribe(ctx context.Context, audio []byte) (domain.Dictation, error) {
	return d.transcriber.Transcribe(ctx, audio)
}

// Toggle starts a recording if none is running, otherwise finishes it.
func (d *Dictation) Toggle(ctx context.Context) error {
	if !d.Recording() {
		return d.Begin(ctx)
	}
	_, err := d.Finish(ctx)
	return err
}

// Run toggles recording once per value received on toggles until ctx is done
// or toggles is closed. A recording still open on exit is discarded.
func (d *Dictation) Run(ctx context.Context, toggles <-chan struct{}) error {
	defer d.discard()

	d.logger.Info("dictation ready")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-toggles:
			if !ok {
				return nil
			}
			if err := d.Toggle(ctx); err != nil {
				d.logger.Error("dictation", "error", err)
			}
		}
	}
}

func (d *Dictation) discard() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.recording {
		return
	}
	d.recording = false
	if _, err := d.recorder.Stop(); err != nil {
		d.logger.Warn("discarding open recording", "error", err)
	}
}

func (d *Dictation) notify(ctx context.Context, message string) {
	if err := d.notifier.Notify(ctx, message); err != nil {
		d.logger.Error("notifying", "error", err)
	}
}
