package application

import (
	"context"
	"fmt"
	"log/slog"

	"voice-coding/internal/domain"
	"voice-coding/internal/transcript"
)

// Transcriber turns an encoded recording into normalized text. It is shared
// by the dictation loop, the transcribe command and the HTTP API.
type Transcriber struct {
	stt       SpeechToText
	normalize func(string) string
	logger    *slog.Logger
}

// NewTranscriber uses transcript.Normalize when normalize is nil.
func NewTranscriber(stt SpeechToText, normalize func(string) string, logger *slog.Logger) *Transcriber {
	if normalize == nil {
		normalize = transcript.Normalize
	}
	return &Transcriber{stt: stt, normalize: normalize, logger: logger}
}

// Transcribe reports blank transcripts as skipped rather than as errors.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (domain.Dictation, error) {
	t.logger.Info("transcribing", "bytes", len(audio))

	raw, err := t.stt.Transcribe(ctx, audio)
	if err != nil {
		return domain.Dictation{}, fmt.Errorf("transcribing: %w", err)
	}

	if domain.IsBlankTranscript(raw) {
		t.logger.Info("no speech detected")
		return domain.Dictation{Raw: raw, Skipped: domain.SkipNoSpeech}, nil
	}

	text := t.normalize(raw)
	t.logger.Info("transcribed", "raw", raw, "text", text)
	return domain.Dictation{Raw: raw, Text: text}, nil
}
