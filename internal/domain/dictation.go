package domain

import "strings"

type SkipReason string

const (
	SkipNone     SkipReason = ""
	SkipTooShort SkipReason = "too_short"
	SkipNoSpeech SkipReason = "no_speech"
)

// BlankAudioToken is what whisper-style backends return for silence.
const BlankAudioToken = "[BLANK_AUDIO]"

// Dictation is the outcome of one push-to-talk gesture.
type Dictation struct {
	Raw     string
	Text    string
	Skipped SkipReason
}

func (d Dictation) Delivered() bool {
	return d.Skipped == SkipNone
}

func IsBlankTranscript(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	return strings.EqualFold(trimmed, BlankAudioToken)
}
