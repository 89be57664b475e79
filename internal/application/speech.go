package application

import (
	"context"
	"fmt"
)

// NoopSTT stands in when no transcription backend is configured, so that
// commands which only normalize text still start.
type NoopSTT struct{}

func (n *NoopSTT) Transcribe(_ context.Context, _ []byte) (string, error) {
	return "", fmt.Errorf("speech-to-text not configured: set openai.api_key or OPENAI_API_KEY to enable transcription")
}
