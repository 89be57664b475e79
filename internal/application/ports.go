package application

import (
	"context"
	"errors"
)

// Recorder is a push-to-talk capture session. Stop returns an empty payload
// when the recording was too short to transcribe.
type Recorder interface {
	Start() error
	Stop() ([]byte, error)
}

type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Output delivers normalized text to wherever the developer is typing.
type Output interface {
	Deliver(ctx context.Context, text string) error
}

// Archiver keeps a copy of accepted recordings.
type Archiver interface {
	Save(audio []byte) (string, error)
}

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _ string) error {
	return nil
}

// MultiNotifier fans a message out to every notifier and joins their errors.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
