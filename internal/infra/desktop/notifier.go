// Package desktop shows dictation status as native desktop notifications.
package desktop

import (
	"context"
	"fmt"

	"github.com/gen2brain/beeep"
)

type Notifier struct {
	title  string
	notify func(title, message string) error
}

func NewNotifier(title string) *Notifier {
	if title == "" {
		title = "Voice Coding"
	}
	return &Notifier{
		title: title,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

func (n *Notifier) Notify(_ context.Context, message string) error {
	if err := n.notify(n.title, message); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}
