package application

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Printer writes each delivered text as one line. It is the output when
// paste is disabled or no desktop session is available.
type Printer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Deliver(_ context.Context, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := fmt.Fprintln(p.w, text); err != nil {
		return fmt.Errorf("writing text: %w", err)
	}
	return nil
}
