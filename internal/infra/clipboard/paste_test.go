package clipboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakeBoard struct {
	content string
	writes  []string
	presses int
	// contentAtPress is what the focused app would have pasted.
	contentAtPress string
	pressErr       error
}

func newTestPaster(board *fakeBoard, paste, restore bool) *Paster {
	p := NewPaster(time.Millisecond, paste, restore, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.read = func() (string, error) { return board.content, nil }
	p.write = func(s string) error {
		board.content = s
		board.writes = append(board.writes, s)
		return nil
	}
	p.press = func() error {
		board.presses++
		board.contentAtPress = board.content
		return board.pressErr
	}
	return p
}

func TestPaster_CopiesAndPastes(t *testing.T) {
	board := &fakeBoard{content: "previous"}
	p := newTestPaster(board, true, false)

	if err := p.Deliver(context.Background(), "x == y"); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	if board.presses != 1 {
		t.Errorf("presses: got %d, want 1", board.presses)
	}
	if board.contentAtPress != "x == y" {
		t.Errorf("pasted %q, want %q", board.contentAtPress, "x == y")
	}
	if board.content != "x == y" {
		t.Errorf("clipboard left as %q", board.content)
	}
}

func TestPaster_RestoresPreviousClipboard(t *testing.T) {
	board := &fakeBoard{content: "previous"}
	p := newTestPaster(board, true, true)

	if err := p.Deliver(context.Background(), "fooBar"); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	if board.contentAtPress != "fooBar" {
		t.Errorf("pasted %q, want fooBar", board.contentAtPress)
	}
	if board.content != "previous" {
		t.Errorf("clipboard: got %q, want previous contents restored", board.content)
	}
}

func TestPaster_CopyOnly(t *testing.T) {
	board := &fakeBoard{}
	p := newTestPaster(board, false, true)

	if err := p.Deliver(context.Background(), "foo_bar"); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	if board.presses != 0 {
		t.Errorf("copy-only mode pressed paste %d times", board.presses)
	}
	if board.content != "foo_bar" {
		t.Errorf("clipboard: got %q, want foo_bar", board.content)
	}
}

func TestPaster_KeystrokeError(t *testing.T) {
	board := &fakeBoard{pressErr: errors.New("uinput: permission denied")}
	p := newTestPaster(board, true, false)

	if err := p.Deliver(context.Background(), "text"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestPaster_CancelledBeforePaste(t *testing.T) {
	board := &fakeBoard{}
	p := newTestPaster(board, true, false)
	p.settle = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Deliver(ctx, "text"); !errors.Is(err, context.Canceled) {
		t.Errorf("Deliver: got %v, want context.Canceled", err)
	}
	if board.presses != 0 {
		t.Error("paste must not be sent after cancellation")
	}
}
