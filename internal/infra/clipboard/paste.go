// Package clipboard delivers text into the focused application by way of the
// system clipboard and a synthetic paste keystroke.
package clipboard

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	sysclip "github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
)

// restoreDelay gives the target application time to read the clipboard
// before the previous contents are put back.
const restoreDelay = 150 * time.Millisecond

type Paster struct {
	settle  time.Duration
	paste   bool
	restore bool
	logger  *slog.Logger

	read  func() (string, error)
	write func(string) error
	press func() error
}

// NewPaster copies text to the clipboard and, when paste is set, sends the
// platform paste chord after settle. With restore the previous clipboard
// text is put back afterwards.
func NewPaster(settle time.Duration, paste, restore bool, logger *slog.Logger) *Paster {
	return &Paster{
		settle:  settle,
		paste:   paste,
		restore: restore,
		logger:  logger,
		read:    sysclip.ReadAll,
		write:   sysclip.WriteAll,
		press:   newKeystroke().press,
	}
}

func (p *Paster) Deliver(ctx context.Context, text string) error {
	var previous string
	if p.restore {
		var err error
		if previous, err = p.read(); err != nil {
			p.logger.Debug("reading clipboard", "error", err)
		}
	}

	if err := p.write(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	if !p.paste {
		return nil
	}

	if err := sleep(ctx, p.settle); err != nil {
		return err
	}
	if err := p.press(); err != nil {
		return fmt.Errorf("sending paste keystroke: %w", err)
	}

	if p.restore {
		if err := sleep(ctx, restoreDelay); err != nil {
			return err
		}
		if err := p.write(previous); err != nil {
			p.logger.Warn("restoring clipboard", "error", err)
		}
	}
	return nil
}

// keystroke lazily creates the virtual keyboard; on Linux the uinput device
// needs a moment before the desktop accepts events from it.
type keystroke struct {
	once sync.Once
	kb   keybd_event.KeyBonding
	err  error
}

func newKeystroke() *keystroke {
	return &keystroke{}
}

func (k *keystroke) press() error {
	k.once.Do(func() {
		k.kb, k.err = keybd_event.NewKeyBonding()
		if k.err != nil {
			return
		}
		if runtime.GOOS == "linux" {
			time.Sleep(2 * time.Second)
		}
		k.kb.SetKeys(keybd_event.VK_V)
		if runtime.GOOS == "darwin" {
			k.kb.HasSuper(true)
		} else {
			k.kb.HasCTRL(true)
		}
	})
	if k.err != nil {
		return k.err
	}
	return k.kb.Launching()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
